// Command catalogadmin performs the maintenance tasks that have no HTTP
// surface: managing genres and countries, adding and removing movies, and
// moving users between the simple and pro tiers.
//
//	catalogadmin genre add <name>
//	catalogadmin genre rm <id>
//	catalogadmin country add <name>
//	catalogadmin country rm <id>
//	catalogadmin movie add -name N -year YYYY-MM-DD -minutes M [-status pro] [-types 720p,1080p] [-genres 1,2] [-countries 3]
//	catalogadmin movie rm <id>
//	catalogadmin user promote <username>
//	catalogadmin user demote <username>
//	catalogadmin user revoke <id>
//	catalogadmin token purge
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

const usage = `usage: catalogadmin <genre|country|movie|user> <command> [args]

  genre add <name> | genre rm <id>
  country add <name> | country rm <id>
  movie add -name N -year YYYY-MM-DD -minutes M [flags] | movie rm <id>
  user promote <username> | user demote <username> | user revoke <id>
  token purge
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := cfg.NewLogger()

	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &admin{
		out:       os.Stdout,
		genres:    repository.NewGenreRepo(db),
		countries: repository.NewCountryRepo(db),
		movies:    repository.NewMovieRepo(db),
		users:     repository.NewUserRepo(db),
		tokens:    repository.NewTokenRepo(db),
		now:       time.Now,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		log.WithError(err).WithField("args", os.Args[1:]).Error("command failed")
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

var errUsage = errors.New("usage")

type genreStore interface {
	Create(ctx context.Context, name string) (model.Genre, error)
	Delete(ctx context.Context, id uint64) error
}

type countryStore interface {
	Create(ctx context.Context, name string) (model.Country, error)
	Delete(ctx context.Context, id uint64) error
}

type movieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, id uint64) error
}

type userStore interface {
	SetStatus(ctx context.Context, username string, status model.Status) error
}

type tokenStore interface {
	RevokeAllForUser(ctx context.Context, userID uint64) error
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// admin dispatches one command line to the entity store.
type admin struct {
	out       io.Writer
	genres    genreStore
	countries countryStore
	movies    movieStore
	users     userStore
	tokens    tokenStore
	now       func() time.Time
}

func (a *admin) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	group, cmd, rest := args[0], args[1], args[2:]
	switch group + " " + cmd {
	case "genre add":
		name, err := oneArg(rest)
		if err != nil {
			return err
		}
		g, err := a.genres.Create(ctx, name)
		if err != nil {
			return describe(err, "genre %q", name)
		}
		fmt.Fprintf(a.out, "genre %d %s\n", g.ID, g.Name)
	case "genre rm":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := a.genres.Delete(ctx, id); err != nil {
			return describe(err, "genre %d", id)
		}
		fmt.Fprintf(a.out, "genre %d removed\n", id)
	case "country add":
		name, err := oneArg(rest)
		if err != nil {
			return err
		}
		c, err := a.countries.Create(ctx, name)
		if err != nil {
			return describe(err, "country %q", name)
		}
		fmt.Fprintf(a.out, "country %d %s\n", c.ID, c.Name)
	case "country rm":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := a.countries.Delete(ctx, id); err != nil {
			return describe(err, "country %d", id)
		}
		fmt.Fprintf(a.out, "country %d removed\n", id)
	case "movie add":
		m, err := parseMovie(rest)
		if err != nil {
			return err
		}
		if err := a.movies.Create(ctx, m); err != nil {
			return describe(err, "movie %q", m.Name)
		}
		fmt.Fprintf(a.out, "movie %d %s\n", m.ID, m.Name)
	case "movie rm":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := a.movies.Delete(ctx, id); err != nil {
			return describe(err, "movie %d", id)
		}
		fmt.Fprintf(a.out, "movie %d removed\n", id)
	case "user promote", "user demote":
		name, err := oneArg(rest)
		if err != nil {
			return err
		}
		status := model.StatusPro
		if cmd == "demote" {
			status = model.StatusSimple
		}
		if err := a.users.SetStatus(ctx, name, status); err != nil {
			return describe(err, "user %q", name)
		}
		fmt.Fprintf(a.out, "user %s is now %s\n", name, status)
	case "user revoke":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := a.tokens.RevokeAllForUser(ctx, id); err != nil {
			return describe(err, "user %d", id)
		}
		fmt.Fprintf(a.out, "refresh tokens of user %d revoked\n", id)
	case "token purge":
		if len(rest) != 0 {
			return errUsage
		}
		n, err := a.tokens.PurgeExpired(ctx, a.now().UTC())
		if err != nil {
			return fmt.Errorf("purge tokens: %w", err)
		}
		fmt.Fprintf(a.out, "%d refresh tokens purged\n", n)
	default:
		return errUsage
	}
	return nil
}

// describe names the target of a failed command.
func describe(err error, format string, args ...any) error {
	target := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: does not exist", target)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: already exists or is still referenced: %w", target, err)
	}
	return fmt.Errorf("%s: %w", target, err)
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", errUsage
	}
	return strings.TrimSpace(args[0]), nil
}

func idArg(args []string) (uint64, error) {
	raw, err := oneArg(args)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseMovie reads the flags of `movie add`.
func parseMovie(args []string) (*model.Movie, error) {
	fs := flag.NewFlagSet("movie add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "title")
	year := fs.String("year", "", "release date, YYYY-MM-DD")
	minutes := fs.Uint("minutes", 0, "running time")
	desc := fs.String("description", "", "synopsis")
	status := fs.String("status", string(model.StatusSimple), "simple or pro")
	types := fs.String("types", "", "comma separated resolutions")
	genres := fs.String("genres", "", "comma separated genre ids")
	countries := fs.String("countries", "", "comma separated country ids")
	actors := fs.String("actors", "", "comma separated actor ids")
	directors := fs.String("directors", "", "comma separated director ids")
	trailer := fs.String("trailer", "", "trailer reference")
	image := fs.String("image", "", "poster reference")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}

	if strings.TrimSpace(*name) == "" || *minutes == 0 || *minutes > 65535 {
		return nil, errUsage
	}
	released, err := time.Parse(time.DateOnly, *year)
	if err != nil {
		return nil, fmt.Errorf("invalid -year %q: want YYYY-MM-DD", *year)
	}
	st := model.Status(*status)
	if !st.Valid() {
		return nil, fmt.Errorf("invalid -status %q", *status)
	}
	res := model.ParseResolutions(*types)
	if err := model.ValidateResolutions(res); err != nil {
		return nil, fmt.Errorf("invalid -types: %w", err)
	}

	m := &model.Movie{
		Name:        strings.TrimSpace(*name),
		Year:        released,
		Duration:    uint16(*minutes),
		Description: *desc,
		Status:      st,
		Types:       res,
		Trailer:     optional(*trailer),
		Image:       optional(*image),
	}
	if m.Genres, err = idList(*genres, func(id uint64) model.Genre { return model.Genre{ID: id} }); err != nil {
		return nil, fmt.Errorf("invalid -genres: %w", err)
	}
	if m.Countries, err = idList(*countries, func(id uint64) model.Country { return model.Country{ID: id} }); err != nil {
		return nil, fmt.Errorf("invalid -countries: %w", err)
	}
	if m.Actors, err = idList(*actors, func(id uint64) model.Actor { return model.Actor{ID: id} }); err != nil {
		return nil, fmt.Errorf("invalid -actors: %w", err)
	}
	if m.Directors, err = idList(*directors, func(id uint64) model.Director { return model.Director{ID: id} }); err != nil {
		return nil, fmt.Errorf("invalid -directors: %w", err)
	}
	return m, nil
}

func idList[T any](raw string, mk func(uint64) T) ([]T, error) {
	var out []T
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("bad id %q", p)
		}
		out = append(out, mk(id))
	}
	return out, nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

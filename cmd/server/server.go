package main

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-catalog/internal/aggregate"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// newServer wires repositories, services and handlers into an echo
// instance.  rdb may be nil, in which case caching and rate limiting are
// off.
func newServer(cfg config.Config, log *logrus.Logger, db *sql.DB, rdb *redis.Client, events service.Events) *echo.Echo {
	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	ratings := repository.NewRatingRepo(db)
	averages := aggregate.NewCalculator(ratings)

	auth := service.NewAuthService(users, repository.NewTokenRepo(db), service.AuthConfig{
		Secret:         cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	})
	catalog := service.NewCatalogService(service.CatalogDeps{
		Movies:    movies,
		Countries: repository.NewCountryRepo(db),
		Genres:    repository.NewGenreRepo(db),
		Actors:    repository.NewActorRepo(db),
		Directors: repository.NewDirectorRepo(db),
		Averages:  averages,
	}, cfg.ActorPageSize, cfg.MaxPageSize)
	media := service.NewMediaService(repository.NewLanguageRepo(db), repository.NewMomentRepo(db), movies)
	rating := service.NewRatingService(ratings, events)
	library := service.NewLibraryService(
		repository.NewFavoriteRepo(db),
		repository.NewFavoriteMovieRepo(db),
		repository.NewHistoryRepo(db),
		averages,
		events,
	)
	profiles := service.NewProfileService(users)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(metrics.Middleware())

	timeout := cfg.RequestTimeout
	router.Register(e, router.Handlers{
		Health:  handler.Health(db),
		Auth:    handler.NewAuthHandler(auth, timeout),
		Catalog: handler.NewCatalogHandler(catalog, auth, timeout),
		Profile: handler.NewProfileHandler(profiles, auth, timeout),
		Media:   handler.NewMediaHandler(media, auth, timeout),
		Rating:  handler.NewRatingHandler(rating, auth, timeout),
		Library: handler.NewLibraryHandler(library, auth, timeout),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Identity:  auth,
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
	})
	return e
}

// Package service composes the entity store, access policy and projection
// layers into the use cases behind each endpoint.  Every exported method
// returns either a projection or an *apperr.Error.
package service

import (
	"errors"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// storeErr converts a repository error into an apperr kind.  notFound is the
// message used for ErrNotFound.  Errors that are already classified pass
// through; anything unrecognised is an infrastructure failure.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrDuplicateRating):
		return apperr.Forbidden("you have already rated this movie")
	case errors.Is(err, repository.ErrForbidden):
		return apperr.Forbidden("you do not own this resource")
	case errors.Is(err, repository.ErrConflict):
		return apperr.Conflict("the change conflicts with existing data")
	}
	return apperr.Unavailable(err)
}

// invalidMovie is returned when a write names a movie that does not exist.
func invalidMovie() error {
	return apperr.Validation("invalid movie", map[string]string{"movie": "invalid pk - object does not exist"})
}

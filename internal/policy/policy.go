// Package policy holds the authorization rules evaluated before a detail
// read or a mutation.  Rules are plain functions composed into an ordered
// Pipeline; evaluation stops at the first failing rule.
package policy

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// Request describes who is acting.  Requester is nil for anonymous calls.
type Request struct {
	Requester *model.User
}

// Check is a single rule.  It returns nil when the request passes.
type Check func(ctx context.Context, r Request) error

// Pipeline is an ordered list of checks.
type Pipeline []Check

// Evaluate runs the checks in order and returns the first failure.
func (p Pipeline) Evaluate(ctx context.Context, r Request) error {
	for _, check := range p {
		if err := check(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Authenticated rejects anonymous requests.
func Authenticated(_ context.Context, r Request) error {
	if r.Requester == nil || r.Requester.ID == 0 {
		return apperr.Unauthenticated("authentication credentials were not provided")
	}
	return nil
}

// Active rejects requesters whose account was deactivated after the token
// was issued.
func Active(_ context.Context, r Request) error {
	if r.Requester != nil && !r.Requester.IsActive {
		return apperr.Unauthenticated("user is inactive")
	}
	return nil
}

// MovieTier allows pro movies only to pro requesters.  Simple movies are
// visible to everyone who passed Authenticated.
func MovieTier(status model.Status) Check {
	return func(_ context.Context, r Request) error {
		if status != model.StatusPro {
			return nil
		}
		if r.Requester == nil || !r.Requester.IsPro() {
			return apperr.Forbidden("this movie is available to pro users only")
		}
		return nil
	}
}

// Owner allows the request only when the requester is ownerID.
func Owner(ownerID uint64) Check {
	return func(_ context.Context, r Request) error {
		if r.Requester == nil || r.Requester.ID != ownerID {
			return apperr.Forbidden("you do not own this resource")
		}
		return nil
	}
}

// MovieDetail is the rule set for reading a movie's detail view.
func MovieDetail(status model.Status) Pipeline {
	return Pipeline{Authenticated, Active, MovieTier(status)}
}

// Mutation is the rule set for changing a resource owned by ownerID.
func Mutation(ownerID uint64) Pipeline {
	return Pipeline{Authenticated, Active, Owner(ownerID)}
}

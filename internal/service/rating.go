package service

import (
	"context"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

type RatingStore interface {
	List(ctx context.Context) ([]model.Rating, error)
	GetByID(ctx context.Context, id uint64) (model.Rating, error)
	Create(ctx context.Context, rt *model.Rating) error
	Update(ctx context.Context, id uint64, stars *int, text *string) error
	Delete(ctx context.Context, id uint64) error
}

// RatingInput is a create or update of a rating.  Nil fields are absent.
type RatingInput struct {
	Movie  *uint64
	Stars  *int
	Parent *uint64
	Text   *string
}

// Star bounds of a rating.
const (
	MinStars = 1
	MaxStars = 10
)

// RatingService manages ratings and replies.  Anyone signed in may rate;
// only the author may edit or delete a rating.
type RatingService struct {
	ratings RatingStore
	events  Events
}

func NewRatingService(ratings RatingStore, events Events) *RatingService {
	return &RatingService{ratings: ratings, events: events}
}

func (s *RatingService) List(ctx context.Context, req *model.User) ([]projection.RatingItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return nil, err
	}
	rs, err := s.ratings.List(ctx)
	if err != nil {
		return nil, storeErr(err, "rating not found")
	}
	return projection.Ratings(rs), nil
}

func (s *RatingService) Get(ctx context.Context, req *model.User, id uint64) (projection.RatingItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.RatingItem{}, err
	}
	rt, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return projection.RatingItem{}, storeErr(err, "rating not found")
	}
	return projection.Rating(rt), nil
}

// Create adds a top-level rating or, with Parent set, a reply.  A second
// top-level rating of the same movie by the same user is forbidden.
func (s *RatingService) Create(ctx context.Context, req *model.User, in RatingInput) (projection.RatingItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.RatingItem{}, err
	}
	if err := required(map[string]bool{"movie": in.Movie != nil}); err != nil {
		return projection.RatingItem{}, err
	}
	if err := checkStars(in.Stars); err != nil {
		return projection.RatingItem{}, err
	}
	rt := model.Rating{UserID: req.ID, MovieID: *in.Movie, Stars: in.Stars, ParentID: in.Parent, Text: in.Text}
	err := s.ratings.Create(ctx, &rt)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return projection.RatingItem{}, invalidMovie()
	case errors.Is(err, repository.ErrInvalidParent):
		return projection.RatingItem{}, apperr.Validation("invalid parent",
			map[string]string{"parent": "parent must be a rating of the same movie"})
	case errors.Is(err, repository.ErrThreadTooDeep):
		return projection.RatingItem{}, apperr.Validation("invalid parent",
			map[string]string{"parent": "replies cannot be nested this deep"})
	case err != nil:
		return projection.RatingItem{}, storeErr(err, "rating not found")
	}
	rt.Author = *req

	ev := queue.NewActivityEvent(queue.RatingCreated, req.ID, rt.MovieID)
	ev.RatingID = rt.ID
	s.events.Publish(ev)
	return projection.Rating(rt), nil
}

// Update changes the stars and text of the requester's own rating.  A full
// update clears fields it omits; a partial one keeps them.
func (s *RatingService) Update(ctx context.Context, req *model.User, id uint64, in RatingInput, partial bool) (projection.RatingItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.RatingItem{}, err
	}
	rt, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return projection.RatingItem{}, storeErr(err, "rating not found")
	}
	if err := policy.Mutation(rt.UserID).Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return projection.RatingItem{}, err
	}
	if in.Movie != nil && *in.Movie != rt.MovieID {
		return projection.RatingItem{}, apperr.Validation("invalid movie", map[string]string{"movie": "a rating cannot move to another movie"})
	}
	if in.Parent != nil && !sameParent(in.Parent, rt.ParentID) {
		return projection.RatingItem{}, apperr.Validation("invalid parent", map[string]string{"parent": "a rating cannot change its parent"})
	}
	if err := checkStars(in.Stars); err != nil {
		return projection.RatingItem{}, err
	}
	if partial {
		if in.Stars != nil {
			rt.Stars = in.Stars
		}
		if in.Text != nil {
			rt.Text = in.Text
		}
	} else {
		rt.Stars, rt.Text = in.Stars, in.Text
	}
	if err := s.ratings.Update(ctx, id, rt.Stars, rt.Text); err != nil {
		return projection.RatingItem{}, storeErr(err, "rating not found")
	}
	return projection.Rating(rt), nil
}

// Delete removes the requester's own rating with its replies.
func (s *RatingService) Delete(ctx context.Context, req *model.User, id uint64) error {
	if err := requireUser(ctx, req); err != nil {
		return err
	}
	rt, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "rating not found")
	}
	if err := policy.Mutation(rt.UserID).Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return err
	}
	if err := s.ratings.Delete(ctx, id); err != nil {
		return storeErr(err, "rating not found")
	}
	ev := queue.NewActivityEvent(queue.RatingDeleted, req.ID, rt.MovieID)
	ev.RatingID = id
	s.events.Publish(ev)
	return nil
}

func checkStars(stars *int) error {
	if stars != nil && (*stars < MinStars || *stars > MaxStars) {
		return apperr.Validation("invalid stars", map[string]string{"stars": "ensure this value is between 1 and 10"})
	}
	return nil
}

func sameParent(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

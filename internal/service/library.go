package service

import (
	"context"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// Owner-scoped stores: every method takes the requester's id and never
// sees rows of other users.

type FavoriteStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Favorite, error)
	GetForUser(ctx context.Context, id, userID uint64) (model.Favorite, error)
	Create(ctx context.Context, userID uint64) (model.Favorite, error)
	DeleteForUser(ctx context.Context, id, userID uint64) error
}

type FavoriteMovieStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.FavoriteMovie, error)
	GetForUser(ctx context.Context, id, userID uint64) (model.FavoriteMovie, error)
	Add(ctx context.Context, userID, movieID uint64) (model.FavoriteMovie, error)
	DeleteForUser(ctx context.Context, id, userID uint64) error
}

type HistoryStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.History, error)
	GetForUser(ctx context.Context, id, userID uint64) (model.History, error)
	Create(ctx context.Context, userID, movieID uint64) (uint64, error)
	DeleteForUser(ctx context.Context, id, userID uint64) error
}

// LibraryService manages the requester's favorites and viewing history.
// Ids belonging to other users resolve to NotFound.
type LibraryService struct {
	favorites      FavoriteStore
	favoriteMovies FavoriteMovieStore
	history        HistoryStore
	averages       Averager
	events         Events
}

func NewLibraryService(f FavoriteStore, fm FavoriteMovieStore, h HistoryStore, avg Averager, events Events) *LibraryService {
	return &LibraryService{favorites: f, favoriteMovies: fm, history: h, averages: avg, events: events}
}

func (s *LibraryService) Favorites(ctx context.Context, req *model.User) ([]projection.FavoriteItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return nil, err
	}
	fs, err := s.favorites.ListByUser(ctx, req.ID)
	if err != nil {
		return nil, storeErr(err, "favorite not found")
	}
	return projection.Favorites(fs), nil
}

func (s *LibraryService) Favorite(ctx context.Context, req *model.User, id uint64) (projection.FavoriteItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.FavoriteItem{}, err
	}
	f, err := s.favorites.GetForUser(ctx, id, req.ID)
	if err != nil {
		return projection.FavoriteItem{}, storeErr(err, "favorite not found")
	}
	return projection.Favorite(f), nil
}

// CreateFavorite opens the requester's favorites list.  A user has at
// most one.
func (s *LibraryService) CreateFavorite(ctx context.Context, req *model.User) (projection.FavoriteItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.FavoriteItem{}, err
	}
	f, err := s.favorites.Create(ctx, req.ID)
	if errors.Is(err, repository.ErrConflict) {
		return projection.FavoriteItem{}, apperr.Conflict("favorites list already exists")
	}
	if err != nil {
		return projection.FavoriteItem{}, storeErr(err, "favorite not found")
	}
	return projection.Favorite(f), nil
}

func (s *LibraryService) DeleteFavorite(ctx context.Context, req *model.User, id uint64) error {
	if err := requireUser(ctx, req); err != nil {
		return err
	}
	return storeErr(s.favorites.DeleteForUser(ctx, id, req.ID), "favorite not found")
}

func (s *LibraryService) FavoriteMovies(ctx context.Context, req *model.User) ([]projection.FavoriteMovieItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return nil, err
	}
	fms, err := s.favoriteMovies.ListByUser(ctx, req.ID)
	if err != nil {
		return nil, storeErr(err, "favorite movie not found")
	}
	return projection.FavoriteMovies(fms), nil
}

func (s *LibraryService) FavoriteMovie(ctx context.Context, req *model.User, id uint64) (projection.FavoriteMovieItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.FavoriteMovieItem{}, err
	}
	fm, err := s.favoriteMovies.GetForUser(ctx, id, req.ID)
	if err != nil {
		return projection.FavoriteMovieItem{}, storeErr(err, "favorite movie not found")
	}
	return projection.FavoriteMovie(fm), nil
}

// AddFavoriteMovie puts a movie on the requester's own list.  The list is
// always the requester's; a client-supplied list id is never trusted.
func (s *LibraryService) AddFavoriteMovie(ctx context.Context, req *model.User, movieID *uint64) (projection.FavoriteMovieItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.FavoriteMovieItem{}, err
	}
	if err := required(map[string]bool{"movie": movieID != nil}); err != nil {
		return projection.FavoriteMovieItem{}, err
	}
	fm, err := s.favoriteMovies.Add(ctx, req.ID, *movieID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return projection.FavoriteMovieItem{}, invalidMovie()
	case errors.Is(err, repository.ErrConflict):
		return projection.FavoriteMovieItem{}, apperr.Conflict("movie is already in favorites")
	case err != nil:
		return projection.FavoriteMovieItem{}, storeErr(err, "favorite movie not found")
	}
	s.events.Publish(queue.NewActivityEvent(queue.FavoriteAdded, req.ID, *movieID))
	return projection.FavoriteMovie(fm), nil
}

func (s *LibraryService) RemoveFavoriteMovie(ctx context.Context, req *model.User, id uint64) error {
	if err := requireUser(ctx, req); err != nil {
		return err
	}
	return storeErr(s.favoriteMovies.DeleteForUser(ctx, id, req.ID), "favorite movie not found")
}

// History returns the requester's views, newest first.
func (s *LibraryService) History(ctx context.Context, req *model.User) ([]projection.HistoryItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return nil, err
	}
	hs, err := s.history.ListByUser(ctx, req.ID)
	if err != nil {
		return nil, storeErr(err, "history not found")
	}
	ids := make([]uint64, 0, len(hs))
	for _, h := range hs {
		ids = append(ids, h.MovieID)
	}
	avgs, err := s.averages.AverageRatings(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "history not found")
	}
	return projection.Histories(hs, avgs), nil
}

func (s *LibraryService) HistoryEntry(ctx context.Context, req *model.User, id uint64) (projection.HistoryItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.HistoryItem{}, err
	}
	return s.historyItem(ctx, req.ID, id)
}

// RecordView adds a history entry for the requester.  Re-viewing a movie
// adds another entry.
func (s *LibraryService) RecordView(ctx context.Context, req *model.User, movieID *uint64) (projection.HistoryItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.HistoryItem{}, err
	}
	if err := required(map[string]bool{"movie": movieID != nil}); err != nil {
		return projection.HistoryItem{}, err
	}
	id, err := s.history.Create(ctx, req.ID, *movieID)
	if err != nil {
		return projection.HistoryItem{}, movieRefErr(err, "history not found")
	}
	s.events.Publish(queue.NewActivityEvent(queue.MovieViewed, req.ID, *movieID))
	return s.historyItem(ctx, req.ID, id)
}

func (s *LibraryService) DeleteHistory(ctx context.Context, req *model.User, id uint64) error {
	if err := requireUser(ctx, req); err != nil {
		return err
	}
	return storeErr(s.history.DeleteForUser(ctx, id, req.ID), "history not found")
}

func (s *LibraryService) historyItem(ctx context.Context, userID, id uint64) (projection.HistoryItem, error) {
	h, err := s.history.GetForUser(ctx, id, userID)
	if err != nil {
		return projection.HistoryItem{}, storeErr(err, "history not found")
	}
	avg, err := s.averages.AverageRating(ctx, h.MovieID)
	if err != nil {
		return projection.HistoryItem{}, storeErr(err, "history not found")
	}
	return projection.History(h, avg), nil
}

package service

import (
	"context"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

type LanguageStore interface {
	List(ctx context.Context) ([]model.LanguageTrack, error)
	GetByID(ctx context.Context, id uint64) (model.LanguageTrack, error)
	Create(ctx context.Context, l *model.LanguageTrack) error
	Update(ctx context.Context, l model.LanguageTrack) error
	Delete(ctx context.Context, id uint64) error
}

type MomentStore interface {
	List(ctx context.Context) ([]model.Moment, error)
	GetByID(ctx context.Context, id uint64) (model.Moment, error)
	Create(ctx context.Context, m *model.Moment) error
	Update(ctx context.Context, m model.Moment) error
	Delete(ctx context.Context, id uint64) error
}

// MovieLookup checks that a movie referenced by a write exists.
type MovieLookup interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// LanguageInput is a create or update of a language track.  Nil fields
// are absent from the request.
type LanguageInput struct {
	Movie    *uint64
	Language *string
	Video    *string
}

// MomentInput is a create or update of a moment.
type MomentInput struct {
	Movie *uint64
	Image *string
}

// MediaService manages language tracks and moments.  Any signed-in user
// may maintain them.
type MediaService struct {
	languages LanguageStore
	moments   MomentStore
	movies    MovieLookup
}

func NewMediaService(languages LanguageStore, moments MomentStore, movies MovieLookup) *MediaService {
	return &MediaService{languages: languages, moments: moments, movies: movies}
}

func (s *MediaService) Languages(ctx context.Context, req *model.User) ([]projection.LanguageItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return nil, err
	}
	ls, err := s.languages.List(ctx)
	if err != nil {
		return nil, storeErr(err, "language not found")
	}
	return projection.Languages(ls), nil
}

func (s *MediaService) Language(ctx context.Context, req *model.User, id uint64) (projection.LanguageItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.LanguageItem{}, err
	}
	l, err := s.languages.GetByID(ctx, id)
	if err != nil {
		return projection.LanguageItem{}, storeErr(err, "language not found")
	}
	return projection.Language(l), nil
}

func (s *MediaService) CreateLanguage(ctx context.Context, req *model.User, in LanguageInput) (projection.LanguageItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.LanguageItem{}, err
	}
	if err := required(map[string]bool{"movie": in.Movie != nil, "language": in.Language != nil, "video": in.Video != nil}); err != nil {
		return projection.LanguageItem{}, err
	}
	l := model.LanguageTrack{MovieID: *in.Movie, Language: *in.Language, Video: *in.Video}
	if err := s.checkMovie(ctx, l.MovieID); err != nil {
		return projection.LanguageItem{}, err
	}
	if err := s.languages.Create(ctx, &l); err != nil {
		return projection.LanguageItem{}, movieRefErr(err, "language not found")
	}
	return projection.Language(l), nil
}

// UpdateLanguage applies a full (PUT) or partial (PATCH) update.
func (s *MediaService) UpdateLanguage(ctx context.Context, req *model.User, id uint64, in LanguageInput, partial bool) (projection.LanguageItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.LanguageItem{}, err
	}
	if !partial {
		if err := required(map[string]bool{"movie": in.Movie != nil, "language": in.Language != nil, "video": in.Video != nil}); err != nil {
			return projection.LanguageItem{}, err
		}
	}
	l, err := s.languages.GetByID(ctx, id)
	if err != nil {
		return projection.LanguageItem{}, storeErr(err, "language not found")
	}
	if in.Movie != nil && *in.Movie != l.MovieID {
		if err := s.checkMovie(ctx, *in.Movie); err != nil {
			return projection.LanguageItem{}, err
		}
		l.MovieID = *in.Movie
	}
	if in.Language != nil {
		l.Language = *in.Language
	}
	if in.Video != nil {
		l.Video = *in.Video
	}
	if err := s.languages.Update(ctx, l); err != nil {
		return projection.LanguageItem{}, movieRefErr(err, "language not found")
	}
	return projection.Language(l), nil
}

func (s *MediaService) DeleteLanguage(ctx context.Context, req *model.User, id uint64) error {
	if err := requireUser(ctx, req); err != nil {
		return err
	}
	return storeErr(s.languages.Delete(ctx, id), "language not found")
}

func (s *MediaService) Moments(ctx context.Context, req *model.User) ([]projection.MomentItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return nil, err
	}
	ms, err := s.moments.List(ctx)
	if err != nil {
		return nil, storeErr(err, "moment not found")
	}
	return projection.Moments(ms), nil
}

func (s *MediaService) Moment(ctx context.Context, req *model.User, id uint64) (projection.MomentItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.MomentItem{}, err
	}
	m, err := s.moments.GetByID(ctx, id)
	if err != nil {
		return projection.MomentItem{}, storeErr(err, "moment not found")
	}
	return projection.Moment(m), nil
}

func (s *MediaService) CreateMoment(ctx context.Context, req *model.User, in MomentInput) (projection.MomentItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.MomentItem{}, err
	}
	if err := required(map[string]bool{"movie": in.Movie != nil, "movie_moments": in.Image != nil}); err != nil {
		return projection.MomentItem{}, err
	}
	m := model.Moment{MovieID: *in.Movie, Image: *in.Image}
	if err := s.checkMovie(ctx, m.MovieID); err != nil {
		return projection.MomentItem{}, err
	}
	if err := s.moments.Create(ctx, &m); err != nil {
		return projection.MomentItem{}, movieRefErr(err, "moment not found")
	}
	return projection.Moment(m), nil
}

func (s *MediaService) UpdateMoment(ctx context.Context, req *model.User, id uint64, in MomentInput, partial bool) (projection.MomentItem, error) {
	if err := requireUser(ctx, req); err != nil {
		return projection.MomentItem{}, err
	}
	if !partial {
		if err := required(map[string]bool{"movie": in.Movie != nil, "movie_moments": in.Image != nil}); err != nil {
			return projection.MomentItem{}, err
		}
	}
	m, err := s.moments.GetByID(ctx, id)
	if err != nil {
		return projection.MomentItem{}, storeErr(err, "moment not found")
	}
	if in.Movie != nil && *in.Movie != m.MovieID {
		if err := s.checkMovie(ctx, *in.Movie); err != nil {
			return projection.MomentItem{}, err
		}
		m.MovieID = *in.Movie
	}
	if in.Image != nil {
		m.Image = *in.Image
	}
	if err := s.moments.Update(ctx, m); err != nil {
		return projection.MomentItem{}, movieRefErr(err, "moment not found")
	}
	return projection.Moment(m), nil
}

func (s *MediaService) DeleteMoment(ctx context.Context, req *model.User, id uint64) error {
	if err := requireUser(ctx, req); err != nil {
		return err
	}
	return storeErr(s.moments.Delete(ctx, id), "moment not found")
}

func (s *MediaService) checkMovie(ctx context.Context, id uint64) error {
	ok, err := s.movies.Exists(ctx, id)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if !ok {
		return invalidMovie()
	}
	return nil
}

// movieRefErr treats a foreign key failure as a vanished movie; the movie
// can be deleted between checkMovie and the write.
func movieRefErr(err error, notFound string) error {
	if errors.Is(err, repository.ErrConflict) {
		return invalidMovie()
	}
	return storeErr(err, notFound)
}

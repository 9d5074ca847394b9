package service

import (
	"context"
	"net/url"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/query"
)

// MovieStore reads movies in list and detail shape.
type MovieStore interface {
	List(ctx context.Context, f query.MovieFilter) ([]model.Movie, error)
	ListByCountry(ctx context.Context, id uint64) ([]model.Movie, error)
	ListByGenre(ctx context.Context, id uint64) ([]model.Movie, error)
	ListByActor(ctx context.Context, id uint64) ([]model.Movie, error)
	ListByDirector(ctx context.Context, id uint64) ([]model.Movie, error)
	GetDetail(ctx context.Context, id uint64) (model.Movie, error)
	Status(ctx context.Context, id uint64) (model.Status, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}

type CountryStore interface {
	List(ctx context.Context) ([]model.Country, error)
	GetByID(ctx context.Context, id uint64) (model.Country, error)
}

type GenreStore interface {
	List(ctx context.Context) ([]model.Genre, error)
	GetByID(ctx context.Context, id uint64) (model.Genre, error)
}

type ActorStore interface {
	List(ctx context.Context) ([]model.Actor, error)
	Page(ctx context.Context, limit, offset int) ([]model.Actor, int, error)
	GetByID(ctx context.Context, id uint64) (model.Actor, error)
}

type DirectorStore interface {
	List(ctx context.Context) ([]model.Director, error)
	GetByID(ctx context.Context, id uint64) (model.Director, error)
}

// Averager computes average ratings on demand.
type Averager interface {
	AverageRating(ctx context.Context, movieID uint64) (float64, error)
	AverageRatings(ctx context.Context, movieIDs []uint64) (map[uint64]float64, error)
}

// CatalogDeps groups the stores behind CatalogService.
type CatalogDeps struct {
	Movies    MovieStore
	Countries CountryStore
	Genres    GenreStore
	Actors    ActorStore
	Directors DirectorStore
	Averages  Averager
}

// CatalogService serves the read side of the catalog: movies, countries,
// genres, actors and directors.
type CatalogService struct {
	deps          CatalogDeps
	actorPageSize int
	maxPageSize   int
}

func NewCatalogService(deps CatalogDeps, actorPageSize, maxPageSize int) *CatalogService {
	return &CatalogService{deps: deps, actorPageSize: actorPageSize, maxPageSize: maxPageSize}
}

// signedIn is the rule set of every catalog read.
var signedIn = policy.Pipeline{policy.Authenticated, policy.Active}

// ListMovies returns the movies matching the country, genre and search
// parameters.  Pro movies are listed for everyone; only their detail is
// gated.
func (s *CatalogService) ListMovies(ctx context.Context, req *model.User, params url.Values) ([]projection.MovieListItem, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return nil, err
	}
	f, err := query.ParseMovieFilter(params)
	if err != nil {
		return nil, err
	}
	ms, err := s.deps.Movies.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "movie not found")
	}
	return s.movieList(ctx, ms)
}

// MovieDetail returns the full movie graph.  Authentication is checked
// before existence, and existence before the tier, so anonymous callers
// learn nothing and simple users get 404 for missing and 403 for pro
// movies.
func (s *CatalogService) MovieDetail(ctx context.Context, req *model.User, id uint64) (projection.MovieDetail, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return projection.MovieDetail{}, err
	}
	status, err := s.deps.Movies.Status(ctx, id)
	if err != nil {
		return projection.MovieDetail{}, storeErr(err, "movie not found")
	}
	if err := policy.MovieDetail(status).Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return projection.MovieDetail{}, err
	}
	m, err := s.deps.Movies.GetDetail(ctx, id)
	if err != nil {
		return projection.MovieDetail{}, storeErr(err, "movie not found")
	}
	avg, err := s.deps.Averages.AverageRating(ctx, id)
	if err != nil {
		return projection.MovieDetail{}, storeErr(err, "movie not found")
	}
	return projection.MovieDetailOf(m, avg), nil
}

func (s *CatalogService) Countries(ctx context.Context, req *model.User) ([]projection.CountryItem, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return nil, err
	}
	cs, err := s.deps.Countries.List(ctx)
	if err != nil {
		return nil, storeErr(err, "country not found")
	}
	return projection.Countries(cs), nil
}

func (s *CatalogService) Country(ctx context.Context, req *model.User, id uint64) (projection.CountryDetail, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return projection.CountryDetail{}, err
	}
	c, err := s.deps.Countries.GetByID(ctx, id)
	if err != nil {
		return projection.CountryDetail{}, storeErr(err, "country not found")
	}
	movies, err := s.moviesOf(ctx, s.deps.Movies.ListByCountry, id)
	if err != nil {
		return projection.CountryDetail{}, err
	}
	return projection.CountryDetailOf(c, movies), nil
}

func (s *CatalogService) Genres(ctx context.Context, req *model.User) ([]projection.GenreItem, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return nil, err
	}
	gs, err := s.deps.Genres.List(ctx)
	if err != nil {
		return nil, storeErr(err, "genre not found")
	}
	return projection.Genres(gs), nil
}

func (s *CatalogService) Genre(ctx context.Context, req *model.User, id uint64) (projection.GenreDetail, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return projection.GenreDetail{}, err
	}
	g, err := s.deps.Genres.GetByID(ctx, id)
	if err != nil {
		return projection.GenreDetail{}, storeErr(err, "genre not found")
	}
	movies, err := s.moviesOf(ctx, s.deps.Movies.ListByGenre, id)
	if err != nil {
		return projection.GenreDetail{}, err
	}
	return projection.GenreDetailOf(g, movies), nil
}

func (s *CatalogService) Directors(ctx context.Context, req *model.User) ([]projection.DirectorItem, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return nil, err
	}
	ds, err := s.deps.Directors.List(ctx)
	if err != nil {
		return nil, storeErr(err, "director not found")
	}
	return projection.Directors(ds), nil
}

func (s *CatalogService) Director(ctx context.Context, req *model.User, id uint64) (projection.DirectorDetail, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return projection.DirectorDetail{}, err
	}
	d, err := s.deps.Directors.GetByID(ctx, id)
	if err != nil {
		return projection.DirectorDetail{}, storeErr(err, "director not found")
	}
	movies, err := s.moviesOf(ctx, s.deps.Movies.ListByDirector, id)
	if err != nil {
		return projection.DirectorDetail{}, err
	}
	return projection.DirectorDetailOf(d, movies), nil
}

// Actors returns one page of actors.  self is the request URL, used to
// build the next and previous links.
func (s *CatalogService) Actors(ctx context.Context, req *model.User, self *url.URL) (query.PageResult[projection.ActorItem], error) {
	var zero query.PageResult[projection.ActorItem]
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return zero, err
	}
	page, err := query.ParsePage(self.Query(), s.actorPageSize, s.maxPageSize)
	if err != nil {
		return zero, err
	}
	actors, total, err := s.deps.Actors.Page(ctx, page.Limit(), page.Offset())
	if err != nil {
		return zero, storeErr(err, "actor not found")
	}
	return query.Paginate(self, page, int64(total), projection.Actors(actors))
}

func (s *CatalogService) Actor(ctx context.Context, req *model.User, id uint64) (projection.ActorDetail, error) {
	if err := signedIn.Evaluate(ctx, policy.Request{Requester: req}); err != nil {
		return projection.ActorDetail{}, err
	}
	a, err := s.deps.Actors.GetByID(ctx, id)
	if err != nil {
		return projection.ActorDetail{}, storeErr(err, "actor not found")
	}
	movies, err := s.moviesOf(ctx, s.deps.Movies.ListByActor, id)
	if err != nil {
		return projection.ActorDetail{}, err
	}
	return projection.ActorDetailOf(a, movies), nil
}

func (s *CatalogService) moviesOf(ctx context.Context, list func(context.Context, uint64) ([]model.Movie, error), id uint64) ([]projection.MovieListItem, error) {
	ms, err := list(ctx, id)
	if err != nil {
		return nil, storeErr(err, "movie not found")
	}
	return s.movieList(ctx, ms)
}

// movieList projects ms with their averages computed in one query.
func (s *CatalogService) movieList(ctx context.Context, ms []model.Movie) ([]projection.MovieListItem, error) {
	ids := make([]uint64, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	avgs, err := s.deps.Averages.AverageRatings(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "movie not found")
	}
	return projection.MovieLists(ms, avgs), nil
}

package projection

import "github.com/iliyamo/movie-catalog/internal/model"

// CountryItem is the list view of a country and the summary nested in movies.
type CountryItem struct {
	ID          uint64 `json:"id"`
	CountryName string `json:"country_name"`
}

// GenreItem is the list view of a genre and the summary nested in movies.
type GenreItem struct {
	ID        uint64 `json:"id"`
	GenreName string `json:"genre_name"`
}

// DirectorItem is the list view of a director.
type DirectorItem struct {
	ID           uint64 `json:"id"`
	DirectorName string `json:"director_name"`
}

// ActorItem is the list view of an actor.
type ActorItem struct {
	ID        uint64 `json:"id"`
	ActorName string `json:"actor_name"`
}

type CountryDetail struct {
	ID          uint64          `json:"id"`
	CountryName string          `json:"country_name"`
	Movies      []MovieListItem `json:"movies"`
}

type GenreDetail struct {
	ID        uint64          `json:"id"`
	GenreName string          `json:"genre_name"`
	Movies    []MovieListItem `json:"genre_ser"`
}

type DirectorDetail struct {
	ID             uint64          `json:"id"`
	DirectorName   string          `json:"director_name"`
	DirectorImage  *string         `json:"director_image"`
	Bio            *string         `json:"bio"`
	Age            uint16          `json:"age"`
	DirectorMovies []MovieListItem `json:"director_movies"`
}

type ActorDetail struct {
	ID          uint64          `json:"id"`
	ActorName   string          `json:"actor_name"`
	ActorImage  *string         `json:"actor_image"`
	Bio         string          `json:"bio"`
	Age         uint16          `json:"age"`
	ActorMovies []MovieListItem `json:"actor_movies"`
}

func Country(c model.Country) CountryItem { return CountryItem{ID: c.ID, CountryName: c.Name} }
func Genre(g model.Genre) GenreItem       { return GenreItem{ID: g.ID, GenreName: g.Name} }

func Director(d model.Director) DirectorItem {
	return DirectorItem{ID: d.ID, DirectorName: d.Name}
}

func Actor(a model.Actor) ActorItem { return ActorItem{ID: a.ID, ActorName: a.Name} }

func Countries(cs []model.Country) []CountryItem { return mapAll(cs, Country) }
func Genres(gs []model.Genre) []GenreItem        { return mapAll(gs, Genre) }
func Directors(ds []model.Director) []DirectorItem {
	return mapAll(ds, Director)
}
func Actors(as []model.Actor) []ActorItem { return mapAll(as, Actor) }

func CountryDetailOf(c model.Country, movies []MovieListItem) CountryDetail {
	return CountryDetail{ID: c.ID, CountryName: c.Name, Movies: nonNil(movies)}
}

func GenreDetailOf(g model.Genre, movies []MovieListItem) GenreDetail {
	return GenreDetail{ID: g.ID, GenreName: g.Name, Movies: nonNil(movies)}
}

func DirectorDetailOf(d model.Director, movies []MovieListItem) DirectorDetail {
	return DirectorDetail{
		ID:             d.ID,
		DirectorName:   d.Name,
		DirectorImage:  d.Image,
		Bio:            d.Bio,
		Age:            d.Age,
		DirectorMovies: nonNil(movies),
	}
}

func ActorDetailOf(a model.Actor, movies []MovieListItem) ActorDetail {
	return ActorDetail{
		ID:          a.ID,
		ActorName:   a.Name,
		ActorImage:  a.Image,
		Bio:         a.Bio,
		Age:         a.Age,
		ActorMovies: nonNil(movies),
	}
}

// mapAll applies fn to every element; the result is never nil so lists
// encode as [] rather than null.
func mapAll[E, P any](in []E, fn func(E) P) []P {
	out := make([]P, 0, len(in))
	for _, e := range in {
		out = append(out, fn(e))
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

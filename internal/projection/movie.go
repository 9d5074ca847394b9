package projection

import "github.com/iliyamo/movie-catalog/internal/model"

// MovieListItem is the compact movie shape used by listings and nested in
// other entities' detail views.
type MovieListItem struct {
	ID          uint64        `json:"id"`
	MovieName   string        `json:"movie_name"`
	MovieImage  *string       `json:"movie_image"`
	Year        string        `json:"year"`
	Genre       []GenreItem   `json:"genre"`
	Country     []CountryItem `json:"country"`
	StatusMovie model.Status  `json:"status_movie"`
	AvgRating   float64       `json:"avg_rating"`
}

// MovieDetail is the full movie graph returned by GET /movie/:id.
type MovieDetail struct {
	ID           uint64             `json:"id"`
	MovieName    string             `json:"movie_name"`
	MovieImage   *string            `json:"movie_image"`
	Actor        []ActorItem        `json:"actor"`
	MovieTrailer *string            `json:"movie_trailer"`
	Director     []DirectorItem     `json:"director"`
	Year         string             `json:"year"`
	Types        []model.Resolution `json:"types"`
	Genre        []GenreItem        `json:"genre"`
	MovieTime    uint16             `json:"movie_time"`
	Country      []CountryItem      `json:"country"`
	Description  string             `json:"description"`
	StatusMovie  model.Status       `json:"status_movie"`
	AvgRating    float64            `json:"avg_rating"`
	Languages    []LanguageItem     `json:"languages"`
	MovieMoments []MomentItem       `json:"movie_moments"`
	Ratings      []RatingItem       `json:"ratings"`
}

// LanguageItem is a language track, both nested in movie detail and as the
// /movie_languages resource.
type LanguageItem struct {
	ID       uint64 `json:"id"`
	Movie    uint64 `json:"movie"`
	Language string `json:"language"`
	Video    string `json:"video"`
}

// MomentItem is a still, both nested in movie detail and as the /moments
// resource.
type MomentItem struct {
	ID           uint64 `json:"id"`
	Movie        uint64 `json:"movie"`
	MovieMoments string `json:"movie_moments"`
}

// MovieList projects m into the list shape.  avg is the precomputed
// average rating.
func MovieList(m model.Movie, avg float64) MovieListItem {
	return MovieListItem{
		ID:          m.ID,
		MovieName:   m.Name,
		MovieImage:  m.Image,
		Year:        m.Year.Format(YearLayout),
		Genre:       Genres(m.Genres),
		Country:     Countries(m.Countries),
		StatusMovie: m.Status,
		AvgRating:   avg,
	}
}

// MovieLists projects every movie, looking up averages by id.
func MovieLists(ms []model.Movie, avgs map[uint64]float64) []MovieListItem {
	out := make([]MovieListItem, 0, len(ms))
	for _, m := range ms {
		out = append(out, MovieList(m, avgs[m.ID]))
	}
	return out
}

// MovieDetailOf projects a fully loaded movie.
func MovieDetailOf(m model.Movie, avg float64) MovieDetail {
	types := m.Types
	if types == nil {
		types = []model.Resolution{}
	}
	return MovieDetail{
		ID:           m.ID,
		MovieName:    m.Name,
		MovieImage:   m.Image,
		Actor:        Actors(m.Actors),
		MovieTrailer: m.Trailer,
		Director:     Directors(m.Directors),
		Year:         m.Year.Format(DetailDateLayout),
		Types:        types,
		Genre:        Genres(m.Genres),
		MovieTime:    m.Duration,
		Country:      Countries(m.Countries),
		Description:  m.Description,
		StatusMovie:  m.Status,
		AvgRating:    avg,
		Languages:    mapAll(m.Languages, Language),
		MovieMoments: mapAll(m.Moments, Moment),
		Ratings:      mapAll(m.Ratings, Rating),
	}
}

func Language(l model.LanguageTrack) LanguageItem {
	return LanguageItem{ID: l.ID, Movie: l.MovieID, Language: l.Language, Video: l.Video}
}

func Languages(ls []model.LanguageTrack) []LanguageItem { return mapAll(ls, Language) }

func Moment(m model.Moment) MomentItem {
	return MomentItem{ID: m.ID, Movie: m.MovieID, MovieMoments: m.Image}
}

func Moments(ms []model.Moment) []MomentItem { return mapAll(ms, Moment) }

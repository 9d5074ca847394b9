package projection

import "github.com/iliyamo/movie-catalog/internal/model"

// RatingItem is a rating with its author's display name.  It is nested in
// movie detail and returned by the /rating resource.
type RatingItem struct {
	ID          uint64    `json:"id"`
	Movie       uint64    `json:"movie"`
	User        UserBrief `json:"user"`
	Text        *string   `json:"text"`
	Stars       *int      `json:"stars"`
	Parent      *uint64   `json:"parent"`
	CreatedDate string    `json:"created_date"`
}

func Rating(r model.Rating) RatingItem {
	return RatingItem{
		ID:          r.ID,
		Movie:       r.MovieID,
		User:        Brief(r.Author),
		Text:        r.Text,
		Stars:       r.Stars,
		Parent:      r.ParentID,
		CreatedDate: r.CreatedAt.Format(TimestampLayout),
	}
}

func Ratings(rs []model.Rating) []RatingItem { return mapAll(rs, Rating) }

// FavoriteItem is the /favorite resource.
type FavoriteItem struct {
	ID          uint64 `json:"id"`
	User        uint64 `json:"user"`
	CreatedDate string `json:"created_date"`
}

func Favorite(f model.Favorite) FavoriteItem {
	return FavoriteItem{ID: f.ID, User: f.UserID, CreatedDate: f.CreatedAt.Format(CalendarDayLayout)}
}

func Favorites(fs []model.Favorite) []FavoriteItem { return mapAll(fs, Favorite) }

// FavoriteMovieItem is the /favorite_movie resource; Cart is the owning
// favorites list.
type FavoriteMovieItem struct {
	ID    uint64 `json:"id"`
	Cart  uint64 `json:"cart"`
	Movie uint64 `json:"movie"`
}

func FavoriteMovie(fm model.FavoriteMovie) FavoriteMovieItem {
	return FavoriteMovieItem{ID: fm.ID, Cart: fm.FavoriteID, Movie: fm.MovieID}
}

func FavoriteMovies(fms []model.FavoriteMovie) []FavoriteMovieItem {
	return mapAll(fms, FavoriteMovie)
}

// HistoryItem embeds the viewer's display name and the movie list shape.
type HistoryItem struct {
	ID       uint64        `json:"id"`
	User     UserBrief     `json:"user"`
	Movie    MovieListItem `json:"movie"`
	ViewedAt string        `json:"viewed_at"`
}

func History(h model.History, avg float64) HistoryItem {
	return HistoryItem{
		ID:       h.ID,
		User:     Brief(h.User),
		Movie:    MovieList(h.Movie, avg),
		ViewedAt: h.ViewedAt.Format(CalendarDayLayout),
	}
}

// Histories projects every entry, looking up movie averages by id.
func Histories(hs []model.History, avgs map[uint64]float64) []HistoryItem {
	out := make([]HistoryItem, 0, len(hs))
	for _, h := range hs {
		out = append(out, History(h, avgs[h.MovieID]))
	}
	return out
}

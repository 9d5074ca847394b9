package model

import "time"

// Rating is a user's score and/or comment on a movie (`ratings` table).
// A rating with a ParentID is a reply in a thread; only ratings without a
// parent count as the user's own top-level rating of the movie.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – author of the rating.
//  MovieID   – rated movie.
//  Stars     – 1..10, nil for text-only comments and replies.
//  ParentID  – rating this one replies to (nullable).
//  Text      – optional free text.
//  CreatedAt – creation timestamp.
//  Author    – display fields of the author, filled by list/detail queries.
type Rating struct {
	ID        uint64    // ratings.id
	UserID    uint64    // ratings.user_id
	MovieID   uint64    // ratings.movie_id
	Stars     *int      // ratings.stars (nullable)
	ParentID  *uint64   // ratings.parent_id (nullable)
	Text      *string   // ratings.text (nullable)
	CreatedAt time.Time // ratings.created_date
	Author    User
}

// IsTopLevel reports whether the rating is not a reply.
func (r Rating) IsTopLevel() bool { return r.ParentID == nil }

// Favorite is the single favorites list owned by a user (`favorites`).
type Favorite struct {
	ID        uint64    // favorites.id
	UserID    uint64    // favorites.user_id (unique)
	CreatedAt time.Time // favorites.created_date
}

// FavoriteMovie links a favorites list to a movie (`favorite_movies`).
type FavoriteMovie struct {
	ID         uint64 // favorite_movies.id
	FavoriteID uint64 // favorite_movies.favorite_id
	MovieID    uint64 // favorite_movies.movie_id
}

// History records one view of a movie by a user (`history`).  A user may
// view the same movie many times.
type History struct {
	ID       uint64    // history.id
	UserID   uint64    // history.user_id
	MovieID  uint64    // history.movie_id
	ViewedAt time.Time // history.viewed_at
	User     User
	Movie    Movie
}

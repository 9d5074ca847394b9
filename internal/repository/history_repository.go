package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// HistoryRepo stores viewing history.  Every query is filtered by the
// viewer; there is no way to read another user's history through it.
type HistoryRepo struct{ db *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

const historySelect = "SELECT h.id, h.user_id, h.movie_id, h.viewed_at, u.first_name, u.last_name, " + movieColumns +
	" FROM history h JOIN users u ON u.id = h.user_id JOIN movies m ON m.id = h.movie_id "

func (r *HistoryRepo) query(ctx context.Context, tail string, args ...any) ([]model.History, error) {
	rows, err := r.db.QueryContext(ctx, historySelect+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var (
		out    []model.History
		movies []model.Movie
	)
	for rows.Next() {
		var h model.History
		var mr movieRow
		dest := append([]any{&h.ID, &h.UserID, &h.MovieID, &h.ViewedAt, &h.User.FirstName, &h.User.LastName}, mr.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		h.User.ID = h.UserID
		out = append(out, h)
		movies = append(movies, mr.movie())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachLabels(ctx, r.db, movies); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Movie = movies[i]
	}
	if out == nil {
		out = []model.History{}
	}
	return out, nil
}

// ListByUser returns the user's views, newest first.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID uint64) ([]model.History, error) {
	return r.query(ctx, "WHERE h.user_id = ? ORDER BY h.viewed_at DESC, h.id DESC", userID)
}

func (r *HistoryRepo) GetForUser(ctx context.Context, id, userID uint64) (model.History, error) {
	hs, err := r.query(ctx, "WHERE h.id = ? AND h.user_id = ?", id, userID)
	if err != nil {
		return model.History{}, err
	}
	if len(hs) == 0 {
		return model.History{}, ErrNotFound
	}
	return hs[0], nil
}

// Create records a view now.  An unknown movie yields ErrConflict.
func (r *HistoryRepo) Create(ctx context.Context, userID, movieID uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO history (user_id, movie_id, viewed_at) VALUES (?,?,?)",
		userID, movieID, time.Now().UTC().Truncate(time.Second))
	if err != nil {
		return 0, translate(err)
	}
	return lastID(res)
}

func (r *HistoryRepo) DeleteForUser(ctx context.Context, id, userID uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM history WHERE id = ? AND user_id = ?", id, userID))
}

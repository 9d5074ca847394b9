package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// FavoriteRepo manages the single favorites list each user may own.  Every
// read and write is filtered by the owner, so ids of other users' lists
// resolve to ErrNotFound.
type FavoriteRepo struct{ db *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, created_date FROM favorites WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Favorite{}
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FavoriteRepo) GetForUser(ctx context.Context, id, userID uint64) (model.Favorite, error) {
	var f model.Favorite
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_date FROM favorites WHERE id = ? AND user_id = ?", id, userID).
		Scan(&f.ID, &f.UserID, &f.CreatedAt)
	return f, translate(err)
}

// Create opens the user's favorites list.  A second list yields ErrConflict.
func (r *FavoriteRepo) Create(ctx context.Context, userID uint64) (model.Favorite, error) {
	f := model.Favorite{UserID: userID, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, created_date) VALUES (?,?)", userID, f.CreatedAt)
	if err != nil {
		return model.Favorite{}, translate(err)
	}
	f.ID, err = lastID(res)
	return f, err
}

// DeleteForUser removes the list and its entries.
func (r *FavoriteRepo) DeleteForUser(ctx context.Context, id, userID uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked uint64
		if err := tx.QueryRowContext(ctx,
			"SELECT id FROM favorites WHERE id = ? AND user_id = ? FOR UPDATE", id, userID).Scan(&locked); err != nil {
			return translate(err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM favorite_movies WHERE favorite_id = ?", id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM favorites WHERE id = ?", id)
		return err
	})
}

// FavoriteMovieRepo manages the entries of favorites lists, always through
// the owning user.
type FavoriteMovieRepo struct{ db *sql.DB }

func NewFavoriteMovieRepo(db *sql.DB) *FavoriteMovieRepo { return &FavoriteMovieRepo{db: db} }

const favoriteMovieSelect = "SELECT fm.id, fm.favorite_id, fm.movie_id FROM favorite_movies fm JOIN favorites f ON f.id = fm.favorite_id "

func (r *FavoriteMovieRepo) query(ctx context.Context, tail string, args ...any) ([]model.FavoriteMovie, error) {
	rows, err := r.db.QueryContext(ctx, favoriteMovieSelect+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.FavoriteMovie{}
	for rows.Next() {
		var fm model.FavoriteMovie
		if err := rows.Scan(&fm.ID, &fm.FavoriteID, &fm.MovieID); err != nil {
			return nil, err
		}
		out = append(out, fm)
	}
	return out, rows.Err()
}

func (r *FavoriteMovieRepo) ListByUser(ctx context.Context, userID uint64) ([]model.FavoriteMovie, error) {
	return r.query(ctx, "WHERE f.user_id = ? ORDER BY fm.id", userID)
}

func (r *FavoriteMovieRepo) GetForUser(ctx context.Context, id, userID uint64) (model.FavoriteMovie, error) {
	fms, err := r.query(ctx, "WHERE fm.id = ? AND f.user_id = ?", id, userID)
	if err != nil {
		return model.FavoriteMovie{}, err
	}
	if len(fms) == 0 {
		return model.FavoriteMovie{}, ErrNotFound
	}
	return fms[0], nil
}

// Add puts a movie on the user's favorites list, creating the list on
// first use.  An unknown movie yields ErrNotFound; a movie already on
// the list yields ErrConflict.
func (r *FavoriteMovieRepo) Add(ctx context.Context, userID, movieID uint64) (model.FavoriteMovie, error) {
	fm := model.FavoriteMovie{MovieID: movieID}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, "SELECT id FROM favorites WHERE user_id = ? FOR UPDATE", userID).Scan(&fm.FavoriteID)
		if errors.Is(err, sql.ErrNoRows) {
			res, err := tx.ExecContext(ctx, "INSERT INTO favorites (user_id, created_date) VALUES (?,?)",
				userID, time.Now().UTC().Truncate(time.Second))
			if err != nil {
				return translate(err)
			}
			if fm.FavoriteID, err = lastID(res); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies WHERE id = ?", movieID).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM favorite_movies WHERE favorite_id = ? AND movie_id = ?", fm.FavoriteID, movieID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		res, err := tx.ExecContext(ctx, "INSERT INTO favorite_movies (favorite_id, movie_id) VALUES (?,?)", fm.FavoriteID, movieID)
		if err != nil {
			return translate(err)
		}
		fm.ID, err = lastID(res)
		return err
	})
	if err != nil {
		return model.FavoriteMovie{}, err
	}
	return fm, nil
}

func (r *FavoriteMovieRepo) DeleteForUser(ctx context.Context, id, userID uint64) error {
	return affected(r.db.ExecContext(ctx,
		"DELETE fm FROM favorite_movies fm JOIN favorites f ON f.id = fm.favorite_id WHERE fm.id = ? AND f.user_id = ?", id, userID))
}

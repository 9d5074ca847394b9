package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// LanguageRepo stores the per-language video tracks of movies.
type LanguageRepo struct{ db *sql.DB }

func NewLanguageRepo(db *sql.DB) *LanguageRepo { return &LanguageRepo{db: db} }

func queryLanguages(ctx context.Context, q querier, where string, args ...any) ([]model.LanguageTrack, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, movie_id, language, video FROM movie_languages "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.LanguageTrack{}
	for rows.Next() {
		var l model.LanguageTrack
		if err := rows.Scan(&l.ID, &l.MovieID, &l.Language, &l.Video); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LanguageRepo) List(ctx context.Context) ([]model.LanguageTrack, error) {
	return queryLanguages(ctx, r.db, "")
}

func (r *LanguageRepo) GetByID(ctx context.Context, id uint64) (model.LanguageTrack, error) {
	ls, err := queryLanguages(ctx, r.db, "WHERE id = ?", id)
	if err != nil {
		return model.LanguageTrack{}, err
	}
	if len(ls) == 0 {
		return model.LanguageTrack{}, ErrNotFound
	}
	return ls[0], nil
}

// Create inserts l and sets its ID.  An unknown movie yields ErrConflict.
func (r *LanguageRepo) Create(ctx context.Context, l *model.LanguageTrack) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO movie_languages (movie_id, language, video) VALUES (?,?,?)", l.MovieID, l.Language, l.Video)
	if err != nil {
		return translate(err)
	}
	l.ID, err = lastID(res)
	return err
}

func (r *LanguageRepo) Update(ctx context.Context, l model.LanguageTrack) error {
	return affected(r.db.ExecContext(ctx,
		"UPDATE movie_languages SET movie_id = ?, language = ?, video = ? WHERE id = ?", l.MovieID, l.Language, l.Video, l.ID))
}

func (r *LanguageRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM movie_languages WHERE id = ?", id))
}

// MomentRepo stores still images of movies.
type MomentRepo struct{ db *sql.DB }

func NewMomentRepo(db *sql.DB) *MomentRepo { return &MomentRepo{db: db} }

func queryMoments(ctx context.Context, q querier, where string, args ...any) ([]model.Moment, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, movie_id, movie_moments FROM moments "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Moment{}
	for rows.Next() {
		var m model.Moment
		if err := rows.Scan(&m.ID, &m.MovieID, &m.Image); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MomentRepo) List(ctx context.Context) ([]model.Moment, error) {
	return queryMoments(ctx, r.db, "")
}

func (r *MomentRepo) GetByID(ctx context.Context, id uint64) (model.Moment, error) {
	ms, err := queryMoments(ctx, r.db, "WHERE id = ?", id)
	if err != nil {
		return model.Moment{}, err
	}
	if len(ms) == 0 {
		return model.Moment{}, ErrNotFound
	}
	return ms[0], nil
}

func (r *MomentRepo) Create(ctx context.Context, m *model.Moment) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO moments (movie_id, movie_moments) VALUES (?,?)", m.MovieID, m.Image)
	if err != nil {
		return translate(err)
	}
	m.ID, err = lastID(res)
	return err
}

func (r *MomentRepo) Update(ctx context.Context, m model.Moment) error {
	return affected(r.db.ExecContext(ctx,
		"UPDATE moments SET movie_id = ?, movie_moments = ? WHERE id = ?", m.MovieID, m.Image, m.ID))
}

func (r *MomentRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM moments WHERE id = ?", id))
}

package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ActorRepo reads actors.  Actors are maintained outside the API.
type ActorRepo struct{ db *sql.DB }

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{db: db} }

const actorSelect = "SELECT a.id, a.actor_name, a.bio, a.age, a.actor_image FROM actors a "

func queryActors(ctx context.Context, q querier, stmt string, args ...any) ([]model.Actor, error) {
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Actor{}
	for rows.Next() {
		var a model.Actor
		var img sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.Age, &img); err != nil {
			return nil, err
		}
		a.Image = nullString(img)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	return queryActors(ctx, r.db, actorSelect+"ORDER BY a.id")
}

// Page returns one window of actors ordered by id along with the total
// number of actors.
func (r *ActorRepo) Page(ctx context.Context, limit, offset int) ([]model.Actor, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Actor{}, 0, nil
	}
	actors, err := queryActors(ctx, r.db, actorSelect+"ORDER BY a.id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return actors, total, nil
}

func (r *ActorRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM actors").Scan(&n)
	return n, err
}

func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (model.Actor, error) {
	as, err := queryActors(ctx, r.db, actorSelect+"WHERE a.id = ?", id)
	if err != nil {
		return model.Actor{}, err
	}
	if len(as) == 0 {
		return model.Actor{}, ErrNotFound
	}
	return as[0], nil
}

// DirectorRepo reads directors.
type DirectorRepo struct{ db *sql.DB }

func NewDirectorRepo(db *sql.DB) *DirectorRepo { return &DirectorRepo{db: db} }

const directorSelect = "SELECT d.id, d.director_name, d.bio, d.age, d.director_image FROM directors d "

func queryDirectors(ctx context.Context, q querier, stmt string, args ...any) ([]model.Director, error) {
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Director{}
	for rows.Next() {
		var d model.Director
		var bio, img sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &bio, &d.Age, &img); err != nil {
			return nil, err
		}
		d.Bio = nullString(bio)
		d.Image = nullString(img)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DirectorRepo) List(ctx context.Context) ([]model.Director, error) {
	return queryDirectors(ctx, r.db, directorSelect+"ORDER BY d.id")
}

func (r *DirectorRepo) GetByID(ctx context.Context, id uint64) (model.Director, error) {
	ds, err := queryDirectors(ctx, r.db, directorSelect+"WHERE d.id = ?", id)
	if err != nil {
		return model.Director{}, err
	}
	if len(ds) == 0 {
		return model.Director{}, ErrNotFound
	}
	return ds[0], nil
}

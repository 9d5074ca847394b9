package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// dictionary implements the shared behaviour of the small named lookup
// tables (countries, genres): unique names, and no delete while a movie
// still links to the row.
type dictionary struct {
	db        *sql.DB
	table     string // lookup table
	nameCol   string // unique name column
	joinTable string // movie link table
	joinCol   string // link column referencing table.id
}

type entry struct {
	id   uint64
	name string
}

func (d dictionary) list(ctx context.Context) ([]entry, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT id, "+d.nameCol+" FROM "+d.table+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entry{}
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.name); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d dictionary) get(ctx context.Context, id uint64) (entry, error) {
	e := entry{id: id}
	err := d.db.QueryRowContext(ctx, "SELECT "+d.nameCol+" FROM "+d.table+" WHERE id = ?", id).Scan(&e.name)
	return e, translate(err)
}

func (d dictionary) create(ctx context.Context, name string) (entry, error) {
	res, err := d.db.ExecContext(ctx, "INSERT INTO "+d.table+" ("+d.nameCol+") VALUES (?)", name)
	if err != nil {
		return entry{}, translate(err)
	}
	id, err := lastID(res)
	return entry{id: id, name: name}, err
}

// delete refuses with ErrConflict while any movie references the row.
func (d dictionary) delete(ctx context.Context, id uint64) error {
	return withTx(ctx, d.db, func(tx *sql.Tx) error {
		var locked uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM "+d.table+" WHERE id = ? FOR UPDATE", id).Scan(&locked); err != nil {
			return translate(err)
		}
		var refs int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+d.joinTable+" WHERE "+d.joinCol+" = ?", id).Scan(&refs); err != nil {
			return err
		}
		if refs > 0 {
			return ErrConflict
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM "+d.table+" WHERE id = ?", id)
		return translate(err)
	})
}

type CountryRepo struct{ dict dictionary }

func NewCountryRepo(db *sql.DB) *CountryRepo {
	return &CountryRepo{dict: dictionary{db: db, table: "countries", nameCol: "country_name", joinTable: "movie_countries", joinCol: "country_id"}}
}

func (r *CountryRepo) List(ctx context.Context) ([]model.Country, error) {
	es, err := r.dict.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Country, len(es))
	for i, e := range es {
		out[i] = model.Country{ID: e.id, Name: e.name}
	}
	return out, nil
}

func (r *CountryRepo) GetByID(ctx context.Context, id uint64) (model.Country, error) {
	e, err := r.dict.get(ctx, id)
	return model.Country{ID: e.id, Name: e.name}, err
}

// Create inserts a country; a taken name yields ErrConflict.
func (r *CountryRepo) Create(ctx context.Context, name string) (model.Country, error) {
	e, err := r.dict.create(ctx, name)
	return model.Country{ID: e.id, Name: e.name}, err
}

func (r *CountryRepo) Delete(ctx context.Context, id uint64) error { return r.dict.delete(ctx, id) }

type GenreRepo struct{ dict dictionary }

func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{dict: dictionary{db: db, table: "genres", nameCol: "genre_name", joinTable: "movie_genres", joinCol: "genre_id"}}
}

func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	es, err := r.dict.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Genre, len(es))
	for i, e := range es {
		out[i] = model.Genre{ID: e.id, Name: e.name}
	}
	return out, nil
}

func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (model.Genre, error) {
	e, err := r.dict.get(ctx, id)
	return model.Genre{ID: e.id, Name: e.name}, err
}

// Create inserts a genre; a taken name yields ErrConflict.
func (r *GenreRepo) Create(ctx context.Context, name string) (model.Genre, error) {
	e, err := r.dict.create(ctx, name)
	return model.Genre{ID: e.id, Name: e.name}, err
}

func (r *GenreRepo) Delete(ctx context.Context, id uint64) error { return r.dict.delete(ctx, id) }

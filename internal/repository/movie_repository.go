package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/query"
)

// MovieRepo reads and writes movies together with their relations.  List
// queries load only genres and countries; GetDetail loads the whole graph.
type MovieRepo struct{ db *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = "m.id, m.movie_name, m.year, m.movie_time, m.description, m.movie_trailer, m.movie_image, m.status_movie, m.types"

// movieRow collects the nullable and encoded columns of movieColumns
// before they are converted into a model.Movie.
type movieRow struct {
	m       model.Movie
	trailer sql.NullString
	image   sql.NullString
	status  string
	types   string
}

func (r *movieRow) dest() []any {
	return []any{&r.m.ID, &r.m.Name, &r.m.Year, &r.m.Duration, &r.m.Description,
		&r.trailer, &r.image, &r.status, &r.types}
}

func (r *movieRow) movie() model.Movie {
	m := r.m
	m.Trailer = nullString(r.trailer)
	m.Image = nullString(r.image)
	m.Status = model.Status(r.status)
	m.Types = model.ParseResolutions(r.types)
	m.Genres = []model.Genre{}
	m.Countries = []model.Country{}
	return m
}

// movieFilterSQL builds the WHERE clause for a movie listing.  Country and
// genre use EXISTS so a movie never appears twice; all conditions are ANDed.
func movieFilterSQL(f query.MovieFilter) (string, []any) {
	conds := []string{"1=1"}
	var args []any
	if f.CountryID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM movie_countries mc WHERE mc.movie_id = m.id AND mc.country_id = ?)")
		args = append(args, *f.CountryID)
	}
	if f.GenreID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = m.id AND mg.genre_id = ?)")
		args = append(args, *f.GenreID)
	}
	if f.Search != "" {
		conds = append(conds, "LOWER(m.movie_name) LIKE ?")
		args = append(args, query.LikePattern(f.Search))
	}
	return strings.Join(conds, " AND "), args
}

// List returns movies matching f ordered by id.
func (r *MovieRepo) List(ctx context.Context, f query.MovieFilter) ([]model.Movie, error) {
	where, args := movieFilterSQL(f)
	return r.listWithLabels(ctx, "SELECT "+movieColumns+" FROM movies m WHERE "+where+" ORDER BY m.id", args...)
}

func (r *MovieRepo) ListByCountry(ctx context.Context, countryID uint64) ([]model.Movie, error) {
	return r.listByJoin(ctx, "movie_countries", "country_id", countryID)
}

func (r *MovieRepo) ListByGenre(ctx context.Context, genreID uint64) ([]model.Movie, error) {
	return r.listByJoin(ctx, "movie_genres", "genre_id", genreID)
}

func (r *MovieRepo) ListByActor(ctx context.Context, actorID uint64) ([]model.Movie, error) {
	return r.listByJoin(ctx, "movie_actors", "actor_id", actorID)
}

func (r *MovieRepo) ListByDirector(ctx context.Context, directorID uint64) ([]model.Movie, error) {
	return r.listByJoin(ctx, "movie_directors", "director_id", directorID)
}

// listByJoin lists the movies linked to one row of a related table.  table
// and column are package constants, never user input.
func (r *MovieRepo) listByJoin(ctx context.Context, table, column string, id uint64) ([]model.Movie, error) {
	q := "SELECT " + movieColumns + " FROM movies m JOIN " + table + " j ON j.movie_id = m.id WHERE j." + column + " = ? ORDER BY m.id"
	return r.listWithLabels(ctx, q, id)
}

func (r *MovieRepo) listWithLabels(ctx context.Context, q string, args ...any) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := []model.Movie{}
	for rows.Next() {
		var mr movieRow
		if err := rows.Scan(mr.dest()...); err != nil {
			return nil, err
		}
		movies = append(movies, mr.movie())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachLabels(ctx, r.db, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// attachLabels fills Genres and Countries of every movie with two batched
// queries instead of two per movie.
func attachLabels(ctx context.Context, q querier, movies []model.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	index := make(map[uint64][]int, len(movies))
	ids := make([]uint64, 0, len(movies))
	for i, m := range movies {
		if _, seen := index[m.ID]; !seen {
			ids = append(ids, m.ID)
		}
		index[m.ID] = append(index[m.ID], i)
	}
	in, args := inClause(ids)

	rows, err := q.QueryContext(ctx,
		"SELECT mg.movie_id, g.id, g.genre_name FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.movie_id IN ("+in+") ORDER BY g.id", args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var movieID uint64
		var g model.Genre
		if err := rows.Scan(&movieID, &g.ID, &g.Name); err != nil {
			rows.Close()
			return err
		}
		for _, i := range index[movieID] {
			movies[i].Genres = append(movies[i].Genres, g)
		}
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx,
		"SELECT mc.movie_id, c.id, c.country_name FROM movie_countries mc JOIN countries c ON c.id = mc.country_id WHERE mc.movie_id IN ("+in+") ORDER BY c.id", args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var movieID uint64
		var c model.Country
		if err := rows.Scan(&movieID, &c.ID, &c.Name); err != nil {
			rows.Close()
			return err
		}
		for _, i := range index[movieID] {
			movies[i].Countries = append(movies[i].Countries, c)
		}
	}
	return closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

// Status returns the tier of a movie without loading it.
func (r *MovieRepo) Status(ctx context.Context, id uint64) (model.Status, error) {
	var s string
	if err := r.db.QueryRowContext(ctx, "SELECT status_movie FROM movies WHERE id = ?", id).Scan(&s); err != nil {
		return "", translate(err)
	}
	return model.Status(s), nil
}

// Exists reports whether a movie with id exists.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetDetail loads a movie with every relation: genres, countries, actors,
// directors, language tracks, moments and ratings with their authors.
func (r *MovieRepo) GetDetail(ctx context.Context, id uint64) (model.Movie, error) {
	var mr movieRow
	if err := r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies m WHERE m.id = ?", id).Scan(mr.dest()...); err != nil {
		return model.Movie{}, translate(err)
	}
	movies := []model.Movie{mr.movie()}
	if err := attachLabels(ctx, r.db, movies); err != nil {
		return model.Movie{}, err
	}
	m := movies[0]

	var err error
	if m.Actors, err = queryActors(ctx, r.db,
		"SELECT a.id, a.actor_name, a.bio, a.age, a.actor_image FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id WHERE ma.movie_id = ? ORDER BY a.id", id); err != nil {
		return model.Movie{}, err
	}
	if m.Directors, err = queryDirectors(ctx, r.db,
		"SELECT d.id, d.director_name, d.bio, d.age, d.director_image FROM movie_directors md JOIN directors d ON d.id = md.director_id WHERE md.movie_id = ? ORDER BY d.id", id); err != nil {
		return model.Movie{}, err
	}
	if m.Languages, err = queryLanguages(ctx, r.db, "WHERE movie_id = ?", id); err != nil {
		return model.Movie{}, err
	}
	if m.Moments, err = queryMoments(ctx, r.db, "WHERE movie_id = ?", id); err != nil {
		return model.Movie{}, err
	}
	if m.Ratings, err = queryRatings(ctx, r.db, "WHERE r.movie_id = ? ORDER BY r.created_date, r.id", id); err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

// Create inserts a movie and its join rows in one transaction and sets
// m.ID.  A related id that does not exist yields ErrConflict.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO movies (movie_name, year, movie_time, description, movie_trailer, movie_image, status_movie, types) VALUES (?,?,?,?,?,?,?,?)",
			m.Name, m.Year, m.Duration, m.Description, m.Trailer, m.Image, m.Status, model.JoinResolutions(m.Types))
		if err != nil {
			return translate(err)
		}
		id, err := lastID(res)
		if err != nil {
			return err
		}
		links := []struct {
			table, column string
			ids           []uint64
		}{
			{"movie_countries", "country_id", countryIDs(m.Countries)},
			{"movie_directors", "director_id", directorIDs(m.Directors)},
			{"movie_actors", "actor_id", actorIDs(m.Actors)},
			{"movie_genres", "genre_id", genreIDs(m.Genres)},
		}
		for _, l := range links {
			for _, rel := range l.ids {
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO "+l.table+" (movie_id, "+l.column+") VALUES (?,?)", id, rel); err != nil {
					return translate(err)
				}
			}
		}
		m.ID = id
		return nil
	})
}

// movieCascade removes every row that references a movie, then the movie.
var movieCascade = []string{
	"DELETE FROM movie_languages WHERE movie_id = ?",
	"DELETE FROM moments WHERE movie_id = ?",
	"DELETE FROM ratings WHERE movie_id = ?",
	"DELETE FROM favorite_movies WHERE movie_id = ?",
	"DELETE FROM history WHERE movie_id = ?",
	"DELETE FROM movie_countries WHERE movie_id = ?",
	"DELETE FROM movie_directors WHERE movie_id = ?",
	"DELETE FROM movie_actors WHERE movie_id = ?",
	"DELETE FROM movie_genres WHERE movie_id = ?",
	"DELETE FROM movies WHERE id = ?",
}

// Delete removes a movie and everything that references it atomically.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM movies WHERE id = ? FOR UPDATE", id).Scan(&locked); err != nil {
			return translate(err)
		}
		for _, stmt := range movieCascade {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func countryIDs(cs []model.Country) []uint64 {
	out := make([]uint64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func genreIDs(gs []model.Genre) []uint64 {
	out := make([]uint64, len(gs))
	for i, g := range gs {
		out[i] = g.ID
	}
	return out
}

func actorIDs(as []model.Actor) []uint64 {
	out := make([]uint64, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func directorIDs(ds []model.Director) []uint64 {
	out := make([]uint64, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/query"
)

var movieCols = []string{"id", "movie_name", "year", "movie_time", "description", "movie_trailer", "movie_image", "status_movie", "types"}

func year(y int) time.Time { return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestMovieFilterSQL(t *testing.T) {
	country, genre := uint64(2), uint64(3)
	where, args := movieFilterSQL(query.MovieFilter{CountryID: &country, GenreID: &genre, Search: "Ma%"})
	assert.Contains(t, where, "mc.country_id = ?")
	assert.Contains(t, where, "mg.genre_id = ?")
	assert.Contains(t, where, "LOWER(m.movie_name) LIKE ?")
	assert.Equal(t, []any{uint64(2), uint64(3), `%ma\%%`}, args)

	where, args = movieFilterSQL(query.MovieFilter{})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestMovieListAttachesLabelsInBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + movieColumns + " FROM movies m WHERE 1=1 ORDER BY m.id")).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(1, "Alien", year(1979), 117, "space", nil, "alien.jpg", "simple", "720p,1080p").
			AddRow(2, "Heat", year(1995), 170, "crime", nil, nil, "pro", ""))
	mock.ExpectQuery(regexp.QuoteMeta("FROM movie_genres mg JOIN genres g")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "id", "genre_name"}).
			AddRow(1, 10, "Horror").AddRow(2, 11, "Crime").AddRow(1, 12, "Sci-Fi"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM movie_countries mc JOIN countries c")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "id", "country_name"}).AddRow(2, 20, "USA"))

	movies, err := NewMovieRepo(db).List(context.Background(), query.MovieFilter{})
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, []model.Genre{{ID: 10, Name: "Horror"}, {ID: 12, Name: "Sci-Fi"}}, movies[0].Genres)
	assert.Equal(t, []model.Country{}, movies[0].Countries)
	assert.Equal(t, []model.Country{{ID: 20, Name: "USA"}}, movies[1].Countries)
	assert.Equal(t, []model.Resolution{model.Res720p, model.Res1080p}, movies[0].Types)
	assert.Equal(t, "alien.jpg", *movies[0].Image)
	assert.Nil(t, movies[1].Image)
	assert.Equal(t, model.StatusPro, movies[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieListEmptySkipsLabelQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("JOIN movie_genres j ON j.movie_id = m.id WHERE j.genre_id = ?")).
		WithArgs(4).WillReturnRows(sqlmock.NewRows(movieCols))

	movies, err := NewMovieRepo(db).ListByGenre(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, movies)
	assert.NotNil(t, movies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieStatusUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status_movie FROM movies WHERE id = ?")).
		WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"status_movie"}))

	_, err = NewMovieRepo(db).Status(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieDeleteCascades(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM movies WHERE id = ? FOR UPDATE")).
		WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	for _, stmt := range movieCascade {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewMovieRepo(db).Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieCreateWritesJoinRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &model.Movie{
		Name: "Alien", Year: year(1979), Duration: 117, Status: model.StatusSimple,
		Types:     []model.Resolution{model.Res720p},
		Countries: []model.Country{{ID: 20}},
		Genres:    []model.Genre{{ID: 10}, {ID: 12}},
	}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movies")).
		WithArgs("Alien", year(1979), 117, "", nil, nil, "simple", "720p").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movie_countries (movie_id, country_id)")).WithArgs(8, 20).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movie_genres (movie_id, genre_id)")).WithArgs(8, 10).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movie_genres (movie_id, genre_id)")).WithArgs(8, 12).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, NewMovieRepo(db).Create(context.Background(), m))
	assert.Equal(t, uint64(8), m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

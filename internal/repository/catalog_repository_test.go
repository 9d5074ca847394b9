package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestCountryCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO countries (country_name) VALUES (?)")).
		WithArgs("France").WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err = NewCountryRepo(db).Create(context.Background(), "France")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGenreDeleteStillReferenced(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE id = ? FOR UPDATE")).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movie_genres WHERE genre_id = ?")).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectRollback()

	assert.ErrorIs(t, NewGenreRepo(db).Delete(context.Background(), 3), ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreDeleteUnused(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE id = ? FOR UPDATE")).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movie_genres WHERE genre_id = ?")).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM genres WHERE id = ?")).
		WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewGenreRepo(db).Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM actors")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("FROM actors a ORDER BY a.id LIMIT ? OFFSET ?")).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_name", "bio", "age", "actor_image"}).
			AddRow(11, "A", "bio", 40, nil).AddRow(12, "B", "bio", 50, "b.jpg"))

	actors, total, err := NewActorRepo(db).Page(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, actors, 2)
	assert.Nil(t, actors[0].Image)
	assert.Equal(t, "b.jpg", *actors[1].Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectorGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM directors d WHERE d.id = ?")).
		WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{"id", "director_name", "bio", "age", "director_image"}))

	_, err = NewDirectorRepo(db).GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLanguageCreateUnknownMovie(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movie_languages")).
		WillReturnError(&mysql.MySQLError{Number: 1452})

	err = NewLanguageRepo(db).Create(context.Background(), &model.LanguageTrack{MovieID: 404, Language: "fr", Video: "v.mp4"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHistoryListIsFilteredByViewer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	viewed := time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC)
	cols := append([]string{"id", "user_id", "movie_id", "viewed_at", "first_name", "last_name"}, movieCols...)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE h.user_id = ? ORDER BY h.viewed_at DESC")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 7, 4, viewed, "Ann", "Lee", 4, "Alien", year(1979), 117, "space", nil, nil, "simple", "720p"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM movie_genres mg")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "id", "genre_name"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM movie_countries mc")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "id", "country_name"}))

	hs, err := NewHistoryRepo(db).ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "Ann", hs[0].User.FirstName)
	assert.Equal(t, "Alien", hs[0].Movie.Name)
	assert.Equal(t, uint64(7), hs[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryDeleteOtherUsersEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM history WHERE id = ? AND user_id = ?")).
		WithArgs(1, 8).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewHistoryRepo(db).DeleteForUser(context.Background(), 1, 8), ErrNotFound)
}

func TestFavoriteMovieAddCreatesListOnFirstUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM favorites WHERE user_id = ? FOR UPDATE")).
		WithArgs(7).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites (user_id, created_date)")).
		WithArgs(7, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies WHERE id = ?")).
		WithArgs(4).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM favorite_movies WHERE favorite_id = ? AND movie_id = ?")).
		WithArgs(3, 4).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorite_movies (favorite_id, movie_id)")).
		WithArgs(3, 4).WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	fm, err := NewFavoriteMovieRepo(db).Add(context.Background(), 7, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), fm.ID)
	assert.Equal(t, uint64(3), fm.FavoriteID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteMovieAddDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM favorites WHERE user_id = ? FOR UPDATE")).
		WithArgs(7).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies WHERE id = ?")).
		WithArgs(4).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM favorite_movies WHERE favorite_id = ? AND movie_id = ?")).
		WithArgs(3, 4).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	_, err = NewFavoriteMovieRepo(db).Add(context.Background(), 7, 4)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

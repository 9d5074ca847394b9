package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

type memLanguages struct {
	next uint64
	rows map[uint64]model.LanguageTrack
}

func (m *memLanguages) List(context.Context) ([]model.LanguageTrack, error) {
	out := make([]model.LanguageTrack, 0, len(m.rows))
	for _, l := range m.rows {
		out = append(out, l)
	}
	return out, nil
}

func (m *memLanguages) GetByID(_ context.Context, id uint64) (model.LanguageTrack, error) {
	l, ok := m.rows[id]
	if !ok {
		return model.LanguageTrack{}, repository.ErrNotFound
	}
	return l, nil
}

func (m *memLanguages) Create(_ context.Context, l *model.LanguageTrack) error {
	m.next++
	l.ID = m.next
	m.rows[l.ID] = *l
	return nil
}

func (m *memLanguages) Update(_ context.Context, l model.LanguageTrack) error {
	if _, ok := m.rows[l.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[l.ID] = l
	return nil
}

func (m *memLanguages) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestLanguageTracks(t *testing.T) {
	ctx := context.Background()
	langs := &memLanguages{rows: map[uint64]model.LanguageTrack{}}
	movies := stubMovies{movies: map[uint64]model.Movie{1: {ID: 1}, 2: {ID: 2}}}
	svc := NewMediaService(langs, nil, movies)
	user := &model.User{ID: 5, IsActive: true}

	_, err := svc.CreateLanguage(ctx, nil, LanguageInput{})
	assertKind(t, err, apperr.KindUnauthenticated)

	_, err = svc.CreateLanguage(ctx, user, LanguageInput{Movie: ptr(uint64(1))})
	assertKind(t, err, apperr.KindValidation)
	ae, _ := apperr.As(err)
	assert.Contains(t, ae.Fields, "language")
	assert.Contains(t, ae.Fields, "video")

	_, err = svc.CreateLanguage(ctx, user, LanguageInput{Movie: ptr(uint64(9)), Language: ptr("en"), Video: ptr("v.mp4")})
	assertKind(t, err, apperr.KindValidation)

	created, err := svc.CreateLanguage(ctx, user, LanguageInput{Movie: ptr(uint64(1)), Language: ptr("en"), Video: ptr("v.mp4")})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), created.Movie)

	patched, err := svc.UpdateLanguage(ctx, user, created.ID, LanguageInput{Language: ptr("fr")}, true)
	require.NoError(t, err)
	assert.Equal(t, "fr", patched.Language)
	assert.Equal(t, "v.mp4", patched.Video)

	_, err = svc.UpdateLanguage(ctx, user, created.ID, LanguageInput{Language: ptr("de")}, false)
	assertKind(t, err, apperr.KindValidation)

	moved, err := svc.UpdateLanguage(ctx, user, created.ID, LanguageInput{Movie: ptr(uint64(2)), Language: ptr("de"), Video: ptr("w.mp4")}, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), moved.Movie)

	require.NoError(t, svc.DeleteLanguage(ctx, user, created.ID))
	assertKind(t, svc.DeleteLanguage(ctx, user, created.ID), apperr.KindNotFound)
	_, err = svc.Language(ctx, user, created.ID)
	assertKind(t, err, apperr.KindNotFound)
}

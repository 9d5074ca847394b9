package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/query"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

type memUsers struct {
	mu    sync.Mutex
	next  uint64
	users map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[uint64]model.User{}} }

func (m *memUsers) Create(_ context.Context, username, email, password string, cost int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return 0, repository.ErrUsernameExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.next++
	m.users[m.next] = model.User{ID: m.next, Username: username, Email: email, PasswordHash: hash, Status: model.StatusSimple, IsActive: true}
	return m.next, nil
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) UpdateProfile(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memTokens struct {
	mu      sync.Mutex
	byHash  map[string]uint64
	revoked map[string]bool
}

func newMemTokens() *memTokens {
	return &memTokens{byHash: map[string]uint64{}, revoked: map[string]bool{}}
}

func (m *memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byHash[hash] = userID
	return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, ok := m.byHash[hash]
	if !ok || m.revoked[hash] {
		return 0, repository.ErrNotFound
	}
	return uid, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHash[hash]; !ok || m.revoked[hash] {
		return repository.ErrNotFound
	}
	m.revoked[hash] = true
	return nil
}

// memRatings enforces one top-level rating per user and movie like the
// repository does.
type memRatings struct {
	mu      sync.Mutex
	next    uint64
	movies  map[uint64]bool
	ratings map[uint64]model.Rating
}

func newMemRatings(movieIDs ...uint64) *memRatings {
	m := &memRatings{movies: map[uint64]bool{}, ratings: map[uint64]model.Rating{}}
	for _, id := range movieIDs {
		m.movies[id] = true
	}
	return m
}

func (m *memRatings) List(context.Context) ([]model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Rating, 0, len(m.ratings))
	for _, r := range m.ratings {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRatings) GetByID(_ context.Context, id uint64) (model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[id]
	if !ok {
		return model.Rating{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memRatings) Create(_ context.Context, rt *model.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.movies[rt.MovieID] {
		return repository.ErrNotFound
	}
	if rt.ParentID == nil {
		for _, r := range m.ratings {
			if r.UserID == rt.UserID && r.MovieID == rt.MovieID && r.IsTopLevel() {
				return repository.ErrDuplicateRating
			}
		}
	} else if p, ok := m.ratings[*rt.ParentID]; !ok || p.MovieID != rt.MovieID {
		return repository.ErrInvalidParent
	}
	m.next++
	rt.ID = m.next
	rt.CreatedAt = time.Now().UTC()
	m.ratings[rt.ID] = *rt
	return nil
}

func (m *memRatings) Update(_ context.Context, id uint64, stars *int, text *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Stars, r.Text = stars, text
	m.ratings[id] = r
	return nil
}

func (m *memRatings) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ratings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.ratings, id)
	return nil
}

type memHistory struct {
	next    uint64
	movies  map[uint64]model.Movie
	entries map[uint64]model.History
}

func (m *memHistory) ListByUser(_ context.Context, userID uint64) ([]model.History, error) {
	var out []model.History
	for _, h := range m.entries {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHistory) GetForUser(_ context.Context, id, userID uint64) (model.History, error) {
	h, ok := m.entries[id]
	if !ok || h.UserID != userID {
		return model.History{}, repository.ErrNotFound
	}
	return h, nil
}

func (m *memHistory) Create(_ context.Context, userID, movieID uint64) (uint64, error) {
	mv, ok := m.movies[movieID]
	if !ok {
		return 0, repository.ErrConflict
	}
	m.next++
	m.entries[m.next] = model.History{ID: m.next, UserID: userID, MovieID: movieID, ViewedAt: time.Now().UTC(), Movie: mv}
	return m.next, nil
}

func (m *memHistory) DeleteForUser(_ context.Context, id, userID uint64) error {
	h, ok := m.entries[id]
	if !ok || h.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// stubMovies serves fixed movies for catalog reads.
type stubMovies struct {
	movies map[uint64]model.Movie
}

func (s stubMovies) all() []model.Movie {
	out := make([]model.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	return out
}

func (s stubMovies) List(context.Context, query.MovieFilter) ([]model.Movie, error) {
	return s.all(), nil
}
func (s stubMovies) ListByCountry(context.Context, uint64) ([]model.Movie, error) {
	return s.all(), nil
}
func (s stubMovies) ListByGenre(context.Context, uint64) ([]model.Movie, error) { return s.all(), nil }
func (s stubMovies) ListByActor(context.Context, uint64) ([]model.Movie, error) { return nil, nil }
func (s stubMovies) ListByDirector(context.Context, uint64) ([]model.Movie, error) {
	return nil, nil
}

func (s stubMovies) GetDetail(_ context.Context, id uint64) (model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return model.Movie{}, repository.ErrNotFound
	}
	return m, nil
}

func (s stubMovies) Status(ctx context.Context, id uint64) (model.Status, error) {
	m, err := s.GetDetail(ctx, id)
	return m.Status, err
}

func (s stubMovies) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := s.movies[id]
	return ok, nil
}

type stubActors struct{ actors []model.Actor }

func (s stubActors) List(context.Context) ([]model.Actor, error) { return s.actors, nil }

func (s stubActors) Page(_ context.Context, limit, offset int) ([]model.Actor, int, error) {
	if offset >= len(s.actors) {
		return nil, len(s.actors), nil
	}
	end := min(offset+limit, len(s.actors))
	return s.actors[offset:end], len(s.actors), nil
}

func (s stubActors) GetByID(_ context.Context, id uint64) (model.Actor, error) {
	for _, a := range s.actors {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Actor{}, repository.ErrNotFound
}

type fixedAverages float64

func (f fixedAverages) AverageRating(context.Context, uint64) (float64, error) {
	return float64(f), nil
}

func (f fixedAverages) AverageRatings(_ context.Context, ids []uint64) (map[uint64]float64, error) {
	out := make(map[uint64]float64, len(ids))
	for _, id := range ids {
		out[id] = float64(f)
	}
	return out, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (r *recordedEvents) Publish(ev queue.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

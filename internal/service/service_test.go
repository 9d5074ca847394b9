package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

const testSecret = "test-secret"

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), err.Error())
}

func newAuth() (*AuthService, *memUsers) {
	users := newMemUsers()
	cfg := AuthConfig{Secret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	return NewAuthService(users, newMemTokens(), cfg), users
}

func TestAuthRoundTrip(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth()

	sess, err := auth.Register(ctx, Credentials{Username: "neo", Email: "neo@example.com", Password: "redpill1"})
	require.NoError(t, err)
	uid, err := utils.ParseAccessToken(testSecret, sess.AccessToken)
	require.NoError(t, err)

	req, err := auth.Requester(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSimple, req.Status)

	_, err = auth.Register(ctx, Credentials{Username: "neo", Email: "x@example.com", Password: "redpill1"})
	assertKind(t, err, apperr.KindConflict)

	_, err = auth.Login(ctx, "neo", "bluepill")
	assertKind(t, err, apperr.KindUnauthenticated)

	login, err := auth.Login(ctx, "neo", "redpill1")
	require.NoError(t, err)

	grant, err := auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, grant.AccessToken)

	require.NoError(t, auth.Logout(ctx, login.RefreshToken))
	assertKind(t, auth.Logout(ctx, login.RefreshToken), apperr.KindValidation)

	_, err = auth.Refresh(ctx, login.RefreshToken)
	assertKind(t, err, apperr.KindUnauthenticated)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	ctx := context.Background()
	auth, users := newAuth()
	_, err := auth.Register(ctx, Credentials{Username: "trin", Email: "t@example.com", Password: "secret12"})
	require.NoError(t, err)

	u, err := users.GetByUsername(ctx, "trin")
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, users.UpdateProfile(ctx, u))

	_, err = auth.Login(ctx, "trin", "secret12")
	assertKind(t, err, apperr.KindUnauthenticated)
}

func TestRequesterForDeletedUser(t *testing.T) {
	auth, _ := newAuth()
	_, err := auth.Requester(context.Background(), 99)
	assertKind(t, err, apperr.KindUnauthenticated)
}

func catalogFixture() *CatalogService {
	movies := stubMovies{movies: map[uint64]model.Movie{
		1: {ID: 1, Name: "Heat", Status: model.StatusSimple, Year: time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)},
		2: {ID: 2, Name: "Ran", Status: model.StatusPro, Year: time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	actors := make([]model.Actor, 0, 25)
	for i := 1; i <= 25; i++ {
		actors = append(actors, model.Actor{ID: uint64(i), Name: "actor"})
	}
	return NewCatalogService(CatalogDeps{
		Movies:   movies,
		Actors:   stubActors{actors: actors},
		Averages: fixedAverages(7.5),
	}, 10, 50)
}

func TestMovieDetailGating(t *testing.T) {
	ctx := context.Background()
	svc := catalogFixture()
	simple := &model.User{ID: 1, Status: model.StatusSimple, IsActive: true}
	pro := &model.User{ID: 2, Status: model.StatusPro, IsActive: true}

	_, err := svc.MovieDetail(ctx, nil, 404)
	assertKind(t, err, apperr.KindUnauthenticated)

	_, err = svc.MovieDetail(ctx, simple, 404)
	assertKind(t, err, apperr.KindNotFound)

	_, err = svc.MovieDetail(ctx, simple, 2)
	assertKind(t, err, apperr.KindForbidden)

	d, err := svc.MovieDetail(ctx, pro, 2)
	require.NoError(t, err)
	assert.Equal(t, "Ran", d.MovieName)
	assert.Equal(t, 7.5, d.AvgRating)

	list, err := svc.ListMovies(ctx, simple, url.Values{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestActorsPagination(t *testing.T) {
	ctx := context.Background()
	svc := catalogFixture()
	req := &model.User{ID: 1, Status: model.StatusSimple, IsActive: true}

	self, _ := url.Parse("http://localhost/actor?page=2")
	page, err := svc.Actors(ctx, req, self)
	require.NoError(t, err)
	assert.EqualValues(t, 25, page.Count)
	assert.Len(t, page.Results, 10)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Next, "page=3")

	self, _ = url.Parse("http://localhost/actor?page=4")
	_, err = svc.Actors(ctx, req, self)
	assertKind(t, err, apperr.KindNotFound)
}

func TestRatingRules(t *testing.T) {
	ctx := context.Background()
	events := &recordedEvents{}
	svc := NewRatingService(newMemRatings(1), events)
	alice := &model.User{ID: 1, FirstName: "Alice", IsActive: true}
	bob := &model.User{ID: 2, FirstName: "Bob", IsActive: true}
	movie := uint64(1)
	nine, eleven := 9, 11

	_, err := svc.Create(ctx, alice, RatingInput{Movie: &movie, Stars: &eleven})
	assertKind(t, err, apperr.KindValidation)

	top, err := svc.Create(ctx, alice, RatingInput{Movie: &movie, Stars: &nine})
	require.NoError(t, err)
	assert.Equal(t, "Alice", top.User.FirstName)

	_, err = svc.Create(ctx, alice, RatingInput{Movie: &movie, Stars: &nine})
	assertKind(t, err, apperr.KindForbidden)

	reply, err := svc.Create(ctx, alice, RatingInput{Movie: &movie, Parent: &top.ID})
	require.NoError(t, err)
	assert.Equal(t, &top.ID, reply.Parent)

	missing := uint64(77)
	_, err = svc.Create(ctx, bob, RatingInput{Movie: &missing, Stars: &nine})
	assertKind(t, err, apperr.KindValidation)

	_, err = svc.Update(ctx, bob, top.ID, RatingInput{Stars: &eleven}, true)
	assertKind(t, err, apperr.KindForbidden)
	assertKind(t, svc.Delete(ctx, bob, top.ID), apperr.KindForbidden)

	text := "on second thought"
	upd, err := svc.Update(ctx, alice, top.ID, RatingInput{Text: &text}, true)
	require.NoError(t, err)
	assert.Equal(t, &nine, upd.Stars)

	upd, err = svc.Update(ctx, alice, top.ID, RatingInput{Text: &text}, false)
	require.NoError(t, err)
	assert.Nil(t, upd.Stars)

	require.NoError(t, svc.Delete(ctx, alice, top.ID))
	require.Len(t, events.events, 3)
	assert.Equal(t, queue.RatingCreated, events.events[0].Type)
	assert.Equal(t, top.ID, events.events[0].RatingID)
	assert.Equal(t, queue.RatingDeleted, events.events[2].Type)
}

func TestConcurrentTopLevelRatings(t *testing.T) {
	ctx := context.Background()
	events := &recordedEvents{}
	svc := NewRatingService(newMemRatings(1), events)
	alice := &model.User{ID: 1, IsActive: true}
	movie := uint64(1)

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(stars int) {
			defer wg.Done()
			_, err := svc.Create(ctx, alice, RatingInput{Movie: &movie, Stars: &stars})
			errs <- err
		}(i%10 + 1)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assertKind(t, err, apperr.KindForbidden)
	}
	assert.Equal(t, 1, created)
	assert.Len(t, events.events, 1)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReplyDepthErrorIsValidation(t *testing.T) {
	svc := NewRatingService(tooDeep{newMemRatings(1)}, &recordedEvents{})
	movie, parent := uint64(1), uint64(3)
	_, err := svc.Create(context.Background(), &model.User{ID: 1, IsActive: true}, RatingInput{Movie: &movie, Parent: &parent})
	assertKind(t, err, apperr.KindValidation)
}

// tooDeep rejects every reply the way the repository does for long threads.
type tooDeep struct{ *memRatings }

func (d tooDeep) Create(ctx context.Context, rt *model.Rating) error {
	if rt.ParentID != nil {
		return repository.ErrThreadTooDeep
	}
	return d.memRatings.Create(ctx, rt)
}

func TestHistoryIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	events := &recordedEvents{}
	hist := &memHistory{
		movies:  map[uint64]model.Movie{5: {ID: 5, Name: "Alien"}},
		entries: map[uint64]model.History{},
	}
	svc := NewLibraryService(nil, nil, hist, fixedAverages(6), events)
	alice := &model.User{ID: 1, IsActive: true}
	bob := &model.User{ID: 2, IsActive: true}
	movie := uint64(5)

	entry, err := svc.RecordView(ctx, alice, &movie)
	require.NoError(t, err)
	assert.Equal(t, "Alien", entry.Movie.MovieName)
	assert.Equal(t, 6.0, entry.Movie.AvgRating)

	_, err = svc.HistoryEntry(ctx, bob, entry.ID)
	assertKind(t, err, apperr.KindNotFound)
	assertKind(t, svc.DeleteHistory(ctx, bob, entry.ID), apperr.KindNotFound)

	bobs, err := svc.History(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	unknown := uint64(9)
	_, err = svc.RecordView(ctx, alice, &unknown)
	assertKind(t, err, apperr.KindValidation)

	_, err = svc.RecordView(ctx, alice, nil)
	assertKind(t, err, apperr.KindValidation)

	require.Len(t, events.events, 1)
	assert.Equal(t, queue.MovieViewed, events.events[0].Type)
}

func TestProfileRules(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	id, err := users.Create(ctx, "neo", "neo@example.com", "redpill1", bcrypt.MinCost)
	require.NoError(t, err)
	me, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	svc := NewProfileService(users)

	list, err := svc.List(ctx, &me)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Get(ctx, &me, id+1)
	assertKind(t, err, apperr.KindNotFound)

	pro := model.StatusPro
	_, err = svc.Update(ctx, &me, id, ProfileInput{Status: &pro}, true)
	assertKind(t, err, apperr.KindForbidden)

	young := uint8(12)
	_, err = svc.Update(ctx, &me, id, ProfileInput{Age: &young}, true)
	assertKind(t, err, apperr.KindValidation)

	_, err = svc.Update(ctx, &me, id, ProfileInput{}, false)
	assertKind(t, err, apperr.KindValidation)

	name := "Thomas"
	p, err := svc.Update(ctx, &me, id, ProfileInput{FirstName: &name}, true)
	require.NoError(t, err)
	assert.Equal(t, "Thomas", p.FirstName)

	require.NoError(t, svc.Delete(ctx, &me, id))
	_, err = users.GetByID(ctx, id)
	assert.Error(t, err)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	auth, _ := newAuth()
	_, err := auth.Register(context.Background(), Credentials{
		Username: "trinity",
		Email:    "trinity@example.com",
		Password: strings.Repeat("p", 73),
	})
	assertKind(t, err, apperr.KindValidation)
}

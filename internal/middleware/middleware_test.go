package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

const secret = "middleware-secret"

func runJWT(t *testing.T, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/movie", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	err := JWTAuth(secret)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func TestJWTAuthStoresSubject(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, 5)
	require.NoError(t, err)

	c, err := runJWT(t, "Bearer "+tok.Token)
	require.NoError(t, err)
	id, ok := UserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
}

func TestJWTAuthRejects(t *testing.T) {
	other, err := utils.NewAccessToken("another-secret", 42, 5)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Token abc",
		"garbage":      "Bearer abc.def.ghi",
		"wrong secret": "Bearer " + other.Token,
	} {
		t.Run(name, func(t *testing.T) {
			c, err := runJWT(t, header)
			assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
			_, ok := UserID(c)
			assert.False(t, ok)
		})
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/genre", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/genre")

	cfg := config.RateLimitConfig{Prefix: "catalog:rl", KeyStrategy: "ip_user_route"}
	assert.Equal(t, "catalog:rl:ip:10.0.0.1:user:anon:route:GET /genre", rateKey(cfg, c))

	c.Set(UserIDKey, uint64(7))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "catalog:rl:user:7", rateKey(cfg, c))
}

func TestCacheKeyIncludesQueryAndParams(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "catalog:cache", KeyStrategy: "route_query"}
	key := func(target, id string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/genre/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
		return cacheKey(cfg, c)
	}
	assert.True(t, strings.HasPrefix(key("/genre/1", "1"), "catalog:cache:"))
	assert.Equal(t, key("/genre/1", "1"), key("/genre/1", "1"))
	assert.NotEqual(t, key("/genre/1", "1"), key("/genre/2", "2"))
	assert.NotEqual(t, key("/genre/1?a=1", "1"), key("/genre/1?a=2", "1"))
}

func TestCacheEntryCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodeEntry(http.StatusOK, hdr, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, got, body, ok := decodeEntry(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodeEntry(bs[:5])
	assert.False(t, ok)
}

func TestCaptureWriterStopsAtLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.Use(NewRedisCache(config.CacheConfig{Enabled: true}, nil, log))
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log))
	e.GET("/genre", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/genre", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRequestLoggerFields(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/movie/:id", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderXRequestID, "req-1")
		c.Set(UserIDKey, uint64(3))
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movie/9", &bytes.Buffer{}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, "/movie/:id", entry.Data["path"])
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, uint64(3), entry.Data["user_id"])
}

func TestAsInt64(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want int64
	}{
		{int64(7), 7},
		{int(7), 7},
		{int32(7), 7},
		{float64(7.9), 7},
		{float32(7), 7},
		{"42", 42},
		{"4x", 0},
		{nil, 0},
		{[]byte("1"), 0},
	} {
		assert.Equal(t, tc.want, asInt64(tc.in), "%#v", tc.in)
	}
}

package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestOptionalDefaults(t *testing.T) {
	var cfg Config
	loadOptional(&cfg)
	assert.Equal(t, 10, cfg.ActorPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "catalog.activity", cfg.Events.Queue)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "logs", cfg.Events.LogDir)
}

func TestOptionalOverridesAndClamps(t *testing.T) {
	t.Setenv("ACTOR_PAGE_SIZE", "25")
	t.Setenv("MAX_PAGE_SIZE", "5")
	t.Setenv("REQUEST_TIMEOUT", "bogus")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("EVENTS_BUFFER", "0")
	t.Setenv("RABBITMQ_URL", "amqp://mq:5672/")

	var cfg Config
	loadOptional(&cfg)
	assert.Equal(t, 25, cfg.ActorPageSize)
	assert.Equal(t, 25, cfg.MaxPageSize)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, 1, cfg.Events.Buffer)
	assert.Equal(t, "amqp://mq:5672/", cfg.Events.URL)
}

func TestNewLogger(t *testing.T) {
	log := Config{LogLevel: "debug", LogFormat: "text"}.NewLogger()
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = Config{LogLevel: "loud"}.NewLogger()
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, "catalog:cache", cfg.Prefix)
}

func TestRedisAddrFromHostPort(t *testing.T) {
	t.Setenv("REDIS_ADDR", "ignored:1")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_TLS", "1")
	cfg := LoadRedisConfig()
	assert.Equal(t, "cache:6380", cfg.Addr)
	assert.True(t, cfg.TLS)
}

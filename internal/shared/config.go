package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"listing_console/internal/domain"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	RedisPrefix string

	ListingBase string
	ListingKey  string
	ListingRPS  int

	UploadBase    string
	UploadTimeout time.Duration

	Workers           int
	IngestKinds       []domain.MasterKind
	CacheTTL          time.Duration
	SessionIdle       time.Duration
	UploadConcurrency int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/listing?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPrefix: env("REDIS_PREFIX", "listing:"),

		ListingBase: env("LISTING_API_BASE_URL", "http://localhost:3000/api"),
		ListingKey:  env("LISTING_API_KEY", ""),
		ListingRPS:  atoi("LISTING_API_RPS", 5),

		UploadBase:    env("UPLOAD_BASE_URL", "http://localhost:3000/api"),
		UploadTimeout: time.Duration(atoi("UPLOAD_TIMEOUT_SECONDS", 60)) * time.Second,

		Workers:           atoi("INGEST_WORKERS", 4),
		IngestKinds:       kinds(env("INGEST_KINDS", "")),
		CacheTTL:          time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionIdle:       time.Duration(atoi("SESSION_IDLE_SECONDS", 3600)) * time.Second,
		UploadConcurrency: atoi("UPLOAD_CONCURRENCY", 4),
	}
	if c.ListingKey == "" {
		log.Warn().Msg("LISTING_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// kinds parses a comma list of master kinds; empty means all of them.
func kinds(s string) []domain.MasterKind {
	if strings.TrimSpace(s) == "" {
		return domain.AllMasterKinds()
	}
	var out []domain.MasterKind
	for _, part := range strings.Split(s, ",") {
		k, ok := domain.ParseMasterKind(strings.TrimSpace(part))
		if !ok {
			log.Warn().Str("kind", part).Msg("unknown master kind in INGEST_KINDS, skipped")
			continue
		}
		out = append(out, k)
	}
	return out
}

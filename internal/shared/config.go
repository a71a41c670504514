package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	Storage         string // mysql | memory
	MySQLDSN        string
	MigrateOnStart  bool
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	SessionSecret   string
	SessionTTL      time.Duration
	LoginRPS        float64
	LoginBurst      int
	CountriesBase   string
	CountriesRPS    int
	UndoMaxAge      time.Duration
	DedupeWorkers   int
	GlobalAdminMail string
	GlobalAdminPass string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		Storage:         env("STORAGE", "mysql"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/travel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		MigrateOnStart:  env("MIGRATE_ON_START", "true") == "true",
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SessionSecret:   env("SESSION_SECRET", ""),
		SessionTTL:      time.Duration(atoi("SESSION_TTL_MINUTES", 720)) * time.Minute,
		LoginRPS:        atof("LOGIN_RPS", 1),
		LoginBurst:      atoi("LOGIN_BURST", 5),
		CountriesBase:   env("COUNTRIES_BASE_URL", ""),
		CountriesRPS:    atoi("COUNTRIES_RPS", 5),
		UndoMaxAge:      time.Duration(atoi("UNDO_MAX_AGE_MINUTES", 60)) * time.Minute,
		DedupeWorkers:   atoi("DEDUPE_WORKERS", 4),
		GlobalAdminMail: env("GLOBAL_ADMIN_EMAIL", "admin@travelea.local"),
		GlobalAdminPass: env("GLOBAL_ADMIN_PASSWORD", ""),
	}
	if c.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is empty; using an insecure development secret")
		c.SessionSecret = "dev-insecure-secret"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

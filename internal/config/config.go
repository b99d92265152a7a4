package config

import (
	"time"

	pkgconfig "github.com/Sarobii/microme/pkg/config"
)

// Config holds service configuration loaded from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Load reads configuration from the environment. DATABASE_URL and JWT_SECRET
// are required; everything else has a default.
func Load() *Config {
	return &Config{
		Port:            pkgconfig.GetEnv("PORT", "18030"),
		DatabaseURL:     pkgconfig.RequireEnv("DATABASE_URL"),
		JWTSecret:       pkgconfig.RequireEnv("JWT_SECRET"),
		CacheTTL:        time.Duration(pkgconfig.GetEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		CacheMaxEntries: pkgconfig.GetEnvInt("CACHE_MAX_ENTRIES", 1024),
	}
}

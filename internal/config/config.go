package config

import (
	"os"
	"strconv"
	"time"
)

// ReserveFraction is the share of a bid amount a bidder must hold as
// available balance before the bid is accepted.
const ReserveFraction = 0.20

type Config struct {
	Env           string
	Port          string
	DatabasePath  string
	JWTSecret     string
	SweepInterval time.Duration
}

func Load() *Config {
	return &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "auction.db"),
		JWTSecret:     getEnv("JWT_SECRET", "auction-secret-key"),
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 30)) * time.Second,
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

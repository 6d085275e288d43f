package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers accepted by storage.driver.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path" env:"SQLITE_PATH"`
	} `yaml:"sqlite"`
	Catalog struct {
		Seed     int64  `yaml:"seed" env:"CATALOG_SEED"`
		Language string `yaml:"language" env:"CATALOG_LANGUAGE"`
		TTL      string `yaml:"ttl" env:"CATALOG_TTL"`
	} `yaml:"catalog"`
	Game struct {
		LoadingDelay      string `yaml:"loadingDelay" env:"GAME_LOADING_DELAY"`
		NextQuestionDelay string `yaml:"nextQuestionDelay" env:"GAME_NEXT_QUESTION_DELAY"`
		ResultsDelay      string `yaml:"resultsDelay" env:"GAME_RESULTS_DELAY"`
		LeaderboardSize   int    `yaml:"leaderboardSize" env:"GAME_LEADERBOARD_SIZE"`
	} `yaml:"game"`
	AR struct {
		PlacementRadius float64 `yaml:"placementRadius" env:"AR_PLACEMENT_RADIUS"`
		LineSpacing     float64 `yaml:"lineSpacing" env:"AR_LINE_SPACING"`
		AnchorOffsetY   float64 `yaml:"anchorOffsetY" env:"AR_ANCHOR_OFFSET_Y"`
		AnchorOffsetZ   float64 `yaml:"anchorOffsetZ" env:"AR_ANCHOR_OFFSET_Z"`
	} `yaml:"ar"`
}

// Load reads YAML config from path, then applies environment overrides.
// A missing file is not an error; the environment alone can configure the service.
func Load(path string) (Config, error) {
	cfg := Config{}
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	switch cfg.Storage.Driver {
	case DriverMemory, DriverRedis, DriverPostgres, DriverSQLite:
	default:
		return cfg, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// FloatOr returns v, or fallback when v is unset.
func FloatOr(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

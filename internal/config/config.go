package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the service and its tools.
// Values come from, in increasing precedence: defaults, an optional YAML file,
// and environment variables (including a local .env file).
type Config struct {
	Port             string        `yaml:"port"`
	DBPath           string        `yaml:"db_path"`
	SeedPath         string        `yaml:"seed_path"`
	DatabaseURL      string        `yaml:"database_url"`
	RedisURL         string        `yaml:"redis_url"`
	CacheBackend     string        `yaml:"cache_backend"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	DefaultAlgorithm string        `yaml:"default_algorithm"`
	RateLimitRPS     float64       `yaml:"rate_limit_rps"`
	RateLimitBurst   int           `yaml:"rate_limit_burst"`
	MaxNodes         int           `yaml:"max_nodes"`
}

func Defaults() Config {
	return Config{
		Port:             "8080",
		DBPath:           "data/app.db",
		SeedPath:         "data/problems",
		CacheBackend:     "sqlite",
		CacheTTL:         24 * time.Hour,
		DefaultAlgorithm: "savings",
		RateLimitRPS:     20,
		RateLimitBurst:   40,
		MaxNodes:         2000,
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load builds the configuration. path names an optional YAML file; when empty
// CONFIG_FILE is consulted. A missing .env file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load config: file %q does not exist", path)
		}
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DBPath = Get("DB_PATH", cfg.DBPath)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = Get("REDIS_URL", cfg.RedisURL)
	cfg.CacheBackend = strings.ToLower(Get("CACHE_BACKEND", cfg.CacheBackend))
	cfg.DefaultAlgorithm = Get("DEFAULT_ALGORITHM", cfg.DefaultAlgorithm)

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("load config: CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("load config: RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimitRPS = f
	}

	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("load config: RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = n
	}

	if v := os.Getenv("MAX_NODES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("load config: MAX_NODES: %w", err)
		}
		cfg.MaxNodes = n
	}

	return nil
}

// Validate rejects settings the commands cannot run with.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case "none", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("config: cache_backend=postgres requires DATABASE_URL")
		}
	case "redis":
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("config: cache_backend=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("config: unknown cache_backend %q", c.CacheBackend)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("config: cache_ttl must be non-negative, got %s", c.CacheTTL)
	}

	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("config: rate limit settings must be non-negative")
	}

	if c.MaxNodes < 0 {
		return fmt.Errorf("config: max_nodes must be non-negative, got %d", c.MaxNodes)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig enables the shared search-cache mirror when Address is set.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type CatalogConfig struct {
	// RefreshInterval is how old the search snapshot may get before the next
	// read reloads it.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	RedisKey        string        `yaml:"redis_key"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":3030"},
		Catalog: CatalogConfig{RefreshInterval: 10 * time.Minute, RedisKey: "nutrition:catalog:search"},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads .env (if present), then the YAML file at configPath (if present)
// with ${VAR} references expanded, then applies DB_URL, PORT and REDIS_ADDR
// from the environment on top.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	applyEnv(&cfg)

	if cfg.Database.URL == "" {
		return nil, errors.New("database url is required (database.url or DB_URL)")
	}
	if cfg.Catalog.RefreshInterval <= 0 {
		return nil, fmt.Errorf("catalog.refresh_interval must be positive, got %s", cfg.Catalog.RefreshInterval)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.Server.Addr = ":" + v
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Address = v
	}
}

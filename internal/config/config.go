package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL     string `yaml:"database_url"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	BlobDir         string `yaml:"blob_dir"`
	AuthSecret      string `yaml:"auth_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	CartSlot        string `yaml:"cart_slot"`
}

// Load builds the configuration from an optional YAML file named by
// INVENTARIO_CONFIG, with environment variables taking precedence over file
// values.
func Load() Config {
	cfg := Config{
		TokenTTLMinutes: 480,
	}

	if path := os.Getenv("INVENTARIO_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "config: ignoring %s: %v\n", path, err)
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.BlobDir = getEnv("BLOB_DIR", cfg.BlobDir)
	cfg.AuthSecret = strings.TrimSpace(getEnv("AUTH_SECRET", cfg.AuthSecret))
	cfg.CartSlot = getEnv("CART_SLOT", cfg.CartSlot)

	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl >= 1 {
			cfg.TokenTTLMinutes = ttl
		}
	}
	if cfg.TokenTTLMinutes < 1 {
		cfg.TokenTTLMinutes = 480
	}

	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

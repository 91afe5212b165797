package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends selectable at startup.
const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendMongo  = "mongo"
)

// Config defines server configuration. Environment variables provide the
// defaults; an optional yaml file named by ERJ_CONFIG overlays them.
type Config struct {
	HTTPAddr        string `yaml:"http_addr"`
	StorageBackend  string `yaml:"storage_backend"`
	StorageRoot     string `yaml:"storage_root"`
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	DatabaseURL     string `yaml:"database_url"`
	JWTSecret       string `yaml:"jwt_secret"`
	DefaultCountry  string `yaml:"default_country"`
	DefaultOperator string `yaml:"default_operator"`
}

// Load builds configuration from env plus the optional yaml overlay.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		StorageBackend:  getenvDefault("ERJ_STORAGE_BACKEND", BackendLocal),
		StorageRoot:     getenvDefault("ERJ_STORAGE_ROOT", filepath.FromSlash("var/data/erj")),
		MongoURI:        os.Getenv("ERJ_MONGO_URI"),
		MongoDatabase:   getenvDefault("ERJ_MONGO_DATABASE", "erj"),
		DatabaseURL:     getenvDefault("DATABASE_URL", os.Getenv("PG_DSN")),
		JWTSecret:       getenvDefault("AUTH_JWT_SECRET", os.Getenv("JWT_SECRET")),
		DefaultCountry:  getenvDefault("ERJ_DEFAULT_COUNTRY", "51"),
		DefaultOperator: getenvDefault("ERJ_DEFAULT_OPERATOR", "PL-RJ"),
	}

	if path := os.Getenv("ERJ_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendLocal, BackendMongo:
	default:
		return cfg, fmt.Errorf("config: unknown storage backend %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == BackendLocal && cfg.StorageRoot == "" {
		return cfg, errors.New("config: storage root required for local backend")
	}
	if cfg.StorageBackend == BackendMongo && cfg.MongoURI == "" {
		return cfg, errors.New("config: mongo uri required for mongo backend")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("config: AUTH_JWT_SECRET is required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

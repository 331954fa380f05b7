package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Tutor       TutorConfig               `json:"tutor"`
	Redis       RedisConfig               `json:"redis"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

// TutorConfig selects which configured provider backs text generation.
type TutorConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// RedisConfig is optional; an empty Host disables the conversation cache.
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Resolve file-based sqlite paths against the config directory.
	if sqlite, ok := cfg.Databases["sqlite3"]; ok {
		if sqlite.DSN != "" && sqlite.DSN != ":memory:" && !filepath.IsAbs(sqlite.DSN) {
			sqlite.DSN = filepath.Join(filepath.Dir(absPath), sqlite.DSN)
			cfg.Databases["sqlite3"] = sqlite
		}
	}

	return &cfg, nil
}

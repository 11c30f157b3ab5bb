package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Zendesk ZendeskConfig `yaml:"zendesk"`
	Server  ServerConfig  `yaml:"server"`
	Cursor  CursorConfig  `yaml:"cursor"`
	KB      KBConfig      `yaml:"kb"`
	Log     LogConfig     `yaml:"log"`
}

// ZendeskConfig holds the upstream account credentials.
type ZendeskConfig struct {
	Subdomain string `yaml:"subdomain"`
	Email     string `yaml:"email"`
	Token     string `yaml:"token"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CursorConfig configures the incremental cursor store. An empty path
// disables persistence; incremental calls then always start from the
// caller's start_time.
type CursorConfig struct {
	Path string `yaml:"path"`
}

type KBConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("HELPDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if subdomain := os.Getenv("HELPDESK_ZENDESK_SUBDOMAIN"); subdomain != "" {
		cfg.Zendesk.Subdomain = subdomain
	}
	if email := os.Getenv("HELPDESK_ZENDESK_EMAIL"); email != "" {
		cfg.Zendesk.Email = email
	}
	if token := os.Getenv("HELPDESK_ZENDESK_TOKEN"); token != "" {
		cfg.Zendesk.Token = token
	}
	if host := os.Getenv("HELPDESK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("HELPDESK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HELPDESK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if cursorPath := os.Getenv("HELPDESK_CURSOR_DB_PATH"); cursorPath != "" {
		cfg.Cursor.Path = cursorPath
	}
	if ttlStr := os.Getenv("HELPDESK_KB_CACHE_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HELPDESK_KB_CACHE_TTL: %w", err)
		}
		cfg.KB.CacheTTL = ttl
	}
	if level := os.Getenv("HELPDESK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Zendesk.Subdomain == "" {
		return Config{}, fmt.Errorf("zendesk subdomain is required (HELPDESK_ZENDESK_SUBDOMAIN)")
	}
	if cfg.Zendesk.Email == "" {
		return Config{}, fmt.Errorf("zendesk email is required (HELPDESK_ZENDESK_EMAIL)")
	}
	if cfg.Zendesk.Token == "" {
		return Config{}, fmt.Errorf("zendesk api token is required (HELPDESK_ZENDESK_TOKEN)")
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

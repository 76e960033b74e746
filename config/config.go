package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverSQLite = "sqlite"
)

type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage StorageConfig

	// Log configuration
	Log LogConfig

	// Feishu change notifications
	Feishu FeishuConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER" envDefault:"memory"`               // memory or sqlite
	SQLitePath string `env:"STORAGE_SQLITE_PATH" envDefault:"./data/commands.db"` // file path or :memory:
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"` // console or json
}

type FeishuConfig struct {
	AppID        string `env:"FEISHU_APP_ID"`
	AppSecret    string `env:"FEISHU_APP_SECRET"`
	NotifyChatID string `env:"FEISHU_NOTIFY_CHAT_ID"` // chat receiving change notifications
}

// Enabled reports whether Feishu notifications are configured.
func (c FeishuConfig) Enabled() bool {
	return c.AppID != ""
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file before reading config
	if err := LoadDefaultEnvFile(); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	return ParseConfig()
}

// ParseConfig parses the current environment without touching .env files.
func ParseConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, &ConfigError{Field: "env", Message: err.Error()}
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	return cfg, nil
}

// IsValid checks if the configuration is valid
func (c *Config) IsValid() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return &ConfigError{Field: "server", Message: "port is required"}
	}
	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return &ConfigError{Field: "storage", Message: "sqlite path is required for the sqlite driver"}
		}
	default:
		return &ConfigError{Field: "storage", Message: "unknown storage driver: " + c.Storage.Driver}
	}
	if c.Feishu.Enabled() {
		if c.Feishu.AppSecret == "" {
			return &ConfigError{Field: "feishu", Message: "Feishu AppSecret is required when AppID is set"}
		}
		if c.Feishu.NotifyChatID == "" {
			return &ConfigError{Field: "feishu", Message: "Feishu notify chat id is required when AppID is set"}
		}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

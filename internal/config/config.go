package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// ErrInvalidConfig indicates a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	DB        DBConfig        `yaml:"db" json:"db"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Transport TransportConfig `yaml:"transport" json:"transport"`
}

type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type DBConfig struct {
	Path string `yaml:"path" json:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Path   string `yaml:"path" json:"path"`
}

// SlogLevel converts Level to a slog level. Unknown names map to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler returns a text or JSON slog handler writing to w.
func (c LogConfig) NewHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

type TransportConfig struct {
	Mode string `yaml:"mode" json:"mode"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "taskflow.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
	}
}

// Load reads configuration from an optional YAML or JSONC file and
// environment variables, then validates it.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TASKFLOW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TASKFLOW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TASKFLOW_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TASKFLOW_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TASKFLOW_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TASKFLOW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("TASKFLOW_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	if path := os.Getenv("TASKFLOW_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if mode := os.Getenv("TASKFLOW_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown modes and formats and out-of-range ports.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("%w: transport mode %q", ErrInvalidConfig, c.Transport.Mode)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("%w: empty db path", ErrInvalidConfig)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	}
	return nil
}

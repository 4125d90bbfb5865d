package config

import (
	"fmt"
	"log/slog"
	"time"

	"ctchen222/chess-room/internal/validator"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"CHESS_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	HTTP      HTTP      `yaml:"http"`
	Room      Room      `yaml:"room"`
	Redis     Redis     `yaml:"redis"`
	Archive   Archive   `yaml:"archive"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"CHESS_HTTP_ADDR" env-default:":8080" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"CHESS_HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Room struct {
	ID        string        `yaml:"id" env:"CHESS_ROOM_ID" env-default:"chess_room" validate:"required"`
	Heartbeat time.Duration `yaml:"heartbeat" env:"CHESS_ROOM_HEARTBEAT" env-default:"10s" validate:"gte=0"`
}

// Redis configures the event mirror. An empty Addr disables it.
type Redis struct {
	Addr          string `yaml:"addr" env:"CHESS_REDIS_ADDR"`
	ChannelPrefix string `yaml:"channel-prefix" env:"CHESS_REDIS_CHANNEL_PREFIX" env-default:"channel:room:"`
}

// Archive configures the finished game archive. An empty Path disables it.
type Archive struct {
	Path string `yaml:"path" env:"CHESS_ARCHIVE_PATH"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"CHESS_TELEMETRY_ENABLED" env-default:"false"`
	Endpoint    string `yaml:"endpoint" env:"CHESS_TELEMETRY_ENDPOINT" env-default:"otel-collector:4317" validate:"required_if=Enabled true"`
	ServiceName string `yaml:"service-name" env:"CHESS_TELEMETRY_SERVICE_NAME" env-default:"chess-room"`
	Stdout      bool   `yaml:"stdout" env:"CHESS_TELEMETRY_STDOUT" env-default:"false"`
}

// Load reads the configuration from the yml file at path, with environment
// variables taking precedence. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}

	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SlogLevel returns LogLevel as a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Usage describes every environment variable the configuration reads.
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}

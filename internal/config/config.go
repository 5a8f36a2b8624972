package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the variable that points at the config file.
const PathEnv = "TTT_CONFIG"

const defaultPath = "config.yml"

const (
	ModeServer  = "server"
	ModeConsole = "console"

	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	Mode       string        `yaml:"mode" env:"TTT_MODE" env-default:"server"`
	LogLevel   string        `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"TTT_HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"TTT_SOCKET_PORT" env-default:"9091"`
	Storage    string        `yaml:"storage" env:"TTT_STORAGE" env-default:"memory"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"TTT_SESSION_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis"`
	Janitor    Janitor       `yaml:"janitor"`
}

type Redis struct {
	Host     string `yaml:"host" env:"TTT_REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"TTT_REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"TTT_REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"TTT_REDIS_DB" env-default:"0"`
}

type Janitor struct {
	Schedule string `yaml:"schedule" env:"TTT_JANITOR_SCHEDULE" env-default:"@every 10m"`
}

// Path - the config file from TTT_CONFIG, or config.yml in the working directory.
func Path() string {
	if path := os.Getenv(PathEnv); path != "" {
		return path
	}

	return defaultPath
}

// Load - reads the yaml file at path, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Level - log-level as a slog level. Load has already rejected unknown names.
func (that *Config) Level() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(that.LogLevel))

	return level
}

func (that *Config) validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return fmt.Errorf("unknown log-level %q", that.LogLevel)
	}

	switch that.Mode {
	case ModeServer, ModeConsole:
	default:
		return fmt.Errorf("unknown mode %q", that.Mode)
	}

	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage %q", that.Storage)
	}

	if that.SessionTTL <= 0 {
		return fmt.Errorf("session-ttl must be positive, got %s", that.SessionTTL)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

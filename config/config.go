package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN renders the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name,
	)
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

// UserConfig identifies the account this instance serves. The engine has
// no implicit session globals; the profile seeded from here is passed
// into the store explicitly.
type UserConfig struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type EngineConfig struct {
	// ReminderPollInterval is how often the reminder poller wakes up.
	// It should stay under a minute so no reminder minute is skipped.
	ReminderPollInterval time.Duration `yaml:"reminder_poll_interval"`
	// PersistTimeout bounds each backend persistence call. The 5s
	// default is a policy choice, not a backend requirement.
	PersistTimeout time.Duration `yaml:"persist_timeout"`
	// SnapshotInterval is how often the habit snapshot is written to the
	// cache for the view layer.
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	// EventBuffer sizes the store's event channel.
	EventBuffer int `yaml:"event_buffer"`
}

type Config struct {
	DB     DBConfig     `yaml:"db"`
	MQ     MQConfig     `yaml:"mq"`
	Redis  RedisConfig  `yaml:"redis"`
	Server ServerConfig `yaml:"server"`
	User   UserConfig   `yaml:"user"`
	Engine EngineConfig `yaml:"engine"`
}

// Load reads config.yaml (path overridable via CONFIG_FILE), applies
// environment overrides and fills defaults.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Server.Env = env
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "local"
	}
	if cfg.Engine.ReminderPollInterval <= 0 {
		cfg.Engine.ReminderPollInterval = 20 * time.Second
	}
	if cfg.Engine.PersistTimeout <= 0 {
		cfg.Engine.PersistTimeout = 5 * time.Second
	}
	if cfg.Engine.SnapshotInterval <= 0 {
		cfg.Engine.SnapshotInterval = 30 * time.Second
	}
	if cfg.Engine.EventBuffer <= 0 {
		cfg.Engine.EventBuffer = 128
	}
}

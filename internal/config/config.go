package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Web     ServerConfig  `mapstructure:"web"`
	Backend BackendConfig `mapstructure:"backend"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type AppConfig struct {
	// Name prefixes the alert headers, e.g. X-ebayklonApp-alert.
	Name string `mapstructure:"name"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// BackendConfig tells the web client where the REST backend lives.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	AppName string        `mapstructure:"-"`
}

type StorageConfig struct {
	Driver          string        `mapstructure:"driver"` // memory, postgres or mysql
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Seed            bool          `mapstructure:"seed"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

var envBindings = map[string]string{
	"app.name":                  "APP_NAME",
	"log.level":                 "LOG_LEVEL",
	"server.port":               "SERVER_PORT",
	"server.host":               "SERVER_HOST",
	"web.port":                  "WEB_PORT",
	"web.host":                  "WEB_HOST",
	"backend.base_url":          "BACKEND_URL",
	"backend.timeout":           "BACKEND_TIMEOUT",
	"storage.driver":            "STORAGE_DRIVER",
	"storage.dsn":               "STORAGE_DSN",
	"storage.max_open_conns":    "STORAGE_MAX_OPEN_CONNS",
	"storage.max_idle_conns":    "STORAGE_MAX_IDLE_CONNS",
	"storage.conn_max_lifetime": "STORAGE_CONN_MAX_LIFETIME",
	"storage.seed":              "STORAGE_SEED",
	"redis.enabled":             "REDIS_ENABLED",
	"redis.address":             "REDIS_ADDRESS",
	"redis.password":            "REDIS_PASSWORD",
	"redis.db":                  "REDIS_DB",
	"redis.channel":             "REDIS_CHANNEL",
}

func newViper() *viper.Viper {
	v := viper.New()

	// Set default values
	v.SetDefault("app.name", "ebayklonApp")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("web.port", 9000)
	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.max_open_conns", 25)
	v.SetDefault("storage.max_idle_conns", 10)
	v.SetDefault("storage.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("storage.seed", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "ebayklon_entity_events")

	// Environment variable support
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

// Load reads configuration from defaults, an optional config.yaml and the
// environment. A .env file in the working directory is loaded first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()

	// Configuration file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ebayklon/")

	// Read configuration file (optional - will use defaults/env vars if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	config.Storage.Driver = strings.ToLower(config.Storage.Driver)
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")
	config.Backend.AppName = config.App.Name

	switch config.Storage.Driver {
	case "memory", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("config: unsupported storage driver %q", config.Storage.Driver)
	}
	if config.Storage.Driver != "memory" && config.Storage.DSN == "" {
		return nil, fmt.Errorf("config: storage driver %q requires storage.dsn", config.Storage.Driver)
	}
	return &config, nil
}

// GetConfigString returns a formatted string representation of the config
func (c *Config) GetConfigString() string {
	return fmt.Sprintf(
		"App: %s, Server: %s:%d, Web: %s:%d, Backend: %s, Storage: %s, Redis: %t (%s)",
		c.App.Name,
		c.Server.Host,
		c.Server.Port,
		c.Web.Host,
		c.Web.Port,
		c.Backend.BaseURL,
		c.Storage.Driver,
		c.Redis.Enabled,
		c.Redis.Address,
	)
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

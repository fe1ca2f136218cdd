package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SCANPAGE_SERVER_PORT.
const EnvPrefix = "SCANPAGE"

// Config represents the configuration implementation.
type Config struct {
	AppName  string       `validate:"required"`
	RunMode  string       `validate:"omitempty,oneof=debug release test"`
	Host     string
	Port     int          `validate:"gte=0,lte=65535"`
	Logger   *Logger      `validate:"required"`
	Paging   *Paging      `validate:"required"`
	Store    *Store       `validate:"required"`
	Seed     *Seed        `validate:"required"`
	Observes *Observes    `validate:"required"`
	Viper    *viper.Viper `validate:"-"`
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig loads the configuration from the file. An empty path searches
// the default locations; a missing file there is not an error and yields
// the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/scanpage")
		v.AddConfigPath("$HOME/.scanpage")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	seed, err := getSeedConfig(v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		AppName:  v.GetString("app_name"),
		RunMode:  v.GetString("run_mode"),
		Host:     v.GetString("server.host"),
		Port:     v.GetInt("server.port"),
		Logger:   getLoggerConfig(v),
		Paging:   getPagingConfig(v),
		Store:    getStoreConfig(v),
		Seed:     seed,
		Observes: getObservesConfig(v),
		Viper:    v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "scanpage")
	v.SetDefault("run_mode", "release")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 0)

	v.SetDefault("logger.level", 4)
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.output_file", "")

	v.SetDefault("paging.default_limit", 5)
	v.SetDefault("paging.max_limit", 100)

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.source", "")
	v.SetDefault("store.max_open_conns", 0)
	v.SetDefault("store.redis.addr", "")
	v.SetDefault("store.redis.username", "")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key_prefix", "scanpage")
	v.SetDefault("store.mongo.database", "scanpage")
	v.SetDefault("store.mongo.collection", "projects")

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.count", 999)
	v.SetDefault("seed.start", "2020-07-13T17:35:00Z")
	v.SetDefault("seed.tie_every", 10)

	v.SetDefault("observes.tracer.endpoint", "")
	v.SetDefault("observes.tracer.sampling_rate", 1.0)
	v.SetDefault("observes.sentry.dsn", "")
	v.SetDefault("observes.sentry.environment", "")
	v.SetDefault("observes.sentry.sample_rate", 1.0)
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Server   ServerConfig   `mapstructure:"server"`
	Field    FieldConfig    `mapstructure:"field"`
	Importer ImporterConfig `mapstructure:"importer"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Workers  WorkersConfig  `mapstructure:"workers"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// FieldConfig holds presentation defaults of the profile field
type FieldConfig struct {
	DefaultMaxLevels int    `mapstructure:"default_max_levels"`
	LabelBudget      int    `mapstructure:"label_budget"`
	Placeholder      string `mapstructure:"placeholder"`
	DisplayMode      string `mapstructure:"display_mode"`
}

// ImporterConfig holds settings of the remote tree importer
type ImporterConfig struct {
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	UserAgent            string `mapstructure:"user_agent"`
}

// DatabaseConfig holds database configuration. Driver "memory" keeps
// everything in process, which is what tests and local runs use.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN builds the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
	CacheTTL      int    `mapstructure:"cache_ttl"`
}

// WorkersConfig holds repair worker settings
type WorkersConfig struct {
	Count int `mapstructure:"count"`
}

// Load loads configuration from YAML file with environment variable overrides.
// A missing config file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)

	v.SetDefault("field.default_max_levels", 3)
	v.SetDefault("field.label_budget", 7)
	v.SetDefault("field.placeholder", "Choose %s...")
	v.SetDefault("field.display_mode", "leaf")

	v.SetDefault("importer.timeout", 30)
	v.SetDefault("importer.max_retries", 3)
	v.SetDefault("importer.max_requests_per_second", 5)
	v.SetDefault("importer.user_agent", "hierarchicalmenu-importer/1.0")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "moodle")
	v.SetDefault("database.user", "moodle_user")
	v.SetDefault("database.password", "moodle_pass")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "hierarchicalmenu_repair")
	v.SetDefault("redis.min_idle_time", 120)
	v.SetDefault("redis.cache_ttl", 3600)

	v.SetDefault("workers.count", 2)
}

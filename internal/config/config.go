package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/spam-classifier/")
	v.AddConfigPath("$HOME/.spam-classifier")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("SPAM_FILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit config file
func NewFromFile(path string) (*Config, error) {
	v := NewEmptyViper()
	v.SetConfigFile(path)

	v.AutomaticEnv()
	v.SetEnvPrefix("SPAM_FILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.body_limit", 16*1024*1024)

	// Model store defaults
	v.SetDefault("model.store", "file")
	v.SetDefault("model.path", "data/model.zip")
	v.SetDefault("model.name", "spam")
	v.SetDefault("model.sqlite_path", "data/models.db")
	v.SetDefault("model.mysql_dsn", "user:password@tcp(localhost:3306)/spam_classifier")
	v.SetDefault("model.redis_addr", "localhost:6379")
	v.SetDefault("model.redis_db", 0)
	v.SetDefault("model.redis_key", "spam-classifier:model")

	// Dataset defaults
	v.SetDefault("dataset.path", "data/spam.tsv")

	// Training defaults
	v.SetDefault("training.test_fraction", 0.2)
	v.SetDefault("training.seed", 1)
	v.SetDefault("training.folds", 5)
	v.SetDefault("training.cross_validation", true)
	v.SetDefault("training.hash_bits", 16)
	v.SetDefault("training.l2", 0.0001)
	v.SetDefault("training.max_iterations", 200)

	// Batch defaults
	v.SetDefault("batch.concurrency", 0)
	v.SetDefault("batch.isolate_failures", false)

	// Gmail defaults
	v.SetDefault("gmail.user", "me")
	v.SetDefault("gmail.max_results", 50)
	v.SetDefault("gmail.query", "")
	v.SetDefault("gmail.access_token", "")

	// SMTP intake defaults
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.listen_address", "127.0.0.1:10025")
	v.SetDefault("smtp.domain", "localhost")
	v.SetDefault("smtp.reject_spam", false)
	v.SetDefault("smtp.forward_address", "")
	v.SetDefault("smtp.max_message_bytes", 10*1024*1024)
	v.SetDefault("smtp.status_header", "X-Spam-Status")
	v.SetDefault("smtp.score_header", "X-Spam-Score")
	v.SetDefault("smtp.trusted_domains", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// Set overrides a configuration value
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}

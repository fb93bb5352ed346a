// Package config loads unitbook configuration from the environment. A .env
// file in the working directory is honored when present, then UNITBOOK_*
// environment variables override the defaults.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/unitbook/unitbook/pkg/errors"
)

// Defaults matching the production property database.
const (
	DefaultDatabase   = "property_db"
	DefaultCollection = "properties"
)

// Config holds the runtime configuration.
type Config struct {
	// MongoURI is the connection string for the record store. Required for
	// anything but a dry run.
	MongoURI string

	// Database and Collection locate the unit records.
	Database   string
	Collection string

	// AliasFile optionally points at a YAML header-alias overlay.
	AliasFile string

	// LogLevel and LogFormat tune the logger ("debug", "json", ...).
	LogLevel  string
	LogFormat string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("UNITBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mongo.database", DefaultDatabase)
	v.SetDefault("mongo.collection", DefaultCollection)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	cfg := &Config{
		MongoURI:   v.GetString("mongo.uri"),
		Database:   v.GetString("mongo.database"),
		Collection: v.GetString("mongo.collection"),
		AliasFile:  v.GetString("aliases"),
		LogLevel:   v.GetString("log.level"),
		LogFormat:  v.GetString("log.format"),
	}
	return cfg, nil
}

// RequireMongo validates that a store connection is configured.
func (c *Config) RequireMongo() error {
	if c.MongoURI == "" {
		return errors.NewConfigError("mongo", "UNITBOOK_MONGO_URI is not set", nil)
	}
	return nil
}

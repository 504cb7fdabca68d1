// Package config loads process-wide configuration once at startup.
// Components receive the resulting value by reference; nothing reads
// global mutable state after boot.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the link gate server.
// Tags use mapstructure for Viper unmarshalling.
type ServerConfig struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	// Store backend selection: "mongo", "redis" or "memory".
	StoreBackend string `mapstructure:"STORE_BACKEND"`

	MongoURI         string `mapstructure:"MONGO_URI"`
	MongoDBName      string `mapstructure:"MONGO_DB_NAME"`
	TokensCollection string `mapstructure:"TOKENS_COLLECTION"`
	EventsCollection string `mapstructure:"EVENTS_COLLECTION"`

	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisPrefix string `mapstructure:"REDIS_PREFIX"`

	// AdminSecret is compared in constant time against the bearer
	// credential on admin routes. When AdminSecretBcrypt is set it takes
	// precedence and the credential is verified against the bcrypt hash
	// instead, so the plaintext never has to live in the environment.
	AdminSecret       string `mapstructure:"ADMIN_SECRET"`
	AdminSecretBcrypt string `mapstructure:"ADMIN_SECRET_BCRYPT"`

	// IPSalt feeds the one-way client-address digest on event records.
	IPSalt string `mapstructure:"IP_SALT"`

	SiteURL           string `mapstructure:"SITE_URL"`
	ShortLinkDomain   string `mapstructure:"SHORT_LINK_DOMAIN"`
	AllowedOrigin     string `mapstructure:"ALLOWED_ORIGIN"`
	DefaultExpiryDays int    `mapstructure:"DEFAULT_EXPIRY_DAYS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`
}

// LoadConfig reads configuration from file, environment variables, and
// defaults, in that order of increasing precedence for env over file.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/linkgate/")
	v.AddConfigPath("$HOME/.linkgate")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORE_BACKEND", "mongo")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/linkgate_dev")
	v.SetDefault("MONGO_DB_NAME", "linkgate_dev")
	v.SetDefault("TOKENS_COLLECTION", "tokens")
	v.SetDefault("EVENTS_COLLECTION", "token_events")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PREFIX", "linkgate")
	v.SetDefault("ADMIN_SECRET", "changeme") // CHANGE IN PRODUCTION
	v.SetDefault("ADMIN_SECRET_BCRYPT", "")
	v.SetDefault("IP_SALT", "default-salt-change-me")
	v.SetDefault("SITE_URL", "https://www.cameronjim.com")
	v.SetDefault("SHORT_LINK_DOMAIN", "go.cameronjim.com")
	v.SetDefault("ALLOWED_ORIGIN", "https://www.cameronjim.com")
	v.SetDefault("DEFAULT_EXPIRY_DAYS", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars apply.
		// Anything else (malformed file, permissions) is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}

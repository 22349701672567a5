// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment
// variables. Gold award amounts live here and are injected by constructor into
// the repositories; there is no ambient award-constant singleton.
type Config struct {
	JWTSecret  string `mapstructure:"JWT_SECRET"`
	Port       string `mapstructure:"PORT"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	RedisURL   string `mapstructure:"REDIS_URL"`
	Env        string `mapstructure:"APP_ENV"`

	// Gold economy awards. WelcomeGold seeds every new account,
	// FirstProfilePhotoGold is granted once per user on the first profile
	// photo, CategoryCreationGold rewards creating a new category.
	WelcomeGold           int64 `mapstructure:"WELCOME_GOLD"`
	FirstProfilePhotoGold int64 `mapstructure:"FIRST_PROFILE_PHOTO_GOLD"`
	CategoryCreationGold  int64 `mapstructure:"CATEGORY_CREATION_GOLD"`

	// CacheTTLSeconds bounds how stale the cached aggregate reads
	// (category previews, leaderboard) may be.
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS"`

	// DisallowedCategoryPrefixes is a comma-separated list of reserved
	// name prefixes rejected at category creation.
	DisallowedCategoryPrefixes string `mapstructure:"DISALLOWED_CATEGORY_PREFIXES"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8480")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "snapgold")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WELCOME_GOLD", 100)
	viper.SetDefault("FIRST_PROFILE_PHOTO_GOLD", 10)
	viper.SetDefault("CATEGORY_CREATION_GOLD", 10)
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("DISALLOWED_CATEGORY_PREFIXES", "snapgold,admin")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet
// security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.WelcomeGold < 0 || c.FirstProfilePhotoGold < 0 || c.CategoryCreationGold < 0 {
		return errors.New("gold award amounts must not be negative")
	}
	if c.CacheTTLSeconds <= 0 {
		return errors.New("CACHE_TTL_SECONDS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}

// CacheTTL returns the aggregate-read cache expiration as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CategoryPrefixDenyList splits the configured prefix list into normalized,
// lower-cased entries.
func (c *Config) CategoryPrefixDenyList() []string {
	if c.DisallowedCategoryPrefixes == "" {
		return nil
	}
	parts := strings.Split(c.DisallowedCategoryPrefixes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// CORS
	CORSAllowedOrigins []string

	// Rate limiting (per client IP)
	RateLimitRequests int64
	RateLimitPeriod   time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	origins := viper.GetString("CORS_ALLOWED_ORIGINS")
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
		}
	}

	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 100
		log.Printf("Warning: Invalid value for RATE_LIMIT_REQUESTS. Defaulting to %d.\n", cfg.RateLimitRequests)
	}

	periodStr := viper.GetString("RATE_LIMIT_PERIOD")
	period, err := time.ParseDuration(periodStr)
	if err != nil {
		period = time.Minute
		if periodStr != "" {
			log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", periodStr, period.String())
		}
	}
	cfg.RateLimitPeriod = period

	return cfg, nil
}

package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Redis product cache; empty address disables caching.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Per-IP rate limit for the API, e.g. "100-M" (100 requests per minute).
	RateLimit string

	// Checkout client resilience knobs.
	CircuitFailureThreshold int
	CircuitRecoveryTimeout  time.Duration
	CheckoutAttemptTimeout  time.Duration
	CheckoutMaxRetries      int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "autoparts-pos-app")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CIRCUIT_FAILURE_THRESHOLD", 5)
	viper.SetDefault("CIRCUIT_RECOVERY_TIMEOUT", "30s")
	viper.SetDefault("CHECKOUT_ATTEMPT_TIMEOUT", "12s")
	viper.SetDefault("CHECKOUT_MAX_RETRIES", 2)

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

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.CircuitFailureThreshold = viper.GetInt("CIRCUIT_FAILURE_THRESHOLD")
	if cfg.CircuitFailureThreshold <= 0 {
		cfg.CircuitFailureThreshold = 5
	}

	recoveryStr := viper.GetString("CIRCUIT_RECOVERY_TIMEOUT")
	recoveryTimeout, err := time.ParseDuration(recoveryStr)
	if err != nil {
		recoveryTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for CIRCUIT_RECOVERY_TIMEOUT ('%s'). Defaulting to %s.\n", recoveryStr, recoveryTimeout.String())
	}
	cfg.CircuitRecoveryTimeout = recoveryTimeout

	attemptStr := viper.GetString("CHECKOUT_ATTEMPT_TIMEOUT")
	attemptTimeout, err := time.ParseDuration(attemptStr)
	if err != nil {
		attemptTimeout = 12 * time.Second
		log.Printf("Warning: Invalid value for CHECKOUT_ATTEMPT_TIMEOUT ('%s'). Defaulting to %s.\n", attemptStr, attemptTimeout.String())
	}
	cfg.CheckoutAttemptTimeout = attemptTimeout

	cfg.CheckoutMaxRetries = viper.GetInt("CHECKOUT_MAX_RETRIES")
	if cfg.CheckoutMaxRetries < 0 {
		cfg.CheckoutMaxRetries = 0
	}

	return cfg, nil
}

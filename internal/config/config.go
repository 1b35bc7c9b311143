package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string // Application port
	DBUser          string // Database user
	DBPassword      string // Database password
	DBHost          string // Database host, empty keeps the in-memory store
	DBPort          string // Database port
	DBName          string // Database name
	JWTSecret       string // JWT secret key
	RedisAddr       string // Redis server address, empty disables caching
	RedisPass       string // Redis password
	RedisDB         int    // Redis database number
	StripeSecretKey string // Stripe secret key, empty disables payments
	IsProd          bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg := &Config{
		AppPort:         os.Getenv("APP_PORT"),          // Application port
		DBUser:          os.Getenv("DB_USER"),           // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:          os.Getenv("DB_HOST"),           // Database host
		DBPort:          os.Getenv("DB_PORT"),           // Database port
		DBName:          os.Getenv("DB_NAME"),           // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:       os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:         redisDB,                        // Redis database number
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"), // Stripe secret key
		IsProd:          os.Getenv("IS_PROD") == "true", // Is production environment
	}
	if cfg.AppPort == "" {
		cfg.AppPort = "5000" // Default port
	}
	return cfg
}

// DSN builds the MySQL data source name from the database settings
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

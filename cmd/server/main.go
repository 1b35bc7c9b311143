package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"edubridge/internal/api"     // Custom package for API handlers
	"edubridge/internal/config"  // Custom package for configuration
	"edubridge/internal/storage" // Custom package for the record store

	// For loading .env files
	"github.com/gin-gonic/gin"        // Gin web framework
	"github.com/redis/go-redis/v9"    // Redis client
	"github.com/sirupsen/logrus"      // Logrus for structured logging
	"github.com/stripe/stripe-go/v81" // Stripe client
	"gorm.io/driver/mysql"            // MySQL driver for GORM
	"gorm.io/gorm"                    // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Pick the store backend: MySQL when a database is configured, otherwise
	// the in-memory store (all records are lost on restart)
	var store storage.Storage
	if cfg.DBHost != "" {
		db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		store = storage.NewGormStorage(db) // MySQL-backed store
	} else {
		logrus.Info("No database configured, using in-memory store")
		store = storage.NewMemStorage() // In-memory store
	}

	// Setup Redis client for the match-result cache, if configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Info("No Redis configured, match-result caching disabled")
	}

	// Configure the payment provider
	if cfg.StripeSecretKey == "" {
		logrus.Warn("Missing STRIPE_SECRET_KEY, payment intents will fail")
	}
	stripe.Key = cfg.StripeSecretKey // Stripe API key

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Register every endpoint
	api.RegisterRoutes(r, store, redisClient, cfg)

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}

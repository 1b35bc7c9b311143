package main

import (
	"edubridge/internal/config" // Custom import path (Config)
	"edubridge/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Migrate the MySQL schema for the persistent store backend
	db.Migrate(cfg.DSN())
}

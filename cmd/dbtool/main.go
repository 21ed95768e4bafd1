package main

import (
	"log"
	"os"
	"path/filepath"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool creates the trip and cache tables for the configured database
// without starting the server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.DBDriver == db.SQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			log.Fatal(err)
		}
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Printf("Initializing %s schema...", cfg.DBDriver)
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}

package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"field-visit-service/internal/adapters/cache"
	"field-visit-service/internal/config"
	"field-visit-service/internal/platform/db"
)

// dbtool prepares the shared branch-server cache database: it creates
// the outlet_cache table and loads a JSON outlet snapshot into it, so
// field devices come up with a warm cache.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	sqlDB, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/outlets.json")
	if err := initAndSeed(sqlDB, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(sqlDB *sql.DB, seedPath string) error {
	log.Println("Initializing outlet cache schema...")
	if err := cache.InitSchema(sqlDB); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Printf("Seeding outlets from %s...", seedPath)
	if err := cache.SeedFromJSON(sqlDB, seedPath, cache.SeedInsertPostgres); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}

package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"field-visit-service/internal/adapters/cache"
	"field-visit-service/internal/adapters/rest"
	"field-visit-service/internal/cli"
	"field-visit-service/internal/config"
	"field-visit-service/internal/platform/db"
	"field-visit-service/internal/ports"
)

const defaultFallbackRadius = 300

// tokenStore holds the bearer token. The expiry handler clears it from
// a timer goroutine, so access is serialized.
type tokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *tokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *tokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// main is the application composition root.
// It wires the REST gateway and an outlet cache behind ports and hands
// them to the CLI.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	baseURL := os.Getenv("API_BASE_URL")
	if strings.TrimSpace(baseURL) == "" {
		log.Fatal("API_BASE_URL is required")
	}
	tokens := &tokenStore{token: os.Getenv("API_TOKEN")}

	client, err := rest.NewClient(baseURL, tokens)
	if err != nil {
		log.Fatal(err)
	}
	client.OnAuthExpired(func() {
		log.Println("session expired, clearing token")
		tokens.Clear()
	})

	outletCache, closeCache, err := buildOutletCache()
	if err != nil {
		log.Fatal(err)
	}
	if closeCache != nil {
		defer closeCache()
	}

	deps := &cli.Deps{
		Gateway:        rest.NewVisitGateway(client),
		Cache:          outletCache,
		FallbackRadius: fallbackRadius(),
	}

	if err := cli.NewRootCommand(deps).Execute(); err != nil {
		log.Fatal(err)
	}
}

// buildOutletCache picks a backend from the environment: Redis when
// REDIS_ADDR is set, Postgres when DATABASE_URL is set, otherwise a
// local SQLite file. A nil cache disables read-through entirely.
func buildOutletCache() (ports.OutletCache, func(), error) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		return cache.NewRedisOutletCache(client, 0), func() { _ = client.Close() }, nil
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		sqlDB, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewSQLOutletCache(sqlDB), func() { _ = sqlDB.Close() }, nil
	}

	path := config.Get("DB_PATH", "data/visits.db")
	sqlDB, err := db.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cache.InitSchema(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return cache.NewSqliteOutletCache(sqlDB), func() { _ = sqlDB.Close() }, nil
}

func fallbackRadius() int {
	raw := config.Get("GEOFENCE_FALLBACK_RADIUS", "")
	if raw == "" {
		return defaultFallbackRadius
	}
	radius, err := strconv.Atoi(raw)
	if err != nil || radius < 0 {
		log.Printf("ignoring invalid GEOFENCE_FALLBACK_RADIUS value=%q", raw)
		return defaultFallbackRadius
	}
	return radius
}

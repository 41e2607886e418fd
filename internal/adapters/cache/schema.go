package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the outlet cache schema. The statement is portable across
// the SQLite and Postgres variants.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS outlet_cache (
		outlet_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		radius INTEGER NOT NULL
	);
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create outlet_cache: %w", err)
	}

	return nil
}

type OutletSeed struct {
	OutletID int    `json:"outlet_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Radius   int    `json:"radius"`
}

// Populate the outlet cache from a JSON export. Used for first-run
// provisioning of kiosk devices that have no connectivity yet.
func SeedFromJSON(db *sql.DB, jsonPath string, insertQuery string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed outlets: read %q: %w", jsonPath, err)
	}

	var data []OutletSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed outlets: parse json: %w", err)
	}

	for i, item := range data {
		if item.OutletID <= 0 {
			return fmt.Errorf("seed outlets: invalid outlet_id at index %d: %d", i+1, item.OutletID)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed outlets: item at index %d: name cannot be empty", i+1)
		}
		if item.Radius < 0 {
			return fmt.Errorf("seed outlets: outlet_id=%d: radius cannot be negative", item.OutletID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed outlets: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("seed outlets: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range data {
		if _, err := stmt.Exec(o.OutletID, o.Name, o.Location, o.Radius); err != nil {
			return fmt.Errorf("seed outlets: insert outlet_id=%d: %w", o.OutletID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed outlets: commit tx: %w", err)
	}

	return nil
}

// Insert statements for each SQL dialect, passed to SeedFromJSON.
const (
	SeedInsertSQLite = `
	INSERT OR REPLACE INTO outlet_cache (outlet_id, name, location, radius)
	VALUES (?, ?, ?, ?);
	`

	SeedInsertPostgres = `
	INSERT INTO outlet_cache (outlet_id, name, location, radius)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (outlet_id) DO UPDATE
	SET name = EXCLUDED.name,
		location = EXCLUDED.location,
		radius = EXCLUDED.radius;
	`
)

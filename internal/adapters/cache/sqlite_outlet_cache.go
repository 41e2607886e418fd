package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"field-visit-service/internal/domain"
)

// SQLite-backed outlet reference cache for on-device use. Lets the
// client show outlet detail (name, fence) without a network round trip.
type SqliteOutletCache struct {
	DB *sql.DB
}

func NewSqliteOutletCache(db *sql.DB) *SqliteOutletCache {
	return &SqliteOutletCache{DB: db}
}

// Fetch cached outlets for the given ids.
func (s *SqliteOutletCache) GetMany(ctx context.Context, ids []int) (map[int]domain.Outlet, error) {
	if s.DB == nil {
		return nil, errors.New("outlet cache: db is nil")
	}

	if len(ids) == 0 {
		return map[int]domain.Outlet{}, nil
	}

	seen := map[int]struct{}{}
	args := make([]any, 0, len(ids))
	ph := make([]string, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		args = append(args, id)
		ph = append(ph, "?")
	}

	if len(args) == 0 {
		return map[int]domain.Outlet{}, nil
	}

	// SQLite does not support binding slices directly in an IN (...)
	// clause. Only the placeholder structure is interpolated; all
	// values remain parameterized.
	q := fmt.Sprintf(`
	SELECT outlet_id, name, location, radius
	FROM outlet_cache
	WHERE outlet_id IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get outlet cache: query outlet_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]domain.Outlet, len(args))
	for rows.Next() {
		var o domain.Outlet
		if err := rows.Scan(&o.ID, &o.Name, &o.Location, &o.Radius); err != nil {
			return nil, fmt.Errorf("get outlet cache: scan rows: %w", err)
		}
		out[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get outlet cache: row iteration: %w", err)
	}

	return out, nil
}

// Store outlet records in the cache.
func (s *SqliteOutletCache) PutMany(ctx context.Context, outlets map[int]domain.Outlet) error {
	if s.DB == nil {
		return errors.New("outlet cache: db is nil")
	}

	if len(outlets) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert outlet cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO outlet_cache (outlet_id, name, location, radius)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert outlet cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for id, o := range outlets {
		if id <= 0 {
			return fmt.Errorf("insert outlet cache: invalid outlet id %d", id)
		}

		if _, err := stmt.ExecContext(ctx, id, o.Name, o.Location, o.Radius); err != nil {
			return fmt.Errorf("insert outlet cache outlet_id=%d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert outlet cache commit: %w", err)
	}

	return nil
}

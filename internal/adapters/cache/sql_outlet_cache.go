package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"field-visit-service/internal/domain"
	"field-visit-service/internal/platform/obs"
)

// SQLOutletCache is the Postgres-backed outlet reference cache used by
// shared branch-server deployments.
type SQLOutletCache struct {
	DB *sql.DB
}

func NewSQLOutletCache(db *sql.DB) *SQLOutletCache {
	return &SQLOutletCache{DB: db}
}

// Fetch cached outlets for the given ids.
func (s *SQLOutletCache) GetMany(ctx context.Context, ids []int) (_ map[int]domain.Outlet, err error) {
	defer obs.Time(ctx, "outlet.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("outlet cache: db is nil")
	}

	if len(ids) == 0 {
		return map[int]domain.Outlet{}, nil
	}

	seen := map[int]struct{}{}
	uniq := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	if len(uniq) == 0 {
		return map[int]domain.Outlet{}, nil
	}

	q := `
	SELECT outlet_id, name, location, radius
	FROM outlet_cache
	WHERE outlet_id = ANY($1::int[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get outlet cache: query outlet_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]domain.Outlet, len(uniq))
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
func (s *SQLOutletCache) PutMany(ctx context.Context, outlets map[int]domain.Outlet) error {
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
	INSERT INTO outlet_cache (outlet_id, name, location, radius)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (outlet_id) DO UPDATE
	SET name = EXCLUDED.name,
		location = EXCLUDED.location,
		radius = EXCLUDED.radius;
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

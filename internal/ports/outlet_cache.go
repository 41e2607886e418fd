package ports

import (
	"context"
	"field-visit-service/internal/domain"
)

// Port: a boundary for the local outlet reference-data cache.
type OutletCache interface {
	// Fetch cached outlets for the given ids. Missing ids are simply
	// absent from the result map.
	GetMany(ctx context.Context, ids []int) (map[int]domain.Outlet, error)
	// Store outlet records in the cache.
	PutMany(ctx context.Context, outlets map[int]domain.Outlet) error
}

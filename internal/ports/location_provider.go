package ports

import (
	"context"
	"field-visit-service/internal/domain"
)

// Port: a source of positioning fixes (the device GPS on mobile, a
// fixed coordinate for headless runs).
type LocationProvider interface {
	// Acquire a fresh location sample. May stall for several seconds.
	Current(ctx context.Context) (domain.LocationSample, error)
}

package location

import (
	"context"
	"errors"
	"time"

	"field-visit-service/internal/domain"
)

// StaticProvider serves a fixed coordinate. It stands in for the
// device GPS in headless runs, where the operator supplies the
// position on the command line.
type StaticProvider struct {
	Coordinate domain.Coordinate
}

func NewStaticProvider(lat, lon float64) *StaticProvider {
	return &StaticProvider{Coordinate: domain.Coordinate{Lat: lat, Lon: lon}}
}

func (p *StaticProvider) Current(ctx context.Context) (domain.LocationSample, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocationSample{}, err
	}
	return domain.LocationSample{Coordinate: p.Coordinate, CapturedAt: time.Now()}, nil
}

// ErrNoFix is returned when no position source is configured. Check-out
// tolerates it; check-in does not.
var ErrNoFix = errors.New("location: no position fix available")

// Unavailable is a provider with no position source.
type Unavailable struct{}

func (Unavailable) Current(ctx context.Context) (domain.LocationSample, error) {
	return domain.LocationSample{}, ErrNoFix
}

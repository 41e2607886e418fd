package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"field-visit-service/internal/domain"
	"field-visit-service/internal/ports"
)

// Bound on concurrent outlet fetches during a cache warm.
const warmConcurrency = 5

// OutletService serves outlet reference data cache-first, fetching
// misses from the backend and writing them back.
type OutletService struct {
	gateway ports.VisitGateway
	cache   ports.OutletCache
}

// NewOutletService builds the lookup service. The cache is optional;
// without one every lookup goes to the backend.
func NewOutletService(gateway ports.VisitGateway, cache ports.OutletCache) *OutletService {
	return &OutletService{gateway: gateway, cache: cache}
}

// OutletByID returns one outlet, cache-first.
func (s *OutletService) OutletByID(ctx context.Context, id int) (domain.Outlet, error) {
	if s.cache != nil {
		hits, err := s.cache.GetMany(ctx, []int{id})
		if err != nil {
			return domain.Outlet{}, fmt.Errorf("outlet lookup: read cache: %w", err)
		}
		if o, ok := hits[id]; ok {
			return o, nil
		}
	}

	outlet, err := s.gateway.OutletByID(ctx, id)
	if err != nil {
		return domain.Outlet{}, fmt.Errorf("outlet lookup: fetch outlet %d: %w", id, err)
	}

	if s.cache != nil {
		if err := s.cache.PutMany(ctx, map[int]domain.Outlet{id: outlet}); err != nil {
			log.Printf("op=outlet.cache.put outlet=%d err=%v", id, err)
		}
	}

	return outlet, nil
}

// Warm prefetches outlets into the cache so the device can show outlet
// detail offline. Individual fetch failures are tolerated and logged;
// the return value is how many outlets actually landed in the cache.
func (s *OutletService) Warm(ctx context.Context, ids []int) (int, error) {
	if s.cache == nil {
		return 0, fmt.Errorf("warm outlets: no cache configured")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var mu sync.Mutex
	fetched := make(map[int]domain.Outlet)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			outlet, err := s.gateway.OutletByID(ctx, id)
			if err != nil {
				log.Printf("op=outlet.warm outlet=%d err=%v", id, err)
				return nil
			}

			mu.Lock()
			fetched[id] = outlet
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("warm outlets: %w", err)
	}

	if len(fetched) == 0 {
		return 0, nil
	}

	if err := s.cache.PutMany(ctx, fetched); err != nil {
		return 0, fmt.Errorf("warm outlets: write cache: %w", err)
	}

	return len(fetched), nil
}

package rates

import (
	"context"
	"time"

	"github.com/Cuutu/brasil2026/internal/cache"
	"github.com/Cuutu/brasil2026/internal/core"
	"github.com/Cuutu/brasil2026/internal/log"
)

const snapshotKey = "BRL"

// Service supplies the current rate snapshot. Providers are tried in
// order; when all of them fail the static fallback pair is returned with
// the Fallback flag set. Errors never escape this boundary.
type Service struct {
	providers   []Provider
	fallbackUSD float64
	fallbackARS float64
	snapshots   *cache.LRUCache[core.ExchangeRates]
	logger      *log.Logger
}

// NewService builds a Service. Successful snapshots are cached for ttl to
// bound upstream request volume.
func NewService(providers []Provider, fallbackUSD, fallbackARS float64, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentRates)
	}
	return &Service{
		providers:   providers,
		fallbackUSD: fallbackUSD,
		fallbackARS: fallbackARS,
		snapshots:   cache.NewLRUCache[core.ExchangeRates](4, ttl),
		logger:      logger,
	}
}

// Get returns the cached snapshot when fresh, otherwise walks the
// providers in order and caches the first success. It never fails: when
// every provider errors out the static pair is returned with
// Fallback=true.
func (s *Service) Get(ctx context.Context) core.ExchangeRates {
	if snap, ok := s.snapshots.Get(snapshotKey); ok {
		return snap
	}

	for _, p := range s.providers {
		usd, ars, err := p.Fetch(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Rate provider failed",
				log.FieldProvider, p.Name(),
				log.FieldError, err)
			continue
		}

		snap := core.ExchangeRates{USD: usd, ARS: ars, UpdatedAt: time.Now().UTC()}
		s.snapshots.Set(snapshotKey, snap)
		s.logger.DebugContext(ctx, "Rate snapshot refreshed",
			log.FieldProvider, p.Name(),
			"usd", usd,
			"ars", ars)
		return snap
	}

	// Fallback snapshots are not cached so a recovered provider is picked
	// up on the next call.
	s.logger.WarnContext(ctx, "All rate providers failed, using static fallback")
	return core.ExchangeRates{
		USD:       s.fallbackUSD,
		ARS:       s.fallbackARS,
		UpdatedAt: time.Now().UTC(),
		Fallback:  true,
	}
}

// Invalidate drops the cached snapshot so the next Get hits the providers.
func (s *Service) Invalidate() {
	s.snapshots.Delete(snapshotKey)
}

// internal/app/leghub/hub.go
package leghub

import (
	"context"
	"sync"
	"time"

	"github.com/automaatje/automaatje/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Hub creates and caches one LegStore per (trip, direction).
type Hub struct {
	p           Persister
	log         *zap.Logger
	saveTimeout time.Duration

	mu     sync.Mutex
	stores map[legKey]*LegStore
	closed bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithSaveTimeout bounds every leg save.
func WithSaveTimeout(d time.Duration) Option {
	return func(h *Hub) { h.saveTimeout = d }
}

// NewHub returns an empty hub over p.
func NewHub(p Persister, logger *zap.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		p:      p,
		log:    logger,
		stores: make(map[legKey]*LegStore),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Store returns the store for the leg, creating it on first use. The store
// may still be Uninitialized.
func (h *Hub) Store(tripID string, dir models.Direction) (*LegStore, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	k := legKey{tripID, dir}
	s, ok := h.stores[k]
	if !ok {
		s = NewLegStore(tripID, dir, h.p, h.log, h.saveTimeout)
		s.onGone = func() { h.Drop(tripID) }
		h.stores[k] = s
	}
	s.touch()
	return s, nil
}

// Load returns the Ready store for the leg together with its current state.
func (h *Hub) Load(ctx context.Context, tripID string, dir models.Direction) (*LegStore, models.TripLeg, error) {
	s, err := h.Store(tripID, dir)
	if err != nil {
		return nil, models.EmptyLeg(), err
	}
	leg, err := s.Load(ctx)
	if err != nil {
		return nil, leg, err
	}
	return s, leg, nil
}

// LoadTrip loads both legs of a trip concurrently.
func (h *Hub) LoadTrip(ctx context.Context, tripID string) (map[models.Direction]models.TripLeg, error) {
	legs := make([]models.TripLeg, len(models.Directions))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range models.Directions {
		g.Go(func() error {
			_, leg, err := h.Load(gctx, tripID, dir)
			legs[i] = leg
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[models.Direction]models.TripLeg, len(legs))
	for i, dir := range models.Directions {
		out[dir] = legs[i]
	}
	return out, nil
}

// Loaded reports whether a store for the leg exists and is Ready.
func (h *Hub) Loaded(tripID string, dir models.Direction) bool {
	h.mu.Lock()
	s, ok := h.stores[legKey{tripID, dir}]
	h.mu.Unlock()
	return ok && s.State() == Ready
}

// Drop closes and forgets both stores of a trip, e.g. after it was deleted.
func (h *Hub) Drop(tripID string) {
	h.mu.Lock()
	var dropped []*LegStore
	for _, dir := range models.Directions {
		k := legKey{tripID, dir}
		if s, ok := h.stores[k]; ok {
			dropped = append(dropped, s)
			delete(h.stores, k)
		}
	}
	h.mu.Unlock()

	for _, s := range dropped {
		s.Close()
	}
	if len(dropped) > 0 {
		h.log.Debug("dropped trip legs", zap.String("trip_id", tripID), zap.Int("stores", len(dropped)))
	}
}

// Evict closes and forgets stores that nobody watches, that have nothing
// left to save and that were last used more than idle ago. It returns the
// number of stores evicted.
func (h *Hub) Evict(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	h.mu.Lock()
	var evicted []*LegStore
	for k, s := range h.stores {
		if s.idle(cutoff) {
			evicted = append(evicted, s)
			delete(h.stores, k)
		}
	}
	h.mu.Unlock()

	for _, s := range evicted {
		s.Close()
	}
	return len(evicted)
}

// FlushPending retries the save of every store holding an unsaved commit.
// It returns how many stores are still pending afterwards.
func (h *Hub) FlushPending(ctx context.Context) int {
	h.mu.Lock()
	var pending []*LegStore
	for _, s := range h.stores {
		if s.Pending() {
			pending = append(pending, s)
		}
	}
	h.mu.Unlock()

	left := 0
	for _, s := range pending {
		if err := s.Flush(ctx); err != nil {
			left++
			h.log.Warn("leg flush failed",
				zap.String("trip_id", s.TripID()),
				zap.String("direction", string(s.Direction())),
				zap.Error(err))
		}
	}
	return left
}

// Len returns the number of cached stores.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stores)
}

// Close closes every store. The hub rejects new stores afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	stores := h.stores
	h.stores = make(map[legKey]*LegStore)
	h.mu.Unlock()

	for _, s := range stores {
		s.Close()
	}
}

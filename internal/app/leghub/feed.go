// internal/app/leghub/feed.go
package leghub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/automaatje/automaatje/internal/domain/models"
)

type legKey struct {
	tripID string
	dir    models.Direction
}

// Feed fans leg snapshots observed on the database out to subscribers.
// The change-stream worker publishes into it.
type Feed struct {
	mu   sync.Mutex
	next int
	subs map[legKey]map[int]func(models.TripLeg)
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[legKey]map[int]func(models.TripLeg))}
}

// Subscribe registers fn for the leg. The returned func is idempotent.
func (f *Feed) Subscribe(tripID string, dir models.Direction, fn func(models.TripLeg)) func() {
	k := legKey{tripID, dir}

	f.mu.Lock()
	id := f.next
	f.next++
	if f.subs[k] == nil {
		f.subs[k] = make(map[int]func(models.TripLeg))
	}
	f.subs[k][id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs[k], id)
			if len(f.subs[k]) == 0 {
				delete(f.subs, k)
			}
			f.mu.Unlock()
		})
	}
}

// Publish delivers a copy of leg to every subscriber of (tripID, dir).
// Callbacks run on the caller's goroutine, outside the feed lock.
func (f *Feed) Publish(tripID string, dir models.Direction, leg models.TripLeg) {
	f.mu.Lock()
	fns := make([]func(models.TripLeg), 0, len(f.subs[legKey{tripID, dir}]))
	for _, fn := range f.subs[legKey{tripID, dir}] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(leg.Clone())
	}
}

// Subscribers reports how many callbacks are registered for the leg.
func (f *Feed) Subscribers(tripID string, dir models.Direction) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[legKey{tripID, dir}])
}

// LegIO loads and saves legs; the trip store satisfies it.
type LegIO interface {
	LoadLeg(ctx context.Context, tripID string, dir models.Direction) (models.TripLeg, error)
	SaveLeg(ctx context.Context, tripID string, dir models.Direction, leg models.TripLeg) error
}

// FeedPersister combines durable IO with a Feed into a Persister. Missing is
// the IO's sentinel for an absent leg, reported as ErrLegNotFound. Gone is its
// sentinel for a deleted trip, reported as ErrTripGone.
type FeedPersister struct {
	IO      LegIO
	Feed    *Feed
	Missing error
	Gone    error
}

func (p FeedPersister) LoadLeg(ctx context.Context, tripID string, dir models.Direction) (models.TripLeg, error) {
	leg, err := p.IO.LoadLeg(ctx, tripID, dir)
	if err != nil {
		return models.TripLeg{}, p.mapErr(err)
	}
	return leg, nil
}

func (p FeedPersister) SaveLeg(ctx context.Context, tripID string, dir models.Direction, leg models.TripLeg) error {
	if err := p.IO.SaveLeg(ctx, tripID, dir, leg); err != nil {
		return p.mapErr(err)
	}
	return nil
}

func (p FeedPersister) mapErr(err error) error {
	switch {
	case p.Missing != nil && errors.Is(err, p.Missing):
		return fmt.Errorf("%w: %w", ErrLegNotFound, err)
	case p.Gone != nil && errors.Is(err, p.Gone):
		return fmt.Errorf("%w: %w", ErrTripGone, err)
	}
	return err
}

func (p FeedPersister) Subscribe(tripID string, dir models.Direction, onUpdate func(models.TripLeg)) func() {
	return p.Feed.Subscribe(tripID, dir, onUpdate)
}

// internal/app/leghub/persister.go

// Package leghub holds the in-memory owner of each trip leg.
//
// A LegStore serialises mutations to one (trip, direction) leg, writes every
// commit through a Persister and keeps itself current with updates made by
// other processes. A Hub hands out one LegStore per leg.
package leghub

import (
	"context"
	"errors"

	"github.com/automaatje/automaatje/internal/domain/models"
)

var (
	// ErrLegNotFound is returned by a Persister when the trip exists but has
	// no data for the requested direction.
	ErrLegNotFound = errors.New("leg not found")
	// ErrPersistence wraps failed saves. The in-memory leg keeps the commit.
	ErrPersistence = errors.New("leg could not be saved")
	// ErrClosed is returned by a LegStore after Close.
	ErrClosed = errors.New("leg store closed")
	// ErrTripGone is returned by a Persister when the trip no longer exists.
	// The Hub drops both legs of the trip when a store sees it.
	ErrTripGone = errors.New("trip no longer exists")
)

// Persister is the durable side of a leg.
//
// Subscribe registers onUpdate for changes written by anyone, including this
// process, and returns the function that cancels the registration.
type Persister interface {
	LoadLeg(ctx context.Context, tripID string, dir models.Direction) (models.TripLeg, error)
	SaveLeg(ctx context.Context, tripID string, dir models.Direction, leg models.TripLeg) error
	Subscribe(tripID string, dir models.Direction, onUpdate func(models.TripLeg)) (unsubscribe func())
}

// internal/app/system/workers/tripwatcher.go
package workers

import (
	"context"
	"sync"
	"time"

	tripstore "github.com/automaatje/automaatje/internal/app/store/trips"
	"github.com/automaatje/automaatje/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ChangeSource is the part of the trip store the watcher follows.
type ChangeSource interface {
	Watch(ctx context.Context, resumeAfter bson.Raw, onChange func(tripstore.Change)) (bson.Raw, error)
}

// Publisher receives leg snapshots seen on the change stream.
type Publisher interface {
	Publish(tripID string, dir models.Direction, leg models.TripLeg)
}

// TripSink reacts to trip-level changes (deletes, roster invalidation).
type TripSink interface {
	Drop(tripID string)
}

// Invalidator forgets cached rosters.
type Invalidator interface {
	Invalidate(classID string)
	InvalidateAll()
}

// TripWatcher is a background worker that follows the trips change stream
// and fans updates out to loaded legs, the hub and the roster cache. It
// reconnects with backoff and resumes from the last token it saw.
type TripWatcher struct {
	src     ChangeSource
	feed    Publisher
	trips   TripSink
	rosters Invalidator
	log     *zap.Logger

	minBackoff time.Duration
	maxBackoff time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTripWatcher creates a new trip change-stream worker.
//
// Parameters:
//   - src: the trip store
//   - feed: where leg snapshots are published
//   - trips: told when a trip is deleted
//   - rosters: roster cache to invalidate on every trip write
//   - logger: zap logger for logging
func NewTripWatcher(src ChangeSource, feed Publisher, trips TripSink, rosters Invalidator, logger *zap.Logger) *TripWatcher {
	return &TripWatcher{
		src:        src,
		feed:       feed,
		trips:      trips,
		rosters:    rosters,
		log:        logger,
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
}

// Start begins following the change stream.
func (w *TripWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go w.run(ctx)
	w.log.Info("trip watcher started")
}

// Stop signals the worker to stop and waits for it to finish.
func (w *TripWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.log.Info("trip watcher stopped")
}

func (w *TripWatcher) run(ctx context.Context) {
	defer w.wg.Done()

	var token bson.Raw
	backoff := w.minBackoff
	for {
		started := time.Now()
		next, err := w.src.Watch(ctx, token, w.handle)
		if len(next) > 0 {
			token = next
		}
		if ctx.Err() != nil {
			return
		}

		// A stream that ran for a while before failing starts over at the
		// minimum delay.
		if time.Since(started) > w.maxBackoff {
			backoff = w.minBackoff
		}
		w.log.Warn("trip change stream ended; reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > w.maxBackoff {
			backoff = w.maxBackoff
		}
	}
}

func (w *TripWatcher) handle(ch tripstore.Change) {
	tripID := ch.TripID.Hex()

	if ch.Deleted || ch.Trip == nil {
		w.trips.Drop(tripID)
		// Deletes carry no document, so the class is unknown.
		w.rosters.InvalidateAll()
		w.log.Debug("trip removed", zap.String("trip_id", tripID), zap.String("op", ch.Op))
		return
	}

	for _, dir := range models.Directions {
		if leg := ch.Trip.Leg(dir); leg != nil {
			w.feed.Publish(tripID, dir, *leg)
		}
	}
	w.rosters.Invalidate(ch.Trip.ClassID)
}

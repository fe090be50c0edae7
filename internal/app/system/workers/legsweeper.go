// internal/app/system/workers/legsweeper.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LegHub is the part of the leg hub the sweeper maintains.
type LegHub interface {
	FlushPending(ctx context.Context) int
	Evict(idle time.Duration) int
}

// LegSweeper is a background worker that retries failed leg saves and
// evicts legs nobody has used for a while.
type LegSweeper struct {
	hub          LegHub
	log          *zap.Logger
	interval     time.Duration
	idle         time.Duration
	flushTimeout time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

// NewLegSweeper creates a new leg sweeper.
//
// Parameters:
//   - hub: the leg hub
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 minute)
//   - idle: how long a leg must be unused before it is evicted (e.g., 30 minutes)
func NewLegSweeper(hub LegHub, logger *zap.Logger, interval, idle time.Duration) *LegSweeper {
	return &LegSweeper{
		hub:          hub,
		log:          logger,
		interval:     interval,
		idle:         idle,
		flushTimeout: 30 * time.Second,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *LegSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("leg sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle", w.idle))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LegSweeper) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("leg sweeper stopped")
}

func (w *LegSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep flushes before evicting so a leg whose save just succeeded can go
// in the same pass.
func (w *LegSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.flushTimeout)
	defer cancel()

	if left := w.hub.FlushPending(ctx); left > 0 {
		w.log.Warn("legs still unsaved after flush", zap.Int("count", left))
	}
	if n := w.hub.Evict(w.idle); n > 0 {
		w.log.Debug("evicted idle legs", zap.Int("count", n))
	}
}

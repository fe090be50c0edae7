// internal/app/leghub/store.go
package leghub

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/domain/models"
	"go.uber.org/zap"
)

// State is the lifecycle of a LegStore.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "uninitialized"
}

// maxEchoes bounds how many saved snapshots a store remembers to recognise
// late echoes of its own writes.
const maxEchoes = 16

// Mutation computes the next leg from the current one. It receives a private
// copy. Returning changed=false leaves the store as it is and skips the save.
type Mutation func(cur models.TripLeg) (next models.TripLeg, changed bool, err error)

// LegStore owns the in-memory state of one trip leg.
//
// Mutations are applied one at a time. Every commit is followed by a save;
// saves for the leg never overlap and never write an older version over a
// newer one. Updates arriving from the Persister replace the whole leg unless
// a local commit is still waiting to be saved or the update is an echo of a
// write this store has since superseded.
type LegStore struct {
	tripID      string
	dir         models.Direction
	p           Persister
	log         *zap.Logger
	saveTimeout time.Duration

	loadMu sync.Mutex
	saveMu sync.Mutex

	mu       sync.Mutex
	state    State
	leg      models.TripLeg
	version  uint64 // bumped on every local commit
	saved    uint64 // highest version written successfully
	echoes   []models.TripLeg // saved snapshots not yet seen on the feed, oldest first
	lastUsed time.Time
	unsub    func()
	watchers map[int]chan models.TripLeg
	nextW    int
	closed   bool

	// onGone runs when the Persister reports the trip deleted.
	onGone func()
}

// NewLegStore returns an uninitialized store for (tripID, dir). A saveTimeout
// of zero means saves are bounded only by the caller's context.
func NewLegStore(tripID string, dir models.Direction, p Persister, logger *zap.Logger, saveTimeout time.Duration) *LegStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LegStore{
		tripID:      tripID,
		dir:         dir,
		p:           p,
		log:         logger.With(zap.String("trip_id", tripID), zap.String("direction", string(dir))),
		saveTimeout: saveTimeout,
		lastUsed:    time.Now(),
		watchers:    make(map[int]chan models.TripLeg),
	}
}

// TripID returns the trip this store belongs to.
func (s *LegStore) TripID() string { return s.tripID }

// Direction returns the leg direction.
func (s *LegStore) Direction() models.Direction { return s.dir }

// State reports the current lifecycle state.
func (s *LegStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the current leg and whether the store is Ready.
func (s *LegStore) Snapshot() (models.TripLeg, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return models.EmptyLeg(), false
	}
	return s.leg.Clone(), true
}

// Pending reports whether a local commit has not been saved yet.
func (s *LegStore) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version > s.saved
}

// Load brings the store to Ready and returns the leg. A leg the Persister does
// not have starts empty. A failed load leaves the store Uninitialized so the
// next call retries.
func (s *LegStore) Load(ctx context.Context) (models.TripLeg, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.EmptyLeg(), ErrClosed
	}
	s.lastUsed = time.Now()
	if s.state == Ready {
		leg := s.leg.Clone()
		s.mu.Unlock()
		return leg, nil
	}
	s.state = Loading
	s.mu.Unlock()

	leg, err := s.p.LoadLeg(ctx, s.tripID, s.dir)
	switch {
	case errors.Is(err, ErrLegNotFound):
		leg, err = models.EmptyLeg(), nil
	case err == nil:
		if err = assign.Validate(leg); err == nil {
			leg = assign.Normalize(leg)
		}
	}

	s.mu.Lock()
	if err != nil {
		s.state = Uninitialized
		s.mu.Unlock()
		s.log.Warn("leg load failed", zap.Error(err))
		if errors.Is(err, ErrTripGone) {
			s.gone()
		}
		return models.EmptyLeg(), fmt.Errorf("load trip %s %s: %w", s.tripID, s.dir, err)
	}
	if s.closed {
		s.mu.Unlock()
		return models.EmptyLeg(), ErrClosed
	}
	s.leg = leg
	s.state = Ready
	s.broadcastLocked()
	needSub := s.unsub == nil
	s.mu.Unlock()

	// Subscribe outside the lock: a Persister may deliver the first update
	// synchronously.
	if needSub {
		unsub := s.p.Subscribe(s.tripID, s.dir, s.receive)
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			unsub()
		} else {
			s.unsub = unsub
			s.mu.Unlock()
		}
	}
	return leg.Clone(), nil
}

// Apply runs m against the current leg and commits the result. The returned
// leg is the state after the call. When the save fails the commit stays in
// memory, the committed leg is returned and the error wraps ErrPersistence.
// A mutation that changes nothing still saves an earlier commit whose save
// failed, so resubmitting the same edit retries the save.
func (s *LegStore) Apply(ctx context.Context, m Mutation) (models.TripLeg, error) {
	if _, err := s.Load(ctx); err != nil {
		return models.EmptyLeg(), err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.EmptyLeg(), ErrClosed
	}
	s.lastUsed = time.Now()
	cur := s.leg.Clone()
	next, changed, err := m(cur.Clone())
	if err != nil || !changed {
		v, pending := s.version, s.version > s.saved
		s.mu.Unlock()
		if err == nil && pending {
			return cur, s.save(ctx, v)
		}
		return cur, err
	}
	if err := assign.Validate(next); err != nil {
		s.mu.Unlock()
		s.log.Error("mutation produced an invalid leg", zap.Error(err))
		return cur, err
	}
	v := s.commitLocked(next)
	s.mu.Unlock()

	return next.Clone(), s.save(ctx, v)
}

// Commit replaces the in-memory leg with leg and saves it.
func (s *LegStore) Commit(ctx context.Context, leg models.TripLeg) error {
	_, err := s.Apply(ctx, func(models.TripLeg) (models.TripLeg, bool, error) {
		return leg.Clone(), true, nil
	})
	return err
}

// Flush saves the current leg if a commit is still unsaved, for example after
// an earlier save failed.
func (s *LegStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	v := s.version
	s.mu.Unlock()
	return s.save(ctx, v)
}

func (s *LegStore) commitLocked(next models.TripLeg) uint64 {
	s.leg = next.Clone()
	s.version++
	s.broadcastLocked()
	return s.version
}

// save writes the newest in-memory leg unless a save that already covered
// version v has completed.
func (s *LegStore) save(ctx context.Context, v uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.saved >= v {
		s.mu.Unlock()
		return nil
	}
	snap := s.leg.Clone()
	cur := s.version
	s.mu.Unlock()

	// A save outlives the request that triggered it.
	ctx = context.WithoutCancel(ctx)
	if s.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.saveTimeout)
		defer cancel()
	}

	if err := s.p.SaveLeg(ctx, s.tripID, s.dir, snap); err != nil {
		if errors.Is(err, ErrTripGone) {
			s.log.Info("trip deleted while editing; dropping leg", zap.Uint64("version", cur))
			s.gone()
			return fmt.Errorf("save trip %s %s: %w", s.tripID, s.dir, err)
		}
		s.log.Warn("leg save failed; keeping local state", zap.Uint64("version", cur), zap.Error(err))
		return fmt.Errorf("%w: trip %s %s: %w", ErrPersistence, s.tripID, s.dir, err)
	}

	s.mu.Lock()
	if cur > s.saved {
		s.saved = cur
	}
	s.rememberLocked(snap)
	s.mu.Unlock()
	return nil
}

// rememberLocked records a saved snapshot so its echo can be recognised.
func (s *LegStore) rememberLocked(leg models.TripLeg) {
	if n := len(s.echoes); n > 0 && reflect.DeepEqual(s.echoes[n-1], leg) {
		return
	}
	s.echoes = append(s.echoes, leg)
	if len(s.echoes) > maxEchoes {
		s.echoes = s.echoes[len(s.echoes)-maxEchoes:]
	}
}

// echoIndexLocked returns the oldest position of leg among the remembered
// saved snapshots, or -1.
func (s *LegStore) echoIndexLocked(leg models.TripLeg) int {
	for i := range s.echoes {
		if reflect.DeepEqual(s.echoes[i], leg) {
			return i
		}
	}
	return -1
}

func (s *LegStore) gone() {
	s.mu.Lock()
	fn := s.onGone
	s.mu.Unlock()
	if fn != nil {
		fn()
	} else {
		s.Close()
	}
}

// receive handles an update from the Persister.
func (s *LegStore) receive(leg models.TripLeg) {
	if err := assign.Validate(leg); err != nil {
		s.log.Warn("ignoring malformed leg update", zap.Error(err))
		return
	}
	leg = assign.Normalize(leg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != Ready {
		return
	}
	if s.version > s.saved {
		s.log.Debug("leg update ignored; local commit not yet saved")
		return
	}
	// The feed delivers writes in order, so a match for an older saved
	// snapshot is a late echo that a newer save has already replaced.
	if i := s.echoIndexLocked(leg); i >= 0 {
		stale := i < len(s.echoes)-1
		s.echoes = s.echoes[i+1:]
		if stale {
			s.log.Debug("stale echo of an earlier save ignored")
			return
		}
	} else {
		s.echoes = nil
	}
	if reflect.DeepEqual(s.leg, leg) {
		return
	}
	s.leg = leg
	s.broadcastLocked()
}

// Watch returns a channel that receives the leg after every change, starting
// with the current leg when the store is Ready. Slow readers only see the
// newest snapshot. The channel is closed by cancel or Close.
func (s *LegStore) Watch() (<-chan models.TripLeg, func()) {
	ch := make(chan models.TripLeg, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextW
	s.nextW++
	s.watchers[id] = ch
	s.lastUsed = time.Now()
	if s.state == Ready {
		ch <- s.leg.Clone()
	}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if c, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(c)
				s.lastUsed = time.Now()
			}
			s.mu.Unlock()
		})
	}
}

func (s *LegStore) broadcastLocked() {
	for _, ch := range s.watchers {
		snap := s.leg.Clone()
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *LegStore) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// idle reports whether the store can be evicted: nothing watches it, no
// commit is waiting to be saved and it has not been used since cutoff.
func (s *LegStore) idle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers) == 0 && s.version <= s.saved && !s.lastUsed.After(cutoff)
}

// Close unsubscribes from the Persister and closes every watcher. A closed
// store rejects further calls with ErrClosed.
func (s *LegStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.state = Uninitialized
	unsub := s.unsub
	s.unsub = nil
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeHub struct {
	mu      sync.Mutex
	calls   []string
	idleArg time.Duration
	swept   chan struct{}
}

func (f *fakeHub) FlushPending(ctx context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "flush")
	return 0
}

func (f *fakeHub) Evict(idle time.Duration) int {
	f.mu.Lock()
	f.calls = append(f.calls, "evict")
	f.idleArg = idle
	f.mu.Unlock()
	select {
	case f.swept <- struct{}{}:
	default:
	}
	return 1
}

func TestLegSweeper_FlushesThenEvicts(t *testing.T) {
	hub := &fakeHub{}
	w := NewLegSweeper(hub, zap.NewNop(), time.Minute, 15*time.Minute)

	w.sweep()

	if len(hub.calls) != 2 || hub.calls[0] != "flush" || hub.calls[1] != "evict" {
		t.Fatalf("calls = %v, want [flush evict]", hub.calls)
	}
	if hub.idleArg != 15*time.Minute {
		t.Errorf("idle = %v, want 15m", hub.idleArg)
	}
}

func TestLegSweeper_StartStop(t *testing.T) {
	hub := &fakeHub{swept: make(chan struct{}, 1)}
	w := NewLegSweeper(hub, zap.NewNop(), 5*time.Millisecond, time.Minute)

	w.Start()
	select {
	case <-hub.swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}
	w.Stop()
}

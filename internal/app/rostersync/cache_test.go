package rostersync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/automaatje/automaatje/internal/domain/models"
)

type fakeLister struct {
	calls atomic.Int32
	fn    func(ctx context.Context, classID string) ([]models.Trip, error)
}

func (f *fakeLister) ListByClass(ctx context.Context, classID string) ([]models.Trip, error) {
	f.calls.Add(1)
	return f.fn(ctx, classID)
}

func rosterTrips(names ...string) []models.Trip {
	leg := models.EmptyLeg()
	for i, n := range names {
		leg.Children = append(leg.Children, models.Child{ID: string(rune('a' + i)), Name: n})
	}
	return []models.Trip{{Heenreis: &leg}}
}

func TestCache_ReadThrough(t *testing.T) {
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		return rosterTrips("Sam", "Lee"), nil
	}}
	c := NewCache(src, time.Minute, zap.NewNop())

	got, err := c.Known(context.Background(), "class-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam", "Lee"}, Names(got))

	_, err = c.Known(context.Background(), "class-a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCache_ReturnsCopies(t *testing.T) {
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		return rosterTrips("Sam"), nil
	}}
	c := NewCache(src, 0, nil)

	got, err := c.Known(context.Background(), "k")
	require.NoError(t, err)
	got[0].Name = "changed"

	again, err := c.Known(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "Sam", again[0].Name)
}

func TestCache_Expiry(t *testing.T) {
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		return rosterTrips("Sam"), nil
	}}
	c := NewCache(src, time.Minute, zap.NewNop())
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err := c.Known(context.Background(), "k")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = c.Known(context.Background(), "k")
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())

	now = now.Add(31 * time.Second)
	_, err = c.Known(context.Background(), "k")
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCache_Invalidate(t *testing.T) {
	names := []string{"Sam"}
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		return rosterTrips(names...), nil
	}}
	c := NewCache(src, 0, zap.NewNop())

	got, err := c.Known(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam"}, Names(got))

	names = []string{"Sam", "Noor"}
	c.Invalidate("k")

	got, err = c.Known(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam", "Noor"}, Names(got))
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCache_ErrorNotCached(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		if fail {
			return nil, boom
		}
		return rosterTrips("Sam"), nil
	}}
	c := NewCache(src, 0, zap.NewNop())

	_, err := c.Known(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	fail = false
	got, err := c.Known(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam"}, Names(got))
}

func TestCache_ConcurrentMissesShareOneLoad(t *testing.T) {
	release := make(chan struct{})
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		<-release
		return rosterTrips("Sam"), nil
	}}
	c := NewCache(src, 0, zap.NewNop())

	var wg sync.WaitGroup
	results := make([][]models.Child, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.Known(context.Background(), "k")
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}

	// Let every goroutine reach the singleflight call before releasing the load.
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, src.calls.Load())
	for _, r := range results {
		assert.Equal(t, []string{"Sam"}, Names(r))
	}
}

func TestCache_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var first atomic.Bool
	first.Store(true)
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		if first.CompareAndSwap(true, false) {
			close(started)
			<-release
			return rosterTrips("Old"), nil
		}
		return rosterTrips("New"), nil
	}}
	c := NewCache(src, 0, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Known(context.Background(), "k")
	}()
	<-started
	c.Invalidate("k")
	close(release)
	<-done

	got, err := c.Known(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, Names(got))
}

func TestCache_InvalidateAll(t *testing.T) {
	src := &fakeLister{fn: func(ctx context.Context, classID string) ([]models.Trip, error) {
		return rosterTrips(classID), nil
	}}
	c := NewCache(src, 0, zap.NewNop())
	for _, k := range []string{"a", "b"} {
		_, err := c.Known(context.Background(), k)
		require.NoError(t, err)
	}
	require.Equal(t, 2, c.Len())

	c.InvalidateAll()

	assert.Equal(t, 0, c.Len())
	_, err := c.Known(context.Background(), "a")
	require.NoError(t, err)
	assert.EqualValues(t, 3, src.calls.Load())
}

// Package timeouts holds the deadlines used around database I/O.
//
// Values start at the defaults below and may be changed once at startup with
// Configure or ConfigureFromEnv.
//
//   - Ping: health checks
//   - Short: single trip reads and leg loads
//   - Medium: trip lists, creates, updates
//   - Save: one leg write (also bounds saves that outlive their request)
//   - Stream: how long an SSE connection may stay open before the client reconnects
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultSave   = 10 * time.Second
	DefaultStream = 30 * time.Minute
)

// Config holds timeout values. Zero values are ignored by Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Save   time.Duration
	Stream time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Save:   DefaultSave,
		Stream: DefaultStream,
	}
}

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(cur)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Save() time.Duration   { return get(func(c Config) time.Duration { return c.Save }) }
func Stream() time.Duration { return get(func(c Config) time.Duration { return c.Stream }) }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range pairs(&cur, cfg) {
		if p.v > 0 {
			*p.dst = p.v
		}
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// Current returns a copy of the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads AUTOMAATJE_TIMEOUT_{PING,SHORT,MEDIUM,SAVE,STREAM}
// ("2s", "500ms", "1m"). Unset or invalid values are skipped. Returns how many
// were applied.
func ConfigureFromEnv() int {
	var cfg Config
	envs := map[string]*time.Duration{
		"AUTOMAATJE_TIMEOUT_PING":   &cfg.Ping,
		"AUTOMAATJE_TIMEOUT_SHORT":  &cfg.Short,
		"AUTOMAATJE_TIMEOUT_MEDIUM": &cfg.Medium,
		"AUTOMAATJE_TIMEOUT_SAVE":   &cfg.Save,
		"AUTOMAATJE_TIMEOUT_STREAM": &cfg.Stream,
	}
	n := 0
	for name, dst := range envs {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

type pair struct {
	dst *time.Duration
	v   time.Duration
}

func pairs(dst *Config, src Config) []pair {
	return []pair{
		{&dst.Ping, src.Ping},
		{&dst.Short, src.Short},
		{&dst.Medium, src.Medium},
		{&dst.Save, src.Save},
		{&dst.Stream, src.Stream},
	}
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list trips")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}

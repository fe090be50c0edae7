// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for AutoMaatje.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: AUTOMAATJE_MONGO_URI, AUTOMAATJE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "automaatje", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "automaatje-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	// Trip planning
	{Name: "roster_cache_ttl", Default: "5m", Desc: "How long a class roster is cached (0 disables expiry)"},
	{Name: "save_timeout", Default: "10s", Desc: "Upper bound for saving one trip leg"},
	{Name: "watch_trips", Default: true, Desc: "Follow the trips change stream for live updates (requires a replica set)"},
	{Name: "leg_sweep_interval", Default: "1m", Desc: "How often unsaved legs are retried and idle legs evicted"},
	{Name: "leg_idle_ttl", Default: "30m", Desc: "How long an unused trip leg stays in memory"},
	{Name: "edit_rate_per_minute", Default: 240, Desc: "Sustained write requests per user per minute (0 disables limiting)"},
	{Name: "edit_burst", Default: 40, Desc: "Write requests a user may make in a burst"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, AUTOMAATJE_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AUTOMAATJE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		RosterCacheTTL: appValues.Duration("roster_cache_ttl", 5*time.Minute),
		SaveTimeout:    appValues.Duration("save_timeout", 10*time.Second),
		WatchTrips:     appValues.Bool("watch_trips"),
		LegSweep:       appValues.Duration("leg_sweep_interval", time.Minute),
		LegIdleTTL:     appValues.Duration("leg_idle_ttl", 30*time.Minute),

		EditRatePerMinute: appValues.Int("edit_rate_per_minute"),
		EditBurst:         appValues.Int("edit_burst"),
	}

	// In dev, replace the shared default key with a random one so cookies
	// signed by another checkout are not accepted.
	if coreCfg.Env == "dev" && appCfg.SessionKey == devSessionKey {
		appCfg.SessionKey = fmt.Sprintf("%x", securecookie.GenerateRandomKey(32))
		logger.Info("generated random dev session key")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey {
			return fmt.Errorf("session_key must be set in production")
		}
		if len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be at least 32 characters in production")
		}
	}

	if appCfg.SaveTimeout <= 0 {
		return fmt.Errorf("save_timeout must be positive")
	}
	if appCfg.LegSweep <= 0 || appCfg.LegIdleTTL <= 0 {
		return fmt.Errorf("leg_sweep_interval and leg_idle_ttl must be positive")
	}
	if appCfg.EditRatePerMinute < 0 || appCfg.EditBurst < 0 {
		return fmt.Errorf("edit_rate_per_minute and edit_burst must not be negative")
	}
	if appCfg.RosterCacheTTL < 0 {
		return fmt.Errorf("roster_cache_ttl must not be negative")
	}
	return nil
}

// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports, TLS,
// logging level and request body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: automaatje-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Trip planning
	RosterCacheTTL time.Duration // How long a class roster is served from memory
	SaveTimeout    time.Duration // Upper bound for one leg save, independent of the request
	WatchTrips     bool          // Follow the trips change stream (needs a replica set)
	LegSweep       time.Duration // How often failed saves are retried and idle legs evicted
	LegIdleTTL     time.Duration // How long an unused leg stays in memory

	// Write throttling per user; 0 disables it
	EditRatePerMinute int
	EditBurst         int
}

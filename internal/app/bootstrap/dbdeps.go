// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/automaatje/automaatje/internal/app/leghub"
	"github.com/automaatje/automaatje/internal/app/rostersync"
	tripstore "github.com/automaatje/automaatje/internal/app/store/trips"
	"github.com/automaatje/automaatje/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app, plus the
// in-memory services built on top of them. Hooks receive it by value, so
// everything shared is a pointer.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Trips   *tripstore.Store
	Feed    *leghub.Feed
	Hub     *leghub.Hub
	Rosters *rostersync.Cache
	Watcher *workers.TripWatcher
	Sweeper *workers.LegSweeper
}

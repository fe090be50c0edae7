// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/automaatje/automaatje/internal/app/leghub"
	"github.com/automaatje/automaatje/internal/app/rostersync"
	tripstore "github.com/automaatje/automaatje/internal/app/store/trips"
	"github.com/automaatje/automaatje/internal/app/system/indexes"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and builds the services that sit on it.
// Nothing runs in the background until Startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize))

	db := client.Database(appCfg.MongoDatabase)
	return buildDeps(client, db, appCfg, logger), nil
}

// buildDeps wires the trip store, live feed, leg hub, roster cache and the
// background workers together.
func buildDeps(client *mongo.Client, db *mongo.Database, appCfg AppConfig, logger *zap.Logger) DBDeps {
	trips := tripstore.New(db)
	feed := leghub.NewFeed()
	persister := leghub.FeedPersister{
		IO:      trips,
		Feed:    feed,
		Missing: tripstore.ErrLegNotFound,
		Gone:    tripstore.ErrNotFound,
	}
	hub := leghub.NewHub(persister, logger.Named("leghub"), leghub.WithSaveTimeout(appCfg.SaveTimeout))
	rosters := rostersync.NewCache(trips, appCfg.RosterCacheTTL, logger.Named("roster"))
	watcher := workers.NewTripWatcher(trips, feed, hub, rosters, logger.Named("tripwatcher"))
	sweeper := workers.NewLegSweeper(hub, logger.Named("legsweeper"), appCfg.LegSweep, appCfg.LegIdleTTL)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Trips:         trips,
		Feed:          feed,
		Hub:           hub,
		Rosters:       rosters,
		Watcher:       watcher,
		Sweeper:       sweeper,
	}
}

// EnsureSchema creates the indexes the trip queries rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}

// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the workers, makes a last attempt at unsaved legs, closes
// loaded legs (ending event streams) and disconnects from MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Watcher != nil {
		deps.Watcher.Stop()
	}
	if deps.Sweeper != nil {
		deps.Sweeper.Stop()
	}
	if deps.Hub != nil {
		if left := deps.Hub.FlushPending(ctx); left > 0 {
			logger.Warn("legs left unsaved at shutdown", zap.Int("count", left))
		}
		logger.Info("closing trip legs", zap.Int("loaded", deps.Hub.Len()))
		deps.Hub.Close()
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}

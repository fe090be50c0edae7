// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}
	timeouts.Configure(timeouts.Config{Save: appCfg.SaveTimeout})

	if deps.Sweeper != nil {
		deps.Sweeper.Start()
	}
	if appCfg.WatchTrips && deps.Watcher != nil {
		deps.Watcher.Start()
	} else {
		logger.Info("trip change stream disabled; live updates limited to this instance")
	}
	return nil
}

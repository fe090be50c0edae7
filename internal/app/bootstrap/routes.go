// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	exportfeature "github.com/automaatje/automaatje/internal/app/features/export"
	healthfeature "github.com/automaatje/automaatje/internal/app/features/health"
	legsfeature "github.com/automaatje/automaatje/internal/app/features/legs"
	sessionfeature "github.com/automaatje/automaatje/internal/app/features/session"
	tripsfeature "github.com/automaatje/automaatje/internal/app/features/trips"
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"github.com/automaatje/automaatje/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// AutoMaatje is a JSON API: the session middleware puts the signed-in class
// member into context and every /trips route checks it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	limiter := ratelimit.New(appCfg.EditRatePerMinute, appCfg.EditBurst)
	return newRouter(coreCfg.Env, deps, sessionMgr, limiter, logger), nil
}

func newRouter(env string, deps DBDeps, sessionMgr *auth.SessionManager, limiter *ratelimit.Limiter, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Hub.Len, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	sessionHandler := sessionfeature.NewHandler(sessionMgr, env == "dev", logger)
	r.Mount("/session", sessionfeature.Routes(sessionHandler))

	// Leg editing and the export are nested under a trip. Writes are
	// throttled per user after the session is loaded.
	tr := r.With(limiter.Middleware)

	legsHandler := legsfeature.NewHandler(deps.Trips, deps.Hub, deps.Rosters, logger)
	tr.Mount("/trips/{tripID}/legs", legsfeature.Routes(legsHandler, sessionMgr))

	exportHandler := exportfeature.NewHandler(deps.Trips, deps.Hub, logger)
	r.Mount("/trips/{tripID}/export.pdf", exportfeature.Routes(exportHandler, sessionMgr))

	tripsHandler := tripsfeature.NewHandler(deps.Trips, deps.Hub, deps.Rosters, logger)
	tr.Mount("/trips", tripsfeature.Routes(tripsHandler, sessionMgr))

	return r
}

package bootstrap

import (
	"net/http"
	"testing"
	"time"

	"github.com/automaatje/automaatje/internal/app/system/ratelimit"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/automaatje/automaatje/internal/testutil"
	"go.uber.org/zap"
)

func TestRouter_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	deps := buildDeps(db.Client(), db, cfg, zap.NewNop())
	t.Cleanup(deps.Hub.Close)
	if err := EnsureSchema(ctx, nil, cfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	trip := testutil.NewFixtures(t, db).CreateTripWithLegs(ctx, "groep7", "Artis", testutil.SampleLeg(), models.EmptyLeg())
	router := newRouter("test", deps, testutil.NewSessionManager(t), ratelimit.New(600, 100), zap.NewNop())
	user := testutil.ClassMember("groep7")
	base := "/trips/" + trip.ID.Hex()

	tests := []struct {
		method string
		path   string
		body   any
		status int
	}{
		{http.MethodGet, "/trips", nil, http.StatusOK},
		{http.MethodGet, base, nil, http.StatusOK},
		{http.MethodGet, base + "/roster", nil, http.StatusOK},
		{http.MethodGet, base + "/legs/heenreis", nil, http.StatusOK},
		{http.MethodPost, base + "/legs/heenreis/moves", map[string]string{"child_id": "k1", "target": "c1"}, http.StatusOK},
		{http.MethodPost, base + "/legs/terugreis/cars", map[string]any{"driver": "Bo", "capacity": 4}, http.StatusCreated},
		{http.MethodGet, base + "/export.pdf", nil, http.StatusOK},
		{http.MethodGet, base + "/legs/sideways", nil, http.StatusNotFound},
	}
	for _, tc := range tests {
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(tc.method, tc.path, tc.body, user))
		if rec.Code != tc.status {
			t.Errorf("%s %s: status %d, want %d (body %s)", tc.method, tc.path, rec.Code, tc.status, rec.Body.String())
		}
	}

	// The move was saved to MongoDB.
	leg, err := deps.Trips.LoadLeg(ctx, trip.ID.Hex(), models.Outbound)
	if err != nil {
		t.Fatalf("LoadLeg: %v", err)
	}
	if len(leg.Cars[0].Assigned) != 1 {
		t.Errorf("saved car has %d passengers, want 1", len(leg.Cars[0].Assigned))
	}

	// Anonymous requests are rejected.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, base+"/legs/heenreis"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestStartupAndShutdown_WithoutWatcher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	cfg.WatchTrips = false
	cfg.SaveTimeout = 3 * time.Second
	deps := buildDeps(db.Client(), db, cfg, zap.NewNop())
	deps.MongoClient = nil // the test database owns the client
	t.Cleanup(timeouts.Reset)

	if err := Startup(ctx, nil, cfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	if err := Shutdown(ctx, nil, cfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if timeouts.Save() != 3*time.Second {
		t.Errorf("save timeout = %v, want 3s", timeouts.Save())
	}
	if deps.Hub.Len() != 0 {
		t.Errorf("hub not closed")
	}
}

package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParams adds chi URL parameters (key, value pairs) to the request
// context, for handler tests that call a handler method directly.
func WithChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateTrip inserts a trip for classID with empty legs.
func (f *Fixtures) CreateTrip(ctx context.Context, classID, name string) models.Trip {
	f.t.Helper()
	return f.CreateTripWithLegs(ctx, classID, name, models.EmptyLeg(), models.EmptyLeg())
}

// CreateTripWithLegs inserts a trip with the given outbound and return legs.
func (f *Fixtures) CreateTripWithLegs(ctx context.Context, classID, name string, out, ret models.TripLeg) models.Trip {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	trip := models.Trip{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Date:        now.Add(7 * 24 * time.Hour),
		Destination: "Artis",
		ClassID:     classID,
		CreatedBy:   "fixture",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	trip.SetLeg(models.Outbound, out)
	trip.SetLeg(models.Return, ret)

	if _, err := f.db.Collection("trips").InsertOne(ctx, trip); err != nil {
		f.t.Fatalf("failed to create test trip: %v", err)
	}
	return trip
}

// SampleLeg returns a leg with one car for two and three children in the pool.
func SampleLeg() models.TripLeg {
	return models.TripLeg{
		Cars: []models.Car{
			{ID: "c1", Driver: "Ann", Capacity: 2, Assigned: []models.Child{}},
		},
		Children: []models.Child{
			{ID: "k1", Name: "Sam"},
			{ID: "k2", Name: "Lee"},
			{ID: "k3", Name: "Max"},
		},
	}
}

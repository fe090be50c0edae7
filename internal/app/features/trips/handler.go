// internal/app/features/trips/handler.go
package trips

import (
	"context"
	"time"

	"github.com/automaatje/automaatje/internal/app/leghub"
	"github.com/automaatje/automaatje/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TripStore is the part of the trip store this feature uses.
type TripStore interface {
	Create(ctx context.Context, t models.Trip) (models.Trip, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Trip, error)
	ListByClass(ctx context.Context, classID string) ([]models.Trip, error)
	UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, date time.Time, destination string) (models.Trip, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Roster is the class roster cache.
type Roster interface {
	Known(ctx context.Context, classID string) ([]models.Child, error)
	Invalidate(classID string)
}

// Handler is the dependency container for the trips feature.
type Handler struct {
	Trips  TripStore
	Hub    *leghub.Hub
	Roster Roster
	Log    *zap.Logger
}

// NewHandler constructs a trips Handler. It is called from BuildHandler.
func NewHandler(trips TripStore, hub *leghub.Hub, roster Roster, logger *zap.Logger) *Handler {
	return &Handler{
		Trips:  trips,
		Hub:    hub,
		Roster: roster,
		Log:    logger,
	}
}

// Package tripaccess resolves the trip in a request URL and checks that the
// signed-in user's class owns it.
package tripaccess

import (
	"context"
	"errors"
	"net/http"

	tripstore "github.com/automaatje/automaatje/internal/app/store/trips"
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// URLParam is the chi parameter holding the trip id.
const URLParam = "tripID"

// ErrNoClass is returned when the request carries no class member.
var ErrNoClass = errors.New("no class in session")

// Getter is the trip lookup used by Load.
type Getter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Trip, error)
}

// Load returns the trip named by the tripID URL parameter. Trips of other
// classes are reported as tripstore.ErrNotFound so their existence is not
// revealed.
func Load(r *http.Request, g Getter) (models.Trip, error) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.ClassID == "" {
		return models.Trip{}, ErrNoClass
	}
	id, err := tripstore.ParseID(chi.URLParam(r, URLParam))
	if err != nil {
		return models.Trip{}, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	t, err := g.GetByID(ctx, id)
	if err != nil {
		return models.Trip{}, err
	}
	if t.ClassID != u.ClassID {
		return models.Trip{}, tripstore.ErrNotFound
	}
	return t, nil
}

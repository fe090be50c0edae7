package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	tripstore "github.com/automaatje/automaatje/internal/app/store/trips"
	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemTrips is an in-memory stand-in for the trip store, for handler tests
// that do not need MongoDB. It returns the same sentinel errors.
type MemTrips struct {
	mu    sync.Mutex
	trips map[primitive.ObjectID]models.Trip

	// SaveErr, when set, is returned by SaveLeg.
	SaveErr error
	// Saves counts successful SaveLeg calls.
	Saves int
}

// NewMemTrips returns an empty store.
func NewMemTrips() *MemTrips {
	return &MemTrips{trips: make(map[primitive.ObjectID]models.Trip)}
}

// Put stores t as is and returns it.
func (m *MemTrips) Put(t models.Trip) models.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.trips[t.ID] = clone(t)
	return t
}

func clone(t models.Trip) models.Trip {
	for _, dir := range models.Directions {
		if l := t.Leg(dir); l != nil {
			t.SetLeg(dir, *l)
		}
	}
	return t
}

func (m *MemTrips) Create(_ context.Context, t models.Trip) (models.Trip, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Name = strings.TrimSpace(t.Name)
	t.NameCI = text.Fold(t.Name)
	for _, dir := range models.Directions {
		t.SetLeg(dir, t.LegOrEmpty(dir))
	}
	t.CreatedAt, t.UpdatedAt = now, now
	return m.Put(t), nil
}

func (m *MemTrips) GetByID(_ context.Context, id primitive.ObjectID) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return models.Trip{}, tripstore.ErrNotFound
	}
	return clone(t), nil
}

func (m *MemTrips) ListByClass(_ context.Context, classID string) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.ClassID == classID {
			out = append(out, clone(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].NameCI < out[j].NameCI
	})
	return out, nil
}

func (m *MemTrips) UpdateInfo(_ context.Context, id primitive.ObjectID, name string, date time.Time, destination string) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return models.Trip{}, tripstore.ErrNotFound
	}
	if n := strings.TrimSpace(name); n != "" {
		t.Name, t.NameCI = n, text.Fold(n)
	}
	if !date.IsZero() {
		t.Date = date.UTC()
	}
	t.Destination = strings.TrimSpace(destination)
	t.UpdatedAt = time.Now().UTC()
	m.trips[id] = t
	return clone(t), nil
}

func (m *MemTrips) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return 0, nil
	}
	delete(m.trips, id)
	return 1, nil
}

func (m *MemTrips) LoadLeg(_ context.Context, tripID string, dir models.Direction) (models.TripLeg, error) {
	id, err := tripstore.ParseID(tripID)
	if err != nil {
		return models.TripLeg{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return models.TripLeg{}, tripstore.ErrNotFound
	}
	l := t.Leg(dir)
	if l == nil {
		return models.TripLeg{}, tripstore.ErrLegNotFound
	}
	return l.Clone(), nil
}

func (m *MemTrips) SaveLeg(_ context.Context, tripID string, dir models.Direction, leg models.TripLeg) error {
	id, err := tripstore.ParseID(tripID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	t, ok := m.trips[id]
	if !ok {
		return tripstore.ErrNotFound
	}
	t.SetLeg(dir, leg)
	t.UpdatedAt = time.Now().UTC()
	m.trips[id] = t
	m.Saves++
	return nil
}

// SetSaveErr changes SaveErr under the store lock.
func (m *MemTrips) SetSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErr = err
}

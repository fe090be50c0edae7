// internal/app/store/trips/tripstore.go
package tripstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the name of the trips collection.
const Collection = "trips"

var (
	// ErrNotFound is returned when no trip matches the id.
	ErrNotFound = errors.New("trip not found")
	// ErrLegNotFound is returned by LoadLeg when the trip has no data for the direction.
	ErrLegNotFound = errors.New("trip has no data for this leg")
	// ErrBadID is returned for ids that are not ObjectID hex strings.
	ErrBadID = errors.New("invalid trip id")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// ParseID converts a hex trip id.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrBadID, id)
	}
	return oid, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Trip, error) {
	var t models.Trip
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Trip{}, ErrNotFound
		}
		return models.Trip{}, err
	}
	return t, nil
}

// Create inserts t with a new id. Missing legs are stored empty so both
// directions exist from the start.
func (s *Store) Create(ctx context.Context, t models.Trip) (models.Trip, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Name = strings.TrimSpace(t.Name)
	t.NameCI = text.Fold(t.Name)
	t.Date = t.Date.UTC()
	for _, dir := range models.Directions {
		t.SetLeg(dir, t.LegOrEmpty(dir))
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Trip{}, err
	}
	return t, nil
}

// ListByClass returns the trips of a class ordered by date, then name.
func (s *Store) ListByClass(ctx context.Context, classID string) ([]models.Trip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"class_id": classID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Trip{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateInfo changes the descriptive fields of a trip. Legs are untouched.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, date time.Time, destination string) (models.Trip, error) {
	set := bson.M{
		"updated_at":  time.Now().UTC(),
		"destination": strings.TrimSpace(destination),
	}
	if n := strings.TrimSpace(name); n != "" {
		set["name"] = n
		set["name_ci"] = text.Fold(n)
	}
	if !date.IsZero() {
		set["date"] = date.UTC()
	}

	var t models.Trip
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Trip{}, ErrNotFound
	}
	return t, err
}

// Delete removes a trip. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// LoadLeg reads one leg of a trip.
func (s *Store) LoadLeg(ctx context.Context, tripID string, dir models.Direction) (models.TripLeg, error) {
	oid, err := ParseID(tripID)
	if err != nil {
		return models.TripLeg{}, err
	}
	opts := options.FindOne().SetProjection(bson.M{string(dir): 1})
	var t models.Trip
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TripLeg{}, ErrNotFound
		}
		return models.TripLeg{}, err
	}
	leg := t.Leg(dir)
	if leg == nil {
		return models.TripLeg{}, ErrLegNotFound
	}
	return *leg, nil
}

// SaveLeg overwrites one leg of a trip. The last write wins.
func (s *Store) SaveLeg(ctx context.Context, tripID string, dir models.Direction, leg models.TripLeg) error {
	oid, err := ParseID(tripID)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		string(dir):  leg.Clone(),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByClass returns the number of trips in a class.
func (s *Store) CountByClass(ctx context.Context, classID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"class_id": classID})
}

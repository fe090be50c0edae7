// internal/domain/models/trip.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip is a school outing planned by one class.
//
// NOTE:
//   - Heenreis and Terugreis are independent legs; a child or car in one leg
//     has no required counterpart in the other.
//   - Legs are embedded in the trip document and written one leg at a time.
//   - ClassID scopes visibility; membership itself lives outside this service.
type Trip struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Date        time.Time          `bson:"date" json:"date"`
	Destination string             `bson:"destination" json:"destination"`
	ClassID     string             `bson:"class_id" json:"class_id"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`

	Heenreis  *TripLeg `bson:"heenreis,omitempty" json:"heenreis"`
	Terugreis *TripLeg `bson:"terugreis,omitempty" json:"terugreis"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Leg returns the leg for dir, or nil when the trip has no data for it yet.
func (t Trip) Leg(dir Direction) *TripLeg {
	switch dir {
	case Outbound:
		return t.Heenreis
	case Return:
		return t.Terugreis
	}
	return nil
}

// LegOrEmpty returns a copy of the leg for dir, or an empty leg.
func (t Trip) LegOrEmpty(dir Direction) TripLeg {
	if l := t.Leg(dir); l != nil {
		return l.Clone()
	}
	return EmptyLeg()
}

// SetLeg stores a copy of leg under dir.
func (t *Trip) SetLeg(dir Direction, leg TripLeg) {
	c := leg.Clone()
	switch dir {
	case Outbound:
		t.Heenreis = &c
	case Return:
		t.Terugreis = &c
	}
}

// internal/domain/models/tripleg.go
package models

import "fmt"

// Direction names one leg of a trip.
type Direction string

const (
	// Outbound is the "heenreis" leg.
	Outbound Direction = "heenreis"
	// Return is the "terugreis" leg.
	Return Direction = "terugreis"
)

// Directions lists both legs in display order.
var Directions = []Direction{Outbound, Return}

// ParseDirection accepts the stored names and their English aliases.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case string(Outbound), "outbound":
		return Outbound, nil
	case string(Return), "return":
		return Return, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// TripLeg is the mutable state of one direction of a trip.
//
// Children is the unassigned pool. A child id appears in exactly one place:
// the pool or the Assigned list of exactly one car.
type TripLeg struct {
	Cars     []Car   `bson:"cars" json:"cars"`
	Children []Child `bson:"children" json:"children"`
}

// EmptyLeg returns a leg with non-nil, empty slices so it encodes as
// {"cars":[],"children":[]} rather than nulls.
func EmptyLeg() TripLeg {
	return TripLeg{Cars: []Car{}, Children: []Child{}}
}

// Clone returns a deep copy that shares no slices with l.
func (l TripLeg) Clone() TripLeg {
	out := TripLeg{
		Cars:     make([]Car, len(l.Cars)),
		Children: append(make([]Child, 0, len(l.Children)), l.Children...),
	}
	for i, c := range l.Cars {
		c.Assigned = append(make([]Child, 0, len(c.Assigned)), c.Assigned...)
		out.Cars[i] = c
	}
	return out
}

// ChildCount returns the number of children in the pool and all cars.
func (l TripLeg) ChildCount() int {
	n := len(l.Children)
	for _, c := range l.Cars {
		n += len(c.Assigned)
	}
	return n
}

// AllChildren returns pool children followed by each car's passengers.
func (l TripLeg) AllChildren() []Child {
	out := make([]Child, 0, l.ChildCount())
	out = append(out, l.Children...)
	for _, c := range l.Cars {
		out = append(out, c.Assigned...)
	}
	return out
}

// Seats returns the total capacity of all cars.
func (l TripLeg) Seats() int {
	n := 0
	for _, c := range l.Cars {
		n += c.Capacity
	}
	return n
}

// internal/app/assign/engine.go

// Package assign holds the child-to-car assignment rules for a single trip leg.
//
// Every function takes a leg by value and returns a new leg; the input is never
// modified. When an operation is rejected the input leg itself is returned, so
// callers can rely on the result being deep-equal to what they passed in.
package assign

import (
	"strings"

	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/google/uuid"
)

// PoolTarget is the drop target name for the unassigned pool.
const PoolTarget = "pool"

// NewID generates ids for new children and cars.
var NewID = func() string { return uuid.NewString() }

// Location says where a child sits inside a leg. CarIndex is -1 for the pool.
type Location struct {
	CarIndex int
	Index    int
}

// InPool reports whether the location is the unassigned pool.
func (l Location) InPool() bool { return l.CarIndex < 0 }

// Locate finds childID in the pool or in a car.
func Locate(leg models.TripLeg, childID string) (Location, bool) {
	for i, c := range leg.Children {
		if c.ID == childID {
			return Location{CarIndex: -1, Index: i}, true
		}
	}
	for ci, car := range leg.Cars {
		for i, c := range car.Assigned {
			if c.ID == childID {
				return Location{CarIndex: ci, Index: i}, true
			}
		}
	}
	return Location{}, false
}

func carIndex(leg models.TripLeg, carID string) int {
	for i, c := range leg.Cars {
		if c.ID == carID {
			return i
		}
	}
	return -1
}

// take removes the child at loc from a cloned leg and returns it.
func take(leg *models.TripLeg, loc Location) models.Child {
	if loc.InPool() {
		c := leg.Children[loc.Index]
		leg.Children = append(leg.Children[:loc.Index], leg.Children[loc.Index+1:]...)
		return c
	}
	car := &leg.Cars[loc.CarIndex]
	c := car.Assigned[loc.Index]
	car.Assigned = append(car.Assigned[:loc.Index], car.Assigned[loc.Index+1:]...)
	return c
}

// Assign moves childID into the car carID.
//
// A move onto the child's own car is a NoOp even when that car is full. A move
// onto a full car returns the input leg with CarFull.
func Assign(leg models.TripLeg, childID, carID string) (models.TripLeg, Outcome) {
	loc, ok := Locate(leg, childID)
	if !ok {
		return leg, NotFound
	}
	target := carIndex(leg, carID)
	if target < 0 {
		return leg, InvalidTarget
	}
	if loc.CarIndex == target {
		return leg, NoOp
	}
	if leg.Cars[target].Full() {
		return leg, CarFull
	}

	out := leg.Clone()
	child := take(&out, loc)
	out.Cars[target].Assigned = append(out.Cars[target].Assigned, child)
	return out, Moved
}

// Unassign returns childID to the pool.
func Unassign(leg models.TripLeg, childID string) (models.TripLeg, Outcome) {
	loc, ok := Locate(leg, childID)
	if !ok {
		return leg, NotFound
	}
	if loc.InPool() {
		return leg, NoOp
	}
	out := leg.Clone()
	child := take(&out, loc)
	out.Children = append(out.Children, child)
	return out, Moved
}

// Move applies a drag-and-drop intent. target is a car id or PoolTarget.
func Move(leg models.TripLeg, childID, target string) (models.TripLeg, Outcome) {
	if target == PoolTarget {
		return Unassign(leg, childID)
	}
	return Assign(leg, childID, target)
}

// AddCar appends a new empty car.
func AddCar(leg models.TripLeg, driver string, capacity int) (models.TripLeg, models.Car, error) {
	driver = strings.TrimSpace(driver)
	if driver == "" {
		return leg, models.Car{}, ErrInvalidInput
	}
	if capacity < 1 {
		return leg, models.Car{}, ErrInvalidCapacity
	}
	car := models.Car{
		ID:       NewID(),
		Driver:   driver,
		Capacity: capacity,
		Assigned: []models.Child{},
	}
	out := leg.Clone()
	out.Cars = append(out.Cars, car)
	return out, car, nil
}

// UpdateCar changes a car's driver and capacity. Lowering capacity below the
// number of passengers is rejected rather than unseating anyone.
func UpdateCar(leg models.TripLeg, carID, driver string, capacity int) (models.TripLeg, error) {
	i := carIndex(leg, carID)
	if i < 0 {
		return leg, ErrNotFound
	}
	driver = strings.TrimSpace(driver)
	if driver == "" {
		return leg, ErrInvalidInput
	}
	if capacity < 1 {
		return leg, ErrInvalidCapacity
	}
	if capacity < len(leg.Cars[i].Assigned) {
		return leg, ErrCapacityBelowAssigned
	}
	out := leg.Clone()
	out.Cars[i].Driver = driver
	out.Cars[i].Capacity = capacity
	return out, nil
}

// RemoveCar drops carID after appending its passengers to the pool.
func RemoveCar(leg models.TripLeg, carID string) (models.TripLeg, error) {
	i := carIndex(leg, carID)
	if i < 0 {
		return leg, ErrNotFound
	}
	out := leg.Clone()
	out.Children = append(out.Children, out.Cars[i].Assigned...)
	out.Cars = append(out.Cars[:i], out.Cars[i+1:]...)
	return out, nil
}

// AddChild appends a new child with a fresh id to the pool.
func AddChild(leg models.TripLeg, name string) (models.TripLeg, models.Child, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return leg, models.Child{}, ErrInvalidInput
	}
	child := models.Child{ID: NewID(), Name: name}
	out := leg.Clone()
	out.Children = append(out.Children, child)
	return out, child, nil
}

// RenameChild changes the name of childID wherever it sits.
func RenameChild(leg models.TripLeg, childID, name string) (models.TripLeg, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return leg, ErrInvalidInput
	}
	loc, ok := Locate(leg, childID)
	if !ok {
		return leg, ErrNotFound
	}
	out := leg.Clone()
	if loc.InPool() {
		out.Children[loc.Index].Name = name
	} else {
		out.Cars[loc.CarIndex].Assigned[loc.Index].Name = name
	}
	return out, nil
}

// RemoveChild discards childID from the leg.
func RemoveChild(leg models.TripLeg, childID string) (models.TripLeg, error) {
	loc, ok := Locate(leg, childID)
	if !ok {
		return leg, ErrNotFound
	}
	out := leg.Clone()
	take(&out, loc)
	return out, nil
}

// internal/app/assign/outcome.go
package assign

import "errors"

// Outcome is the typed result of a move. Expected conditions (full car,
// unknown id) are outcomes, not errors.
type Outcome string

const (
	Moved         Outcome = "moved"
	NoOp          Outcome = "noop"
	CarFull       Outcome = "car_full"
	NotFound      Outcome = "not_found"
	InvalidTarget Outcome = "invalid_target"
)

// Changed reports whether the leg returned alongside o differs from the input.
func (o Outcome) Changed() bool {
	return o == Moved
}

var (
	// ErrNotFound is returned when a referenced child or car is not in the leg.
	ErrNotFound = errors.New("not found in leg")
	// ErrInvalidCapacity is returned when a car capacity is below 1.
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	// ErrInvalidInput is returned for empty names or drivers.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCapacityBelowAssigned is returned when a capacity edit would strand passengers.
	ErrCapacityBelowAssigned = errors.New("capacity is below the number of assigned children")
	// ErrCorruptLeg is returned by Validate for legs that break an invariant.
	ErrCorruptLeg = errors.New("leg violates assignment invariants")
	// ErrCarFull is the error form of the CarFull outcome.
	ErrCarFull = errors.New("car is full")
)

// Err maps a failed outcome onto the matching sentinel, or nil.
func (o Outcome) Err() error {
	switch o {
	case NotFound, InvalidTarget:
		return ErrNotFound
	case CarFull:
		return ErrCarFull
	}
	return nil
}

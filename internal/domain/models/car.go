// internal/domain/models/car.go
package models

// Car is one vehicle driving a trip leg.
//
// len(Assigned) <= Capacity holds after every committed operation. Assigned is
// kept in insertion order, which only matters for display.
type Car struct {
	ID       string  `bson:"id" json:"id"`
	Driver   string  `bson:"driver" json:"driver"`
	Capacity int     `bson:"capacity" json:"capacity"`
	Assigned []Child `bson:"assigned" json:"assigned"`
}

// Full reports whether no seat is left.
func (c Car) Full() bool {
	return len(c.Assigned) >= c.Capacity
}

// Free returns the number of empty seats (never negative).
func (c Car) Free() int {
	if n := c.Capacity - len(c.Assigned); n > 0 {
		return n
	}
	return 0
}

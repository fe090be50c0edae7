// internal/app/assign/validate.go
package assign

import (
	"fmt"

	"github.com/automaatje/automaatje/internal/domain/models"
)

// Validate checks the leg invariants: unique car ids, positive capacities,
// no car over capacity, and every child id in exactly one place.
func Validate(leg models.TripLeg) error {
	seen := make(map[string]string, leg.ChildCount())
	place := func(id, where string) error {
		if id == "" {
			return fmt.Errorf("%w: child without id in %s", ErrCorruptLeg, where)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: child %s in both %s and %s", ErrCorruptLeg, id, prev, where)
		}
		seen[id] = where
		return nil
	}

	for _, c := range leg.Children {
		if err := place(c.ID, "pool"); err != nil {
			return err
		}
	}

	cars := make(map[string]struct{}, len(leg.Cars))
	for _, car := range leg.Cars {
		if _, dup := cars[car.ID]; dup || car.ID == "" {
			return fmt.Errorf("%w: duplicate or empty car id %q", ErrCorruptLeg, car.ID)
		}
		cars[car.ID] = struct{}{}
		if car.Capacity < 1 {
			return fmt.Errorf("%w: car %s has capacity %d", ErrCorruptLeg, car.ID, car.Capacity)
		}
		if len(car.Assigned) > car.Capacity {
			return fmt.Errorf("%w: car %s holds %d of %d", ErrCorruptLeg, car.ID, len(car.Assigned), car.Capacity)
		}
		for _, c := range car.Assigned {
			if err := place(c.ID, "car "+car.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// Normalize returns a copy of leg with every nil slice replaced by an empty
// one, so a leg decoded from storage encodes as [] rather than null.
func Normalize(leg models.TripLeg) models.TripLeg {
	return leg.Clone()
}

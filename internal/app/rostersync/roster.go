// internal/app/rostersync/roster.go

// Package rostersync keeps the class-wide list of children that have been
// entered on earlier trips, so organisers can reuse them.
//
// Children are matched by exact, case-sensitive name. Ids are not stable
// across trips, so two different children with the same name collapse into
// one roster entry and a child renamed between trips shows up twice.
package rostersync

import (
	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/domain/models"
)

// CollectAllKnownChildren scans trips in order (outbound pool, outbound cars,
// return pool, return cars) and returns one child per distinct name. The first
// record seen for a name wins. Children without a name are skipped.
func CollectAllKnownChildren(trips []models.Trip) []models.Child {
	seen := make(map[string]struct{})
	out := []models.Child{}
	add := func(c models.Child) {
		if c.Name == "" {
			return
		}
		if _, ok := seen[c.Name]; ok {
			return
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}

	for _, t := range trips {
		for _, dir := range models.Directions {
			leg := t.Leg(dir)
			if leg == nil {
				continue
			}
			for _, c := range leg.Children {
				add(c)
			}
			for _, car := range leg.Cars {
				for _, c := range car.Assigned {
					add(c)
				}
			}
		}
	}
	return out
}

// ImportIntoLeg appends a fresh child to the pool for every known name that is
// not yet anywhere in leg. Children already present keep their id and seat.
// It returns the new leg and the number of children added; importing the same
// roster twice adds nothing the second time.
func ImportIntoLeg(leg models.TripLeg, known []models.Child) (models.TripLeg, int) {
	present := make(map[string]struct{}, leg.ChildCount())
	for _, c := range leg.AllChildren() {
		present[c.Name] = struct{}{}
	}

	out := leg.Clone()
	added := 0
	for _, k := range known {
		if k.Name == "" {
			continue
		}
		if _, ok := present[k.Name]; ok {
			continue
		}
		present[k.Name] = struct{}{}
		out.Children = append(out.Children, models.Child{ID: assign.NewID(), Name: k.Name})
		added++
	}
	if added == 0 {
		return leg, 0
	}
	return out, added
}

// Names returns the names of children in order.
func Names(children []models.Child) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Name
	}
	return out
}

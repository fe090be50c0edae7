// internal/app/features/trips/types.go
package trips

import (
	"fmt"
	"time"

	"github.com/automaatje/automaatje/internal/domain/models"
)

const dateLayout = "2006-01-02"

// tripInput is the body of POST /trips and PUT /trips/{id}.
type tripInput struct {
	Name        string `json:"name" validate:"notblank,max=120"`
	Date        string `json:"date" validate:"required"`
	Destination string `json:"destination" validate:"max=200"`
	SeedRoster  bool   `json:"seed_roster"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return d.UTC(), nil
}

// tripSummary is one row of the trip list.
type tripSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Destination string `json:"destination"`
	Children    int    `json:"children"`
	Seats       int    `json:"seats"`
}

func summarize(t models.Trip) tripSummary {
	out := t.LegOrEmpty(models.Outbound)
	return tripSummary{
		ID:          t.ID.Hex(),
		Name:        t.Name,
		Date:        t.Date.Format(dateLayout),
		Destination: t.Destination,
		Children:    out.ChildCount(),
		Seats:       out.Seats(),
	}
}

// tripView is a trip with both legs as currently held in memory.
type tripView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Date        string         `json:"date"`
	Destination string         `json:"destination"`
	ClassID     string         `json:"class_id"`
	CreatedBy   string         `json:"created_by"`
	Heenreis    models.TripLeg `json:"heenreis"`
	Terugreis   models.TripLeg `json:"terugreis"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func viewOf(t models.Trip, legs map[models.Direction]models.TripLeg) tripView {
	v := tripView{
		ID:          t.ID.Hex(),
		Name:        t.Name,
		Date:        t.Date.Format(dateLayout),
		Destination: t.Destination,
		ClassID:     t.ClassID,
		CreatedBy:   t.CreatedBy,
		Heenreis:    t.LegOrEmpty(models.Outbound),
		Terugreis:   t.LegOrEmpty(models.Return),
		UpdatedAt:   t.UpdatedAt,
	}
	if l, ok := legs[models.Outbound]; ok {
		v.Heenreis = l
	}
	if l, ok := legs[models.Return]; ok {
		v.Terugreis = l
	}
	return v
}

package rostersync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automaatje/automaatje/internal/app/rostersync"
	"github.com/automaatje/automaatje/internal/domain/models"
)

func tripWith(out, ret *models.TripLeg) models.Trip {
	return models.Trip{Name: "trip", Heenreis: out, Terugreis: ret}
}

func TestCollectAllKnownChildren_OrderAndDedup(t *testing.T) {
	first := tripWith(
		&models.TripLeg{
			Children: []models.Child{{ID: "a1", Name: "Sam"}},
			Cars: []models.Car{{ID: "c1", Capacity: 2, Assigned: []models.Child{
				{ID: "a2", Name: "Lee"},
			}}},
		},
		&models.TripLeg{
			Children: []models.Child{{ID: "a3", Name: "Max"}, {ID: "a4", Name: "Sam"}},
		},
	)
	second := tripWith(
		nil,
		&models.TripLeg{Children: []models.Child{{ID: "b1", Name: "Lee"}, {ID: "b2", Name: "Noor"}}},
	)

	got := rostersync.CollectAllKnownChildren([]models.Trip{first, second})

	assert.Equal(t, []string{"Sam", "Lee", "Max", "Noor"}, rostersync.Names(got))
	assert.Equal(t, "a1", got[0].ID, "first seen record wins")
	assert.Equal(t, "a2", got[1].ID)
}

func TestCollectAllKnownChildren_CaseSensitive(t *testing.T) {
	trip := tripWith(&models.TripLeg{Children: []models.Child{
		{ID: "1", Name: "sam"}, {ID: "2", Name: "Sam"}, {ID: "3", Name: ""},
	}}, nil)

	got := rostersync.CollectAllKnownChildren([]models.Trip{trip})

	assert.Equal(t, []string{"sam", "Sam"}, rostersync.Names(got))
}

func TestCollectAllKnownChildren_Empty(t *testing.T) {
	got := rostersync.CollectAllKnownChildren(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestImportIntoLeg(t *testing.T) {
	leg := models.TripLeg{
		Cars: []models.Car{{ID: "c1", Capacity: 2, Assigned: []models.Child{{ID: "x", Name: "Lee"}}}},
		Children: []models.Child{{ID: "y", Name: "Sam"}},
	}
	known := []models.Child{{ID: "k1", Name: "Sam"}, {ID: "k2", Name: "Lee"}, {ID: "k3", Name: "Max"}}

	got, added := rostersync.ImportIntoLeg(leg, known)

	require.Equal(t, 1, added)
	assert.Equal(t, []string{"Sam", "Max"}, rostersync.Names(got.Children))
	assert.NotEqual(t, "k3", got.Children[1].ID, "imported children get fresh ids")
	assert.Equal(t, "x", got.Cars[0].Assigned[0].ID, "existing seat untouched")
	assert.Len(t, leg.Children, 1, "input leg untouched")
}

func TestImportIntoLeg_Idempotent(t *testing.T) {
	known := []models.Child{{ID: "k1", Name: "Sam"}, {ID: "k2", Name: "Lee"}}

	once, added := rostersync.ImportIntoLeg(models.EmptyLeg(), known)
	require.Equal(t, 2, added)

	twice, added := rostersync.ImportIntoLeg(once, known)
	assert.Equal(t, 0, added)
	assert.Equal(t, once, twice)
}

func TestImportIntoLeg_DuplicateNamesInRoster(t *testing.T) {
	known := []models.Child{{ID: "k1", Name: "Sam"}, {ID: "k2", Name: "Sam"}, {ID: "k3", Name: ""}}

	got, added := rostersync.ImportIntoLeg(models.EmptyLeg(), known)

	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"Sam"}, rostersync.Names(got.Children))
}

package assign_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/domain/models"
)

// sampleLeg is the scenario from the planner walkthrough: one car for two and
// three children waiting.
func sampleLeg() models.TripLeg {
	return models.TripLeg{
		Cars: []models.Car{
			{ID: "c1", Driver: "Ann", Capacity: 2, Assigned: []models.Child{}},
		},
		Children: []models.Child{
			{ID: "k1", Name: "Sam"},
			{ID: "k2", Name: "Lee"},
			{ID: "k3", Name: "Max"},
		},
	}
}

func ids(children []models.Child) []string {
	out := make([]string, 0, len(children))
	for _, c := range children {
		out = append(out, c.ID)
	}
	return out
}

func allIDs(leg models.TripLeg) []string {
	out := ids(leg.AllChildren())
	sort.Strings(out)
	return out
}

func TestAssign_Scenario(t *testing.T) {
	leg := sampleLeg()

	leg, out := assign.Assign(leg, "k1", "c1")
	require.Equal(t, assign.Moved, out)
	assert.Equal(t, []string{"k1"}, ids(leg.Cars[0].Assigned))
	assert.Equal(t, []string{"k2", "k3"}, ids(leg.Children))

	leg, out = assign.Assign(leg, "k2", "c1")
	require.Equal(t, assign.Moved, out)
	assert.Equal(t, []string{"k1", "k2"}, ids(leg.Cars[0].Assigned))
	assert.Equal(t, []string{"k3"}, ids(leg.Children))

	before := leg.Clone()
	after, out := assign.Assign(leg, "k3", "c1")
	assert.Equal(t, assign.CarFull, out)
	assert.Equal(t, before, after)
}

func TestAssign_DoesNotMutateInput(t *testing.T) {
	leg := sampleLeg()
	snapshot := leg.Clone()

	_, out := assign.Assign(leg, "k1", "c1")

	require.Equal(t, assign.Moved, out)
	assert.Equal(t, snapshot, leg)
}

func TestAssign_SelfMoveIsNoOpEvenWhenFull(t *testing.T) {
	leg := sampleLeg()
	leg, _ = assign.Assign(leg, "k1", "c1")
	leg, _ = assign.Assign(leg, "k2", "c1")
	require.True(t, leg.Cars[0].Full())

	got, out := assign.Assign(leg, "k1", "c1")

	assert.Equal(t, assign.NoOp, out)
	assert.Equal(t, leg, got)
}

func TestAssign_UnknownChild(t *testing.T) {
	leg := sampleLeg()

	got, out := assign.Assign(leg, "nobody", "c1")

	assert.Equal(t, assign.NotFound, out)
	assert.Equal(t, leg, got)
}

func TestAssign_UnknownCar(t *testing.T) {
	leg := sampleLeg()

	got, out := assign.Assign(leg, "k1", "c9")

	assert.Equal(t, assign.InvalidTarget, out)
	assert.Equal(t, leg, got)
}

func TestAssign_CarToCar(t *testing.T) {
	leg := sampleLeg()
	leg, car2, err := assign.AddCar(leg, "Bob", 1)
	require.NoError(t, err)
	leg, _ = assign.Assign(leg, "k1", "c1")

	leg, out := assign.Assign(leg, "k1", car2.ID)

	require.Equal(t, assign.Moved, out)
	assert.Empty(t, leg.Cars[0].Assigned)
	assert.Equal(t, []string{"k1"}, ids(leg.Cars[1].Assigned))
}

func TestAssign_FullCarFromOtherCarRestoresSource(t *testing.T) {
	leg := sampleLeg()
	leg, small, err := assign.AddCar(leg, "Bob", 1)
	require.NoError(t, err)
	leg, _ = assign.Assign(leg, "k1", small.ID)
	leg, _ = assign.Assign(leg, "k2", "c1")
	leg, _ = assign.Assign(leg, "k3", "c1")
	before := leg.Clone()

	got, out := assign.Assign(leg, "k1", "c1")

	assert.Equal(t, assign.CarFull, out)
	assert.Equal(t, before, got)
}

func TestUnassign(t *testing.T) {
	leg := sampleLeg()
	leg, _ = assign.Assign(leg, "k2", "c1")

	leg, out := assign.Unassign(leg, "k2")

	require.Equal(t, assign.Moved, out)
	assert.Empty(t, leg.Cars[0].Assigned)
	assert.Equal(t, []string{"k1", "k3", "k2"}, ids(leg.Children))

	again, out := assign.Unassign(leg, "k2")
	assert.Equal(t, assign.NoOp, out)
	assert.Equal(t, leg, again)

	_, out = assign.Unassign(leg, "missing")
	assert.Equal(t, assign.NotFound, out)
}

func TestMove_PoolTarget(t *testing.T) {
	leg := sampleLeg()
	leg, _ = assign.Move(leg, "k1", "c1")

	leg, out := assign.Move(leg, "k1", assign.PoolTarget)

	assert.Equal(t, assign.Moved, out)
	assert.Len(t, leg.Children, 3)
}

func TestAddCar_Validation(t *testing.T) {
	leg := sampleLeg()

	_, _, err := assign.AddCar(leg, "Bob", 0)
	assert.ErrorIs(t, err, assign.ErrInvalidCapacity)

	_, _, err = assign.AddCar(leg, "Bob", -3)
	assert.ErrorIs(t, err, assign.ErrInvalidCapacity)

	_, _, err = assign.AddCar(leg, "   ", 4)
	assert.ErrorIs(t, err, assign.ErrInvalidInput)

	got, car, err := assign.AddCar(leg, "  Bob ", 4)
	require.NoError(t, err)
	assert.Equal(t, "Bob", car.Driver)
	assert.NotEmpty(t, car.ID)
	assert.NotNil(t, car.Assigned)
	assert.Len(t, got.Cars, 2)
}

func TestUpdateCar(t *testing.T) {
	leg := sampleLeg()
	leg, _ = assign.Assign(leg, "k1", "c1")
	leg, _ = assign.Assign(leg, "k2", "c1")

	_, err := assign.UpdateCar(leg, "c1", "Ann", 1)
	assert.ErrorIs(t, err, assign.ErrCapacityBelowAssigned)

	_, err = assign.UpdateCar(leg, "c1", "Ann", 0)
	assert.ErrorIs(t, err, assign.ErrInvalidCapacity)

	_, err = assign.UpdateCar(leg, "zz", "Ann", 3)
	assert.ErrorIs(t, err, assign.ErrNotFound)

	got, err := assign.UpdateCar(leg, "c1", "Annie", 5)
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Cars[0].Driver)
	assert.Equal(t, 5, got.Cars[0].Capacity)
	assert.Equal(t, []string{"k1", "k2"}, ids(got.Cars[0].Assigned))
}

func TestRemoveCar_ReturnsPassengersToPool(t *testing.T) {
	leg := sampleLeg()
	leg, _ = assign.Assign(leg, "k1", "c1")
	leg, _ = assign.Assign(leg, "k2", "c1")

	got, err := assign.RemoveCar(leg, "c1")

	require.NoError(t, err)
	assert.Empty(t, got.Cars)
	assert.ElementsMatch(t, []string{"k1", "k2", "k3"}, ids(got.Children))

	_, err = assign.RemoveCar(got, "c1")
	assert.ErrorIs(t, err, assign.ErrNotFound)
}

func TestAddChild(t *testing.T) {
	leg := sampleLeg()

	_, _, err := assign.AddChild(leg, "")
	assert.ErrorIs(t, err, assign.ErrInvalidInput)

	got, child, err := assign.AddChild(leg, "Noor")
	require.NoError(t, err)
	assert.Equal(t, "Noor", child.Name)
	assert.Equal(t, child, got.Children[len(got.Children)-1])
	assert.Len(t, leg.Children, 3, "input leg must be untouched")
}

func TestAddChild_FreshIDs(t *testing.T) {
	leg := models.EmptyLeg()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		var c models.Child
		var err error
		leg, c, err = assign.AddChild(leg, "Same Name")
		require.NoError(t, err)
		require.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
	assert.NoError(t, assign.Validate(leg))
}

func TestRenameChild(t *testing.T) {
	leg := sampleLeg()
	leg, _ = assign.Assign(leg, "k2", "c1")

	got, err := assign.RenameChild(leg, "k2", "Lee-Ann")
	require.NoError(t, err)
	assert.Equal(t, "Lee-Ann", got.Cars[0].Assigned[0].Name)

	got, err = assign.RenameChild(got, "k1", "Samuel")
	require.NoError(t, err)
	assert.Equal(t, "Samuel", got.Children[0].Name)

	_, err = assign.RenameChild(got, "k1", " ")
	assert.ErrorIs(t, err, assign.ErrInvalidInput)

	_, err = assign.RenameChild(got, "nope", "X")
	assert.ErrorIs(t, err, assign.ErrNotFound)
}

func TestRemoveChild(t *testing.T) {
	leg := sampleLeg()
	leg, _ = assign.Assign(leg, "k1", "c1")

	got, err := assign.RemoveChild(leg, "k1")
	require.NoError(t, err)
	assert.Empty(t, got.Cars[0].Assigned)

	got, err = assign.RemoveChild(got, "k3")
	require.NoError(t, err)
	assert.Equal(t, []string{"k2"}, ids(got.Children))

	_, err = assign.RemoveChild(got, "k3")
	assert.ErrorIs(t, err, assign.ErrNotFound)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, assign.Validate(sampleLeg()))
	assert.NoError(t, assign.Validate(models.EmptyLeg()))

	dup := sampleLeg()
	dup.Cars[0].Assigned = []models.Child{{ID: "k1", Name: "Sam"}}
	assert.ErrorIs(t, assign.Validate(dup), assign.ErrCorruptLeg)

	over := sampleLeg()
	over.Children = nil
	over.Cars[0].Assigned = []models.Child{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.ErrorIs(t, assign.Validate(over), assign.ErrCorruptLeg)

	zero := sampleLeg()
	zero.Cars[0].Capacity = 0
	assert.ErrorIs(t, assign.Validate(zero), assign.ErrCorruptLeg)

	twins := sampleLeg()
	twins.Cars = append(twins.Cars, twins.Cars[0])
	assert.ErrorIs(t, assign.Validate(twins), assign.ErrCorruptLeg)
}

func TestNormalize(t *testing.T) {
	leg := assign.Normalize(models.TripLeg{Cars: []models.Car{{ID: "c", Capacity: 1}}})
	assert.NotNil(t, leg.Children)
	assert.NotNil(t, leg.Cars[0].Assigned)
}

// TestRandomOperations drives the engine with a long random sequence and checks
// conservation, capacity and exclusivity after every step.
func TestRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	leg := sampleLeg()
	want := map[string]bool{"k1": true, "k2": true, "k3": true}

	pickChild := func() string {
		all := leg.AllChildren()
		if len(all) == 0 || rng.Intn(10) == 0 {
			return "ghost"
		}
		return all[rng.Intn(len(all))].ID
	}
	pickCar := func() string {
		if len(leg.Cars) == 0 || rng.Intn(10) == 0 {
			return "ghost-car"
		}
		return leg.Cars[rng.Intn(len(leg.Cars))].ID
	}

	for step := 0; step < 2000; step++ {
		before := leg.Clone()
		switch rng.Intn(6) {
		case 0:
			next, out := assign.Assign(leg, pickChild(), pickCar())
			if !out.Changed() {
				require.Equal(t, before, next, "step %d: rejected assign changed the leg", step)
			}
			leg = next
		case 1:
			leg, _ = assign.Unassign(leg, pickChild())
		case 2:
			next, _, err := assign.AddCar(leg, "driver", rng.Intn(4))
			if err == nil {
				leg = next
			}
		case 3:
			next, err := assign.RemoveCar(leg, pickCar())
			if err == nil {
				leg = next
			}
		case 4:
			next, c, err := assign.AddChild(leg, fmt.Sprintf("kid %d", step))
			require.NoError(t, err)
			want[c.ID] = true
			leg = next
		case 5:
			id := pickChild()
			next, err := assign.RemoveChild(leg, id)
			if err == nil {
				delete(want, id)
				leg = next
			}
		}

		require.NoError(t, assign.Validate(leg), "step %d", step)
		expected := make([]string, 0, len(want))
		for id := range want {
			expected = append(expected, id)
		}
		sort.Strings(expected)
		require.Equal(t, expected, allIDs(leg), "step %d: children not conserved", step)
	}
}

package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loungeWithSanding() Room {
	return Room{
		ID:   "room-1",
		Name: "Lounge",
		Walls: []Wall{
			{ID: "wall-1", Name: "North wall", Length: 4, Height: 2.4, SandingLevel: LevelLight},
		},
	}
}

func TestComputeTotalSingleWall(t *testing.T) {
	r := NewResolver(DefaultTable())
	m := Measurements{Rooms: []Room{loungeWithSanding()}}

	result := r.ComputeTotal(m)

	// 4 x 2.4 = 9.6 m² at 5.00/m², plus the cleanup fee.
	require.Len(t, result.Breakdown.RoomTotals, 1)
	assert.InDelta(t, 48.00, result.Breakdown.RoomTotals[0].Total, 1e-9)
	assert.InDelta(t, 150.00, result.Breakdown.CleanupFee, 1e-9)
	assert.InDelta(t, 198.00, result.Total, 1e-9)
}

func TestComputeTotalWallAndCeiling(t *testing.T) {
	r := NewResolver(DefaultTable())
	room := loungeWithSanding()
	room.Ceiling = &Ceiling{
		Width:            4,
		Length:           2.4,
		PreparationLevel: LevelMedium,
		PaintingCoats:    LevelTwoCoat,
	}
	m := Measurements{Rooms: []Room{room}}

	result := r.ComputeTotal(m)

	// Ceiling: 9.6 x (7.00 + 8.50) = 148.80, wall 48.00, cleanup 150.00.
	require.Len(t, result.Breakdown.RoomTotals, 1)
	assert.InDelta(t, 196.80, result.Breakdown.RoomTotals[0].Total, 1e-9)
	assert.InDelta(t, 346.80, result.Total, 1e-9)
}

func TestComputeTotalItemsOnly(t *testing.T) {
	r := NewResolver(DefaultTable())
	m := Measurements{
		InteriorItems: map[string][]Item{
			ItemDoors: {{ID: "door-1", Quantity: 2, Option: LevelMediumPrep}},
		},
	}

	result := r.ComputeTotal(m)

	assert.InDelta(t, 170.00, result.Breakdown.InteriorTotal, 1e-9)
	assert.InDelta(t, 150.00, result.Breakdown.CleanupFee, 1e-9)
	assert.InDelta(t, 320.00, result.Total, 1e-9)
	// The per-item derived cost is written back in place.
	assert.InDelta(t, 170.00, float64(m.InteriorItems[ItemDoors][0].Cost), 1e-9)
}

func TestComputeTotalEmptyDocument(t *testing.T) {
	r := NewResolver(DefaultTable())

	result := r.ComputeTotal(Measurements{})

	assert.Zero(t, result.Total)
	assert.Empty(t, result.Breakdown.RoomTotals)
	assert.Zero(t, result.Breakdown.InteriorTotal)
	assert.Zero(t, result.Breakdown.ExteriorTotal)
	assert.Zero(t, result.Breakdown.CleanupFee)
}

func TestComputeTotalInvalidLengthPricesAsZero(t *testing.T) {
	r := NewResolver(DefaultTable())

	var w Wall
	require.NoError(t, json.Unmarshal([]byte(`{"id":"w1","name":"Wall","length":"abc","height":2.4,"sanding_level":"light"}`), &w))
	m := Measurements{Rooms: []Room{{ID: "r1", Name: "Hall", Walls: []Wall{w}}}}

	result := r.ComputeTotal(m)

	// The garbage length coerces to zero area, but the room still counts
	// as billable content, so only the cleanup fee remains.
	assert.InDelta(t, 0, result.Breakdown.RoomTotals[0].Total, 1e-9)
	assert.InDelta(t, 150.00, result.Total, 1e-9)
}

func TestComputeTotalNegativeInputsClampToZero(t *testing.T) {
	r := NewResolver(DefaultTable())
	m := Measurements{
		Rooms: []Room{{
			ID:   "r1",
			Name: "Cellar",
			Walls: []Wall{
				{ID: "w1", Name: "Wall", Length: -4, Height: 2.4, SandingLevel: LevelLight},
			},
			OtherSurfaces: &OtherSurface{ID: "s1", Description: "Alcove", Area: -3},
		}},
		ExteriorItems: map[string][]Item{
			ItemRainPipe: {{ID: "i1", Quantity: -2}},
		},
	}

	result := r.ComputeTotal(m)

	assert.InDelta(t, 0, result.Breakdown.RoomTotals[0].Total, 1e-9)
	assert.Zero(t, result.Breakdown.ExteriorTotal)
	assert.InDelta(t, 150.00, result.Total, 1e-9)
}

func TestComputeTotalIsIdempotent(t *testing.T) {
	r := NewResolver(DefaultTable())
	m := Measurements{
		Rooms: []Room{loungeWithSanding()},
		InteriorItems: map[string][]Item{
			ItemDoors:     {{ID: "d1", Quantity: 2, Option: LevelMediumPrep}},
			ItemRadiators: {{ID: "rad1", Quantity: 3}},
		},
		ExteriorItems: map[string][]Item{
			ItemFasciaBoards: {{ID: "f1", Quantity: 12}},
		},
	}

	first := r.ComputeTotal(m)
	second := r.ComputeTotal(m)

	assert.Equal(t, first, second)
}

func TestComputeTotalMonotonicInWallLength(t *testing.T) {
	r := NewResolver(DefaultTable())
	m := Measurements{Rooms: []Room{loungeWithSanding()}}

	before := r.ComputeTotal(m)
	m.Rooms[0].Walls[0].Length = 5
	after := r.ComputeTotal(m)

	assert.Greater(t, after.Breakdown.RoomTotals[0].Total, before.Breakdown.RoomTotals[0].Total)
	assert.Greater(t, after.Total, before.Total)
}

func TestComputeTotalCleanupFeeAppliedOnce(t *testing.T) {
	r := NewResolver(DefaultTable())
	m := Measurements{
		Rooms: []Room{loungeWithSanding(), {ID: "r2", Name: "Kitchen"}},
		InteriorItems: map[string][]Item{
			ItemDoors: {{ID: "d1", Quantity: 1, Option: LevelEasyPrep}},
		},
		ExteriorItems: map[string][]Item{
			ItemRainPipe: {{ID: "p1", Quantity: 4}},
		},
	}

	result := r.ComputeTotal(m)

	assert.InDelta(t, 150.00, result.Breakdown.CleanupFee, 1e-9)
	want := result.Breakdown.RoomTotals[0].Total +
		result.Breakdown.RoomTotals[1].Total +
		result.Breakdown.InteriorTotal +
		result.Breakdown.ExteriorTotal +
		result.Breakdown.CleanupFee
	assert.InDelta(t, want, result.Total, 1e-9)
}

func TestComputeTotalDuplicateRoomNamesKeepSeparateRows(t *testing.T) {
	r := NewResolver(DefaultTable())
	bedroom := func(id string) Room {
		return Room{
			ID:   id,
			Name: "Bedroom",
			Walls: []Wall{
				{ID: id + "-w", Name: "Wall", Length: 3, Height: 2.4, PaintingCoats: LevelTwoCoat},
			},
		}
	}
	m := Measurements{Rooms: []Room{bedroom("a"), bedroom("b")}}

	result := r.ComputeTotal(m)

	require.Len(t, result.Breakdown.RoomTotals, 2)
	assert.Equal(t, "a", result.Breakdown.RoomTotals[0].RoomID)
	assert.Equal(t, "b", result.Breakdown.RoomTotals[1].RoomID)
	assert.InDelta(t, result.Breakdown.RoomTotals[0].Total, result.Breakdown.RoomTotals[1].Total, 1e-9)
}

func TestRoomTotalOtherSurfaceUsesInteriorRate(t *testing.T) {
	r := NewResolver(DefaultTable())
	room := Room{
		ID:            "r1",
		Name:          "Garage",
		OtherSurfaces: &OtherSurface{ID: "s1", Description: "Exposed beam", Area: 2.5},
	}

	// 2.5 m² at the interior other-items rate of 30.00.
	assert.InDelta(t, 75.00, r.RoomTotal(room), 1e-9)
}

func TestNormalizeRefreshesDerivedFields(t *testing.T) {
	r := NewResolver(DefaultTable())
	m := Measurements{
		Rooms: []Room{{
			ID:   "r1",
			Name: "Lounge",
			Walls: []Wall{
				{ID: "w1", Name: "Wall", Length: 3.33, Height: 2.4, Area: 999, SandingLevel: LevelLight},
			},
			Ceiling: &Ceiling{Width: 3.33, Length: 2.4, Area: 999, PaintingCoats: LevelOneCoat},
		}},
		InteriorItems: map[string][]Item{
			ItemRadiators: {{ID: "i1", Quantity: 2, Cost: 999}},
		},
		TotalCost: 999,
	}

	result := r.Normalize(&m)

	assert.InDelta(t, 7.99, float64(m.Rooms[0].Walls[0].Area), 1e-9)
	assert.InDelta(t, 7.99, float64(m.Rooms[0].Ceiling.Area), 1e-9)
	assert.InDelta(t, 90.00, float64(m.InteriorItems[ItemRadiators][0].Cost), 1e-9)
	assert.InDelta(t, result.Total, float64(m.TotalCost), 1e-9)
}

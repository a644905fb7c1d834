package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/villaplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateCommonArea_ProportionalToArea(t *testing.T) {
	lots := []model.MicroVillaLot{
		{LotNumber: 1, Area: 100},
		{LotNumber: 2, Area: 100},
		{LotNumber: 3, Area: 200},
	}

	out, check := AllocateCommonArea(lots, 300, 0.01)

	require.Len(t, out, 3)
	assert.InDelta(t, 25.0, out[0].CommonAreaPercentage, 1e-12)
	assert.InDelta(t, 25.0, out[1].CommonAreaPercentage, 1e-12)
	assert.InDelta(t, 50.0, out[2].CommonAreaPercentage, 1e-12)
	assert.True(t, check.OK)
	assert.NoError(t, check.Err())
	assert.InDelta(t, 100.0, check.Sum, 1e-9)
}

func TestAllocateCommonArea_DoesNotMutateInput(t *testing.T) {
	lots := []model.MicroVillaLot{{LotNumber: 1, Area: 120}, {LotNumber: 2, Area: 95}}

	_, _ = AllocateCommonArea(lots, 50, 0.01)

	for _, lot := range lots {
		assert.Equal(t, 0.0, lot.CommonAreaPercentage)
	}
}

func TestAllocateCommonArea_IgnoresClubArea(t *testing.T) {
	lots := []model.MicroVillaLot{{Area: 120}, {Area: 95}}

	a, _ := AllocateCommonArea(lots, 10, 0.01)
	b, _ := AllocateCommonArea(lots, 10000, 0.01)

	assert.Equal(t, a, b)
}

func TestAllocateCommonArea_EmptyFailsCheck(t *testing.T) {
	out, check := AllocateCommonArea(nil, 300, 0.01)

	assert.Empty(t, out)
	assert.False(t, check.OK)
	assert.True(t, errors.Is(check.Err(), ErrAllocationDrift))
}

func TestAllocateCommonArea_ToleranceApplies(t *testing.T) {
	lots := []model.MicroVillaLot{{Area: 100}, {Area: 100}}

	_, check := AllocateCommonArea(lots, 0, -1)

	assert.False(t, check.OK, "negative tolerance can never be met")
	assert.ErrorIs(t, check.Err(), ErrAllocationDrift)
}

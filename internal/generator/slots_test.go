package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

func sameCells(top, slots domain.Grid) int {
	n := 0
	for i, c := range top.Cells {
		if c != domain.Empty && slots.Cells[i] == c {
			n++
		}
	}
	return n
}

func requireDerived(t *testing.T, top, slots domain.Grid) {
	t.Helper()
	require.Equal(t, top.Mask(), slots.Mask(), "occupancy mask changed")
	require.Equal(t, top.Histogram(), slots.Histogram(), "histogram changed")
}

func TestDeriveDerangement(t *testing.T) {
	top := gridOf(t,
		"0011",
		"22.1",
		"0.22",
	)
	slots, info, err := DeriveSlots(top, domain.DeriveDerangement, 0)
	require.NoError(t, err)
	requireDerived(t, top, slots)
	require.Zero(t, sameCells(top, slots))
	require.Equal(t, domain.DeriveDerangement, info.Mode)
	require.Equal(t, top.OccupiedCount(), info.Occupied)
}

func TestDeriveDerangementDeterministic(t *testing.T) {
	top := gridOf(t, "0102", "2010")
	a, _, err := DeriveSlots(top, domain.DeriveDerangement, 0)
	require.NoError(t, err)
	b, _, err := DeriveSlots(top, domain.DeriveDerangement, 0)
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

func TestDeriveDerangementDominantInfeasible(t *testing.T) {
	// Color 0 holds 3 of 4 occupied cells: more than half, no
	// per-cell-mismatch assignment exists.
	top := gridOf(t, "000", "1..")
	_, _, err := DeriveSlots(top, domain.DeriveDerangement, 0)
	require.Error(t, err)
}

func TestDeriveDerangementSingleColor(t *testing.T) {
	top := gridOf(t, "00")
	_, _, err := DeriveSlots(top, domain.DeriveDerangement, 0)
	require.Error(t, err)
}

func TestDeriveRotateExplicitShift(t *testing.T) {
	top := gridOf(t, "012")
	slots, info, err := DeriveSlots(top, domain.DeriveRotate, 1)
	require.NoError(t, err)
	requireDerived(t, top, slots)
	require.Equal(t, 1, info.Shift)
	require.Equal(t, domain.Cell(1), slots.At(0, 0))
	require.Equal(t, domain.Cell(2), slots.At(1, 0))
	require.Equal(t, domain.Cell(0), slots.At(2, 0))
}

func TestDeriveRotateMinimizesSame(t *testing.T) {
	// Shift 1 collides 0 with 0 at position 2; shift search must find a
	// shift with zero same-cell matches.
	top := gridOf(t, "0012")
	slots, info, err := DeriveSlots(top, domain.DeriveRotate, 0)
	require.NoError(t, err)
	requireDerived(t, top, slots)
	require.Zero(t, info.SameCellCount)
	require.Zero(t, sameCells(top, slots))
}

func TestDeriveSame(t *testing.T) {
	top := gridOf(t, "01", "1.")
	slots, info, err := DeriveSlots(top, domain.DeriveSame, 0)
	require.NoError(t, err)
	require.True(t, top.Equal(slots))
	require.Equal(t, 3, info.SameCellCount)
}

func TestCleanShifts(t *testing.T) {
	// Shift 1 collides the doubled leading color; the listed shifts must
	// all rotate collision-free.
	top := gridOf(t, "0012")
	shifts := cleanShifts(top)
	require.NotEmpty(t, shifts)
	require.NotContains(t, shifts, 1)
	for _, k := range shifts {
		slots, info, err := DeriveSlots(top, domain.DeriveRotate, k)
		require.NoError(t, err)
		require.Zero(t, info.SameCellCount)
		require.Zero(t, sameCells(top, slots))
	}
}

func TestCleanShiftsNoneForBlockedLayout(t *testing.T) {
	// An odd alternation admits no collision-free rotation.
	require.Empty(t, cleanShifts(gridOf(t, "010")))
}

func TestDeriveUnknownMode(t *testing.T) {
	_, _, err := DeriveSlots(gridOf(t, "01"), domain.DeriveMode("bogus"), 0)
	require.Error(t, err)
}

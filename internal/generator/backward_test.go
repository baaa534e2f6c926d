package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

func gridOf(t *testing.T, rows ...string) domain.Grid {
	t.Helper()
	cells := make([][]domain.Cell, len(rows))
	for y, row := range rows {
		r := make([]domain.Cell, len(row))
		for x, ch := range row {
			if ch == '.' {
				r[x] = domain.Empty
			} else {
				r[x] = domain.Cell(ch - '0')
			}
		}
		cells[y] = r
	}
	g, err := domain.GridFromRows(cells)
	require.NoError(t, err)
	return g
}

func checkOrders(t *testing.T, slots domain.Grid, backward, forward []domain.Pos) {
	t.Helper()
	occ := slots.OccupiedCount()
	require.Len(t, forward, occ)
	require.Len(t, backward, occ)

	// backward is the exact reverse of forward.
	for i := range forward {
		require.Equal(t, forward[i], backward[occ-1-i])
	}

	// Every occupied cell appears exactly once.
	seen := make(map[domain.Pos]bool, occ)
	for _, p := range forward {
		require.True(t, slots.Occupied(p.X, p.Y))
		require.False(t, seen[p], "cell %v repeated", p)
		seen[p] = true
	}

	require.NoError(t, VerifyForwardOrder(slots, forward, domain.AllSides))
}

func TestPlaceOrderFullBlock(t *testing.T) {
	slots := gridOf(t,
		"012",
		"120",
		"201",
	)
	backward, forward, err := PlaceOrder(slots, domain.AllSides)
	require.NoError(t, err)
	checkOrders(t, slots, backward, forward)

	// The center is the most interior cell: first placed, last removed.
	center := domain.Pos{X: 1, Y: 1}
	require.Equal(t, center, backward[0])
	require.Equal(t, center, forward[len(forward)-1])
}

func TestPlaceOrderHollowSquare(t *testing.T) {
	slots := gridOf(t,
		"00000",
		"0...0",
		"0...0",
		"0...0",
		"00000",
	)
	backward, forward, err := PlaceOrder(slots, domain.AllSides)
	require.NoError(t, err)
	checkOrders(t, slots, backward, forward)
}

func TestPlaceOrderSparse(t *testing.T) {
	slots := gridOf(t,
		"0..1",
		"....",
		"2..0",
	)
	backward, forward, err := PlaceOrder(slots, domain.AllSides)
	require.NoError(t, err)
	checkOrders(t, slots, backward, forward)
}

func TestPlaceOrderSingleLane(t *testing.T) {
	slots := gridOf(t, "0120")
	_, forward, err := PlaceOrder(slots, domain.SideLeft)
	require.NoError(t, err)
	// Left-only entry forces strict left-to-right removal.
	require.Equal(t, []domain.Pos{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}, forward)
	require.NoError(t, VerifyForwardOrder(slots, forward, domain.SideLeft))
}

func TestPlaceOrderEmpty(t *testing.T) {
	backward, forward, err := PlaceOrder(domain.NewGrid(3, 3), domain.AllSides)
	require.NoError(t, err)
	require.Empty(t, backward)
	require.Empty(t, forward)
}

func TestVerifyForwardOrderRejects(t *testing.T) {
	slots := gridOf(t,
		"000",
		"010",
		"000",
	)

	// The enclosed center is no lane extremum, so removing it first is
	// not a legal step.
	err := VerifyForwardOrder(slots, []domain.Pos{{X: 1, Y: 1}}, domain.AllSides)
	require.Error(t, err)

	// Removing an absent cell fails.
	err = VerifyForwardOrder(slots, []domain.Pos{{X: 0, Y: 0}, {X: 0, Y: 0}}, domain.AllSides)
	require.Error(t, err)

	// A partial order leaves cells behind.
	err = VerifyForwardOrder(slots, []domain.Pos{{X: 0, Y: 0}}, domain.AllSides)
	require.Error(t, err)
}

func TestVerifyForwardOrderSingleRowColumnLanes(t *testing.T) {
	// On a height-1 layout every cell heads its own column lane, so the
	// middle cell is removable first under all sides; restricting entry
	// to the horizontal lanes walls it in.
	row := gridOf(t, "010")
	order := []domain.Pos{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 2, Y: 0}}

	require.NoError(t, VerifyForwardOrder(row, order, domain.AllSides))
	require.Error(t, VerifyForwardOrder(row, order, domain.SideLeft|domain.SideRight))
}

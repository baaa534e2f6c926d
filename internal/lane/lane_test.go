package lane

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

func TestReachableAllSides(t *testing.T) {
	g := gridOf(t,
		"012",
		"3.4",
		"567",
	)
	e := New(g, domain.AllSides)

	// Ring cells are all extrema of their row or column.
	for _, p := range []domain.Pos{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1}, {X: 2, Y: 1},
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2},
	} {
		require.True(t, e.Reachable(p), "ring cell %v", p)
	}
}

func TestReachableInteriorBlocked(t *testing.T) {
	g := gridOf(t,
		"000",
		"010",
		"000",
	)
	e := New(g, domain.AllSides)
	require.False(t, e.Reachable(domain.Pos{X: 1, Y: 1}))
}

func TestReachableRespectsSides(t *testing.T) {
	g := gridOf(t, "012")
	left := New(g, domain.SideLeft)
	require.True(t, left.Reachable(domain.Pos{X: 0, Y: 0}))
	require.False(t, left.Reachable(domain.Pos{X: 2, Y: 0}))

	right := New(g, domain.SideRight)
	require.False(t, right.Reachable(domain.Pos{X: 0, Y: 0}))
	require.True(t, right.Reachable(domain.Pos{X: 2, Y: 0}))
}

func TestFirstMatchScanOrder(t *testing.T) {
	// Color 1 is exposed from the left in row 1 and from the right in
	// row 0. Left entrances scan first.
	g := gridOf(t,
		"01",
		"10",
	)
	e := New(g, domain.AllSides)
	p, ok := e.FirstMatch(g, 1)
	require.True(t, ok)
	require.Equal(t, domain.Pos{X: 0, Y: 1}, p)

	// With only right entrances enabled, row 0 wins.
	e = New(g, domain.SideRight)
	p, ok = e.FirstMatch(g, 1)
	require.True(t, ok)
	require.Equal(t, domain.Pos{X: 1, Y: 0}, p)
}

func TestFirstMatchMissing(t *testing.T) {
	g := gridOf(t, "00", "00")
	e := New(g, domain.AllSides)
	_, ok := e.FirstMatch(g, 3)
	require.False(t, ok)
}

func TestRemovedMatchesRecompute(t *testing.T) {
	g := gridOf(t,
		"0120",
		"1.01",
		"2012",
	)
	inc := New(g, domain.AllSides)

	removals := []domain.Pos{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 1}, {X: 3, Y: 1}, {X: 1, Y: 0}}
	for _, p := range removals {
		g.Cells[p.Y*g.W+p.X] = domain.Empty
		inc.Removed(g, p)

		fresh := New(g, domain.AllSides)
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				q := domain.Pos{X: x, Y: y}
				require.Equal(t, fresh.Reachable(q), inc.Reachable(q),
					"cell %v after removing %v", q, p)
			}
		}
	}
}

func TestExposedColors(t *testing.T) {
	g := gridOf(t,
		"010",
		"020",
	)
	e := New(g, domain.AllSides)
	exposed := e.ExposedColors(g, nil)
	require.True(t, exposed[0])
	require.True(t, exposed[1])
	require.True(t, exposed[2])
}

func TestSoonColorsOneStepInward(t *testing.T) {
	// From the left only: 0 is exposed, 2 sits one clearance behind it,
	// 3 is buried two deep and is not soon.
	g := gridOf(t, "0230")
	soon := New(g, domain.SideLeft).SoonColors(g)
	require.True(t, soon[0])
	require.True(t, soon[2])
	require.False(t, soon[3])
}

func TestCloneIndependent(t *testing.T) {
	g := gridOf(t, "01", "10")
	e := New(g, domain.AllSides)
	c := e.Clone()

	g2 := g.Clone()
	g2.Cells[0] = domain.Empty
	c.Removed(g2, domain.Pos{X: 0, Y: 0})

	require.True(t, e.Reachable(domain.Pos{X: 0, Y: 0}))
}

package sim

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

func boardOf(t *testing.T, top, slots domain.Grid) *domain.Board {
	t.Helper()
	b, err := domain.NewBoard([]string{"#000000", "#ffffff", "#ff0000", "#00ff00"}, top, slots, domain.AllSides)
	require.NoError(t, err)
	return b
}

func TestComponentAt(t *testing.T) {
	top := gridOf(t,
		"001",
		"011",
		"00.",
	)
	comp, ok := ComponentAt(top, domain.Pos{X: 0, Y: 0})
	require.True(t, ok)
	require.Equal(t, domain.Cell(0), comp.Color)
	require.Len(t, comp.Cells, 5)
	require.Equal(t, domain.Pos{X: 0, Y: 0}, comp.Rep)

	_, ok = ComponentAt(top, domain.Pos{X: 2, Y: 2})
	require.False(t, ok)
	_, ok = ComponentAt(top, domain.Pos{X: 9, Y: 0})
	require.False(t, ok)
}

func TestComponentsOrdering(t *testing.T) {
	top := gridOf(t,
		"011",
		"0.1",
		"2..",
	)
	comps := Components(top)
	require.Len(t, comps, 3)
	require.Equal(t, domain.Cell(1), comps[0].Color) // size 3
	require.Equal(t, domain.Cell(0), comps[1].Color) // size 2
	require.Equal(t, domain.Cell(2), comps[2].Color) // size 1
}

func TestApplyMergeAndFire(t *testing.T) {
	// Tapping the 0-component loads a shooter with ammo 2 which clears
	// both 0 slots immediately.
	b := boardOf(t,
		gridOf(t, "00", "11"),
		gridOf(t, "11", "00"),
	)
	st, err := Apply(NewState(b), domain.Pos{X: 0, Y: 0}, b.Sides, DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, 0, st.Top.OccupiedCount()-2) // the 1s remain
	require.Equal(t, domain.Cell(1), st.Top.At(0, 1))
	require.Equal(t, 2, st.Slots.OccupiedCount())
	require.Equal(t, domain.Cell(1), st.Slots.At(0, 0))
	require.Empty(t, st.Conveyor, "shooter spent all ammo")

	st2, err := Apply(st, domain.Pos{X: 0, Y: 1}, b.Sides, DefaultConfig())
	require.NoError(t, err)
	require.True(t, st2.Won())
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	b := boardOf(t,
		gridOf(t, "00", "11"),
		gridOf(t, "11", "00"),
	)
	root := NewState(b)
	_, err := Apply(root, domain.Pos{X: 0, Y: 0}, b.Sides, DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, 4, root.Top.OccupiedCount())
	require.Equal(t, 4, root.Slots.OccupiedCount())
	require.Empty(t, root.Conveyor)
	require.True(t, b.Top.Equal(root.Top), "board layers stay frozen")
}

func TestApplyInvalidAction(t *testing.T) {
	b := boardOf(t,
		gridOf(t, "0.", ".1"),
		gridOf(t, ".0", "1."),
	)
	_, err := Apply(NewState(b), domain.Pos{X: 1, Y: 0}, b.Sides, DefaultConfig())
	require.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestConveyorRejectWhenFull(t *testing.T) {
	// Capacity 1: the first tap's shooter cannot fire (its color is
	// walled in), so the second tap is rejected.
	b := boardOf(t,
		gridOf(t, "01", "23"),
		gridOf(t, "10", "32"),
	)
	cfg := Config{Capacity: 1, Admission: AdmitReject, Scan: ScanRestart}

	// Tap 3 at (1,1): slots 3 sits at (0,1), exposed from the left, so
	// it fires and frees the conveyor again.
	st, err := Apply(NewState(b), domain.Pos{X: 1, Y: 1}, b.Sides, cfg)
	require.NoError(t, err)
	require.Empty(t, st.Conveyor)

	// A shooter that cannot fire occupies the single belt slot.
	blocked := st
	blocked.Conveyor = []Shooter{{Color: 9, Ammo: 1}}
	_, err = Apply(blocked, domain.Pos{X: 0, Y: 0}, b.Sides, cfg)
	require.ErrorIs(t, err, domain.ErrConveyorFull)
}

func TestConveyorQueueAdmission(t *testing.T) {
	b := boardOf(t,
		gridOf(t, "01", "23"),
		gridOf(t, "10", "32"),
	)
	cfg := Config{Capacity: 1, Admission: AdmitQueue, Scan: ScanRestart}

	blocked := NewState(b)
	blocked.Conveyor = []Shooter{{Color: 9, Ammo: 1}}
	st, err := Apply(blocked, domain.Pos{X: 0, Y: 0}, b.Sides, cfg)
	require.NoError(t, err)
	require.Len(t, st.Conveyor, 1)
	require.Len(t, st.Pending, 1)
	require.Equal(t, domain.Cell(0), st.Pending[0].Color)
}

func TestResolveScanRestartPriority(t *testing.T) {
	// Two shooters on the belt; after the front one fires, scanning
	// restarts from the front so it keeps priority while it has ammo.
	slots := gridOf(t, "00", "11")
	st := State{
		Top:      domain.NewGrid(2, 2),
		Slots:    slots,
		Conveyor: []Shooter{{Color: 0, Ammo: 2}, {Color: 1, Ammo: 2}},
	}
	out := Resolve(st, domain.AllSides, DefaultConfig())
	require.True(t, out.Won())
	require.Empty(t, out.Conveyor)
}

func TestResolveScanResume(t *testing.T) {
	// Under resume the firing shooter keeps the scan until it runs out
	// of matches; the fixed point still clears everything it can.
	slots := gridOf(t, "00", "11")
	st := State{
		Top:      domain.NewGrid(2, 2),
		Slots:    slots,
		Conveyor: []Shooter{{Color: 0, Ammo: 2}, {Color: 1, Ammo: 2}},
	}
	cfg := DefaultConfig()
	cfg.Scan = ScanResume
	out := Resolve(st, domain.AllSides, cfg)
	require.True(t, out.Won())
	require.Empty(t, out.Conveyor)
}

func TestDeadlocked(t *testing.T) {
	slots := gridOf(t, "00")
	cfg := Config{Capacity: 1, Admission: AdmitReject, Scan: ScanRestart}

	full := State{Top: domain.NewGrid(1, 1), Slots: slots,
		Conveyor: []Shooter{{Color: 5, Ammo: 3}}}
	require.True(t, Deadlocked(full, domain.AllSides, cfg))

	// Same belt with a live match is not deadlocked.
	live := full
	live.Conveyor = []Shooter{{Color: 0, Ammo: 3}}
	require.False(t, Deadlocked(live, domain.AllSides, cfg))

	// Slack on the belt is never a deadlock.
	slack := full
	slack.Conveyor = nil
	require.False(t, Deadlocked(slack, domain.AllSides, cfg))
}

func TestKeyDistinguishesConveyorOrder(t *testing.T) {
	base := State{Top: domain.NewGrid(2, 1), Slots: gridOf(t, "01")}
	a := base
	a.Conveyor = []Shooter{{Color: 0, Ammo: 1}, {Color: 1, Ammo: 1}}
	b := base
	b.Conveyor = []Shooter{{Color: 1, Ammo: 1}, {Color: 0, Ammo: 1}}
	require.NotEqual(t, a.Key(), b.Key())
	require.Equal(t, a.Key(), a.Key())
}

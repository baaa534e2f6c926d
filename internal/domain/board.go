package domain

// Board is the immutable description of a level's static layers. It is
// produced once by generation, validated here, and read-only afterward;
// only derived play-state (sim copies) mutates.
type Board struct {
	W, H    int
	Palette []string // "#RRGGBB", indexed by Cell
	Top     Grid     // mergeable tap layer
	Slots   Grid     // clearable target layer
	Sides   Sides    // enabled lane entrances
}

// NewBoard validates the layer invariants and freezes the board. The
// returned error wraps ErrMalformedBoard; a board that fails here must
// never reach the solver.
func NewBoard(palette []string, top, slots Grid, sides Sides) (*Board, error) {
	if top.W <= 0 || top.H <= 0 {
		return nil, &MalformedBoardError{Reason: "empty top layer"}
	}
	if top.W != slots.W || top.H != slots.H {
		return nil, &MalformedBoardError{Reason: "layer shape mismatch"}
	}
	if sides == 0 {
		sides = AllSides
	}

	var collisions []Pos
	for y := 0; y < top.H; y++ {
		for x := 0; x < top.W; x++ {
			t := top.At(x, y)
			s := slots.At(x, y)
			if t != Empty && s != Empty && t == s {
				collisions = append(collisions, Pos{X: x, Y: y})
			}
		}
	}
	if len(collisions) > 0 {
		return nil, &MalformedBoardError{Reason: "slots == top at occupied cell", Cells: collisions}
	}

	th := top.Histogram()
	sh := slots.Histogram()
	if len(th) != len(sh) {
		return nil, &MalformedBoardError{Reason: "histogram mismatch"}
	}
	for c, n := range th {
		if sh[c] != n {
			return nil, &MalformedBoardError{Reason: "histogram mismatch"}
		}
	}

	return &Board{
		W:       top.W,
		H:       top.H,
		Palette: palette,
		Top:     top,
		Slots:   slots,
		Sides:   sides,
	}, nil
}

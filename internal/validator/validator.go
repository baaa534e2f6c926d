package validator

import (
	"context"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

// FastValidator re-checks the board invariants and reports offending
// cells, for callers that want diagnostics rather than the construction
// error of domain.NewBoard.
type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

// Validate checks layer shapes, per-cell top/slots collisions, and
// histogram preservation. It returns every conflicting cell it finds.
func (v *FastValidator) Validate(ctx context.Context, b *domain.Board) (bool, []domain.Pos, error) {
	if b == nil || b.Top.W != b.Slots.W || b.Top.H != b.Slots.H {
		return false, nil, domain.ErrMalformedBoard
	}
	var conflicts []domain.Pos
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			t := b.Top.At(x, y)
			if t != domain.Empty && b.Slots.At(x, y) == t {
				conflicts = append(conflicts, domain.Pos{X: x, Y: y})
			}
		}
	}

	th := b.Top.Histogram()
	sh := b.Slots.Histogram()
	histOK := len(th) == len(sh)
	if histOK {
		for c, n := range th {
			if sh[c] != n {
				histOK = false
				break
			}
		}
	}
	if !histOK {
		// Surface the mismatch without a specific cell: the histogram is
		// a whole-layer property.
		return false, conflicts, nil
	}
	return len(conflicts) == 0, conflicts, nil
}

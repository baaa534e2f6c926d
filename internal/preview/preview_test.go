package preview

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

func TestMask(t *testing.T) {
	g := gridOf(t, "0.1", "..2")
	require.Equal(t, "#.#\n..#\n", Mask(g))
}

func TestIndices(t *testing.T) {
	g := gridOf(t, "0.9", "12.")
	require.Equal(t, "0.9\n12.\n", Indices(g))
}

func TestIndicesHighPaletteUsesLetters(t *testing.T) {
	g := domain.NewGrid(2, 1)
	g.Cells[0] = 10
	g.Cells[1] = 35
	require.Equal(t, "az\n", Indices(g))
}

func TestBoardSideBySide(t *testing.T) {
	top := gridOf(t, "01", "10")
	slots := gridOf(t, "10", "01")
	b, err := domain.NewBoard([]string{"#000000", "#ffffff"}, top, slots, domain.AllSides)
	require.NoError(t, err)

	require.Equal(t, "top   slots\n01    10\n10    01\n", Board(b))
}

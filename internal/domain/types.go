package domain

import (
	"encoding/json"
	"fmt"
)

// Cell is a palette index, or Empty for an unoccupied cell.
type Cell int16

// Empty marks an unoccupied grid cell.
const Empty Cell = -1

// Pos identifies a cell on a grid, x-right, y-down.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is a rectangular layer of palette indices, stored y-major.
// Grids belonging to a Board are frozen after construction; all play-time
// mutation happens on copies owned by the simulator.
type Grid struct {
	W, H  int
	Cells []Cell // len W*H
}

// NewGrid returns an all-empty grid of the given dimensions.
func NewGrid(w, h int) Grid {
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = Empty
	}
	return Grid{W: w, H: h, Cells: cells}
}

// GridFromRows builds a grid from y-major rows. Rows must be rectangular.
func GridFromRows(rows [][]Cell) (Grid, error) {
	h := len(rows)
	if h == 0 {
		return Grid{}, fmt.Errorf("grid must have at least one row")
	}
	w := len(rows[0])
	g := NewGrid(w, h)
	for y, row := range rows {
		if len(row) != w {
			return Grid{}, fmt.Errorf("row %d: width %d, expected %d", y, len(row), w)
		}
		copy(g.Cells[y*w:(y+1)*w], row)
	}
	return g, nil
}

func (g Grid) At(x, y int) Cell       { return g.Cells[y*g.W+x] }
func (g Grid) In(x, y int) bool       { return x >= 0 && x < g.W && y >= 0 && y < g.H }
func (g Grid) Occupied(x, y int) bool { return g.Cells[y*g.W+x] != Empty }

// Clone returns a grid with its own backing storage.
func (g Grid) Clone() Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return Grid{W: g.W, H: g.H, Cells: cells}
}

// Mask reports occupancy per cell, y-major.
func (g Grid) Mask() []bool {
	m := make([]bool, len(g.Cells))
	for i, c := range g.Cells {
		m[i] = c != Empty
	}
	return m
}

// Histogram counts occupied cells per palette index.
func (g Grid) Histogram() map[Cell]int {
	h := make(map[Cell]int)
	for _, c := range g.Cells {
		if c != Empty {
			h[c]++
		}
	}
	return h
}

// OccupiedCount returns the number of non-empty cells.
func (g Grid) OccupiedCount() int {
	n := 0
	for _, c := range g.Cells {
		if c != Empty {
			n++
		}
	}
	return n
}

// Equal reports structural equality of two grids.
func (g Grid) Equal(o Grid) bool {
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i, c := range g.Cells {
		if o.Cells[i] != c {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the grid as nested rows with null for empty cells,
// the interchange form consumed by the surrounding tools.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]*int16, g.H)
	for y := 0; y < g.H; y++ {
		row := make([]*int16, g.W)
		for x := 0; x < g.W; x++ {
			if c := g.At(x, y); c != Empty {
				v := int16(c)
				row[x] = &v
			}
		}
		rows[y] = row
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes the nested-rows-with-null form.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]*int16
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	h := len(rows)
	if h == 0 {
		*g = Grid{}
		return nil
	}
	w := len(rows[0])
	out := NewGrid(w, h)
	for y, row := range rows {
		if len(row) != w {
			return fmt.Errorf("grid row %d: width %d, expected %d", y, len(row), w)
		}
		for x, v := range row {
			if v != nil {
				out.Cells[y*w+x] = Cell(*v)
			}
		}
	}
	*g = out
	return nil
}

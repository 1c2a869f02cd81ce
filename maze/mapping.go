package maze

import "math"

// DefaultCellSize is the world size of one grid cell.
const DefaultCellSize = 5.0

// Mapping converts between world (x, z) positions and grid cells. The grid
// centre cell (Rows/2, Cols/2) sits on the world origin; x runs along
// columns and z along rows.
type Mapping struct {
	Rows     int
	Cols     int
	CellSize float64
}

// NewMapping returns a mapping for g. A non-positive cellSize falls back to
// DefaultCellSize.
func NewMapping(g *Grid, cellSize float64) Mapping {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return Mapping{Rows: g.Rows(), Cols: g.Cols(), CellSize: cellSize}
}

// WorldToCell rounds x and z to the nearest cell-size multiple and converts
// the result to a cell. Halves round up. ok is false when the position falls
// outside the grid.
func (m Mapping) WorldToCell(x, z float64) (Cell, bool) {
	size := m.cellSize()
	c := Cell{
		Row: roundHalfUp(z/size) + m.Rows/2,
		Col: roundHalfUp(x/size) + m.Cols/2,
	}
	if c.Row < 0 || c.Row >= m.Rows || c.Col < 0 || c.Col >= m.Cols {
		return c, false
	}
	return c, true
}

// CellToWorld returns the world (x, z) centre of c.
func (m Mapping) CellToWorld(c Cell) (x, z float64) {
	size := m.cellSize()
	return float64(c.Col-m.Cols/2) * size, float64(c.Row-m.Rows/2) * size
}

func (m Mapping) cellSize() float64 {
	if m.CellSize <= 0 {
		return DefaultCellSize
	}
	return m.CellSize
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

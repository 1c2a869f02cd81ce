package maze

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("maze: invalid argument")
	ErrOutOfBounds     = errors.New("maze: cell out of bounds")
)

// CellState is the content of a single grid cell.
type CellState uint8

const (
	Wall CellState = iota
	Open
	AgentMarker
	TargetMarker
)

func (s CellState) String() string {
	switch s {
	case Wall:
		return "wall"
	case Open:
		return "open"
	case AgentMarker:
		return "agent"
	case TargetMarker:
		return "target"
	default:
		return fmt.Sprintf("CellState(%d)", uint8(s))
	}
}

// Passable reports whether an agent may step onto a cell in this state.
func (s CellState) Passable() bool {
	return s != Wall
}

// Cell addresses a grid cell by row and column.
type Cell struct {
	Row int
	Col int
}

func (c Cell) Add(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan returns the 4-connected step distance between two cells.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a rectangular maze indexed [row][col].
type Grid struct {
	rows  int
	cols  int
	cells [][]CellState
}

// NewGrid returns a grid with every cell set to Wall.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("maze: new grid %dx%d: %w", rows, cols, ErrInvalidArgument)
	}
	cells := make([][]CellState, rows)
	for r := range cells {
		cells[r] = make([]CellState, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}, nil
}

// Parse builds a grid from text rows: '#' is Wall, 'A' AgentMarker,
// 'T' TargetMarker, anything else Open.
func Parse(lines ...string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("maze: parse: no rows: %w", ErrInvalidArgument)
	}
	g, err := NewGrid(len(lines), len(lines[0]))
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		if len(line) != g.cols {
			return nil, fmt.Errorf("maze: parse row %d: width %d, want %d: %w", r, len(line), g.cols, ErrInvalidArgument)
		}
		for c, ch := range []byte(line) {
			switch ch {
			case '#':
				g.cells[r][c] = Wall
			case 'A':
				g.cells[r][c] = AgentMarker
			case 'T':
				g.cells[r][c] = TargetMarker
			default:
				g.cells[r][c] = Open
			}
		}
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c addresses a cell of g.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// At returns the state of c. Out of bounds cells read as Wall.
func (g *Grid) At(c Cell) CellState {
	if !g.InBounds(c) {
		return Wall
	}
	return g.cells[c.Row][c.Col]
}

// Set changes the state of c.
func (g *Grid) Set(c Cell, s CellState) error {
	if !g.InBounds(c) {
		return fmt.Errorf("maze: set %s on %dx%d: %w", c, g.rows, g.cols, ErrOutOfBounds)
	}
	g.cells[c.Row][c.Col] = s
	return nil
}

// Clone returns a deep copy that shares no storage with g.
func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, cells: make([][]CellState, g.rows)}
	for r := range g.cells {
		out.cells[r] = append([]CellState(nil), g.cells[r]...)
	}
	return out
}

// Entrance is the bottom-centre cell.
func (g *Grid) Entrance() Cell {
	return Cell{Row: g.rows - 1, Col: g.cols / 2}
}

// Exit is the top-centre cell.
func (g *Grid) Exit() Cell {
	return Cell{Row: 0, Col: g.cols / 2}
}

// Find returns every cell holding state s in row-major order.
func (g *Grid) Find(s CellState) []Cell {
	var out []Cell
	for r, row := range g.cells {
		for c, v := range row {
			if v == s {
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// Neighbors returns the in-bounds 4-connected neighbours of c.
func (g *Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range Directions {
		n := c.Add(d.Row, d.Col)
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// String renders the grid with the characters Parse accepts.
func (g *Grid) String() string {
	buf := make([]byte, 0, g.rows*(g.cols+1))
	for _, row := range g.cells {
		for _, v := range row {
			switch v {
			case Wall:
				buf = append(buf, '#')
			case AgentMarker:
				buf = append(buf, 'A')
			case TargetMarker:
				buf = append(buf, 'T')
			default:
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// Directions are the 4-connected unit steps: up, down, left, right.
var Directions = [4]Cell{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

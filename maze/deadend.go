package maze

// IsDeadEnd reports whether c is passable and exactly three of its in-bounds
// neighbours are walls.
func IsDeadEnd(g *Grid, c Cell) bool {
	if !g.InBounds(c) || !g.At(c).Passable() {
		return false
	}
	walls := 0
	for _, n := range g.Neighbors(c) {
		if g.At(n) == Wall {
			walls++
		}
	}
	return walls == 3
}

// DeadEnds lists every dead end of g in row-major order.
func DeadEnds(g *Grid) []Cell {
	var out []Cell
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := Cell{Row: r, Col: c}
			if IsDeadEnd(g, cell) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// KeyCells picks up to n interior dead ends to hold key tokens. The entrance
// and exit are never chosen.
func KeyCells(g *Grid, n int) []Cell {
	if n <= 0 {
		return nil
	}
	out := make([]Cell, 0, n)
	for _, c := range DeadEnds(g) {
		if c.Row == 0 || c.Col == 0 || c.Row == g.Rows()-1 || c.Col == g.Cols()-1 {
			continue
		}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

// DecorationCells walks the grid in row-major order and returns every
// passable, non dead-end cell whose running index is a multiple of every.
func DecorationCells(g *Grid, every int) []Cell {
	if every <= 0 {
		return nil
	}
	var out []Cell
	count := 0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := Cell{Row: r, Col: c}
			if count%every == 0 && g.At(cell).Passable() && !IsDeadEnd(g, cell) {
				out = append(out, cell)
			}
			count++
		}
	}
	return out
}

package maze

import (
	"fmt"
	"math/rand/v2"
)

// MinSize is the smallest accepted row or column count.
const MinSize = 3

// carveSteps are the two-cell hops of the backtracker. Hopping by two keeps
// a one-cell wall between parallel corridors.
var carveSteps = [4]Cell{{Row: -2}, {Row: 2}, {Col: -2}, {Col: 2}}

// Generator carves mazes with a randomized depth-first backtracker.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from src. A nil src uses an
// unseeded source.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator returns a generator that always produces the same
// sequence of mazes for the same seed.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type carveFrame struct {
	at   Cell
	dirs [4]Cell
	next int
}

// Generate returns a rows x cols maze whose entrance (bottom centre) and
// exit (top centre) are open and whose open cells are all reachable from the
// entrance. Even dimensions leave the last uncarved row or column as wall.
func (gen *Generator) Generate(rows, cols int) (*Grid, error) {
	if rows < MinSize || cols < MinSize {
		return nil, fmt.Errorf("maze: generate %dx%d, minimum %dx%d: %w", rows, cols, MinSize, MinSize, ErrInvalidArgument)
	}
	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}

	entrance, exit := g.Entrance(), g.Exit()
	g.cells[entrance.Row][entrance.Col] = Open
	g.cells[exit.Row][exit.Col] = Open

	// The exit is opened up front but still has to be carved into, otherwise
	// on odd heights it sits on the carving lattice and is never linked.
	exitLinked := false
	carvable := func(c Cell) bool {
		if !g.InBounds(c) {
			return false
		}
		if c == exit && !exitLinked {
			return true
		}
		return g.cells[c.Row][c.Col] == Wall
	}

	stack := []*carveFrame{gen.frame(entrance)}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.dirs) {
			stack = stack[:len(stack)-1]
			continue
		}
		d := top.dirs[top.next]
		top.next++

		dest := top.at.Add(d.Row, d.Col)
		if !carvable(dest) {
			continue
		}
		if dest == exit {
			exitLinked = true
		}
		g.cells[top.at.Row+d.Row/2][top.at.Col+d.Col/2] = Open
		g.cells[dest.Row][dest.Col] = Open
		stack = append(stack, gen.frame(dest))
	}

	return g, nil
}

func (gen *Generator) frame(at Cell) *carveFrame {
	f := &carveFrame{at: at, dirs: carveSteps}
	gen.rng.Shuffle(len(f.dirs), func(i, j int) { f.dirs[i], f.dirs[j] = f.dirs[j], f.dirs[i] })
	return f
}

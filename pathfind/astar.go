package pathfind

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/milk9111/mazechase/maze"
)

var (
	ErrMarkerNotFound  = errors.New("pathfind: marker not found")
	ErrDuplicateMarker = errors.New("pathfind: duplicate marker")
)

// Options tunes a search. The zero value searches without limits.
type Options struct {
	// MaxNodes caps the number of expanded cells. A search that hits the cap
	// reports no path.
	MaxNodes int
}

// Result is the outcome of a single search.
type Result struct {
	Path     []maze.Cell
	Expanded int
	Capped   bool
}

// FindPath returns the shortest 4-connected path from the grid's single
// AgentMarker to its single TargetMarker, both ends included. An unreachable
// target yields an empty path and a nil error.
func FindPath(g *maze.Grid) ([]maze.Cell, error) {
	res, err := FindPathWithOptions(g, Options{})
	if err != nil {
		return nil, err
	}
	return res.Path, nil
}

// FindPathWithOptions is FindPath with a node cap and search statistics.
func FindPathWithOptions(g *maze.Grid, opts Options) (Result, error) {
	start, goal, err := Markers(g)
	if err != nil {
		return Result{}, err
	}
	return Search(g, start, goal, opts), nil
}

// Markers scans g once and returns the agent and target cells.
func Markers(g *maze.Grid) (start, goal maze.Cell, err error) {
	var starts, goals int
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := maze.Cell{Row: r, Col: c}
			switch g.At(cell) {
			case maze.AgentMarker:
				start = cell
				starts++
			case maze.TargetMarker:
				goal = cell
				goals++
			}
		}
	}
	switch {
	case starts == 0:
		return start, goal, fmt.Errorf("pathfind: agent: %w", ErrMarkerNotFound)
	case goals == 0:
		return start, goal, fmt.Errorf("pathfind: target: %w", ErrMarkerNotFound)
	case starts > 1:
		return start, goal, fmt.Errorf("pathfind: agent seen %d times: %w", starts, ErrDuplicateMarker)
	case goals > 1:
		return start, goal, fmt.Errorf("pathfind: target seen %d times: %w", goals, ErrDuplicateMarker)
	}
	return start, goal, nil
}

// Search runs A* between two cells of g, treating every non-wall cell as
// passable with unit step cost.
func Search(g *maze.Grid, start, goal maze.Cell, opts Options) Result {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return Result{}
	}

	cols := g.Cols()
	index := func(c maze.Cell) int { return c.Row*cols + c.Col }
	n := g.Rows() * cols

	cameFrom := make([]int, n)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]int, n)
	for i := range gScore {
		gScore[i] = -1
	}
	closed := make([]bool, n)
	items := make([]*openItem, n)

	open := &openSet{}
	startIdx := index(start)
	goalIdx := index(goal)
	gScore[startIdx] = 0
	items[startIdx] = &openItem{cell: start, h: start.Manhattan(goal), seq: 0}
	heap.Push(open, items[startIdx])
	seq := 1

	res := Result{}
	for open.Len() > 0 {
		if opts.MaxNodes > 0 && res.Expanded >= opts.MaxNodes {
			res.Capped = true
			return res
		}
		current := heap.Pop(open).(*openItem)
		curIdx := index(current.cell)
		closed[curIdx] = true
		res.Expanded++

		if curIdx == goalIdx {
			res.Path = reconstructPath(cameFrom, cols, startIdx, goalIdx)
			return res
		}

		for _, next := range g.Neighbors(current.cell) {
			if !g.At(next).Passable() {
				continue
			}
			idx := index(next)
			if closed[idx] {
				continue
			}
			tentative := gScore[curIdx] + 1
			if gScore[idx] >= 0 && tentative >= gScore[idx] {
				continue
			}
			cameFrom[idx] = curIdx
			gScore[idx] = tentative
			if item := items[idx]; item != nil {
				item.g = tentative
				heap.Fix(open, item.index)
				continue
			}
			items[idx] = &openItem{cell: next, g: tentative, h: next.Manhattan(goal), seq: seq}
			seq++
			heap.Push(open, items[idx])
		}
	}

	return res
}

func reconstructPath(cameFrom []int, cols int, startIdx, goalIdx int) []maze.Cell {
	path := make([]maze.Cell, 0, 32)
	cur := goalIdx
	for cur != -1 {
		path = append(path, maze.Cell{Row: cur / cols, Col: cur % cols})
		if cur == startIdx {
			break
		}
		cur = cameFrom[cur]
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type openItem struct {
	cell  maze.Cell
	g     int
	h     int
	seq   int
	index int
}

func (o *openItem) f() int { return o.g + o.h }

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f() != o[j].f() {
		return o[i].f() < o[j].f()
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}

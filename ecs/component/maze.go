package component

import "github.com/milk9111/mazechase/maze"

// MazeGrid is the level's static wall layout. It is never stamped; planners
// work on copies.
type MazeGrid struct {
	Grid    *maze.Grid
	Mapping maze.Mapping
}

var MazeGridComponent = NewComponent[MazeGrid]()

package pursuit

import (
	"log"

	"github.com/milk9111/mazechase/maze"
	"github.com/milk9111/mazechase/pathfind"
)

const (
	// DefaultHeight is the y coordinate waypoints are emitted at.
	DefaultHeight = 1.0
	// DefaultMaxNodes bounds a single planning pass.
	DefaultMaxNodes = 4096
)

// Vec2 is a world position on the ground plane.
type Vec2 struct {
	X float64
	Z float64
}

// Waypoint is a world position the steering layer should move through.
type Waypoint struct {
	X float64
	Y float64
	Z float64
}

// Ground drops the height component.
func (w Waypoint) Ground() Vec2 {
	return Vec2{X: w.X, Z: w.Z}
}

// Controller plans routes for one pursuing agent. It owns that agent's
// waypoint list; each successful plan replaces the list wholesale.
type Controller struct {
	mapping    maze.Mapping
	height     float64
	maxNodes   int
	thresholds CueThresholds
	logf       func(format string, args ...any)

	waypoints []Waypoint
	pathLen   int
	outcome   Outcome
}

// Outcome describes what the most recent Replan did with the stored list.
type Outcome uint8

const (
	// OutcomeKept means no new route was found; the stored list is unchanged.
	OutcomeKept Outcome = iota
	// OutcomeReplaced means a new route replaced the stored list.
	OutcomeReplaced
	// OutcomeArrived means agent and target share a cell.
	OutcomeArrived
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReplaced:
		return "replaced"
	case OutcomeArrived:
		return "arrived"
	default:
		return "kept"
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithHeight sets the traversal height of emitted waypoints.
func WithHeight(h float64) Option {
	return func(c *Controller) { c.height = h }
}

// WithMaxNodes caps the planner. Zero or less removes the cap.
func WithMaxNodes(n int) Option {
	return func(c *Controller) { c.maxNodes = n }
}

// WithCueThresholds replaces the path length thresholds used by Cue.
func WithCueThresholds(t CueThresholds) Option {
	return func(c *Controller) { c.thresholds = t }
}

// WithLogf redirects planner diagnostics. A nil func silences them.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(c *Controller) { c.logf = logf }
}

// NewController returns a controller for grids described by mapping.
func NewController(mapping maze.Mapping, opts ...Option) *Controller {
	c := &Controller{
		mapping:    mapping,
		height:     DefaultHeight,
		maxNodes:   DefaultMaxNodes,
		thresholds: DefaultCueThresholds,
		logf:       log.Printf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Replan stamps the agent and target on a scratch copy of g, searches for a
// route and returns the resulting waypoints with the agent's own cell
// removed. When both stand on the same cell the result is empty. When no
// route is found the previous waypoint list is returned unchanged. g is
// never modified.
func (c *Controller) Replan(g *maze.Grid, agent, target Vec2) []Waypoint {
	c.outcome = OutcomeKept
	if g == nil {
		return c.Waypoints()
	}
	agentCell, ok := c.mapping.WorldToCell(agent.X, agent.Z)
	if !ok {
		c.debugf("Pursuit: agent %+v outside %dx%d grid, keeping route", agent, c.mapping.Rows, c.mapping.Cols)
		return c.Waypoints()
	}
	targetCell, ok := c.mapping.WorldToCell(target.X, target.Z)
	if !ok {
		c.debugf("Pursuit: target %+v outside %dx%d grid, keeping route", target, c.mapping.Rows, c.mapping.Cols)
		return c.Waypoints()
	}
	if agentCell == targetCell {
		c.outcome = OutcomeArrived
		return nil
	}

	scratch := g.Clone()
	if err := scratch.Set(agentCell, maze.AgentMarker); err != nil {
		c.debugf("Pursuit: stamp agent: %v", err)
		return c.Waypoints()
	}
	if err := scratch.Set(targetCell, maze.TargetMarker); err != nil {
		c.debugf("Pursuit: stamp target: %v", err)
		return c.Waypoints()
	}

	res, err := pathfind.FindPathWithOptions(scratch, pathfind.Options{MaxNodes: c.maxNodes})
	if err != nil {
		c.debugf("Pursuit: plan %s -> %s: %v", agentCell, targetCell, err)
		return c.Waypoints()
	}
	if res.Capped {
		c.debugf("Pursuit: plan %s -> %s stopped after %d nodes", agentCell, targetCell, res.Expanded)
	}
	if len(res.Path) <= 1 {
		return c.Waypoints()
	}

	c.waypoints = c.toWaypoints(res.Path[1:])
	c.pathLen = len(res.Path)
	c.outcome = OutcomeReplaced
	return c.Waypoints()
}

// Outcome reports what the most recent Replan did. It is OutcomeKept before
// the first call.
func (c *Controller) Outcome() Outcome {
	return c.outcome
}

// Waypoints returns a copy of the current waypoint list.
func (c *Controller) Waypoints() []Waypoint {
	if len(c.waypoints) == 0 {
		return nil
	}
	return append([]Waypoint(nil), c.waypoints...)
}

// PathLen is the cell count of the last successful plan, zero before any.
func (c *Controller) PathLen() int {
	return c.pathLen
}

// Cue classifies the last successful plan by length.
func (c *Controller) Cue() Cue {
	return c.thresholds.Classify(c.pathLen)
}

func (c *Controller) toWaypoints(cells []maze.Cell) []Waypoint {
	out := make([]Waypoint, 0, len(cells))
	for _, cell := range cells {
		x, z := c.mapping.CellToWorld(cell)
		out = append(out, Waypoint{X: x, Y: c.height, Z: z})
	}
	return out
}

func (c *Controller) debugf(format string, args ...any) {
	if c.logf != nil {
		c.logf(format, args...)
	}
}

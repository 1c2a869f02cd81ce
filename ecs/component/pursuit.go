package component

import (
	"github.com/milk9111/mazechase/maze"
	"github.com/milk9111/mazechase/pursuit"
)

// Pursuit drives periodic route planning for one agent. The agent chases
// the player when ChasePlayer is set, otherwise it heads for Goal.
type Pursuit struct {
	Controller   *pursuit.Controller
	Cadence      *pursuit.Cadence
	RepathFrames int
	ChasePlayer  bool
	Goal         maze.Cell

	// Ready gates planning until the agent has a body to steer.
	Ready bool

	Replans int
	PathLen int
	Caught  bool
}

var PursuitComponent = NewComponent[Pursuit]()

// Steering holds the waypoint list the steering system is following.
type Steering struct {
	Waypoints     []pursuit.Waypoint
	Next          int
	Speed         float64
	ArrivalRadius float64
}

// Done reports whether every waypoint has been reached.
func (s *Steering) Done() bool {
	return s == nil || s.Next >= len(s.Waypoints)
}

var SteeringComponent = NewComponent[Steering]()

package system

import (
	"github.com/milk9111/mazechase/ecs"
	"github.com/milk9111/mazechase/ecs/component"
	"github.com/milk9111/mazechase/pursuit"
)

// PursuitSystem replans every ready agent on its own cadence and hands the
// resulting waypoints to the agent's Steering component.
type PursuitSystem struct {
	// Logf receives planner diagnostics for controllers created here.
	Logf func(format string, args ...any)
}

func NewPursuitSystem() *PursuitSystem {
	return &PursuitSystem{}
}

func (ps *PursuitSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	grid, ok := mazeGrid(w)
	if !ok {
		return
	}
	playerX, playerZ, playerFound := playerPosition(w)

	ecs.ForEach2(w, component.PursuitComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Pursuit, t *component.Transform) {
		if !p.Ready {
			return
		}
		if p.Cadence == nil {
			p.Cadence = pursuit.NewCadence(p.RepathFrames)
			p.Cadence.Trigger()
		}
		if !p.Cadence.Tick() {
			return
		}

		var target pursuit.Vec2
		if p.ChasePlayer {
			if !playerFound {
				return
			}
			target = pursuit.Vec2{X: playerX, Z: playerZ}
		} else {
			x, z := grid.Mapping.CellToWorld(p.Goal)
			target = pursuit.Vec2{X: x, Z: z}
		}

		if p.Controller == nil {
			var opts []pursuit.Option
			if ps.Logf != nil {
				opts = append(opts, pursuit.WithLogf(ps.Logf))
			}
			p.Controller = pursuit.NewController(grid.Mapping, opts...)
		}
		wps := p.Controller.Replan(grid.Grid, pursuit.Vec2{X: t.X, Z: t.Z}, target)
		p.Replans++
		p.PathLen = p.Controller.PathLen()

		// A kept route is the controller's old list; steering may already be
		// past it or have cleared it, so only fresh plans and arrivals apply.
		if s, ok := ecs.Get(w, e, component.SteeringComponent.Kind()); ok {
			switch p.Controller.Outcome() {
			case pursuit.OutcomeReplaced:
				if !sameWaypoints(s.Waypoints, wps) {
					s.Waypoints = wps
					s.Next = 0
				}
			case pursuit.OutcomeArrived:
				s.Waypoints = nil
				s.Next = 0
			}
		}

		w.Events().Push(ecs.Event{Type: ecs.EventReplan, Data: ecs.ReplanEvent{Entity: e, Waypoints: len(wps), PathLen: p.PathLen}})
	})
}

func sameWaypoints(a, b []pursuit.Waypoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mazeGrid(w *ecs.World) (*component.MazeGrid, bool) {
	ent, ok := ecs.First(w, component.MazeGridComponent.Kind())
	if !ok {
		return nil, false
	}
	mg, ok := ecs.Get(w, ent, component.MazeGridComponent.Kind())
	if !ok || mg.Grid == nil {
		return nil, false
	}
	return mg, true
}

func playerPosition(w *ecs.World) (float64, float64, bool) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		return t.X, t.Z, true
	}
	return 0, 0, false
}

package system

import (
	"math"

	"github.com/milk9111/mazechase/common"
	"github.com/milk9111/mazechase/ecs"
	"github.com/milk9111/mazechase/ecs/component"
)

const (
	defaultSteerSpeed    = 5.0
	defaultArrivalRadius = 0.5
)

// SteeringSystem moves bodies through their waypoint lists, advancing to the
// next waypoint once inside the arrival radius.
type SteeringSystem struct{}

func NewSteeringSystem() *SteeringSystem {
	return &SteeringSystem{}
}

func (s *SteeringSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.SteeringComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *component.Steering, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil {
			return
		}
		radius := st.ArrivalRadius
		if radius <= 0 {
			radius = defaultArrivalRadius
		}
		speed := st.Speed
		if speed <= 0 {
			speed = defaultSteerSpeed
		}

		for !st.Done() {
			wp := st.Waypoints[st.Next]
			dx := wp.X - t.X
			dz := wp.Z - t.Z
			dist := common.Dist(t.X, t.Z, wp.X, wp.Z)
			if dist <= radius {
				st.Next++
				if st.Done() {
					w.Events().Push(ecs.Event{Type: ecs.EventArrived, Data: e})
				}
				continue
			}
			// Do not overshoot the waypoint within a single step.
			step := math.Min(speed, dist/common.TickDelta)
			pb.Body.SetVelocity(dx/dist*step, dz/dist*step)
			return
		}
		pb.Body.SetVelocity(0, 0)
	})
}

package system

import (
	"log"

	"github.com/milk9111/mazechase/common"
	"github.com/milk9111/mazechase/ecs"
	"github.com/milk9111/mazechase/ecs/component"
)

// PhysicsSystem steps the Chipmunk space, copies body positions into
// transforms and turns pursuer/player contacts into caught events.
type PhysicsSystem struct {
	Debug bool
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	pw.Step(common.TickDelta)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		t.X = pos.X
		t.Z = pos.Y
	})

	for _, c := range pw.Contacts() {
		p, ok := ecs.Get(w, c.Pursuer, component.PursuitComponent.Kind())
		if !ok || p.Caught {
			continue
		}
		p.Caught = true
		if ps.Debug {
			log.Printf("PhysicsSystem: pursuer %s caught player %s", c.Pursuer, c.Player)
		}
		w.Events().Push(ecs.Event{Type: ecs.EventCaught, Data: ecs.CaughtEvent{Pursuer: c.Pursuer, Player: c.Player}})
	}
}

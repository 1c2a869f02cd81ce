package ecs

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mazechase/ecs/component"
	"github.com/milk9111/mazechase/maze"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlayer
	collisionTypePursuer
)

// Contact records a pursuer touching a player during the last step.
type Contact struct {
	Pursuer Entity
	Player  Entity
}

// PhysicsWorld owns the Chipmunk space: one static box per wall cell, a
// boundary around the grid, and one dynamic body per agent.
type PhysicsWorld struct {
	space         *cp.Space
	mapping       maze.Mapping
	handlersReady bool
	wallShapes    int

	shapeToEntity map[*cp.Shape]Entity
	entityBodies  map[Entity]*component.PhysicsBody
	entityKinds   map[Entity]component.Kind
	contacts      []Contact
}

// NewPhysicsWorld builds a zero-gravity top-down space for g.
func NewPhysicsWorld(g *maze.Grid, mapping maze.Mapping) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		space:         space,
		mapping:       mapping,
		shapeToEntity: make(map[*cp.Shape]Entity),
		entityBodies:  make(map[Entity]*component.PhysicsBody),
		entityKinds:   make(map[Entity]component.Kind),
	}
	pw.buildStaticShapes(g)
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// WallShapes is the number of static wall boxes in the space.
func (pw *PhysicsWorld) WallShapes() int {
	if pw == nil {
		return 0
	}
	return pw.wallShapes
}

// AddAgent creates a circular dynamic body at world (x, z).
func (pw *PhysicsWorld) AddAgent(e Entity, kind component.Kind, x, z, radius, mass float64) *component.PhysicsBody {
	if pw == nil || pw.space == nil {
		return nil
	}
	if radius <= 0 {
		radius = 1
	}
	if mass <= 0 {
		mass = 1
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: z})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	switch kind {
	case component.KindPlayer:
		shape.SetCollisionType(collisionTypePlayer)
	case component.KindPursuer:
		shape.SetCollisionType(collisionTypePursuer)
	}

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e

	pb := &component.PhysicsBody{Body: body, Shape: shape, Radius: radius, Mass: mass}
	pw.entityBodies[e] = pb
	pw.entityKinds[e] = kind
	return pb
}

// RemoveBody removes e's body from the space, if any.
func (pw *PhysicsWorld) RemoveBody(e Entity) {
	if pw == nil {
		return
	}
	pb, ok := pw.entityBodies[e]
	if !ok {
		return
	}
	delete(pw.entityBodies, e)
	delete(pw.entityKinds, e)
	delete(pw.shapeToEntity, pb.Shape)
	pw.space.RemoveShape(pb.Shape)
	pw.space.RemoveBody(pb.Body)
}

// Step advances the simulation and records agent contacts.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.contacts = pw.contacts[:0]
	pw.space.Step(dt)
}

// Contacts returns the pursuer/player contacts that began during the last
// step.
func (pw *PhysicsWorld) Contacts() []Contact {
	if pw == nil {
		return nil
	}
	return pw.contacts
}

func (pw *PhysicsWorld) buildStaticShapes(g *maze.Grid) {
	if g == nil {
		return
	}
	half := pw.cellSize() / 2
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := maze.Cell{Row: r, Col: c}
			if g.At(cell) != maze.Wall {
				continue
			}
			x, z := pw.mapping.CellToWorld(cell)
			bb := cp.BB{L: x - half, B: z - half, R: x + half, T: z + half}
			shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
			shape.SetFriction(0)
			shape.SetCollisionType(collisionTypeSolid)
			pw.space.AddShape(shape)
			pw.wallShapes++
		}
	}

	// Seal the grid edge so agents cannot leave through the entrance or exit.
	minX, minZ := pw.mapping.CellToWorld(maze.Cell{})
	maxX, maxZ := pw.mapping.CellToWorld(maze.Cell{Row: g.Rows() - 1, Col: g.Cols() - 1})
	minX, minZ, maxX, maxZ = minX-half, minZ-half, maxX+half, maxZ+half
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: minX, Y: minZ}, b: cp.Vector{X: maxX, Y: minZ}},
		{a: cp.Vector{X: minX, Y: maxZ}, b: cp.Vector{X: maxX, Y: maxZ}},
		{a: cp.Vector{X: minX, Y: minZ}, b: cp.Vector{X: minX, Y: maxZ}},
		{a: cp.Vector{X: maxX, Y: minZ}, b: cp.Vector{X: maxX, Y: maxZ}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(pw.space.StaticBody, seg.a, seg.b, 0.5)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
		pw.space.AddShape(shape)
	}
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	// Agents pass through each other; the touch is only reported.
	catchHandler := pw.space.NewCollisionHandler(collisionTypePursuer, collisionTypePlayer)
	catchHandler.UserData = pw
	catchHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return false
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := world.shapeToEntity[shapeA]
		b, okB := world.shapeToEntity[shapeB]
		if !okA || !okB {
			return false
		}
		if world.entityKinds[a] == component.KindPlayer {
			a, b = b, a
		}
		world.contacts = append(world.contacts, Contact{Pursuer: a, Player: b})
		return false
	}

	pw.handlersReady = true
}

func (pw *PhysicsWorld) cellSize() float64 {
	if pw.mapping.CellSize <= 0 {
		return maze.DefaultCellSize
	}
	return pw.mapping.CellSize
}

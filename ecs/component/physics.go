package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data for a moving agent. The space
// is top-down: body X is world X and body Y is world Z.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
	Mass   float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

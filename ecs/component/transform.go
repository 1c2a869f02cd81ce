package component

// Transform is a world position. X and Z span the ground plane; Y is height.
type Transform struct {
	X float64
	Y float64
	Z float64
}

var TransformComponent = NewComponent[Transform]()

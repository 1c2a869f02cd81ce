package common

import "math"

// TickRate is the fixed simulation rate in ticks per second.
const TickRate = 60

// TickDelta is the duration of one simulation tick in seconds.
const TickDelta = 1.0 / TickRate

// Dist returns the ground-plane distance between (x1, z1) and (x2, z2).
func Dist(x1, z1, x2, z2 float64) float64 {
	return math.Hypot(x2-x1, z2-z1)
}

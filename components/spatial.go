package components

import "gonum.org/v1/gonum/spatial/r2"

// Spawn records the initial state a strand's particle was created with.
type Spawn struct {
	Position r2.Vec
	Velocity r2.Vec
}

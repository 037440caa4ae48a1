package entity

import (
	"fmt"
	"math"
)

// Position is a point on the integer battle grid.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Origin is where every new entity starts.
var Origin = Position{}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the vector from o to p.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distance returns floor(sqrt(dx² + dy²)).
//
// This is not rounded Euclidean distance: (0,0) to (5,5) is 7. Movement
// rules depend on the floor.
func (p Position) Distance(o Position) int {
	d := p.Sub(o)
	sq := d.X*d.X + d.Y*d.Y
	return int(math.Floor(math.Sqrt(float64(sq))))
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

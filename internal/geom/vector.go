// Package geom provides the small amount of 2D vector math swipe detection needs.
package geom

import (
	"fmt"
	"math"
)

// Vector2 is a 2D vector used for positions, displacements, and directions.
type Vector2 struct {
	X, Y float64
}

// V2 creates a new Vector2.
func V2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Magnitude returns the length of v.
func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vector2) Normalize() Vector2 {
	m := v.Magnitude()
	if m == 0 {
		return Vector2{}
	}
	return Vector2{v.X / m, v.Y / m}
}

// IsZero reports whether both components are zero.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

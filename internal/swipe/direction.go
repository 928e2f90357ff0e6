package swipe

import (
	"fmt"
	"strings"

	"github.com/phinze/swipedeck/internal/geom"
)

// Direction is the classified direction of a swipe.
type Direction uint8

const (
	// None means no swipe, or a displacement that matched no reference direction.
	None Direction = iota
	Up
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
)

// Angular thresholds compared against the dot product of the normalized
// displacement and a reference vector.
const (
	EightDirThreshold = 0.906
	FourDirThreshold  = 0.5
)

var directionNames = [...]string{
	None:      "none",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
	UpLeft:    "up-left",
	UpRight:   "up-right",
	DownLeft:  "down-left",
	DownRight: "down-right",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection parses the name returned by Direction.String.
// Underscores and case are ignored, so "UP_LEFT" and "upleft" both work.
func ParseDirection(s string) (Direction, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	for i, name := range directionNames {
		if strings.ReplaceAll(name, "-", "") == key {
			return Direction(i), nil
		}
	}
	return None, fmt.Errorf("unknown swipe direction %q", s)
}

// IsDiagonal reports whether d is one of the four diagonal directions.
func (d Direction) IsDiagonal() bool {
	return d >= UpLeft && d <= DownRight
}

type reference struct {
	dir Direction
	vec geom.Vector2
}

// references is the classification order. Ties go to the earlier entry,
// and four-direction mode only looks at the first four.
var references = []reference{
	{Up, geom.V2(0, 1)},
	{Down, geom.V2(0, -1)},
	{Right, geom.V2(1, 0)},
	{Left, geom.V2(-1, 0)},
	{UpRight, geom.V2(1, 1)},
	{UpLeft, geom.V2(-1, 1)},
	{DownRight, geom.V2(1, -1)},
	{DownLeft, geom.V2(-1, -1)},
}

const cardinalCount = 4

// Vector returns the reference vector for d. Diagonals are (±1, ±1) and
// not unit length. None returns the zero vector.
func (d Direction) Vector() geom.Vector2 {
	for _, r := range references {
		if r.dir == d {
			return r.vec
		}
	}
	return geom.Vector2{}
}

// Classify maps a displacement to the first reference direction whose dot
// product with the normalized displacement exceeds the mode's threshold.
// Diagonal reference vectors are compared as-is, without normalization.
func Classify(displacement geom.Vector2, eightDirections bool) Direction {
	n := displacement.Normalize()

	set := references
	threshold := EightDirThreshold
	if !eightDirections {
		set = references[:cardinalCount]
		threshold = FourDirThreshold
	}

	for _, r := range set {
		if n.Dot(r.vec) > threshold {
			return r.dir
		}
	}
	return None
}

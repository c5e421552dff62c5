// Pose and point value types for tangram pieces.
package types

import "math"

// Point is a 2D position in the shared board coordinate frame.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Pose is a discrete or live placement of a piece: position, rotation in
// degrees and flip flag. Poses are values; every transformation returns a
// new Pose.
type Pose struct {
	Position Point   `json:"position"`
	Rotation float64 `json:"rotation"`
	Flipped  bool    `json:"flipped"`
}

// Tolerance bounds used when comparing a live pose against a candidate.
// Both bounds are exclusive.
type Tolerance struct {
	Position float64 `json:"position" yaml:"position"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
}

// Default matching tolerances, in board length units and degrees.
const (
	DefaultPositionTolerance = 0.25
	DefaultRotationTolerance = 10.0
)

// DefaultTolerance returns the standard matching tolerance.
func DefaultTolerance() Tolerance {
	return Tolerance{Position: DefaultPositionTolerance, Rotation: DefaultRotationTolerance}
}

// NormalizeAngle maps deg into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// A tiny negative remainder plus 360 rounds to 360.
	if a >= 360 {
		a -= 360
	}
	return a
}

// AngularDistance returns the shortest distance in degrees between two
// angles, after normalizing both into [0, 360). The result is in [0, 180].
func AngularDistance(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	return math.Min(d, 360-d)
}

// Rotated returns a copy of p with delta degrees added to its rotation,
// normalized into [0, 360).
func (p Pose) Rotated(delta float64) Pose {
	p.Rotation = NormalizeAngle(p.Rotation + delta)
	return p
}

// Translated returns a copy of p moved by offset.
func (p Pose) Translated(offset Point) Pose {
	p.Position = p.Position.Add(offset)
	return p
}

// Normalized returns a copy of p with its rotation in [0, 360).
func (p Pose) Normalized() Pose {
	p.Rotation = NormalizeAngle(p.Rotation)
	return p
}

// Within reports whether live lies strictly inside tol of p: position
// distance and angular distance are both below their bounds and the flip
// flags are equal.
func (p Pose) Within(live Pose, tol Tolerance) bool {
	if p.Flipped != live.Flipped {
		return false
	}
	// Written as positive comparisons so NaN never matches.
	if !(p.Position.Distance(live.Position) < tol.Position) {
		return false
	}
	return AngularDistance(p.Rotation, live.Rotation) < tol.Rotation
}

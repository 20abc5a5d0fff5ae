// Package spatial implements the parallel, pointer-free Morton-code octree
// and the primitives it is built on: vector/box algebra, a parallel prefix
// sum and prefix count, and the Morton codec.
package spatial

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3-component double vector. Equality is bitwise exact on each
// component, not IEEE-754 equality, so the distinguished NaV value (all
// components NaN) compares equal to itself.
type Vec3 struct {
	X, Y, Z float64
}

// NaV is the "not-a-vector" sentinel used to mark an empty AABB's origin.
var NaV = Vec3{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// IsNaV reports whether v has any NaN component.
func (v Vec3) IsNaV() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// Add returns v+u componentwise.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z}
}

// Sub returns v-u componentwise.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{v.X - u.X, v.Y - u.Y, v.Z - u.Z}
}

// Scale returns v*s componentwise.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Div returns v/s componentwise.
func (v Vec3) Div(s float64) Vec3 {
	return Vec3{v.X / s, v.Y / s, v.Z / s}
}

// Dot returns the dot product of v and u.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Len returns the Euclidean magnitude of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Equal compares v and u bitwise-exact, component by component. Two NaV
// values are equal to each other since every component is the same NaN bit
// pattern.
func (v Vec3) Equal(u Vec3) bool {
	return math.Float64bits(v.X) == math.Float64bits(u.X) &&
		math.Float64bits(v.Y) == math.Float64bits(u.Y) &&
		math.Float64bits(v.Z) == math.Float64bits(u.Z)
}

// Less implements a total order: NaV sorts before every other value, then
// components are compared lexicographically X, Y, Z.
func (v Vec3) Less(u Vec3) bool {
	vNaV, uNaV := v.IsNaV(), u.IsNaV()
	switch {
	case vNaV && uNaV:
		return false
	case vNaV:
		return true
	case uNaV:
		return false
	}
	switch {
	case v.X != u.X:
		return v.X < u.X
	case v.Y != u.Y:
		return v.Y < u.Y
	default:
		return v.Z < u.Z
	}
}

func (v Vec3) String() string {
	if v.IsNaV() {
		return "NaV"
	}
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// ToMgl64 converts v to a mgl64.Vec3 for consumption by the render
// collaborator's camera/projection math.
func (v Vec3) ToMgl64() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromMgl64 builds a Vec3 from a mgl64.Vec3.
func FromMgl64(v mgl64.Vec3) Vec3 {
	return Vec3{v.X(), v.Y(), v.Z()}
}

func minComponent(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func maxComponent(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

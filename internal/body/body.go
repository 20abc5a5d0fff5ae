// Package body holds the physical quantities the simulation advances and
// the force laws acting between them. It uses internal/spatial for its
// Vec3 type and walks spatial's octree for the gravity and collision
// passes.
package body

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/orrery-sim/octree-nbody/internal/spatial"
)

// G is the gravitational constant, m^3 kg^-1 s^-2.
const G = 6.67408e-11

// Body is one simulated mass: its kinematic state plus the force
// accumulated against it during the current step.
type Body struct {
	ID         uint64
	Mass       float64 // kg
	Radius     float64 // m
	Pos        spatial.Vec3
	Vel        spatial.Vec3
	force      spatial.Vec3
	Discarded  bool
}

// String renders a short human-readable summary of the body's state.
func (b Body) String() string {
	return fmt.Sprintf("m: %.4f\np: %s\nv: %s\n", b.Mass, b.Pos, b.Vel)
}

// ResetForce zeroes the accumulated force ahead of a new force pass.
func (b *Body) ResetForce() {
	b.force = spatial.Vec3{}
}

// AddForce accumulates f onto the body's current force total.
func (b *Body) AddForce(f spatial.Vec3) {
	b.force = b.force.Add(f)
}

// Force returns the force currently accumulated against the body.
func (b *Body) Force() spatial.Vec3 {
	return b.force
}

// Dist returns the Euclidean distance between two bodies' positions.
func Dist(a, b *Body) float64 {
	return a.Pos.Sub(b.Pos).Len()
}

// Gravity adds to a the gravitational force a feels from b, given their
// precomputed separation r.
func Gravity(r float64, a, b *Body) {
	f := G * (a.Mass * b.Mass) / (r * r)
	dir := b.Pos.Sub(a.Pos).Scale(1 / r)
	a.AddForce(dir.Scale(f))
}

// inelasticVelocity returns the combined velocity component of a perfectly
// inelastic collision between masses ma/mb moving at va/vb along one axis.
func inelasticVelocity(ma, va, mb, vb float64) float64 {
	return (ma*va + mb*vb) / (ma + mb)
}

// Combine merges b into a: masses add, radius combines by conserved
// volume, velocity and accumulated force combine by inelastic collision.
func Combine(a, b *Body) {
	newVel := spatial.Vec3{
		X: inelasticVelocity(a.Mass, a.Vel.X, b.Mass, b.Vel.X),
		Y: inelasticVelocity(a.Mass, a.Vel.Y, b.Mass, b.Vel.Y),
		Z: inelasticVelocity(a.Mass, a.Vel.Z, b.Mass, b.Vel.Z),
	}
	a.Radius = math.Cbrt(a.Radius*a.Radius*a.Radius + b.Radius*b.Radius*b.Radius)
	a.Mass += b.Mass
	a.Vel = newVel
	a.force = a.force.Add(b.force)
	b.Discarded = true
}

// Volume returns the volume of a sphere with the given radius.
func Volume(radius float64) float64 {
	return 4.0 / 3.0 * math.Pi * (radius * radius * radius)
}

// RadiusFromVolume returns the radius of a sphere with the given volume.
func RadiusFromVolume(volume float64) float64 {
	return math.Cbrt((3.0 * volume) / (4.0 * math.Pi))
}

// RadiusFromMassDensity returns the radius of a sphere with the given
// mass and density.
func RadiusFromMassDensity(mass, density float64) float64 {
	return math.Cbrt((3.0 * mass) / (4.0 * math.Pi * density))
}

// cross returns the cross product of two vectors given componentwise.
func cross(x1, y1, z1, x2, y2, z2 float64) (x3, y3, z3 float64) {
	x3 = y1*z2 - z1*y2
	y3 = z1*x2 - x1*z2
	z3 = x1*y2 - y1*x2
	return
}

// Core seeds a cluster: a massive central body plus a rotation axis
// (Axis) that orbiting bodies are given initial velocity around.
type Core struct {
	Body
	Axis spatial.Vec3
}

// MakeBodies generates n bodies distributed around the given cluster
// cores (or normally distributed around the origin if cores is empty), with the
// cores themselves inserted as bodies at the front of the returned slice.
func MakeBodies(n int, cores []Core) []*Body {
	const orbitalVDampening = 1.0
	const meanMass = 50e3
	const defaultRadius = 2

	nc := len(cores)
	bodies := make([]*Body, n+nc)

	for i := nc; i < len(bodies); i++ {
		m := math.Abs(rand.NormFloat64()*500 + meanMass)

		var core Core
		if nc > 0 {
			core = cores[rand.Intn(nc)]
		}

		b := &Body{ID: uint64(i), Mass: m, Radius: defaultRadius}
		spread := func(axis float64) float64 {
			return 1000*(1-math.Abs(axis)) + 100*math.Abs(axis)
		}
		b.Pos = spatial.Vec3{
			X: rand.NormFloat64()*spread(core.Axis.X) + core.Pos.X,
			Y: rand.NormFloat64()*spread(core.Axis.Y) + core.Pos.Y,
			Z: rand.NormFloat64()*spread(core.Axis.Z) + core.Pos.Z,
		}

		if nc > 0 {
			d := core.Pos.Sub(b.Pos)
			dlen := d.Len()
			if dlen == 0 {
				dlen = 1
			}
			d = d.Scale(1 / dlen)
			dx, dy, dz := cross(d.X, d.Y, d.Z, core.Axis.X, core.Axis.Y, core.Axis.Z)

			v := math.Sqrt(G * core.Mass / dlen)
			b.Vel = spatial.Vec3{
				X: dx*v*orbitalVDampening + core.Vel.X,
				Y: dy*v*orbitalVDampening + core.Vel.Y,
				Z: dz*v*orbitalVDampening + core.Vel.Z,
			}
		}
		bodies[i] = b
	}

	for i := range cores {
		cores[i].Axis = spatial.Vec3{}
		c := cores[i].Body
		c.ID = uint64(i)
		bodies[i] = &c
	}

	return bodies
}

// UniformSampleDisk uniformly samples a disk of the given radius, with no
// bias toward the center.
func UniformSampleDisk(radius float64) (x, y float64) {
	r := radius * math.Sqrt(rand.Float64())
	theta := 2 * math.Pi * rand.Float64()
	sin, cos := math.Sincos(theta)
	return r * cos, r * sin
}

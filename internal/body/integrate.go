package body

import "github.com/orrery-sim/octree-nbody/internal/spatial"

// Integrator advances every body's velocity and position by dt given its
// currently accumulated force, then clears that force for the next step.
type Integrator interface {
	Step(bodies []*Body, dt float64)
}

// EulerIntegrator is a semi-implicit (symplectic) Euler scheme:
// v += (F/m)*dt, then p += v*dt.
type EulerIntegrator struct{}

func (EulerIntegrator) Step(bodies []*Body, dt float64) {
	for _, b := range bodies {
		if b.Discarded {
			continue
		}
		accel := b.force.Scale(1 / b.Mass)
		b.Vel = b.Vel.Add(accel.Scale(dt))
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		b.ResetForce()
	}
}

// RK4Integrator is a classic explicit fourth-order Runge-Kutta stepper,
// using the coefficients of the standard Butcher tableau:
//
//	0   |
//	1/2 | 1/2
//	1/2 | 0    1/2
//	1   | 0    0    1
//	----+------------------
//	    | 1/6  1/3  1/3  1/6
//
// Force is treated as constant across the substeps of a single Step call
// (it is not recomputed against the octree mid-step), so this integrates
// the kinematic ODE dx/dt=v, dv/dt=F/m exactly for constant F; the
// accuracy gain over Euler comes from the substep averaging of velocity
// against position, not from re-evaluating gravity.
type RK4Integrator struct{}

type rk4State struct {
	pos, vel spatial.Vec3
}

func (RK4Integrator) Step(bodies []*Body, dt float64) {
	for _, b := range bodies {
		if b.Discarded {
			continue
		}
		accel := b.force.Scale(1 / b.Mass)
		deriv := func(s rk4State) rk4State {
			return rk4State{pos: s.vel, vel: accel}
		}

		s0 := rk4State{pos: b.Pos, vel: b.Vel}
		k1 := deriv(s0)
		k2 := deriv(addState(s0, k1, dt/2))
		k3 := deriv(addState(s0, k2, dt/2))
		k4 := deriv(addState(s0, k3, dt))

		b.Pos = s0.pos.Add(weightedSum(k1.pos, k2.pos, k3.pos, k4.pos, dt))
		b.Vel = s0.vel.Add(weightedSum(k1.vel, k2.vel, k3.vel, k4.vel, dt))
		b.ResetForce()
	}
}

func addState(s, k rk4State, h float64) rk4State {
	return rk4State{
		pos: s.pos.Add(k.pos.Scale(h)),
		vel: s.vel.Add(k.vel.Scale(h)),
	}
}

// weightedSum applies the tableau's 1/6, 1/3, 1/3, 1/6 weights scaled by
// the step size.
func weightedSum(k1, k2, k3, k4 spatial.Vec3, dt float64) spatial.Vec3 {
	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return sum.Scale(dt / 6)
}

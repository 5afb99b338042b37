// Package dynamo simulates a single-degree-of-freedom mass-spring-damper
// in linear state-space form.
//
// The package holds the numerical core of msdsim:
//
//   - [Params]: mass, stiffness and damping of the system
//   - [Model]: the continuous-time matrices A and B together with the step size
//   - [Input]: the force applied at each discrete step
//   - [Simulate]: forward Euler integration over a fixed horizon
//   - [Trajectory]: the ordered state history produced by a run
//
// The state vector is [velocity, displacement]. Each step computes
//
//	x[i] = x[i-1] + dt*(A*x[i-1] + B*u(i))
//
// with no step-size control. Choosing dt small enough for the chosen
// parameters is up to the caller, see [Model.Stability].
//
// # Example
//
//	m, _ := dynamo.New(dynamo.Params{Mass: 1, Stiffness: 20, Damping: 1}, dynamo.DefaultDt)
//	traj, _ := dynamo.Simulate(ctx, m, dynamo.Rest(), dynamo.ReferenceSchedule(), 499)
//	d := traj.Displacements()
//
// # Thread Safety
//
// A [Model] is read-only after [New] and may be shared by concurrent calls to
// [Simulate]. A [Trajectory] is never modified after it is returned.
package dynamo

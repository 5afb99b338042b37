// Package analysis derives summary quantities from a simulated trajectory.
//
//   - [PowerSpectrum] and [DominantFrequency]: frequency content of the displacement
//   - [Crossings] and [Period]: oscillation period from level crossings
//   - [NewPhasePortrait]: the velocity/displacement phase plane
//   - [Sweep]: re-simulates a model while one parameter varies
//
// Nothing here feeds back into the simulation. Functions accept a
// *dynamo.Trajectory and never modify it.
//
// # Oscillation Frequency
//
// For an underdamped model the dominant spectral peak sits near the damped
// natural frequency:
//
//	f, err := analysis.DominantFrequency(traj)
//	// compare with model.NaturalFrequency() / (2*math.Pi)
package analysis

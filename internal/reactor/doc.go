// Package reactor provides the core simulation primitives for cytosolic
// methane oxidation kinetics.
//
// The package defines the fundamental interfaces and types shared by the
// rest of the module:
//
//   - [State]: species concentration vector (mmol/L)
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator], [AdaptiveIntegrator]: numerical stepper interfaces
//   - [Trajectory]: sampled solution of one run
//
// # Thread safety
//
// States and Trajectories are not synchronized. Parallel sensitivity
// sweeps give each grid point its own derived parameter set and its own
// trajectory, so no sharing occurs.
package reactor

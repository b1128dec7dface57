// Package bem implements blade element momentum theory for a rotor.
//
// The package defines the per-element inflow solve and the rotor-level
// aggregation it feeds:
//
//   - [ElementInput]: geometry and operating point of one radial slice
//   - [InflowResidual]: one iteration of the coupled inflow equations
//   - [Solver]: drives a root finder over an [InflowResidual]
//   - [SolveAll]: solves independent elements concurrently
//   - [Aggregate]: sums element loads into rotor coefficients
//   - [EvaluateActuatorDisk]: closed-form actuator disk model
//
// # Example
//
//	res, _ := bem.NewTipSpeedFormulation(aero.PaperTable())
//	solver := bem.NewSolver(res, rootfind.NewBroyden(rootfind.DefaultSettings()))
//	out, err := solver.Solve(in)
//
// # Thread Safety
//
// A Solver holds no per-solve state and may be shared by concurrent
// callers, provided the coefficient model it was built with is read-only.
package bem

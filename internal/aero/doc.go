// Package aero maps angle of attack to section lift and drag coefficients.
//
// A [Model] is consulted once per inflow iteration by the blade element
// solver. Three models are provided:
//
//   - [Table]: independent piecewise-linear lift and drag curves
//   - [LinearPolar]: closed form CL = k·alpha with a quadratic drag polar
//   - [RadiusKeyed]: legacy lookup keyed by station radius (deprecated)
//
// # Thread Safety
//
// Models are built once and never mutated by lookups, so a single model
// may be shared by any number of concurrent element solves.
package aero

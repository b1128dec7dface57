// Package rootfind solves small systems of nonlinear equations F(x) = 0.
//
// Two derivative-free methods share the [Finder] interface:
//
//   - [Broyden]: quasi-Newton with a finite-difference initial Jacobian,
//     rank-one secant updates and a backtracking line search
//   - [FixedPoint]: relaxed iteration x ← x - w·F(x), suited to residuals
//     written as x - g(x)
//
// Every [Result] pairs X with F evaluated at exactly that X, so callers
// that record side quantities per evaluation can recover the state at the
// returned point without evaluating F again.
package rootfind

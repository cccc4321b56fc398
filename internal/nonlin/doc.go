// Package nonlin defines the shared vocabulary of the nonlinear solver:
//
//   - [Vector]: dense coordinate vector with norm helpers
//   - [Problem]: immutable residual description F(u) = 0
//   - [Solution]: final iterate, residual, return code and counters
//   - [Retcode]: outcome classification
//
// # Example
//
//	prob := nonlin.Problem{
//		F:  func(fu, u nonlin.Vector) { fu[0] = u[0]*u[0] - 2 },
//		U0: nonlin.Vector{1},
//	}
//	sol, _ := solver.Solve(&prob, solver.NewtonRaphson, solver.DefaultSettings())
//
// # Thread Safety
//
// Problems are read-only and may be shared. Everything mutable lives in
// the solver cache, which belongs to a single solve invocation.
package nonlin

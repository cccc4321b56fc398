// Package solver is the iterative engine for F(u) = 0.
//
// One generic loop drives a per-algorithm step strategy until a
// termination criterion, the iteration budget, or a fatal condition
// ends the solve:
//
//   - [NewtonRaphson]: J·du = fu with optional line-search damping
//   - [TrustRegion]: dogleg steps inside an adaptive radius
//   - [LevenbergMarquardt]: damped normal equations, adaptive λ
//   - [GaussNewton]: undamped normal equations
//   - [PseudoTransient]: continuation with an adaptive pseudo-time-step
//   - [DFSane]: derivative-free spectral residual method
//
// The Jacobian manager, linear-solve handle, line search and
// termination checker are shared collaborators; each strategy only
// supplies the step proposal and its acceptance logic.
package solver

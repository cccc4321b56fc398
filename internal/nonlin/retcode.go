package nonlin

// Retcode classifies how a solve ended. It is written exactly once, at
// loop termination.
type Retcode int

const (
	// Default means the solve has not terminated yet.
	Default Retcode = iota
	// Success means a termination criterion was satisfied.
	Success
	// MaxIters means the iteration budget ran out before convergence.
	MaxIters
	// Failure is a generic non-recoverable strategy failure.
	Failure
	// Singular means the linear solve met a singular or severely
	// ill-conditioned Jacobian.
	Singular
	// Diverged means the residual norm grew past the divergence bound.
	Diverged
	// Unstable means a non-finite value appeared in the iterate or
	// residual.
	Unstable
)

func (r Retcode) String() string {
	switch r {
	case Default:
		return "default"
	case Success:
		return "success"
	case MaxIters:
		return "maxiters"
	case Failure:
		return "failure"
	case Singular:
		return "singular"
	case Diverged:
		return "diverged"
	case Unstable:
		return "unstable"
	default:
		return "unknown"
	}
}

// Fatal reports whether the code belongs to the failure family, as
// opposed to Success or the non-fatal MaxIters.
func (r Retcode) Fatal() bool {
	return r == Failure || r == Singular || r == Diverged || r == Unstable
}

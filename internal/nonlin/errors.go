package nonlin

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrSingularJacobian indicates the linear solve met a singular or
	// near-singular Jacobian.
	ErrSingularJacobian = errors.New("nonlin: singular jacobian")

	// ErrDifferentiation indicates the differentiation backend failed.
	ErrDifferentiation = errors.New("nonlin: jacobian evaluation failed")

	// ErrNonFinite indicates NaN or Inf in the iterate or residual.
	ErrNonFinite = errors.New("nonlin: non-finite value in iterate")

	// ErrDiverged indicates unbounded residual growth.
	ErrDiverged = errors.New("nonlin: residual diverged")

	// ErrMaxIters indicates the iteration budget was exhausted.
	ErrMaxIters = errors.New("nonlin: maximum iterations reached")

	// ErrDimensionMismatch indicates vectors of incompatible lengths.
	ErrDimensionMismatch = errors.New("nonlin: dimension mismatch")
)

// StepError wraps an error with the iteration it occurred on.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// RetcodeError maps a failure-family return code to its sentinel error,
// or nil for Success and the non-fatal codes other than MaxIters.
func RetcodeError(r Retcode) error {
	switch r {
	case Singular:
		return ErrSingularJacobian
	case Diverged:
		return ErrDiverged
	case Unstable:
		return ErrNonFinite
	case MaxIters:
		return ErrMaxIters
	case Failure:
		return errors.New("nonlin: solve failed")
	default:
		return nil
	}
}

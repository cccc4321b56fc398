package diff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// Backend approximates the Jacobian of f at u. Implementations write the
// n×n result into dst and may call f any number of times; callers pass
// an evaluator that does their own bookkeeping. fu holds F(u) so
// backends that can reuse it avoid one evaluation.
type Backend interface {
	Name() string
	Jacobian(dst *mat.Dense, f nonlin.ResidualFunc, u, fu nonlin.Vector) error
}

// New returns the backend registered under name.
func New(name string) (Backend, error) {
	switch name {
	case "forward", "":
		return NewForward(), nil
	case "central":
		return NewCentral(), nil
	default:
		return nil, fmt.Errorf("diff: unknown backend %q", name)
	}
}

// guard converts a panic inside a user residual callback into
// ErrDifferentiation so it cannot unwind past the solve loop.
func guard(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", nonlin.ErrDifferentiation, r)
	}
}

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/diff"
	"github.com/san-kum/nlsolve/internal/linear"
	"github.com/san-kum/nlsolve/internal/nonlin"
)

// jacobianManager builds and caches the Jacobian through the
// differentiation backend and owns the linear-solve handle factored
// from it. With reuse enabled, a step keeps the previous J (and its
// factorization) when the residual did not get worse and the iterate
// has not drifted far from where J was built.
type jacobianManager struct {
	backend diff.Backend
	J       *mat.Dense
	lin     *linear.Solver

	reuse    bool
	reuseTol float64

	built    bool
	prevNorm float64 // ‖fu‖ when the reuse decision was last taken
	drift    float64 // accumulated step norm since the last rebuild
}

func newJacobianManager(n int, set *Settings) *jacobianManager {
	return &jacobianManager{
		backend:  set.Backend,
		J:        mat.NewDense(n, n, nil),
		lin:      linear.NewSolver(n),
		reuse:    set.ReuseJacobian,
		reuseTol: set.ReuseTol,
	}
}

// refresh makes J valid at the current iterate and keeps the
// linear-solve handle factored against it. A rebuild refactorizes the
// handle; a reused J keeps the warm factorization.
func (jm *jacobianManager) refresh(c *Cache) error {
	rebuilt, err := jm.refreshMatrix(c)
	if err != nil {
		return err
	}
	if rebuilt {
		return jm.lin.Factorize(jm.J)
	}
	return nil
}

// refreshMatrix makes J valid without touching the linear-solve
// handle, for strategies that factor their own system (the augmented
// pseudo-transient matrix, the damped normal equations). Rebuilds
// unless the reuse policy allows keeping the previous J; the first
// call always rebuilds.
func (jm *jacobianManager) refreshMatrix(c *Cache) (bool, error) {
	if jm.built && jm.reuse && c.fnorm <= jm.prevNorm && jm.drift < jm.reuseTol {
		jm.prevNorm = c.fnorm
		return false, nil
	}
	if err := jm.backend.Jacobian(jm.J, c.evalF, c.u, c.fu); err != nil {
		return false, fmt.Errorf("%w: %v", nonlin.ErrDifferentiation, err)
	}
	c.stats.NumJacobianEvals++
	jm.built = true
	jm.drift = 0
	jm.prevNorm = c.fnorm
	return true, nil
}

// note records an applied step so the drift bound can trigger the next
// rebuild.
func (jm *jacobianManager) note(stepNorm float64) {
	jm.drift += stepNorm
}

package solver

import (
	"github.com/san-kum/nlsolve/internal/linesearch"
)

// newton is plain Newton-Raphson: solve J·du = fu, damp with the
// configured line search, update u ← u − α·du.
type newton struct {
	ls linesearch.Searcher
}

func (s *newton) name() string { return "newton" }

func (s *newton) step(c *Cache) {
	if err := c.jac.refresh(c); err != nil {
		c.fail(err)
		return
	}
	if err := c.jac.lin.Solve(c.du, c.fu); err != nil {
		c.fail(err)
		return
	}
	c.stats.NumLinearSolves++

	alpha, err := s.ls.Search(c.newtonMerit(), 0.5*c.fnorm*c.fnorm)
	if err != nil {
		// No decrease along the Newton direction. Take the smallest
		// damped step rather than giving up outright; divergence and
		// termination guards decide what happens next.
		alpha = 1e-8
	}

	for i := range c.u {
		c.utrial[i] = c.u[i] - alpha*c.du[i]
	}
	c.evalF(c.ftrial, c.utrial)

	stepNorm := alpha * c.du.Norm()
	c.jac.note(stepNorm)
	c.acceptIterate(c.utrial, c.ftrial, stepNorm)
}

// newtonMerit is the merit slice ½‖F(u − α·du)‖² used by backtracking
// searchers. The pass-through Static searcher never calls it.
func (c *Cache) newtonMerit() linesearch.Merit {
	return func(alpha float64) float64 {
		for i := range c.u {
			c.utrial[i] = c.u[i] - alpha*c.du[i]
		}
		c.evalF(c.ftrial, c.utrial)
		return 0.5 * c.ftrial.Norm() * c.ftrial.Norm()
	}
}

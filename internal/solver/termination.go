package solver

import (
	"math"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// termination evaluates the convergence criteria. It is stateful: the
// residual norm at u0 anchors the relative criterion for the whole
// solve.
type termination struct {
	abstol  float64
	reltol  float64
	steptol float64

	f0      float64
	started bool
}

func newTermination(set *Settings) *termination {
	return &termination{
		abstol:  set.Abstol,
		reltol:  set.Reltol,
		steptol: set.StepTol,
	}
}

// prime records the initial residual norm before the first step.
func (t *termination) prime(fu nonlin.Vector) {
	t.f0 = fu.NormInf()
	t.started = true
}

// check reports convergence at the end of a step: absolute or relative
// residual smallness, or (if enabled) a relative step-size criterion
// over the last update. The caller sets the loop's stop flag; the check
// itself never ends a step midway.
func (t *termination) check(fu, u, uPrev nonlin.Vector) bool {
	finf := fu.NormInf()
	if finf <= t.abstol {
		return true
	}
	if t.started && t.reltol > 0 && finf <= t.reltol*t.f0 {
		return true
	}
	if t.steptol > 0 {
		step := 0.0
		for i := range u {
			if d := math.Abs(u[i] - uPrev[i]); d > step {
				step = d
			}
		}
		if step <= t.steptol*(1+u.NormInf()) {
			return true
		}
	}
	return false
}

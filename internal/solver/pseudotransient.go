package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/linear"
	"github.com/san-kum/nlsolve/internal/nonlin"
)

// pseudoTransient continues toward the steady state of du/dt = −F(u)
// with an adaptive pseudo-time-step alpha. Each step solves the
// implicit-Euler-like system (J + I/alpha)·du = fu, then an embedded
// error estimate over the last three iterates drives alpha the way an
// ODE step-size controller would.
type pseudoTransient struct {
	alpha     float64
	alphaPrev float64
	qold      float64

	gamma      float64
	qmin, qmax float64
	qsteadyMin float64
	qsteadyMax float64

	// Controller error-norm tolerances, independent of the solve's
	// convergence tolerances.
	abstol float64
	reltol float64

	// History ring: the cache carries u and uPrev, this holds the third
	// iterate. Depth-2 alpha history lives in alpha/alphaPrev.
	uPrev2 nonlin.Vector
	primed int

	aug *mat.Dense
	lin *linear.Solver
}

func newPseudoTransient(n int, set *Settings) *pseudoTransient {
	return &pseudoTransient{
		alpha:      set.PT.InitialAlpha,
		alphaPrev:  set.PT.InitialAlpha,
		gamma:      set.PT.Gamma,
		qmin:       set.PT.Qmin,
		qmax:       set.PT.Qmax,
		qsteadyMin: set.PT.QsteadyMin,
		qsteadyMax: set.PT.QsteadyMax,
		abstol:     set.PT.Abstol,
		reltol:     set.PT.Reltol,
		uPrev2:     make(nonlin.Vector, n),
		aug:        mat.NewDense(n, n, nil),
		lin:        linear.NewSolver(n),
	}
}

func (s *pseudoTransient) name() string { return "pseudotransient" }

// Alpha exposes the current pseudo-time-step for observers and tests.
func (s *pseudoTransient) Alpha() float64 { return s.alpha }

func (s *pseudoTransient) step(c *Cache) {
	if _, err := c.jac.refreshMatrix(c); err != nil {
		c.fail(err)
		return
	}

	// A = J + (1/alpha)·I. Small alpha keeps the step close to scaled
	// gradient descent; large alpha recovers the Newton step.
	s.aug.Copy(c.jac.J)
	inv := 1.0 / s.alpha
	n := len(c.u)
	for i := 0; i < n; i++ {
		s.aug.Set(i, i, s.aug.At(i, i)+inv)
	}
	if err := s.lin.Factorize(s.aug); err != nil {
		c.fail(err)
		return
	}
	if err := s.lin.Solve(c.du, c.fu); err != nil {
		c.fail(err)
		return
	}
	c.stats.NumLinearSolves++

	alphaUsed := s.alpha

	for i := range c.u {
		c.utrial[i] = c.u[i] - c.du[i]
	}
	c.evalF(c.ftrial, c.utrial)

	// History snapshot before acceptIterate shifts uPrev.
	copy(s.uPrev2, c.uPrev)
	uOldHeld := c.u.Clone()

	stepNorm := c.du.Norm()
	c.jac.note(stepNorm)
	c.acceptIterate(c.utrial, c.ftrial, stepNorm)

	// Controller, in this exact order: error estimate, gain (recording
	// qold), accept/reject branch, transform. Runs only once the depth-3
	// iterate and depth-2 alpha history is primed.
	if s.primed >= 2 {
		eest := s.errorEstimate(c.u, uOldHeld, s.uPrev2, alphaUsed, s.alphaPrev)
		s.control(eest, alphaUsed)
	}
	s.alphaPrev = alphaUsed
	s.primed++
	c.lastStep = s.alpha
}

// errorEstimate is a second-order finite-difference estimate of the
// local truncation error: the difference of the two consecutive secant
// slopes, scaled by 7/12·alpha², measured in the controller's mixed
// absolute/relative tolerance norm.
func (s *pseudoTransient) errorEstimate(u, uPrev, uPrev2 nonlin.Vector, alpha, alphaPrev float64) float64 {
	sum := 0.0
	n := len(u)
	for i := 0; i < n; i++ {
		d1 := (u[i] - uPrev[i]) / alpha
		d2 := (uPrev[i] - uPrev2[i]) / alphaPrev
		udd := 2 * (d1 - d2) / (alpha + alphaPrev)
		tmp := (7.0 / 12.0) * alpha * alpha * udd
		scale := s.abstol + s.reltol*math.Max(math.Abs(uPrev[i]), math.Abs(u[i]))
		r := tmp / scale
		sum += r * r
	}
	return math.Sqrt(sum / float64(n))
}

// control applies one controller update for a step taken with
// alphaUsed. Order matters: the gain (which records qold) is computed
// before the accept/reject branch. An accepted step inside the steady
// band leaves alpha alone; outside it, alpha ← alpha/q. A rejected step
// rolls back to qold.
func (s *pseudoTransient) control(eest, alphaUsed float64) {
	q := s.gain(eest, alphaUsed)
	if eest <= 1 {
		if q < s.qsteadyMin || q > s.qsteadyMax {
			s.alpha = alphaUsed / q
		}
	} else {
		s.alpha = s.qold
	}
}

// gain computes the controller gain q and records qold = alpha/q as the
// rollback value for a rejected step.
func (s *pseudoTransient) gain(eest, alpha float64) float64 {
	var q float64
	if eest == 0 {
		q = 1 / s.qmax
	} else {
		q = eest / s.gamma
		if q < 1/s.qmax {
			q = 1 / s.qmax
		}
		if q > 1/s.qmin {
			q = 1 / s.qmin
		}
	}
	s.qold = alpha / q
	return q
}

package solver

import (
	"errors"
	"math"

	"github.com/san-kum/nlsolve/internal/linear"
	"github.com/san-kum/nlsolve/internal/linesearch"
)

const (
	lmLambdaMin = 1e-12
	lmLambdaMax = 1e16
)

// levenberg implements Levenberg-Marquardt over the damped normal
// equations (JᵀJ + λ·diag(JᵀJ))·du = Jᵀfu, raising λ on rejection and
// lowering it on acceptance. With adapt disabled and λ = 0 the same
// strategy is Gauss-Newton, which instead damps through the line-search
// hook.
type levenberg struct {
	lambda float64
	up     float64
	down   float64
	adapt  bool

	ls     linesearch.Searcher
	normal *linear.NormalSolver
}

func newLevenberg(n int, set *Settings) *levenberg {
	return &levenberg{
		lambda: set.InitialLambda,
		up:     set.LambdaUp,
		down:   set.LambdaDown,
		adapt:  true,
		ls:     linesearch.NewStatic(1),
		normal: linear.NewNormalSolver(n),
	}
}

func newGaussNewton(n int, set *Settings) *levenberg {
	return &levenberg{
		lambda: 0,
		adapt:  false,
		ls:     set.LineSearch,
		normal: linear.NewNormalSolver(n),
	}
}

func (s *levenberg) name() string {
	if s.adapt {
		return "levenberg"
	}
	return "gaussnewton"
}

func (s *levenberg) step(c *Cache) {
	if _, err := c.jac.refreshMatrix(c); err != nil {
		c.fail(err)
		return
	}
	if err := s.normal.Solve(c.du, c.jac.J, c.fu, s.lambda); err != nil {
		c.fail(err)
		return
	}
	c.stats.NumLinearSolves++

	alpha, err := s.ls.Search(c.newtonMerit(), 0.5*c.fnorm*c.fnorm)
	if err != nil {
		alpha = 1e-8
	}

	for i := range c.u {
		c.utrial[i] = c.u[i] - alpha*c.du[i]
	}
	c.evalF(c.ftrial, c.utrial)

	stepNorm := alpha * c.du.Norm()

	if !s.adapt {
		c.jac.note(stepNorm)
		c.acceptIterate(c.utrial, c.ftrial, stepNorm)
		return
	}

	if c.ftrial.IsFinite() && c.ftrial.Norm() <= c.fnorm {
		s.lambda = math.Max(s.lambda/s.down, lmLambdaMin)
		c.jac.note(stepNorm)
		c.acceptIterate(c.utrial, c.ftrial, stepNorm)
		return
	}

	// Rejected: keep the iterate, stiffen the damping.
	s.lambda *= s.up
	c.lastStep = stepNorm
	if s.lambda > lmLambdaMax {
		c.fail(errors.New("solver: levenberg-marquardt damping exhausted"))
	}
}

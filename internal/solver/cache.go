package solver

import (
	"errors"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// strategy is the per-algorithm step implementation. A strategy mutates
// only the cache fields designated to it and reports failure through
// Cache.fail.
type strategy interface {
	name() string
	step(c *Cache)
}

// Cache is the mutable state of one solve: the iterate, its residual,
// the work counters and the collaborators. A cache belongs to the solve
// invocation that created it and must not be shared.
type Cache struct {
	prob *nonlin.Problem
	set  Settings

	strat strategy

	u     nonlin.Vector
	uPrev nonlin.Vector
	fu    nonlin.Vector
	du    nonlin.Vector

	fnorm    float64 // ‖fu‖₂ at the current iterate
	initNorm float64 // ‖fu‖₂ at u0, divergence reference
	lastStep float64 // size of the most recent update, for observers

	jac  *jacobianManager
	term *termination

	stats     nonlin.Stats
	retcode   nonlin.Retcode
	forceStop bool
	converged bool
	nsteps    int

	utrial nonlin.Vector
	ftrial nonlin.Vector
}

func (c *Cache) Algorithm() string   { return c.strat.name() }
func (c *Cache) Stats() nonlin.Stats { return c.stats }

// evalF evaluates the residual with bookkeeping. Every residual
// evaluation in the engine, including those made by the differentiation
// backend, goes through here.
func (c *Cache) evalF(fu, u nonlin.Vector) {
	c.prob.F(fu, u)
	c.stats.NumResidualEvals++
}

// fail records a fatal condition and stops the loop at the next step
// boundary. The first failure wins.
func (c *Cache) fail(err error) {
	if c.forceStop {
		return
	}
	switch {
	case errors.Is(err, nonlin.ErrSingularJacobian):
		c.retcode = nonlin.Singular
	case errors.Is(err, nonlin.ErrNonFinite):
		c.retcode = nonlin.Unstable
	case errors.Is(err, nonlin.ErrDiverged):
		c.retcode = nonlin.Diverged
	default:
		c.retcode = nonlin.Failure
	}
	c.forceStop = true
}

// acceptIterate moves the cache onto a new iterate whose residual has
// already been evaluated, then runs the divergence guard and the
// termination check. stepNorm is the size of the applied update.
func (c *Cache) acceptIterate(uNew, fuNew nonlin.Vector, stepNorm float64) {
	copy(c.uPrev, c.u)
	copy(c.u, uNew)
	copy(c.fu, fuNew)
	c.fnorm = c.fu.Norm()
	c.lastStep = stepNorm

	if !c.u.IsFinite() || !c.fu.IsFinite() {
		c.fail(nonlin.ErrNonFinite)
		return
	}
	if c.fnorm > c.set.DivergeFactor*(c.initNorm+c.set.Abstol) {
		c.fail(nonlin.ErrDiverged)
		return
	}
	if c.term.check(c.fu, c.u, c.uPrev) {
		c.converged = true
		c.forceStop = true
	}
}

func (c *Cache) notTerminated() bool {
	return !c.forceStop && c.nsteps < c.set.MaxIters
}

// Solve drives the cache until termination. It is algorithm-agnostic:
// all algorithm state lives behind the strategy. The returned solution
// is always well formed, whatever the outcome.
func (c *Cache) Solve() *nonlin.Solution {
	for c.notTerminated() {
		c.strat.step(c)
		c.nsteps++
		c.stats.NumSteps = c.nsteps
		if c.set.Observer != nil {
			c.set.Observer.OnStep(c.nsteps, c.u, c.fu, c.lastStep)
		}
	}

	if c.retcode == nonlin.Default {
		if c.converged {
			c.retcode = nonlin.Success
		} else {
			c.retcode = nonlin.MaxIters
		}
	}

	return &nonlin.Solution{
		U:       c.u.Clone(),
		Fu:      c.fu.Clone(),
		Retcode: c.retcode,
		Stats:   c.stats,
	}
}

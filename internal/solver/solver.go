package solver

import (
	"errors"
	"fmt"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// Algorithm selects a step strategy at cache construction.
type Algorithm int

const (
	NewtonRaphson Algorithm = iota
	TrustRegion
	LevenbergMarquardt
	GaussNewton
	PseudoTransient
	DFSane
)

var algorithmNames = map[string]Algorithm{
	"newton":          NewtonRaphson,
	"trustregion":     TrustRegion,
	"levenberg":       LevenbergMarquardt,
	"gaussnewton":     GaussNewton,
	"pseudotransient": PseudoTransient,
	"dfsane":          DFSane,
}

func (a Algorithm) String() string {
	for name, alg := range algorithmNames {
		if alg == a {
			return name
		}
	}
	return "unknown"
}

// AlgorithmByName resolves a config/CLI algorithm name.
func AlgorithmByName(name string) (Algorithm, error) {
	if a, ok := algorithmNames[name]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("solver: unknown algorithm %q", name)
}

// Algorithms lists the registered algorithm names.
func Algorithms() []string {
	return []string{"newton", "trustregion", "levenberg", "gaussnewton", "pseudotransient", "dfsane"}
}

// NewCache builds the mutable solve state for prob: buffers sized to
// the problem, the residual evaluated at u0, and the chosen strategy
// wired to the collaborators.
func NewCache(prob *nonlin.Problem, alg Algorithm, set Settings) (*Cache, error) {
	if prob == nil || prob.F == nil {
		return nil, errors.New("solver: nil problem")
	}
	n := prob.Dim()
	if n == 0 {
		return nil, errors.New("solver: empty initial guess")
	}
	set.normalize()

	c := &Cache{
		prob:   prob,
		set:    set,
		u:      prob.U0.Clone(),
		uPrev:  prob.U0.Clone(),
		fu:     make(nonlin.Vector, n),
		du:     make(nonlin.Vector, n),
		utrial: make(nonlin.Vector, n),
		ftrial: make(nonlin.Vector, n),
		jac:    newJacobianManager(n, &set),
		term:   newTermination(&set),
	}

	c.evalF(c.fu, c.u)
	if !c.fu.IsFinite() {
		return nil, nonlin.ErrNonFinite
	}
	c.fnorm = c.fu.Norm()
	c.initNorm = c.fnorm
	c.term.prime(c.fu)

	switch alg {
	case NewtonRaphson:
		c.strat = &newton{ls: set.LineSearch}
	case TrustRegion:
		c.strat = newTrustRegion(n, &set)
	case LevenbergMarquardt:
		c.strat = newLevenberg(n, &set)
	case GaussNewton:
		c.strat = newGaussNewton(n, &set)
	case PseudoTransient:
		c.strat = newPseudoTransient(n, &set)
	case DFSane:
		c.strat = newDFSane(n)
	default:
		return nil, fmt.Errorf("solver: unknown algorithm %d", alg)
	}
	return c, nil
}

// Solve is the one-call entry point: build a cache, run the loop,
// return the solution. The error mirrors the failure-family return
// codes so callers can use errors.Is; the solution is valid either way.
func Solve(prob *nonlin.Problem, alg Algorithm, set Settings) (*nonlin.Solution, error) {
	c, err := NewCache(prob, alg, set)
	if err != nil {
		return nil, err
	}
	sol := c.Solve()
	if sol.Retcode.Fatal() {
		return sol, &nonlin.StepError{Step: sol.Stats.NumSteps, Wrapped: nonlin.RetcodeError(sol.Retcode)}
	}
	return sol, nil
}

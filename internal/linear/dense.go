package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// Solver is a reusable dense linear-solve handle. A factorization made
// by Factorize is warm-started across steps: Solve may be called many
// times against the same Jacobian without refactorizing, which is what
// the Jacobian reuse policy relies on.
type Solver struct {
	lu     mat.LU
	n      int
	valid  bool
	rhs    *mat.VecDense
	result *mat.VecDense
}

func NewSolver(n int) *Solver {
	return &Solver{
		n:      n,
		rhs:    mat.NewVecDense(n, nil),
		result: mat.NewVecDense(n, nil),
	}
}

// Factorize computes the LU decomposition of j, replacing any previous
// factorization held by the handle.
func (s *Solver) Factorize(j *mat.Dense) error {
	r, c := j.Dims()
	if r != s.n || c != s.n {
		return nonlin.ErrDimensionMismatch
	}
	s.lu.Factorize(j)
	s.valid = true
	return nil
}

// Valid reports whether the handle holds a usable factorization.
func (s *Solver) Valid() bool { return s.valid }

// Solve writes the solution of J·x = b into x using the current
// factorization. A singular or severely ill-conditioned J surfaces as
// ErrSingularJacobian; gonum's condition warnings are treated the same
// way since a step from such a solve is not trustworthy.
func (s *Solver) Solve(x, b nonlin.Vector) error {
	if !s.valid {
		return fmt.Errorf("linear: solve before factorize")
	}
	if len(x) != s.n || len(b) != s.n {
		return nonlin.ErrDimensionMismatch
	}
	for i, v := range b {
		s.rhs.SetVec(i, v)
	}
	if err := s.lu.SolveVecTo(s.result, false, s.rhs); err != nil {
		return fmt.Errorf("%w: %v", nonlin.ErrSingularJacobian, err)
	}
	for i := range x {
		x[i] = s.result.AtVec(i)
	}
	if !x.IsFinite() {
		return nonlin.ErrSingularJacobian
	}
	return nil
}

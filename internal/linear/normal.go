package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// NormalSolver solves the damped normal equations
//
//	(JᵀJ + λ·diag(JᵀJ))·x = Jᵀb
//
// used by Levenberg-Marquardt (λ > 0) and Gauss-Newton (λ = 0). J may be
// rectangular (m residuals, n unknowns). Buffers are reused across calls.
type NormalSolver struct {
	n   int
	jtj mat.Dense
	aug mat.Dense
	jtb *mat.VecDense
	lu  mat.LU
	res *mat.VecDense
}

func NewNormalSolver(n int) *NormalSolver {
	return &NormalSolver{
		n:   n,
		jtb: mat.NewVecDense(n, nil),
		res: mat.NewVecDense(n, nil),
	}
}

func (s *NormalSolver) Solve(x nonlin.Vector, j *mat.Dense, b nonlin.Vector, lambda float64) error {
	m, n := j.Dims()
	if n != s.n || len(x) != s.n || len(b) != m {
		return nonlin.ErrDimensionMismatch
	}

	s.jtj.Mul(j.T(), j)
	s.aug.CloneFrom(&s.jtj)
	if lambda > 0 {
		for i := 0; i < n; i++ {
			d := s.jtj.At(i, i)
			if d == 0 {
				d = 1 // keep the damping effective on zero columns
			}
			s.aug.Set(i, i, s.jtj.At(i, i)+lambda*d)
		}
	}

	bvec := mat.NewVecDense(m, b)
	s.jtb.MulVec(j.T(), bvec)

	s.lu.Factorize(&s.aug)
	if err := s.lu.SolveVecTo(s.res, false, s.jtb); err != nil {
		return fmt.Errorf("%w: %v", nonlin.ErrSingularJacobian, err)
	}
	for i := range x {
		x[i] = s.res.AtVec(i)
	}
	if !x.IsFinite() {
		return nonlin.ErrSingularJacobian
	}
	return nil
}

package diff

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// Forward approximates J column-by-column with one-sided differences:
// J[:,j] ≈ (F(u + h·eⱼ) − F(u)) / h. Costs n residual evaluations and
// reuses the fu the caller already has.
type Forward struct {
	relStep float64
	fp      nonlin.Vector
	up      nonlin.Vector
}

func NewForward() *Forward {
	return &Forward{relStep: math.Sqrt(machineEps)}
}

func (fd *Forward) Name() string { return "forward" }

func (fd *Forward) Jacobian(dst *mat.Dense, f nonlin.ResidualFunc, u, fu nonlin.Vector) (err error) {
	defer guard(&err)

	n := len(u)
	if len(fd.fp) != n {
		fd.fp = make(nonlin.Vector, n)
		fd.up = make(nonlin.Vector, n)
	}
	copy(fd.up, u)

	for j := 0; j < n; j++ {
		h := fd.relStep * math.Max(math.Abs(u[j]), 1.0)
		fd.up[j] = u[j] + h
		f(fd.fp, fd.up)
		fd.up[j] = u[j]
		for i := 0; i < n; i++ {
			dst.Set(i, j, (fd.fp[i]-fu[i])/h)
		}
	}
	if !finiteDense(dst) {
		return nonlin.ErrDifferentiation
	}
	return nil
}

const machineEps = 2.220446049250313e-16

func finiteDense(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

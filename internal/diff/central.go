package diff

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// Central approximates J with second-order central differences:
// J[:,j] ≈ (F(u + h·eⱼ) − F(u − h·eⱼ)) / 2h. Twice the evaluations of
// Forward, one order more accurate.
type Central struct {
	relStep float64
	fp, fm  nonlin.Vector
	up      nonlin.Vector
}

func NewCentral() *Central {
	return &Central{relStep: math.Cbrt(machineEps)}
}

func (cd *Central) Name() string { return "central" }

func (cd *Central) Jacobian(dst *mat.Dense, f nonlin.ResidualFunc, u, _ nonlin.Vector) (err error) {
	defer guard(&err)

	n := len(u)
	if len(cd.fp) != n {
		cd.fp = make(nonlin.Vector, n)
		cd.fm = make(nonlin.Vector, n)
		cd.up = make(nonlin.Vector, n)
	}
	copy(cd.up, u)

	for j := 0; j < n; j++ {
		h := cd.relStep * math.Max(math.Abs(u[j]), 1.0)
		cd.up[j] = u[j] + h
		f(cd.fp, cd.up)
		cd.up[j] = u[j] - h
		f(cd.fm, cd.up)
		cd.up[j] = u[j]
		for i := 0; i < n; i++ {
			dst.Set(i, j, (cd.fp[i]-cd.fm[i])/(2*h))
		}
	}
	if !finiteDense(dst) {
		return nonlin.ErrDifferentiation
	}
	return nil
}

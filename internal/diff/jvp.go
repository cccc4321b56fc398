package diff

import (
	"math"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// JVP approximates the Jacobian-vector product J·v at u with one extra
// residual evaluation, without forming J. Used by matrix-free callers.
type JVP struct {
	fp nonlin.Vector
	up nonlin.Vector
}

func NewJVP() *JVP {
	return &JVP{}
}

// Apply writes J·v into dst using (F(u + h·v) − F(u)) / h with h scaled
// to the magnitudes of u and v.
func (j *JVP) Apply(dst nonlin.Vector, f nonlin.ResidualFunc, u, fu, v nonlin.Vector) (err error) {
	defer guard(&err)

	n := len(u)
	if len(j.fp) != n {
		j.fp = make(nonlin.Vector, n)
		j.up = make(nonlin.Vector, n)
	}

	vnorm := v.Norm()
	if vnorm == 0 {
		dst.Fill(0)
		return nil
	}
	h := math.Sqrt(machineEps) * math.Max(u.Norm(), 1.0) / vnorm

	for i := 0; i < n; i++ {
		j.up[i] = u[i] + h*v[i]
	}
	f(j.fp, j.up)
	for i := 0; i < n; i++ {
		dst[i] = (j.fp[i] - fu[i]) / h
	}
	if !dst.IsFinite() {
		return nonlin.ErrDifferentiation
	}
	return nil
}

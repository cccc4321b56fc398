package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

const (
	trEtaAccept = 1e-4 // minimum ratio to accept a step
	trEtaShrink = 0.25
	trEtaGrow   = 0.75
	trShrink    = 0.25
	trGrow      = 2.0
	trMinRadius = 1e-12
)

// trustRegion proposes dogleg steps inside an adaptive radius and
// accepts or rejects them on the actual-vs-predicted reduction ratio.
type trustRegion struct {
	radius    float64
	maxRadius float64

	g     nonlin.Vector // Jᵀfu, gradient of the merit
	dn    nonlin.Vector // Newton point
	delta nonlin.Vector // proposed step
	jd    *mat.VecDense // J·delta scratch
}

func newTrustRegion(n int, set *Settings) *trustRegion {
	return &trustRegion{
		radius:    set.InitialRadius,
		maxRadius: set.MaxRadius,
		g:         make(nonlin.Vector, n),
		dn:        make(nonlin.Vector, n),
		delta:     make(nonlin.Vector, n),
		jd:        mat.NewVecDense(n, nil),
	}
}

func (s *trustRegion) name() string { return "trustregion" }

func (s *trustRegion) step(c *Cache) {
	if err := c.jac.refresh(c); err != nil {
		c.fail(err)
		return
	}
	if err := c.jac.lin.Solve(s.dn, c.fu); err != nil {
		c.fail(err)
		return
	}
	c.stats.NumLinearSolves++
	// The Newton point is u − dn; work with the signed step.
	for i := range s.dn {
		s.dn[i] = -s.dn[i]
	}

	// g = Jᵀfu.
	fv := mat.NewVecDense(len(c.fu), c.fu)
	gv := mat.NewVecDense(len(s.g), s.g)
	gv.MulVec(c.jac.J.T(), fv)

	s.dogleg(c)

	for i := range c.u {
		c.utrial[i] = c.u[i] + s.delta[i]
	}
	c.evalF(c.ftrial, c.utrial)

	half := 0.5 * c.fnorm * c.fnorm
	actual := half - 0.5*c.ftrial.Norm()*c.ftrial.Norm()
	predicted := half - s.modelValue(c)
	stepNorm := s.delta.Norm()

	rho := -1.0
	if predicted > 0 {
		rho = actual / predicted
	}

	if rho > trEtaAccept && c.ftrial.IsFinite() {
		c.jac.note(stepNorm)
		c.acceptIterate(c.utrial, c.ftrial, stepNorm)
	}

	switch {
	case rho < trEtaShrink:
		s.radius *= trShrink
	case rho > trEtaGrow && stepNorm >= 0.99*s.radius:
		s.radius = math.Min(trGrow*s.radius, s.maxRadius)
	}
	c.lastStep = stepNorm

	if s.radius < trMinRadius {
		c.fail(errors.New("solver: trust region collapsed"))
	}
}

// dogleg writes the step into delta: the Newton point when it fits in
// the radius, otherwise the scaled steepest-descent (Cauchy) point or
// the dogleg interpolation between the two.
func (s *trustRegion) dogleg(c *Cache) {
	if s.dn.Norm() <= s.radius {
		copy(s.delta, s.dn)
		return
	}

	// Cauchy point: −(gᵀg / ‖Jg‖²)·g.
	gv := mat.NewVecDense(len(s.g), s.g)
	s.jd.MulVec(c.jac.J, gv)
	gg := 0.0
	for _, v := range s.g {
		gg += v * v
	}
	jg := mat.Norm(s.jd, 2)
	if jg == 0 || gg == 0 {
		copy(s.delta, s.dn)
		scale := s.radius / s.dn.Norm()
		for i := range s.delta {
			s.delta[i] *= scale
		}
		return
	}
	tau := gg / (jg * jg)
	cauchyNorm := tau * math.Sqrt(gg)

	if cauchyNorm >= s.radius {
		scale := s.radius / math.Sqrt(gg)
		for i := range s.g {
			s.delta[i] = -scale * s.g[i]
		}
		return
	}

	// Walk from the Cauchy point toward the Newton point until the
	// boundary: ‖pc + t·(dn − pc)‖ = radius, t ∈ (0, 1).
	var a, b, cc float64
	for i := range s.g {
		pc := -tau * s.g[i]
		d := s.dn[i] - pc
		a += d * d
		b += 2 * pc * d
		cc += pc * pc
	}
	cc -= s.radius * s.radius
	t := 1.0
	if disc := b*b - 4*a*cc; a > 0 && disc > 0 {
		t = (-b + math.Sqrt(disc)) / (2 * a)
	}
	t = math.Max(0, math.Min(1, t))
	for i := range s.g {
		pc := -tau * s.g[i]
		s.delta[i] = pc + t*(s.dn[i]-pc)
	}
}

// modelValue is ½‖fu + J·delta‖², the local quadratic model at the
// proposed step.
func (s *trustRegion) modelValue(c *Cache) float64 {
	dv := mat.NewVecDense(len(s.delta), s.delta)
	s.jd.MulVec(c.jac.J, dv)
	sum := 0.0
	for i, v := range c.fu {
		r := v + s.jd.AtVec(i)
		sum += r * r
	}
	return 0.5 * sum
}

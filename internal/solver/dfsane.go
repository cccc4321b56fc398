package solver

import (
	"math"

	"github.com/san-kum/nlsolve/internal/linesearch"
	"github.com/san-kum/nlsolve/internal/nonlin"
)

const (
	dfSaneSigmaMin = 1e-10
	dfSaneSigmaMax = 1e10
	dfSaneWindow   = 10
)

// dfSane is the derivative-free spectral residual method of La Cruz,
// Martínez and Raydan. The direction is −σ·F(u) with a spectral
// coefficient from the last step, globalized by a nonmonotone line
// search. No Jacobian is ever formed.
type dfSane struct {
	sigma float64
	eta0  float64

	history []float64 // merit window for the nonmonotone condition
	nm      *linesearch.Nonmonotone

	d  nonlin.Vector
	sv nonlin.Vector
	yv nonlin.Vector
}

func newDFSane(n int) *dfSane {
	return &dfSane{
		sigma:   1.0,
		nm:      linesearch.NewNonmonotone(),
		history: make([]float64, 0, dfSaneWindow),
		d:       make(nonlin.Vector, n),
		sv:      make(nonlin.Vector, n),
		yv:      make(nonlin.Vector, n),
	}
}

func (s *dfSane) name() string { return "dfsane" }

func (s *dfSane) step(c *Cache) {
	f0 := c.fnorm * c.fnorm
	if s.eta0 == 0 {
		s.eta0 = f0
	}
	if len(s.history) == 0 {
		s.history = append(s.history, f0)
	}

	for i := range c.fu {
		s.d[i] = -s.sigma * c.fu[i]
	}

	fmax := s.history[0]
	for _, f := range s.history[1:] {
		if f > fmax {
			fmax = f
		}
	}
	k := float64(c.nsteps)
	eta := s.eta0 / ((1 + k) * (1 + k))

	phi := func(lambda float64) float64 {
		for i := range c.u {
			c.utrial[i] = c.u[i] + lambda*s.d[i]
		}
		c.evalF(c.ftrial, c.utrial)
		return c.ftrial.Norm() * c.ftrial.Norm()
	}

	lambda, err := s.nm.Search(phi, f0, fmax, eta)
	if err != nil {
		c.fail(err)
		return
	}

	// Re-evaluate at the accepted signed lambda; the last phi call may
	// have been the reflected trial.
	fNew := phi(lambda)

	for i := range c.u {
		s.sv[i] = c.utrial[i] - c.u[i]
		s.yv[i] = c.ftrial[i] - c.fu[i]
	}

	stepNorm := s.sv.Norm()
	c.acceptIterate(c.utrial, c.ftrial, stepNorm)

	// Spectral coefficient for the next step: σ = sᵀs / sᵀy, clamped in
	// magnitude with its sign preserved.
	ss, sy := 0.0, 0.0
	for i := range s.sv {
		ss += s.sv[i] * s.sv[i]
		sy += s.sv[i] * s.yv[i]
	}
	if sy == 0 || math.IsNaN(sy) || math.IsInf(sy, 0) {
		s.sigma = 1
	} else {
		s.sigma = ss / sy
		if mag := math.Abs(s.sigma); mag < dfSaneSigmaMin {
			s.sigma = math.Copysign(dfSaneSigmaMin, s.sigma)
		} else if mag > dfSaneSigmaMax {
			s.sigma = math.Copysign(dfSaneSigmaMax, s.sigma)
		}
	}

	s.history = append(s.history, fNew)
	if len(s.history) > dfSaneWindow {
		s.history = s.history[1:]
	}
}

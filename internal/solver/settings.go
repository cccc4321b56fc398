package solver

import (
	"github.com/san-kum/nlsolve/internal/diff"
	"github.com/san-kum/nlsolve/internal/linesearch"
	"github.com/san-kum/nlsolve/internal/nonlin"
)

const (
	DefaultAbstol   = 1e-8
	DefaultReltol   = 1e-8
	DefaultMaxIters = 1000

	// DefaultDivergeFactor bounds residual growth relative to the
	// initial residual before the solve is declared diverged.
	DefaultDivergeFactor = 1e8
)

// Settings configures one solve. Zero values are filled in by
// normalize; DefaultSettings returns the recommended baseline.
type Settings struct {
	Abstol   float64
	Reltol   float64
	StepTol  float64 // 0 disables the step-size criterion
	MaxIters int

	DivergeFactor float64

	Backend    diff.Backend
	LineSearch linesearch.Searcher

	// ReuseJacobian enables the Jacobian reuse policy; ReuseTol bounds
	// the accumulated step norm since the last rebuild.
	ReuseJacobian bool
	ReuseTol      float64

	// Trust-region parameters.
	InitialRadius float64
	MaxRadius     float64

	// Levenberg-Marquardt parameters.
	InitialLambda float64
	LambdaUp      float64
	LambdaDown    float64

	// Pseudo-transient controller parameters.
	PT PTSettings

	Observer nonlin.Observer
}

// PTSettings holds the adaptive pseudo-time-step controller constants.
// Abstol and Reltol scale the controller's error estimate; they are
// step-control tolerances in the ODE sense, not the convergence
// tolerances of the solve. Scaling the estimate by the far tighter
// convergence tolerances pins it above the accept threshold on smooth
// trajectories and traps alpha near its initial magnitude.
type PTSettings struct {
	InitialAlpha float64
	Gamma        float64
	Qmin         float64
	Qmax         float64
	QsteadyMin   float64
	QsteadyMax   float64
	Abstol       float64
	Reltol       float64
}

func DefaultPTSettings() PTSettings {
	return PTSettings{
		InitialAlpha: 1e-4,
		Gamma:        0.9,
		Qmin:         0.2,
		Qmax:         10.0,
		QsteadyMin:   1.0,
		QsteadyMax:   1.2,
		Abstol:       1e-6,
		Reltol:       1e-3,
	}
}

func DefaultSettings() Settings {
	return Settings{
		Abstol:        DefaultAbstol,
		Reltol:        DefaultReltol,
		MaxIters:      DefaultMaxIters,
		DivergeFactor: DefaultDivergeFactor,
		ReuseTol:      1e-2,
		InitialRadius: 1.0,
		MaxRadius:     1e8,
		InitialLambda: 1e-3,
		LambdaUp:      10.0,
		LambdaDown:    10.0,
		PT:            DefaultPTSettings(),
	}
}

func (s *Settings) normalize() {
	if s.Abstol <= 0 {
		s.Abstol = DefaultAbstol
	}
	if s.Reltol < 0 {
		s.Reltol = DefaultReltol
	}
	if s.MaxIters < 0 {
		s.MaxIters = DefaultMaxIters
	}
	if s.DivergeFactor <= 0 {
		s.DivergeFactor = DefaultDivergeFactor
	}
	if s.Backend == nil {
		s.Backend = diff.NewForward()
	}
	if s.LineSearch == nil {
		s.LineSearch = linesearch.NewStatic(1)
	}
	if s.ReuseTol <= 0 {
		s.ReuseTol = 1e-2
	}
	if s.InitialRadius <= 0 {
		s.InitialRadius = 1.0
	}
	if s.MaxRadius <= 0 {
		s.MaxRadius = 1e8
	}
	if s.InitialLambda <= 0 {
		s.InitialLambda = 1e-3
	}
	if s.LambdaUp <= 1 {
		s.LambdaUp = 10.0
	}
	if s.LambdaDown <= 1 {
		s.LambdaDown = 10.0
	}
	d := DefaultPTSettings()
	if s.PT.InitialAlpha <= 0 {
		s.PT.InitialAlpha = d.InitialAlpha
	}
	if s.PT.Gamma <= 0 {
		s.PT.Gamma = d.Gamma
	}
	if s.PT.Qmin <= 0 {
		s.PT.Qmin = d.Qmin
	}
	if s.PT.Qmax <= 1 {
		s.PT.Qmax = d.Qmax
	}
	if s.PT.QsteadyMin <= 0 {
		s.PT.QsteadyMin = d.QsteadyMin
	}
	if s.PT.QsteadyMax < s.PT.QsteadyMin {
		s.PT.QsteadyMax = d.QsteadyMax
	}
	if s.PT.Abstol <= 0 {
		s.PT.Abstol = d.Abstol
	}
	if s.PT.Reltol <= 0 {
		s.PT.Reltol = d.Reltol
	}
}

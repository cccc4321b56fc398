package nonlin

import (
	"math"
)

// Vector is a dense coordinate vector. The solver owns every Vector it
// allocates; problem callbacks write into buffers passed to them.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsFinite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func (v Vector) NormInf() float64 {
	max := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > max {
			max = a
		}
	}
	return max
}

func (v Vector) Fill(x float64) {
	for i := range v {
		v[i] = x
	}
}

// AddScaled sets v ← v + a·w.
func (v Vector) AddScaled(a float64, w Vector) {
	for i := range v {
		v[i] += a * w[i]
	}
}

// ResidualFunc evaluates F(u) into fu. fu and u never alias.
type ResidualFunc func(fu, u Vector)

// Problem is the immutable description of F(u) = 0. The engine reads it
// and never writes to it; U0 is copied at cache creation.
type Problem struct {
	Name string
	F    ResidualFunc
	U0   Vector
}

func (p *Problem) Dim() int { return len(p.U0) }

// Stats counts the work performed by one solve. Counters are monotone
// and reset only when a new cache is created.
type Stats struct {
	NumSteps         int
	NumResidualEvals int
	NumJacobianEvals int
	NumLinearSolves  int
}

// Solution is the sole artifact of a solve: the final iterate, its
// residual, the outcome classification and the work counters.
type Solution struct {
	U       Vector
	Fu      Vector
	Retcode Retcode
	Stats   Stats
}

func (s *Solution) Converged() bool { return s.Retcode == Success }

// ResidualNorm reports ‖F(u)‖₂ at the returned iterate.
func (s *Solution) ResidualNorm() float64 { return s.Fu.Norm() }

// Observer receives one event per completed iteration. Observers must
// not mutate the vectors they are handed.
type Observer interface {
	OnStep(step int, u, fu Vector, stepSize float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, u, fu Vector, stepSize float64)

func (f ObserverFunc) OnStep(step int, u, fu Vector, stepSize float64) {
	f(step, u, fu, stepSize)
}

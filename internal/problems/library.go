package problems

import (
	"math"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// Quadratic is the scalar root problem F(u) = u² − p with root √p.
func Quadratic(p float64) *nonlin.Problem {
	return &nonlin.Problem{
		Name: "quadratic",
		F: func(fu, u nonlin.Vector) {
			fu[0] = u[0]*u[0] - p
		},
		U0: nonlin.Vector{1},
	}
}

// Linear is F(u) = u − c: a constant unit Jacobian, so one exact
// Newton step solves it.
func Linear(c nonlin.Vector) *nonlin.Problem {
	target := c.Clone()
	return &nonlin.Problem{
		Name: "linear",
		F: func(fu, u nonlin.Vector) {
			for i := range u {
				fu[i] = u[i] - target[i]
			}
		},
		U0: make(nonlin.Vector, len(target)),
	}
}

// Sqroots is the two-component square-root system
// F(u) = [u₁² − 4, u₂² − 9], converging to [2, 3] from [1, 1].
func Sqroots() *nonlin.Problem {
	return &nonlin.Problem{
		Name: "sqroots",
		F: func(fu, u nonlin.Vector) {
			fu[0] = u[0]*u[0] - 4
			fu[1] = u[1]*u[1] - 9
		},
		U0: nonlin.Vector{1, 1},
	}
}

// Rosenbrock is the classic valley in residual form:
// F(u) = [10(u₂ − u₁²), 1 − u₁], root at [1, 1].
func Rosenbrock() *nonlin.Problem {
	return &nonlin.Problem{
		Name: "rosenbrock",
		F: func(fu, u nonlin.Vector) {
			fu[0] = 10 * (u[1] - u[0]*u[0])
			fu[1] = 1 - u[0]
		},
		U0: nonlin.Vector{-1.2, 1},
	}
}

// PowellSingular has a Jacobian that is singular at the root [0,0,0,0].
func PowellSingular() *nonlin.Problem {
	return &nonlin.Problem{
		Name: "powell",
		F: func(fu, u nonlin.Vector) {
			fu[0] = u[0] + 10*u[1]
			fu[1] = math.Sqrt(5) * (u[2] - u[3])
			fu[2] = (u[1] - 2*u[2]) * (u[1] - 2*u[2])
			fu[3] = math.Sqrt(10) * (u[0] - u[3]) * (u[0] - u[3])
		},
		U0: nonlin.Vector{3, -1, 0, 1},
	}
}

// BroydenTridiagonal is the standard n-dimensional banded test system.
func BroydenTridiagonal(n int) *nonlin.Problem {
	u0 := make(nonlin.Vector, n)
	u0.Fill(-1)
	return &nonlin.Problem{
		Name: "broyden",
		F: func(fu, u nonlin.Vector) {
			for i := range u {
				fu[i] = (3 - 2*u[i]) * u[i]
				if i > 0 {
					fu[i] -= u[i-1]
				}
				if i < len(u)-1 {
					fu[i] -= 2 * u[i+1]
				}
				fu[i] += 1
			}
		},
		U0: u0,
	}
}

// ExpTrig is the exponential-trigonometric system from the DF-SANE
// test set: F_i(u) = exp(u_i) − cos(u_i) with root 0.
func ExpTrig(n int) *nonlin.Problem {
	u0 := make(nonlin.Vector, n)
	u0.Fill(0.5)
	return &nonlin.Problem{
		Name: "exptrig",
		F: func(fu, u nonlin.Vector) {
			for i := range u {
				fu[i] = math.Exp(u[i]) - math.Cos(u[i])
			}
		},
		U0: u0,
	}
}

// Degenerate has a Jacobian that is singular everywhere: both residual
// components are identical. Newton-type methods must fail cleanly.
func Degenerate() *nonlin.Problem {
	return &nonlin.Problem{
		Name: "degenerate",
		F: func(fu, u nonlin.Vector) {
			fu[0] = u[0]*u[1] - 1
			fu[1] = u[0]*u[1] - 1
		},
		U0: nonlin.Vector{1, 1},
	}
}

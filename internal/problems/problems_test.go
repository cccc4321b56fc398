package problems

import (
	"math"
	"testing"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

func residualAt(p *nonlin.Problem, u nonlin.Vector) nonlin.Vector {
	fu := make(nonlin.Vector, len(u))
	p.F(fu, u)
	return fu
}

func TestRegistry_AllBuildersProduceValidProblems(t *testing.T) {
	for _, name := range List() {
		p, err := New(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Dim() == 0 {
			t.Errorf("%s: empty initial guess", name)
		}
		fu := residualAt(p, p.U0)
		if !fu.IsFinite() {
			t.Errorf("%s: residual at u0 is not finite", name)
		}
	}
}

func TestNew_UnknownProblem(t *testing.T) {
	if _, err := New("navier-stokes"); err == nil {
		t.Fatal("expected error for unregistered problem")
	}
}

func TestKnownRoots(t *testing.T) {
	cases := []struct {
		name string
		prob *nonlin.Problem
		root nonlin.Vector
	}{
		{"quadratic", Quadratic(2), nonlin.Vector{math.Sqrt(2)}},
		{"linear", Linear(nonlin.Vector{3, -1, 4}), nonlin.Vector{3, -1, 4}},
		{"sqroots", Sqroots(), nonlin.Vector{2, 3}},
		{"rosenbrock", Rosenbrock(), nonlin.Vector{1, 1}},
		{"powell", PowellSingular(), nonlin.Vector{0, 0, 0, 0}},
		{"exptrig", ExpTrig(6), make(nonlin.Vector, 6)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fu := residualAt(tc.prob, tc.root)
			if norm := fu.Norm(); norm > 1e-12 {
				t.Errorf("residual at known root is %g", norm)
			}
		})
	}
}

func TestBuildersReturnIndependentInstances(t *testing.T) {
	a, _ := New("sqroots")
	b, _ := New("sqroots")
	a.U0[0] = 99
	if b.U0[0] == 99 {
		t.Fatal("problem instances share the initial guess buffer")
	}
}

func TestBroydenTridiagonal_Dimension(t *testing.T) {
	p := BroydenTridiagonal(25)
	if p.Dim() != 25 {
		t.Fatalf("dim = %d, want 25", p.Dim())
	}
	fu := residualAt(p, p.U0)
	if !fu.IsFinite() {
		t.Fatal("residual at u0 is not finite")
	}
}

package solver

import (
	"testing"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

func TestTermination_Absolute(t *testing.T) {
	set := DefaultSettings()
	set.Abstol = 1e-6
	term := newTermination(&set)
	term.prime(nonlin.Vector{1})

	u := nonlin.Vector{1}
	if term.check(nonlin.Vector{1e-5}, u, u) {
		t.Error("should not converge above abstol")
	}
	if !term.check(nonlin.Vector{1e-7}, u, u) {
		t.Error("should converge below abstol")
	}
}

func TestTermination_RelativeToInitialResidual(t *testing.T) {
	set := DefaultSettings()
	set.Abstol = 1e-30
	set.Reltol = 1e-4
	term := newTermination(&set)
	term.prime(nonlin.Vector{100})

	u := nonlin.Vector{1}
	if term.check(nonlin.Vector{0.1}, u, u) {
		t.Error("0.1 is above reltol * 100")
	}
	if !term.check(nonlin.Vector{1e-3}, u, u) {
		t.Error("1e-3 is below reltol * 100")
	}
}

func TestTermination_StepCriterionDisabledByDefault(t *testing.T) {
	set := DefaultSettings()
	set.Abstol = 1e-30
	set.Reltol = 0
	term := newTermination(&set)
	term.prime(nonlin.Vector{1})

	// Identical consecutive iterates, but no step criterion configured.
	u := nonlin.Vector{5}
	if term.check(nonlin.Vector{1}, u, u) {
		t.Error("step criterion should be off when StepTol is zero")
	}

	set.StepTol = 1e-8
	term = newTermination(&set)
	term.prime(nonlin.Vector{1})
	if !term.check(nonlin.Vector{1}, u, u) {
		t.Error("zero step should satisfy the enabled step criterion")
	}
}

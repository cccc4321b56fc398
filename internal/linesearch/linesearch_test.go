package linesearch

import (
	"math"
	"testing"
)

func TestStatic_IsPassThrough(t *testing.T) {
	calls := 0
	phi := func(alpha float64) float64 {
		calls++
		return 0
	}

	alpha, err := NewStatic(1).Search(phi, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if alpha != 1 {
		t.Errorf("alpha = %g, want 1", alpha)
	}
	if calls != 0 {
		t.Errorf("static search must not evaluate the merit, did %d times", calls)
	}
}

func TestStatic_ClampsInvalidFactor(t *testing.T) {
	if s := NewStatic(0); s.Alpha != 1 {
		t.Errorf("alpha = %g, want 1", s.Alpha)
	}
	if s := NewStatic(1.7); s.Alpha != 1 {
		t.Errorf("alpha = %g, want 1", s.Alpha)
	}
	if s := NewStatic(0.25); s.Alpha != 0.25 {
		t.Errorf("alpha = %g, want 0.25", s.Alpha)
	}
}

func TestBacktracking_AcceptsFullNewtonStepOnQuadratic(t *testing.T) {
	// Merit of an exact Newton step: phi(α) = ½(1−α)²·‖f0‖², so α = 1
	// zeroes the model and satisfies Armijo immediately.
	phi0 := 0.5
	phi := func(alpha float64) float64 {
		r := 1 - alpha
		return 0.5 * r * r
	}

	alpha, err := NewBacktracking().Search(phi, phi0)
	if err != nil {
		t.Fatal(err)
	}
	if alpha != 1 {
		t.Errorf("alpha = %g, want 1", alpha)
	}
}

func TestBacktracking_DampsOvershootingStep(t *testing.T) {
	// A merit that blows up at the full step but decreases for small α.
	phi0 := 0.5
	phi := func(alpha float64) float64 {
		return 0.5 * math.Pow(1-alpha+10*alpha*alpha, 2)
	}

	alpha, err := NewBacktracking().Search(phi, phi0)
	if err != nil {
		t.Fatal(err)
	}
	if alpha >= 1 {
		t.Errorf("alpha = %g, expected damping below 1", alpha)
	}
	if phi(alpha) > phi0 {
		t.Errorf("damped step does not decrease the merit: %g > %g", phi(alpha), phi0)
	}
}

func TestBacktracking_ReportsNoDecrease(t *testing.T) {
	// Ascent direction: merit only grows.
	phi := func(alpha float64) float64 {
		return 1 + alpha
	}

	if _, err := NewBacktracking().Search(phi, 1.0); err == nil {
		t.Fatal("expected ErrNoDecrease for an ascent direction")
	}
}

func TestNonmonotone_AcceptsWithinRelaxedBound(t *testing.T) {
	// Merit rises slightly but stays within fmax + eta.
	phi := func(lambda float64) float64 {
		return 1.05
	}

	lambda, err := NewNonmonotone().Search(phi, 1.0, 1.0, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if lambda != 1 {
		t.Errorf("lambda = %g, want full step under relaxed bound", lambda)
	}
}

func TestNonmonotone_TriesReflectedDirection(t *testing.T) {
	// Only the negative direction decreases the merit.
	phi := func(lambda float64) float64 {
		if lambda > 0 {
			return 10
		}
		return 0.1
	}

	lambda, err := NewNonmonotone().Search(phi, 1.0, 1.0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if lambda >= 0 {
		t.Errorf("lambda = %g, want reflected (negative) step", lambda)
	}
}

func TestNew_Registry(t *testing.T) {
	if s, err := New(""); err != nil || s.Name() != "static" {
		t.Errorf("default searcher: %v, %v", s, err)
	}
	if s, err := New("backtracking"); err != nil || s.Name() != "backtracking" {
		t.Errorf("backtracking searcher: %v, %v", s, err)
	}
	if _, err := New("hagerzhang"); err == nil {
		t.Error("expected error for unregistered searcher")
	}
}

package linesearch

import "errors"

// ErrNoDecrease means no step length down to AlphaMin gave sufficient
// decrease. The direction is likely not a descent direction.
var ErrNoDecrease = errors.New("linesearch: no sufficient decrease found")

// Backtracking halves α from 1 until the Armijo condition
//
//	phi(α) ≤ (1 − 2·C·α)·phi(0)
//
// holds. For a Newton direction the directional derivative of the merit
// at 0 is −2·phi(0), which is where the factor 2 comes from.
type Backtracking struct {
	C        float64 // sufficient-decrease constant
	Tau      float64 // backtracking factor
	AlphaMin float64
}

func NewBacktracking() *Backtracking {
	return &Backtracking{
		C:        1e-4,
		Tau:      0.5,
		AlphaMin: 1e-8,
	}
}

func (b *Backtracking) Name() string { return "backtracking" }

func (b *Backtracking) Search(phi Merit, phi0 float64) (float64, error) {
	alpha := 1.0
	for alpha >= b.AlphaMin {
		if phi(alpha) <= (1-2*b.C*alpha)*phi0 {
			return alpha, nil
		}
		alpha *= b.Tau
	}
	return b.AlphaMin, ErrNoDecrease
}

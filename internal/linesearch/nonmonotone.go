package linesearch

// Nonmonotone is the La Cruz–Martínez–Raydan globalization used by the
// spectral residual method. A trial step is accepted when
//
//	f(λ) ≤ fmax + η − γ·λ²·f0
//
// where fmax is the largest merit over a recent window and η is a
// forcing term that decays across iterations. Both signs of λ are
// tried before backtracking.
type Nonmonotone struct {
	Gamma    float64
	Tau      float64
	MaxTries int
}

func NewNonmonotone() *Nonmonotone {
	return &Nonmonotone{
		Gamma:    1e-4,
		Tau:      0.5,
		MaxTries: 40,
	}
}

func (nm *Nonmonotone) Name() string { return "nonmonotone" }

// Search returns a signed step length: positive for the proposed
// direction, negative for its reflection. phi takes the signed λ.
func (nm *Nonmonotone) Search(phi Merit, f0, fmax, eta float64) (float64, error) {
	lambda := 1.0
	for try := 0; try < nm.MaxTries; try++ {
		bound := fmax + eta - nm.Gamma*lambda*lambda*f0
		if phi(lambda) <= bound {
			return lambda, nil
		}
		if phi(-lambda) <= bound {
			return -lambda, nil
		}
		lambda *= nm.Tau
	}
	return lambda, ErrNoDecrease
}

package linesearch

import "fmt"

// Merit is the one-dimensional slice of the objective along the search
// direction: phi(alpha) = ½‖F(u − α·du)‖². Each call costs one residual
// evaluation, which the caller accounts for.
type Merit func(alpha float64) float64

// Searcher picks a damping factor α ∈ (0, 1] for a proposed descent
// direction. phi0 is the merit value at α = 0.
type Searcher interface {
	Name() string
	Search(phi Merit, phi0 float64) (float64, error)
}

// Static always returns a fixed factor. Alpha = 1 is the pass-through
// policy: the full undamped step.
type Static struct {
	Alpha float64
}

func NewStatic(alpha float64) *Static {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return &Static{Alpha: alpha}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Search(_ Merit, _ float64) (float64, error) {
	return s.Alpha, nil
}

// New returns the searcher registered under name.
func New(name string) (Searcher, error) {
	switch name {
	case "none", "":
		return NewStatic(1), nil
	case "backtracking":
		return NewBacktracking(), nil
	default:
		return nil, fmt.Errorf("linesearch: unknown searcher %q", name)
	}
}

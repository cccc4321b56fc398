package problems

import (
	"fmt"
	"sort"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// Builder constructs a fresh problem instance. Registry entries return
// independent copies so concurrent solves never share state.
type Builder func() *nonlin.Problem

var registry = map[string]Builder{
	"quadratic":  func() *nonlin.Problem { return Quadratic(2) },
	"linear":     func() *nonlin.Problem { return Linear(nonlin.Vector{3, -1, 4}) },
	"sqroots":    Sqroots,
	"rosenbrock": Rosenbrock,
	"powell":     PowellSingular,
	"broyden":    func() *nonlin.Problem { return BroydenTridiagonal(10) },
	"exptrig":    func() *nonlin.Problem { return ExpTrig(6) },
	"degenerate": Degenerate,
}

// New returns a fresh instance of the named problem.
func New(name string) (*nonlin.Problem, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("problems: unknown problem %q", name)
	}
	return b(), nil
}

// List returns the registered problem names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

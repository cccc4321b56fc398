package config

import "sort"

// Presets are named run configurations per problem, chosen to show the
// algorithms where they behave best.
var Presets = map[string]map[string]*Config{
	"sqroots": {
		"quick": {
			Problem: "sqroots", Algorithm: "newton", Abstol: 1e-8, Reltol: 1e-8, MaxIters: 50,
		},
		"damped": {
			Problem: "sqroots", Algorithm: "newton", LineSearch: "backtracking",
			Abstol: 1e-10, Reltol: 1e-10, MaxIters: 100,
		},
		"cheap-jacobian": {
			Problem: "sqroots", Algorithm: "newton", Abstol: 1e-8, MaxIters: 100,
			Jacobian: JacobianConfig{Backend: "forward", Reuse: true, ReuseTol: 1e-2},
		},
	},
	"rosenbrock": {
		"trust": {
			Problem: "rosenbrock", Algorithm: "trustregion", Abstol: 1e-10, MaxIters: 200,
		},
		"damped-lm": {
			Problem: "rosenbrock", Algorithm: "levenberg", Abstol: 1e-10, MaxIters: 200,
		},
	},
	"broyden": {
		"stiff": {
			Problem: "broyden", Algorithm: "pseudotransient", Abstol: 1e-8, MaxIters: 500,
			PT: PTConfig{InitialAlpha: 1e-3, Gamma: 0.9, Qmin: 0.2, Qmax: 10, QsteadyMin: 1, QsteadyMax: 1.2},
		},
		"newton": {
			Problem: "broyden", Algorithm: "newton", Abstol: 1e-10, MaxIters: 100,
		},
	},
	"exptrig": {
		"derivative-free": {
			Problem: "exptrig", Algorithm: "dfsane", Abstol: 1e-8, MaxIters: 500,
		},
	},
}

// GetPreset returns a normalized copy of the named preset, or nil.
func GetPreset(problem, name string) *Config {
	group, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	out := *cfg
	out.Normalize()
	return &out
}

// ListPresets returns the preset names for a problem, or nil.
func ListPresets(problem string) []string {
	group, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAbstol   = 1e-8
	DefaultReltol   = 1e-8
	DefaultMaxIters = 1000
)

type Config struct {
	Problem    string         `yaml:"problem"`
	Algorithm  string         `yaml:"algorithm"`
	Abstol     float64        `yaml:"abstol"`
	Reltol     float64        `yaml:"reltol"`
	MaxIters   int            `yaml:"max_iters"`
	LineSearch string         `yaml:"line_search"`
	Jacobian   JacobianConfig `yaml:"jacobian"`
	PT         PTConfig       `yaml:"pseudo_transient"`
	InitGuess  []float64      `yaml:"init_guess"`
}

type JacobianConfig struct {
	Backend  string  `yaml:"backend"`
	Reuse    bool    `yaml:"reuse"`
	ReuseTol float64 `yaml:"reuse_tol"`
}

type PTConfig struct {
	InitialAlpha float64 `yaml:"initial_alpha"`
	Gamma        float64 `yaml:"gamma"`
	Qmin         float64 `yaml:"qmin"`
	Qmax         float64 `yaml:"qmax"`
	QsteadyMin   float64 `yaml:"qsteady_min"`
	QsteadyMax   float64 `yaml:"qsteady_max"`
	Abstol       float64 `yaml:"abstol"`
	Reltol       float64 `yaml:"reltol"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:    "sqroots",
		Algorithm:  "newton",
		Abstol:     DefaultAbstol,
		Reltol:     DefaultReltol,
		MaxIters:   DefaultMaxIters,
		LineSearch: "none",
		Jacobian: JacobianConfig{
			Backend:  "forward",
			ReuseTol: 1e-2,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize fills defaults for fields the file left unset.
func (c *Config) Normalize() {
	if c.Abstol <= 0 {
		c.Abstol = DefaultAbstol
	}
	if c.Reltol < 0 {
		c.Reltol = DefaultReltol
	}
	if c.MaxIters < 0 {
		c.MaxIters = DefaultMaxIters
	}
	if c.Algorithm == "" {
		c.Algorithm = "newton"
	}
	if c.Jacobian.Backend == "" {
		c.Jacobian.Backend = "forward"
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/sim"
)

// Config holds all tunables for the daemon and CLI. Zero values are
// filled from Default before use, so a partial YAML file is fine.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Sim       SimConfig       `yaml:"sim"`
	Solver    SolverConfig    `yaml:"solver"`
	Generator GeneratorConfig `yaml:"generator"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"dataDir"`
}

type SimConfig struct {
	ConveyorCapacity int    `yaml:"conveyorCapacity"`
	Admission        string `yaml:"admission"` // reject | queue
	Scan             string `yaml:"scan"`      // restart | resume
}

type SolverConfig struct {
	Algorithm  string   `yaml:"algorithm"` // bfs | bestfirst
	Workers    int      `yaml:"workers"`
	MirrorFold bool     `yaml:"mirrorFold"`
	MaxNodes   int      `yaml:"maxNodes"`
	MaxDepth   int      `yaml:"maxDepth"`
	TimeLimit  Duration `yaml:"timeLimit"`
}

// Duration accepts Go duration strings ("30s", "1m") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

type GeneratorConfig struct {
	MaxAttempts      int     `yaml:"maxAttempts"`
	MaxDominantShare float64 `yaml:"maxDominantShare"`
	SeamThickness    int     `yaml:"seamThickness"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8080",
			DataDir: "data/levels",
		},
		Sim: SimConfig{
			ConveyorCapacity: 5,
			Admission:        "reject",
			Scan:             "restart",
		},
		Solver: SolverConfig{
			Algorithm: "bfs",
			MaxNodes:  50000,
			TimeLimit: Duration(10 * time.Second),
		},
		Generator: GeneratorConfig{
			MaxAttempts:      8,
			MaxDominantShare: 0.5,
			SeamThickness:    2,
		},
	}
}

// Load reads a YAML file over the defaults. A missing path returns
// plain defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Sim.ConveyorCapacity < 1 {
		return fmt.Errorf("sim.conveyorCapacity must be >= 1, got %d", c.Sim.ConveyorCapacity)
	}
	switch c.Sim.Admission {
	case "reject", "queue":
	default:
		return fmt.Errorf("sim.admission must be reject or queue, got %q", c.Sim.Admission)
	}
	switch c.Sim.Scan {
	case "restart", "resume":
	default:
		return fmt.Errorf("sim.scan must be restart or resume, got %q", c.Sim.Scan)
	}
	switch c.Solver.Algorithm {
	case "bfs", "bestfirst":
	default:
		return fmt.Errorf("solver.algorithm must be bfs or bestfirst, got %q", c.Solver.Algorithm)
	}
	return nil
}

// SimConfig translates the YAML words into simulator policy values.
func (c SimConfig) Build() sim.Config {
	cfg := sim.Config{Capacity: c.ConveyorCapacity}
	if c.Admission == "queue" {
		cfg.Admission = sim.AdmitQueue
	}
	if c.Scan == "resume" {
		cfg.Scan = sim.ScanResume
	}
	return cfg
}

// Budget builds the solver budget from the config.
func (c SolverConfig) Budget() domain.Budget {
	return domain.Budget{
		MaxNodes:  c.MaxNodes,
		MaxDepth:  c.MaxDepth,
		TimeLimit: time.Duration(c.TimeLimit),
	}
}

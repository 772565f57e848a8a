package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/spawn"
)

const (
	DefaultWindowWidth  = 1000
	DefaultWindowHeight = 1000
	DefaultFrameRate    = 60
	DefaultSubSteps     = 8
	DefaultRadius       = 450.0
	DefaultSpawnDelay   = 0.025
	DefaultSpawnSpeed   = 1200.0
	DefaultMinRadius    = 1.0
	DefaultMaxRadius    = 20.0
	DefaultMaxObjects   = 1000
	DefaultMaxAngle     = 1.0
	DefaultFrames       = 600
	DefaultSampleEvery  = 10
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	WindowWidth  int         `yaml:"window_width" toml:"window_width"`
	WindowHeight int         `yaml:"window_height" toml:"window_height"`
	FrameRate    int         `yaml:"frame_rate" toml:"frame_rate"`
	SubSteps     int         `yaml:"sub_steps" toml:"sub_steps"`
	Gravity      Point       `yaml:"gravity" toml:"gravity"`
	Constraint   Constraint  `yaml:"constraint" toml:"constraint"`
	Spawn        SpawnConfig `yaml:"spawn" toml:"spawn"`
	Seed         int64       `yaml:"seed" toml:"seed"`
	Run          RunConfig   `yaml:"run" toml:"run"`
}

type Point struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

func (p Point) Vec() physics.Vec2 { return physics.Vec2{X: p.X, Y: p.Y} }

type Constraint struct {
	Center Point   `yaml:"center" toml:"center"`
	Radius float64 `yaml:"radius" toml:"radius"`
}

type SpawnConfig struct {
	Delay      float64 `yaml:"delay" toml:"delay"`
	Speed      float64 `yaml:"speed" toml:"speed"`
	Position   Point   `yaml:"position" toml:"position"`
	MinRadius  float64 `yaml:"min_radius" toml:"min_radius"`
	MaxRadius  float64 `yaml:"max_radius" toml:"max_radius"`
	MaxObjects int     `yaml:"max_objects" toml:"max_objects"`
	MaxAngle   float64 `yaml:"max_angle" toml:"max_angle"`
}

type RunConfig struct {
	Frames      int `yaml:"frames" toml:"frames"`
	SampleEvery int `yaml:"sample_every" toml:"sample_every"`
}

// DefaultConfig matches the classic 1000x1000 fountain setup.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
		FrameRate:    DefaultFrameRate,
		SubSteps:     DefaultSubSteps,
		Gravity:      Point{X: physics.DefaultGravity.X, Y: physics.DefaultGravity.Y},
		Constraint: Constraint{
			Center: Point{X: DefaultWindowWidth * 0.5, Y: DefaultWindowHeight * 0.5},
			Radius: DefaultRadius,
		},
		Spawn: SpawnConfig{
			Delay:      DefaultSpawnDelay,
			Speed:      DefaultSpawnSpeed,
			Position:   Point{X: 500, Y: 200},
			MinRadius:  DefaultMinRadius,
			MaxRadius:  DefaultMaxRadius,
			MaxObjects: DefaultMaxObjects,
			MaxAngle:   DefaultMaxAngle,
		},
		Run: RunConfig{
			Frames:      DefaultFrames,
			SampleEvery: DefaultSampleEvery,
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML file (by extension) on top of the defaults.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto decodes the file over base, so keys the file leaves out keep
// base's values. base is modified and returned.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isTOML(path) {
		if _, err := toml.Decode(string(data), base); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the preconditions the solver relies on but never checks
// per frame.
func (c *Config) Validate() error {
	switch {
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate must be positive, got %d", ErrInvalidConfig, c.FrameRate)
	case c.SubSteps < 1:
		return fmt.Errorf("%w: sub-steps must be >= 1, got %d", ErrInvalidConfig, c.SubSteps)
	case c.Constraint.Radius <= 0:
		return fmt.Errorf("%w: constraint radius must be positive, got %f", ErrInvalidConfig, c.Constraint.Radius)
	case c.Spawn.MinRadius <= 0:
		return fmt.Errorf("%w: min radius must be positive, got %f", ErrInvalidConfig, c.Spawn.MinRadius)
	case c.Spawn.MaxRadius < c.Spawn.MinRadius:
		return fmt.Errorf("%w: max radius %f below min radius %f", ErrInvalidConfig, c.Spawn.MaxRadius, c.Spawn.MinRadius)
	case c.Spawn.MaxRadius >= c.Constraint.Radius:
		return fmt.Errorf("%w: max radius %f does not fit in constraint radius %f", ErrInvalidConfig, c.Spawn.MaxRadius, c.Constraint.Radius)
	case c.Spawn.Delay < 0:
		return fmt.Errorf("%w: spawn delay must not be negative, got %f", ErrInvalidConfig, c.Spawn.Delay)
	case c.Spawn.MaxObjects < 0:
		return fmt.Errorf("%w: max objects must not be negative, got %d", ErrInvalidConfig, c.Spawn.MaxObjects)
	case c.Run.SampleEvery < 0:
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, c.Run.SampleEvery)
	}
	return nil
}

// NewSolver builds a solver configured from c.
func (c *Config) NewSolver() *physics.Solver {
	s := physics.NewSolver()
	c.ApplySolver(s)
	return s
}

// ApplySolver pushes the tunable parameters into an existing solver without
// touching its objects or time.
func (c *Config) ApplySolver(s *physics.Solver) {
	s.SetConstraint(c.Constraint.Center.Vec(), c.Constraint.Radius)
	s.SetSubStepsCount(c.SubSteps)
	s.SetSimulationUpdateRule(c.FrameRate)
	s.SetGravity(c.Gravity.Vec())
}

func (c *Config) SpawnParams() spawn.Params {
	return spawn.Params{
		Delay:      c.Spawn.Delay,
		Speed:      c.Spawn.Speed,
		Position:   c.Spawn.Position.Vec(),
		MinRadius:  c.Spawn.MinRadius,
		MaxRadius:  c.Spawn.MaxRadius,
		MaxObjects: c.Spawn.MaxObjects,
		MaxAngle:   c.Spawn.MaxAngle,
	}
}

// NewSpawner seeds its own generator from c.Seed.
func (c *Config) NewSpawner(clock spawn.Clock) *spawn.Spawner {
	return spawn.New(c.SpawnParams(), clock, spawn.NewRand(c.Seed))
}

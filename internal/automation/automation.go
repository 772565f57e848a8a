package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/spawn"
	"github.com/san-kum/verletsim/internal/storage"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields fall back to the preset.
type ScenarioStep struct {
	Preset      string        `yaml:"preset"`
	Frames      int           `yaml:"frames"`
	SampleEvery int           `yaml:"sample_every"`
	SubSteps    int           `yaml:"sub_steps"`
	Seed        int64         `yaml:"seed"`
	MaxObjects  int           `yaml:"max_objects"`
	Gravity     *config.Point `yaml:"gravity"`
	SaveAs      string        `yaml:"save_as"`
}

// StepResult pairs a step's run with the id it was stored under.
type StepResult struct {
	Step   ScenarioStep
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Frames > 0 {
		cfg.Run.Frames = s.Frames
	}
	if s.SampleEvery > 0 {
		cfg.Run.SampleEvery = s.SampleEvery
	}
	if s.SubSteps > 0 {
		cfg.SubSteps = s.SubSteps
	}
	if s.MaxObjects > 0 {
		cfg.Spawn.MaxObjects = s.MaxObjects
	}
	if s.Gravity != nil {
		cfg.Gravity = *s.Gravity
	}
	cfg.Seed = s.Seed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order. When st is non-nil every run is
// saved; SaveAs replaces the preset name in the stored metadata.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		solver := cfg.NewSolver()
		s := sim.New(solver, cfg.NewSpawner(spawn.NewFrameClock()))
		s.AddMetric(metrics.NewKineticEnergy())
		s.AddMetric(metrics.NewPenetration())
		s.AddMetric(metrics.NewContainment(solver.GetConstraint()))

		result, err := s.Run(ctx, sim.RunConfig{
			Frames:        cfg.Run.Frames,
			SampleEvery:   cfg.Run.SampleEvery,
			ValidateState: true,
		})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if st != nil {
			label := step.SaveAs
			if label == "" {
				label = step.Preset
			}
			sr.RunID, err = st.Save(storage.RunMetadata{Preset: label, Seed: cfg.Seed, Config: cfg}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

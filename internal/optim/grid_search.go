package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/sim"
)

// Setters maps a tunable name to the config field it writes.
var Setters = map[string]func(c *config.Config, v float64){
	"sub_steps":   func(c *config.Config, v float64) { c.SubSteps = int(math.Round(v)) },
	"gravity_y":   func(c *config.Config, v float64) { c.Gravity.Y = v },
	"spawn_delay": func(c *config.Config, v float64) { c.Spawn.Delay = v },
	"spawn_speed": func(c *config.Config, v float64) { c.Spawn.Speed = v },
	"max_radius":  func(c *config.Config, v float64) { c.Spawn.MaxRadius = v },
	"max_angle":   func(c *config.Config, v float64) { c.Spawn.MaxAngle = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply writes params into a copy of base.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	c := *base
	for name, v := range params {
		set, ok := Setters[name]
		if !ok {
			return nil, fmt.Errorf("unknown parameter: %s (available: %v)", name, ParamNames())
		}
		set(&c, v)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// GridSearch tries every combination of values and keeps the one with the
// lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search builds a simulator per combination and minimizes metricName.
// Combinations that fail to build or run are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	runCfg sim.RunConfig,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, runCfg, metricName, &best, &bestParams)

	if bestParams == nil {
		return nil, best, fmt.Errorf("no combination produced %q", metricName)
	}
	return bestParams, best, ctx.Err()
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build func(map[string]float64) (*sim.Simulator, error),
	runCfg sim.RunConfig,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		s, err := build(current)
		if err != nil {
			return
		}

		result, err := s.Run(ctx, runCfg)
		if err != nil {
			return
		}

		val, ok := result.Metrics[metricName]
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, build, runCfg, metricName, best, bestParams)
	}
}

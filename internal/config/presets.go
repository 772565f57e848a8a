package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"dense": func() *Config {
		cfg := DefaultConfig()
		cfg.Spawn.MinRadius = 2
		cfg.Spawn.MaxRadius = 6
		cfg.Spawn.Delay = 0.01
		cfg.Spawn.MaxObjects = 2000
		return cfg
	},
	"gentle": func() *Config {
		cfg := DefaultConfig()
		cfg.Spawn.Delay = 0.2
		cfg.Spawn.Speed = 300
		cfg.Spawn.MaxAngle = 0.4
		cfg.Spawn.MaxObjects = 200
		cfg.Gravity = Point{X: 0, Y: 400}
		return cfg
	},
	"stress": func() *Config {
		cfg := DefaultConfig()
		cfg.SubSteps = 4
		cfg.Spawn.MinRadius = 2
		cfg.Spawn.MaxRadius = 5
		cfg.Spawn.Delay = 0.005
		cfg.Spawn.MaxObjects = 3000
		return cfg
	},
	"zero-g": func() *Config {
		cfg := DefaultConfig()
		cfg.Gravity = Point{}
		cfg.Spawn.Speed = 400
		cfg.Spawn.MaxObjects = 300
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import (
	"sort"

	"github.com/san-kum/springnet/internal/dynamo"
)

// Presets mirror the standard dataset, keyed by topology then preset name.
// Zero fields fall back to DefaultConfig in GetPreset.
var Presets = map[string]map[string]*Config{
	"wheel": {
		"small": {Topology: "wheel", Shape: Shape{N: 5, Radius: 100}},
		"large": {Topology: "wheel", Shape: Shape{N: 20, Radius: 100}},
		"stiff": {
			Topology: "wheel", Shape: Shape{N: 8, Radius: 100},
			Physics: &dynamo.Params{SpringConstant: 0.1, Friction: 0.05, Gravity: 0.02},
		},
	},
	"complete": {
		"k4":  {Topology: "complete", Shape: Shape{N: 4, Radius: 100}},
		"k10": {Topology: "complete", Shape: Shape{N: 10, Radius: 100}},
	},
	"cloth": {
		"taut":  {Topology: "cloth", Shape: Shape{Cols: 50, Rows: 50, Spacing: 10}},
		"short": {Topology: "cloth", Shape: Shape{Cols: 50, Rows: 25, Spacing: 10}},
		"loose": {
			Topology: "cloth", Shape: Shape{Cols: 30, Rows: 30, Spacing: 10},
			Physics: &dynamo.Params{SpringConstant: 0.1, Friction: 0.95, Gravity: 0.02},
		},
	},
	"pyramid": {
		"small":  {Topology: "pyramid", Shape: Shape{Levels: 2, Spacing: 50}},
		"medium": {Topology: "pyramid", Shape: Shape{Levels: 4, Spacing: 50}},
		"tall":   {Topology: "pyramid", Shape: Shape{Levels: 6, Spacing: 99}},
		"tuned": {
			Topology: "pyramid", Shape: Shape{Levels: 6, Spacing: 50},
			Physics: &dynamo.Params{SpringConstant: 0.03, Friction: 0.98, Gravity: 0.01},
		},
	},
}

// GetPreset returns a copy of the named preset with unset fields filled from
// DefaultConfig, or nil.
func GetPreset(topology, preset string) *Config {
	topoPresets, ok := Presets[topology]
	if !ok {
		return nil
	}
	p, ok := topoPresets[preset]
	if !ok {
		return nil
	}
	return p.withDefaults()
}

func ListPresets(topology string) []string {
	topoPresets, ok := Presets[topology]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(topoPresets))
	for name := range topoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) withDefaults() *Config {
	out := c.Clone()
	def := DefaultConfig()
	if out.Topology == "" {
		out.Topology = def.Topology
	}
	fill := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}
	fillF := func(dst *float64, v float64) {
		if *dst == 0 {
			*dst = v
		}
	}
	fill(&out.Shape.N, def.Shape.N)
	fillF(&out.Shape.Radius, def.Shape.Radius)
	fill(&out.Shape.Cols, def.Shape.Cols)
	fill(&out.Shape.Rows, def.Shape.Rows)
	fill(&out.Shape.Levels, def.Shape.Levels)
	fillF(&out.Shape.Spacing, def.Shape.Spacing)
	fill(&out.Substeps, def.Substeps)
	fill(&out.FrameMillis, def.FrameMillis)
	fillF(&out.Width, def.Width)
	fillF(&out.Height, def.Height)
	fill(&out.MaxSteps, def.MaxSteps)
	if out.Jitter == "" {
		out.Jitter = def.Jitter
	}
	return out
}

package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/springnet/internal/config"
	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/metrics"
	"github.com/san-kum/springnet/internal/physics"
	"github.com/san-kum/springnet/internal/sim"
)

// Builder constructs a graph of one topology from its shape parameters.
type Builder func(shape config.Shape, opts ...dynamo.Option) *dynamo.Graph

type Registry struct {
	topologies map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{
		topologies: make(map[string]Builder),
	}

	r.topologies["wheel"] = func(s config.Shape, opts ...dynamo.Option) *dynamo.Graph {
		return physics.NewWheel(s.N, s.Radius, opts...)
	}
	r.topologies["complete"] = func(s config.Shape, opts ...dynamo.Option) *dynamo.Graph {
		return physics.NewComplete(s.N, s.Radius, opts...)
	}
	r.topologies["cloth"] = func(s config.Shape, opts ...dynamo.Option) *dynamo.Graph {
		return physics.NewCloth(s.Cols, s.Rows, s.Spacing, opts...)
	}
	r.topologies["pyramid"] = func(s config.Shape, opts ...dynamo.Option) *dynamo.Graph {
		return physics.NewPyramid(s.Levels, s.Spacing, opts...)
	}

	return r
}

func (r *Registry) Register(name string, b Builder) {
	r.topologies[name] = b
}

func (r *Registry) Build(name string, shape config.Shape, opts ...dynamo.Option) (*dynamo.Graph, error) {
	fn, ok := r.topologies[name]
	if !ok {
		return nil, fmt.Errorf("unknown topology: %s", name)
	}
	return fn(shape, opts...), nil
}

// BuildConfig builds the topology a run configuration describes.
func (r *Registry) BuildConfig(cfg *config.Config) (*dynamo.Graph, error) {
	return r.Build(cfg.Topology, cfg.Shape, cfg.GraphOptions()...)
}

func (r *Registry) ListTopologies() []string {
	names := make([]string, 0, len(r.topologies))
	for name := range r.topologies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewPotentialScore(),
		metrics.NewPeakKinetic(),
		metrics.NewSaturation(),
	}
}

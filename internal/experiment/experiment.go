package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/springnet/internal/config"
	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/sim"
)

// Experiment is one settle run of a configured topology.
type Experiment struct {
	cfg       *config.Config
	graph     *dynamo.Graph
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(reg *Registry, metrics []sim.Metric) error {
	g, err := reg.BuildConfig(e.cfg)
	if err != nil {
		return err
	}
	e.SetupGraph(g, metrics)
	return nil
}

// SetupGraph runs an already built graph, such as one loaded from disk.
func (e *Experiment) SetupGraph(g *dynamo.Graph, metrics []sim.Metric) {
	e.graph = g
	e.simulator = sim.New(g)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.DefaultConfig()
	if e.cfg.MaxSteps > 0 {
		simCfg.MaxSteps = e.cfg.MaxSteps
	}

	return e.simulator.Run(ctx, simCfg)
}

func (e *Experiment) Graph() *dynamo.Graph { return e.graph }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

package sim

import (
	"context"
	"fmt"

	"github.com/plan-systems/klog"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/metrics"
)

// Simulator drives a graph tick by tick until it settles or a step cap is
// reached, feeding metrics and observers along the way.
type Simulator struct {
	graph     *dynamo.Graph
	metrics   []Metric
	observers []Observer
}

func New(g *dynamo.Graph) *Simulator {
	return &Simulator{
		graph:     g,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Graph() *dynamo.Graph   { return s.graph }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps the graph. Metrics observe every step up to, but not including,
// the one on which the network is found settled.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	capacity := 0
	if cfg.RecordEvery > 0 {
		capacity = cfg.MaxSteps/cfg.RecordEvery + 1
	}
	result := &Result{
		Potential:  make([]float64, 0, capacity),
		Kinetic:    make([]float64, 0, capacity),
		Metrics:    make(map[string]float64),
		SettleStep: -1,
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	conv := metrics.NewConvergence()
	conv.Prime(s.graph)

	for i := 0; i < cfg.MaxSteps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.graph.Step()
		result.StepsTaken++

		if cfg.ValidateState && !s.graph.IsValid() {
			return result, &dynamo.SimError{Step: i, Message: "invalid state (NaN/Inf)", Wrapped: dynamo.ErrUnstable}
		}

		if cfg.RecordEvery > 0 && i%cfg.RecordEvery == 0 {
			result.Potential = append(result.Potential, s.graph.PotentialEnergy())
			result.Kinetic = append(result.Kinetic, s.graph.KineticEnergy())
		}
		for _, obs := range s.observers {
			obs.OnStep(s.graph, i)
		}

		conv.Observe(s.graph)
		if conv.Settled() {
			result.Settled = true
			result.SettleStep = i
			if cfg.StopOnSettle {
				break
			}
		}
		if !result.Settled {
			for _, m := range s.metrics {
				m.Observe(s.graph)
			}
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	klog.V(2).Infof("sim: %d steps, settled=%v at %d, pe=%.5f ke=%.5f",
		result.StepsTaken, result.Settled, result.SettleStep,
		s.graph.PotentialEnergy(), s.graph.KineticEnergy())

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", cfg.MaxSteps)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

// RunWithCallback steps until the callback returns false, the context ends,
// or MaxSteps is reached.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(g *dynamo.Graph, step int) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.MaxSteps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.graph.Step()

		if cfg.ValidateState && !s.graph.IsValid() {
			return fmt.Errorf("invalid state at step %d: %w", i, dynamo.ErrUnstable)
		}
		if !callback(s.graph, i) {
			return nil
		}
	}

	return nil
}

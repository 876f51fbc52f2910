package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/metrics"
	"github.com/san-kum/springnet/internal/physics"
)

func weightless() dynamo.Option {
	p := dynamo.DefaultParams()
	p.Gravity = 0
	return dynamo.WithParams(p)
}

func stretchedPair() *dynamo.Graph {
	g := dynamo.New(weightless())
	a := g.Place(100, 100)
	b := g.Place(200, 100)
	_ = g.ConnectRest(a, b, 50)
	return g
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string            { return "count" }
func (c *countMetric) Observe(g *dynamo.Graph) { c.count++ }
func (c *countMetric) Value() float64          { return float64(c.count) }
func (c *countMetric) Reset()                  { c.count = 0 }

type countObserver struct {
	steps []int
}

func (c *countObserver) OnStep(g *dynamo.Graph, step int) { c.steps = append(c.steps, step) }

func TestSimulatorSettlesAtRest(t *testing.T) {
	g := physics.NewPyramid(3, 50, weightless())
	s := New(g)
	counter := &countMetric{}
	s.AddMetric(counter)
	s.AddMetric(metrics.NewPotentialScore())

	result, err := s.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !result.Settled {
		t.Fatal("pyramid at its rest lengths should settle")
	}
	if result.SettleStep != 0 {
		t.Errorf("SettleStep = %d, want 0", result.SettleStep)
	}
	if result.StepsTaken != 1 {
		t.Errorf("StepsTaken = %d, want 1", result.StepsTaken)
	}
	if counter.count != 0 {
		t.Errorf("metrics observed %d times, want 0 on the settling step", counter.count)
	}
	if got := result.Metrics["potential_score"]; got != 0 {
		t.Errorf("potential_score = %v, want 0", got)
	}
}

func TestSimulatorStepCap(t *testing.T) {
	s := New(stretchedPair())
	counter := &countMetric{}
	s.AddMetric(counter)

	cfg := DefaultConfig()
	cfg.MaxSteps = 5

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Settled {
		t.Error("stretched spring should still be moving after 5 steps")
	}
	if result.SettleStep != -1 {
		t.Errorf("SettleStep = %d, want -1", result.SettleStep)
	}
	if result.StepsTaken != 5 {
		t.Errorf("StepsTaken = %d, want 5", result.StepsTaken)
	}
	if len(result.Potential) != 5 || len(result.Kinetic) != 5 {
		t.Errorf("history lengths = %d/%d, want 5/5", len(result.Potential), len(result.Kinetic))
	}
	if counter.count != 5 {
		t.Errorf("metric observed %d times, want 5", counter.count)
	}
	if result.Metrics["count"] != 5 {
		t.Errorf("Metrics[count] = %v, want 5", result.Metrics["count"])
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	s := New(stretchedPair())
	cfg := Config{MaxSteps: 10, RecordEvery: 3}

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// steps 0, 3, 6, 9
	if len(result.Potential) != 4 {
		t.Errorf("recorded %d samples, want 4", len(result.Potential))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(stretchedPair())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero steps", Config{MaxSteps: 0}},
		{"negative steps", Config{MaxSteps: -1}},
		{"negative record interval", Config{MaxSteps: 10, RecordEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorCancelled(t *testing.T) {
	s := New(stretchedPair())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("StepsTaken = %d, want 0", result.StepsTaken)
	}
}

func TestSimulatorUnstable(t *testing.T) {
	g := stretchedPair()
	v, err := g.Vertex(0)
	if err != nil {
		t.Fatal(err)
	}
	v.X = math.NaN()

	_, err = New(g).Run(context.Background(), DefaultConfig())
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("err = %v, want ErrUnstable", err)
	}
	var simErr *dynamo.SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("err = %T, want *dynamo.SimError", err)
	}
	if simErr.Step != 0 {
		t.Errorf("Step = %d, want 0", simErr.Step)
	}
}

func TestSimulatorObservers(t *testing.T) {
	s := New(stretchedPair())
	obs := &countObserver{}
	s.AddObserver(obs)

	if _, err := s.Run(context.Background(), Config{MaxSteps: 4}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []int{0, 1, 2, 3}
	if len(obs.steps) != len(want) {
		t.Fatalf("observer saw %v, want %v", obs.steps, want)
	}
	for i := range want {
		if obs.steps[i] != want[i] {
			t.Errorf("steps[%d] = %d, want %d", i, obs.steps[i], want[i])
		}
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	g := stretchedPair()
	s := New(g)

	calls := 0
	err := s.RunWithCallback(context.Background(), DefaultConfig(), func(g *dynamo.Graph, step int) bool {
		calls++
		return step < 2
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("callback called %d times, want 3", calls)
	}
	if g.Steps() != 3 {
		t.Errorf("graph stepped %d times, want 3", g.Steps())
	}
}

func TestEnsembleRun(t *testing.T) {
	graphs := []*dynamo.Graph{
		physics.NewPyramid(3, 50, weightless()),
		stretchedPair(),
		physics.NewWheel(5, 100, weightless()),
	}

	e := NewEnsemble(graphs, func() []Metric {
		return []Metric{metrics.NewPotentialScore(), metrics.NewPeakKinetic()}
	})

	cfg := DefaultConfig()
	cfg.MaxSteps = 50
	results, err := e.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != len(graphs) {
		t.Fatalf("got %d results, want %d", len(results), len(graphs))
	}

	if !results[0].Settled {
		t.Error("resting pyramid should settle")
	}
	if results[1].Settled {
		t.Error("stretched pair should not settle in 50 steps")
	}
	if results[1].Metrics["peak_kinetic"] <= 0 {
		t.Errorf("peak_kinetic = %v, want > 0", results[1].Metrics["peak_kinetic"])
	}
	for i, r := range results {
		if _, ok := r.Metrics["potential_score"]; !ok {
			t.Errorf("result %d missing potential_score", i)
		}
	}
}

func TestEnsembleRunFailure(t *testing.T) {
	broken := stretchedPair()
	v, err := broken.Vertex(0)
	if err != nil {
		t.Fatal(err)
	}
	v.X = math.NaN()

	graphs := []*dynamo.Graph{stretchedPair(), broken, physics.NewWheel(5, 100, weightless())}
	results, err := NewEnsemble(graphs, nil).Run(context.Background(), DefaultConfig())
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("err = %v, want ErrUnstable", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil on failure", results)
	}
}

func TestEnsembleRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	graphs := []*dynamo.Graph{stretchedPair(), stretchedPair()}
	_, err := NewEnsemble(graphs, nil).Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for i, g := range graphs {
		if g.Steps() != 0 {
			t.Errorf("graph %d stepped %d times under a cancelled context", i, g.Steps())
		}
	}
}

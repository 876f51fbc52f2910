package automation

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springnet/internal/config"
	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/experiment"
	"github.com/san-kum/springnet/internal/sim"
	"github.com/san-kum/springnet/internal/storage"
)

// Scenario defines a scripted sequence of settle runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Shape fields left at zero keep
// the preset or default value.
type ScenarioStep struct {
	Topology string         `yaml:"topology"`
	Preset   string         `yaml:"preset"`
	Shape    config.Shape   `yaml:"shape"`
	Physics  *dynamo.Params `yaml:"physics"`
	MaxSteps int            `yaml:"max_steps"`
	Seed     int64          `yaml:"seed"`
	Jitter   string         `yaml:"jitter"`
	SaveAs   string         `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Config *config.Config
	Graph  *dynamo.Graph
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}

	return &scenario, nil
}

// Config resolves the step against its preset and the defaults.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p := config.GetPreset(s.Topology, s.Preset)
		if p == nil {
			return nil, errors.Errorf("unknown preset %s/%s", s.Topology, s.Preset)
		}
		cfg = p
	}
	if s.Topology != "" {
		cfg.Topology = s.Topology
	}

	overlay := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	overlayF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	overlay(&cfg.Shape.N, s.Shape.N)
	overlayF(&cfg.Shape.Radius, s.Shape.Radius)
	overlay(&cfg.Shape.Cols, s.Shape.Cols)
	overlay(&cfg.Shape.Rows, s.Shape.Rows)
	overlay(&cfg.Shape.Levels, s.Shape.Levels)
	overlayF(&cfg.Shape.Spacing, s.Shape.Spacing)
	overlay(&cfg.MaxSteps, s.MaxSteps)

	if s.Physics != nil {
		p := *s.Physics
		cfg.Physics = &p
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Jitter != "" {
		cfg.Jitter = s.Jitter
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in a scenario. Steps with SaveAs write their
// settled graph to that path.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		klog.V(1).Infof("scenario %s: step %d/%d %s", scenario.Name, i+1, len(scenario.Steps), step.Topology)

		cfg, err := step.Config()
		if err != nil {
			return results, errors.Wrapf(err, "step %d", i+1)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
			return results, errors.Wrapf(err, "step %d setup", i+1)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, errors.Wrapf(err, "step %d run", i+1)
		}

		if step.SaveAs != "" {
			if err := storage.SaveGraph(step.SaveAs, exp.Graph()); err != nil {
				return results, errors.Wrapf(err, "step %d save", i+1)
			}
		}

		results = append(results, StepResult{Config: cfg, Graph: exp.Graph(), Result: result})
	}

	return results, nil
}

// MonteCarloConfig settles Trials copies of one topology, each jittered by
// a random source seeded Seed+trial.
type MonteCarloConfig struct {
	Base   *config.Config
	Trials int
	Seed   int64
}

// MonteCarloResult holds the outcome of one jittered trial
type MonteCarloResult struct {
	TrialID    int
	Seed       int64
	Settled    bool
	SettleStep int
	Score      float64
}

// RunMonteCarlo settles every trial concurrently.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.Trials <= 0 {
		return nil, errors.Errorf("trials must be positive, got %d", cfg.Trials)
	}

	graphs := make([]*dynamo.Graph, cfg.Trials)
	seeds := make([]int64, cfg.Trials)
	for trial := range graphs {
		trialCfg := cfg.Base.Clone()
		trialCfg.Jitter = config.JitterRand
		trialCfg.Seed = cfg.Seed + int64(trial)
		seeds[trial] = trialCfg.Seed

		g, err := registry.BuildConfig(trialCfg)
		if err != nil {
			return nil, err
		}
		graphs[trial] = g
	}

	simCfg := sim.DefaultConfig()
	simCfg.MaxSteps = cfg.Base.MaxSteps
	simCfg.RecordEvery = 0

	runs, err := sim.NewEnsemble(graphs, registry.DefaultMetrics).Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:    i,
			Seed:       seeds[i],
			Settled:    r.Settled,
			SettleStep: r.SettleStep,
			Score:      r.Metrics["potential_score"],
		}
	}
	klog.V(1).Infof("monte carlo: %d trials of %s complete", cfg.Trials, cfg.Base.Topology)

	return results, nil
}

// MonteCarloStats counts settled trials and averages the potential score.
func MonteCarloStats(results []MonteCarloResult) (settled, unsettled int, meanScore float64) {
	for _, r := range results {
		if r.Settled {
			settled++
		} else {
			unsettled++
		}
		meanScore += r.Score
	}
	if len(results) > 0 {
		meanScore /= float64(len(results))
	}
	return
}

package optim

import (
	"context"
	"math"

	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/metrics"
	"github.com/san-kum/springnet/internal/physics"
	"github.com/san-kum/springnet/internal/sim"
)

const (
	DefaultRounds    = 40
	DefaultDivisions = 20
)

// Bounds clamp one parameter during the search.
type Bounds struct {
	Min, Max float64
}

func (b Bounds) step(divisions float64) float64 { return (b.Max - b.Min) / divisions }

// GraphFactory builds a fresh, unstepped graph for one evaluation.
type GraphFactory func() *dynamo.Graph

// CoordinateDescent tunes spring constant, friction and gravity one at a time.
// Each round tries a step below and a step above the current value of every
// parameter and keeps whichever scores lower, preferring the upper value on
// ties.
type CoordinateDescent struct {
	Start     dynamo.Params
	Bounds    [3]Bounds
	Rounds    int
	Divisions float64
	MaxSteps  int
	Factory   GraphFactory
}

type DescentResult struct {
	Params      dynamo.Params
	Score       float64
	Evaluations int
}

// NewCoordinateDescent returns the search used to tune the 6-level pyramid.
func NewCoordinateDescent() *CoordinateDescent {
	return &CoordinateDescent{
		Start: dynamo.Params{SpringConstant: 0.03, Friction: 0.98, Gravity: 0.01},
		Bounds: [3]Bounds{
			{Min: 0.01, Max: 0.1},
			{Min: 0.9, Max: 0.99},
			{Min: 0.01, Max: 0.2},
		},
		Rounds:    DefaultRounds,
		Divisions: DefaultDivisions,
		MaxSteps:  sim.DefaultMaxSteps,
		Factory: func() *dynamo.Graph {
			return physics.NewPyramid(6, 50)
		},
	}
}

func (c *CoordinateDescent) Search(ctx context.Context) (*DescentResult, error) {
	current := toVector(c.Start)
	res := &DescentResult{}

	for round := 0; round < c.Rounds; round++ {
		for i := range current {
			b := c.Bounds[i]
			d := b.step(c.Divisions)
			left := math.Max(b.Min, current[i]-d)
			right := math.Min(b.Max, current[i]+d)

			leftParams, rightParams := current, current
			leftParams[i], rightParams[i] = left, right

			var leftScore, rightScore float64
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				leftScore, err = c.evaluate(gctx, fromVector(leftParams))
				return err
			})
			g.Go(func() (err error) {
				rightScore, err = c.evaluate(gctx, fromVector(rightParams))
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			res.Evaluations += 2

			if leftScore < rightScore {
				current[i] = left
				res.Score = leftScore
			} else {
				current[i] = right
				res.Score = rightScore
			}
		}
		klog.V(2).Infof("optim: round %d params=%v score=%.4f", round, current, res.Score)
	}

	res.Params = fromVector(current)
	return res, nil
}

func (c *CoordinateDescent) evaluate(ctx context.Context, p dynamo.Params) (float64, error) {
	g := c.Factory()
	g.Params = p
	return Score(ctx, g, c.MaxSteps)
}

// Score settles g and returns its time-integrated potential energy.
func Score(ctx context.Context, g *dynamo.Graph, maxSteps int) (float64, error) {
	s := sim.New(g)
	score := metrics.NewPotentialScore()
	s.AddMetric(score)

	cfg := sim.DefaultConfig()
	cfg.MaxSteps = maxSteps
	cfg.RecordEvery = 0
	if _, err := s.Run(ctx, cfg); err != nil {
		return 0, err
	}
	return score.Value(), nil
}

func toVector(p dynamo.Params) [3]float64 {
	return [3]float64{p.SpringConstant, p.Friction, p.Gravity}
}

func fromVector(v [3]float64) dynamo.Params {
	return dynamo.Params{SpringConstant: v[0], Friction: v[1], Gravity: v[2]}
}

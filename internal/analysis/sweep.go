package analysis

import (
	"context"
	"strings"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/metrics"
	"github.com/san-kum/springnet/internal/sim"
)

// SweepPoint is the outcome of settling one graph at one parameter value.
type SweepPoint struct {
	Param      float64
	Score      float64
	SettleStep int
	Settled    bool
}

// Sweep settles a fresh graph from build for each of steps evenly spaced
// values of the named parameter and records the potential score of each.
func Sweep(
	ctx context.Context,
	build func() *dynamo.Graph,
	paramName string,
	paramMin, paramMax float64,
	steps int,
	maxSteps int,
) ([]SweepPoint, error) {
	if steps <= 1 {
		steps = 2
	}
	paramStep := (paramMax - paramMin) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		param := paramMin + float64(i)*paramStep

		g := build()
		if err := g.Params.Set(paramName, param); err != nil {
			return nil, err
		}

		s := sim.New(g)
		score := metrics.NewPotentialScore()
		s.AddMetric(score)

		cfg := sim.DefaultConfig()
		cfg.MaxSteps = maxSteps
		cfg.RecordEvery = 0
		res, err := s.Run(ctx, cfg)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepPoint{
			Param:      param,
			Score:      score.Value(),
			SettleStep: res.SettleStep,
			Settled:    res.Settled,
		})
	}

	return results, nil
}

// SweepToASCII plots score against parameter; unsettled runs are drawn as 'x'.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := data[0].Score, data[0].Score
	for _, p := range data {
		minVal, maxVal = min(minVal, p.Score), max(maxVal, p.Score)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		row := height - 1 - int((p.Score-minVal)/(maxVal-minVal)*float64(height-1))
		if row >= 0 && row < height {
			mark := '•'
			if !p.Settled {
				mark = 'x'
			}
			canvas[row][col] = mark
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

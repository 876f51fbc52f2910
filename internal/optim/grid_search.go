package optim

import (
	"context"
	"math"

	"github.com/san-kum/springnet/internal/dynamo"
)

// GridSearch scores every combination of the candidate values for spring
// constant, friction and gravity.
type GridSearch struct {
	values   [3][]float64
	maxSteps int
	factory  GraphFactory
}

func NewGridSearch(springConstants, frictions, gravities []float64, maxSteps int, factory GraphFactory) *GridSearch {
	return &GridSearch{
		values:   [3][]float64{springConstants, frictions, gravities},
		maxSteps: maxSteps,
		factory:  factory,
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search returns the lowest-scoring parameters. Combinations whose run fails
// are skipped; only context cancellation aborts the search.
func (g *GridSearch) Search(ctx context.Context) (dynamo.Params, float64, error) {
	best := math.Inf(1)
	var bestParams dynamo.Params

	err := g.searchRecursive(ctx, 0, [3]float64{}, &best, &bestParams)

	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current [3]float64,
	best *float64,
	bestParams *dynamo.Params,
) error {
	if depth == len(g.values) {
		if err := ctx.Err(); err != nil {
			return err
		}

		graph := g.factory()
		graph.Params = fromVector(current)
		val, err := Score(ctx, graph, g.maxSteps)
		if err != nil {
			return nil
		}

		if val < *best {
			*best = val
			*bestParams = graph.Params
		}
		return nil
	}

	for _, val := range g.values[depth] {
		next := current
		next[depth] = val

		if err := g.searchRecursive(ctx, depth+1, next, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springnet/internal/dynamo"
)

// Ensemble settles several independent graphs concurrently. Each graph is
// still stepped by exactly one goroutine. The first failing run cancels the
// rest.
type Ensemble struct {
	graphs     []*dynamo.Graph
	newMetrics func() []Metric
}

func NewEnsemble(graphs []*dynamo.Graph, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{graphs: graphs, newMetrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.graphs))

	g, gctx := errgroup.WithContext(ctx)
	for i := range e.graphs {
		i := i
		g.Go(func() (err error) {
			s := New(e.graphs[i])
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}
			results[i], err = s.Run(gctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package metrics

import "github.com/san-kum/springnet/internal/dynamo"

// Saturation is the fraction of observed steps in which at least one spring
// was stretched past the force saturation limit.
type Saturation struct {
	name       string
	violations int
	samples    int
}

func NewSaturation() *Saturation {
	return &Saturation{
		name: "saturation",
	}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(g *dynamo.Graph) {
	s.samples++
	for _, e := range g.Edges() {
		if g.Tension(e) >= 1 {
			s.violations++
			break
		}
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.violations = 0
	s.samples = 0
}

package metrics

import (
	"math"

	"github.com/san-kum/springnet/internal/dynamo"
)

const (
	// SettlePlaces is the decimal precision of the settling comparison.
	SettlePlaces = 5

	// ScorePlaces is the precision a potential score is reported at.
	ScorePlaces = 4

	// ScoreStepsPerSecond converts per-tick energy into a per-second integral
	// (60 frames of 16 sub-steps).
	ScoreStepsPerSecond = 60.0 * 16.0
)

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Convergence decides when a network has come to rest: the potential energy
// is unchanged from the previous step and the kinetic energy is zero, both
// at SettlePlaces decimals.
type Convergence struct {
	prevPotential float64
	settled       bool
	settledAt     int
	samples       int
}

func NewConvergence() *Convergence {
	return &Convergence{settledAt: -1}
}

func (c *Convergence) Name() string { return "settle_step" }

// Prime records the potential energy seen before the first observed step.
func (c *Convergence) Prime(g *dynamo.Graph) {
	c.prevPotential = g.PotentialEnergy()
}

// Observe feeds the energies of the step just taken and reports whether the
// network is settled.
func (c *Convergence) Observe(g *dynamo.Graph) {
	pe, ke := g.PotentialEnergy(), g.KineticEnergy()
	stable := Round(c.prevPotential, SettlePlaces) == Round(pe, SettlePlaces) &&
		Round(ke, SettlePlaces) == 0
	c.prevPotential = pe
	if stable && !c.settled {
		c.settled = true
		c.settledAt = c.samples
	}
	c.samples++
}

func (c *Convergence) Settled() bool { return c.settled }

// Value is the zero-based step index at which settling was first seen, or
// -1 while still moving.
func (c *Convergence) Value() float64 { return float64(c.settledAt) }

func (c *Convergence) Reset() {
	c.prevPotential = 0
	c.settled = false
	c.settledAt = -1
	c.samples = 0
}

// PotentialScore integrates elastic potential energy over simulated time.
// Lower scores mean a configuration relaxes faster and further.
type PotentialScore struct {
	total float64
}

func NewPotentialScore() *PotentialScore { return &PotentialScore{} }

func (p *PotentialScore) Name() string { return "potential_score" }

func (p *PotentialScore) Observe(g *dynamo.Graph) {
	p.total += g.PotentialEnergy() / ScoreStepsPerSecond
}

func (p *PotentialScore) Value() float64 { return Round(p.total, ScorePlaces) }

func (p *PotentialScore) Reset() { p.total = 0 }

// PeakKinetic tracks the largest kinetic energy seen.
type PeakKinetic struct {
	peak float64
}

func NewPeakKinetic() *PeakKinetic { return &PeakKinetic{} }

func (p *PeakKinetic) Name() string { return "peak_kinetic" }

func (p *PeakKinetic) Observe(g *dynamo.Graph) {
	p.peak = math.Max(p.peak, g.KineticEnergy())
}

func (p *PeakKinetic) Value() float64 { return p.peak }

func (p *PeakKinetic) Reset() { p.peak = 0 }

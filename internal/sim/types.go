package sim

import "github.com/san-kum/springnet/internal/dynamo"

// DefaultMaxSteps caps a settle run at ten seconds of 60 fps frames with 16
// sub-steps each.
const DefaultMaxSteps = 10 * 60 * 16

type Metric interface {
	Name() string
	Observe(g *dynamo.Graph)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(g *dynamo.Graph, step int)
}

type Config struct {
	MaxSteps int
	// RecordEvery keeps one energy sample every n steps; 0 disables history.
	RecordEvery   int
	StopOnSettle  bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:      DefaultMaxSteps,
		RecordEvery:   1,
		StopOnSettle:  true,
		ValidateState: true,
	}
}

type Result struct {
	Potential  []float64
	Kinetic    []float64
	Metrics    map[string]float64
	StepsTaken int
	Settled    bool
	// SettleStep is the step at which the network came to rest, or -1.
	SettleStep int
}

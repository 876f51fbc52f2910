package dynamo

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	// MaxPositionJitter bounds each component of a vertex offset.
	MaxPositionJitter = 0.01

	// RestJitterSpread is the half-width of the squared-distance jitter.
	RestJitterSpread = 5.0
)

// Jitter perturbs construction values to break perfect symmetry.
type Jitter interface {
	// Offset returns a position offset with each component in (-0.01, 0.01].
	Offset() (dx, dy float64)
	// RestLength returns a squared distance within RestJitterSpread of distSq.
	RestLength(distSq float64) float64
}

// NoJitter leaves every value unchanged.
type NoJitter struct{}

func (NoJitter) Offset() (float64, float64)          { return 0, 0 }
func (NoJitter) RestLength(distSq float64) float64 { return distSq }

// RandJitter draws uniform offsets from a seeded source.
type RandJitter struct {
	rng *rand.Rand
}

func NewRandJitter(seed int64) *RandJitter {
	return &RandJitter{rng: rand.New(rand.NewSource(seed))}
}

func (j *RandJitter) Offset() (float64, float64) {
	return j.unit() * MaxPositionJitter, j.unit() * MaxPositionJitter
}

func (j *RandJitter) RestLength(distSq float64) float64 {
	return distSq + j.unit()*RestJitterSpread
}

// unit returns a value in (-1, 1].
func (j *RandJitter) unit() float64 {
	return (1-j.rng.Float64())*2 - 1
}

// NoiseJitter samples seeded simplex noise along a walk, so successive
// offsets are spatially coherent rather than independent.
type NoiseJitter struct {
	noise opensimplex.Noise
	t     float64
}

// noiseStride spaces successive samples far enough apart to decorrelate them.
const noiseStride = 0.37

func NewNoiseJitter(seed int64) *NoiseJitter {
	return &NoiseJitter{noise: opensimplex.New(seed)}
}

func (j *NoiseJitter) Offset() (float64, float64) {
	j.t += noiseStride
	dx := clampUnit(j.noise.Eval2(j.t, 0))
	dy := clampUnit(j.noise.Eval2(0, j.t))
	return dx * MaxPositionJitter, dy * MaxPositionJitter
}

func (j *NoiseJitter) RestLength(distSq float64) float64 {
	j.t += noiseStride
	return distSq + clampUnit(j.noise.Eval2(j.t, j.t))*RestJitterSpread
}

func clampUnit(x float64) float64 {
	return math.Max(math.Min(x, 1), -1)
}

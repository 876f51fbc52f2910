package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springnet/internal/dynamo"
)

const (
	DefaultTopology    = "pyramid"
	DefaultFrameMillis = 16
	DefaultMaxSteps    = 10 * 60 * 16
	DefaultN           = 6
	DefaultRadius      = 100.0
	DefaultCols        = 50
	DefaultRows        = 50
	DefaultLevels      = 6
	DefaultSpacing     = 50.0
)

// Jitter source names accepted in Config.Jitter.
const (
	JitterNone  = "none"
	JitterRand  = "rand"
	JitterNoise = "noise"
)

type Config struct {
	Topology string `yaml:"topology"`
	Shape    Shape  `yaml:"shape"`
	// Physics overrides the topology's own parameters when set.
	Physics     *dynamo.Params `yaml:"physics,omitempty"`
	Substeps    int            `yaml:"substeps"`
	FrameMillis int            `yaml:"frame_ms"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	MaxSteps    int            `yaml:"max_steps"`
	Seed        int64          `yaml:"seed"`
	Jitter      string         `yaml:"jitter"`
}

// Shape holds the size parameters of every topology; each builder reads the
// fields it needs.
type Shape struct {
	N       int     `yaml:"n" json:"n,omitempty"`
	Radius  float64 `yaml:"radius" json:"radius,omitempty"`
	Cols    int     `yaml:"cols" json:"cols,omitempty"`
	Rows    int     `yaml:"rows" json:"rows,omitempty"`
	Levels  int     `yaml:"levels" json:"levels,omitempty"`
	Spacing float64 `yaml:"spacing" json:"spacing,omitempty"`
}

func DefaultShape() Shape {
	return Shape{
		N:       DefaultN,
		Radius:  DefaultRadius,
		Cols:    DefaultCols,
		Rows:    DefaultRows,
		Levels:  DefaultLevels,
		Spacing: DefaultSpacing,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Topology:    DefaultTopology,
		Shape:       DefaultShape(),
		Substeps:    dynamo.DefaultSubsteps,
		FrameMillis: DefaultFrameMillis,
		Width:       dynamo.DefaultWidth,
		Height:      dynamo.DefaultHeight,
		MaxSteps:    DefaultMaxSteps,
		Jitter:      JitterNone,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

func (c *Config) Validate() error {
	switch c.Jitter {
	case "", JitterNone, JitterRand, JitterNoise:
	default:
		return errors.Errorf("unknown jitter source %q", c.Jitter)
	}
	if c.MaxSteps <= 0 {
		return errors.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("bounds must be positive, got %gx%g", c.Width, c.Height)
	}
	return nil
}

// JitterSource returns the seeded jitter source named by c.Jitter.
func (c *Config) JitterSource() dynamo.Jitter {
	switch c.Jitter {
	case JitterRand:
		return dynamo.NewRandJitter(c.Seed)
	case JitterNoise:
		return dynamo.NewNoiseJitter(c.Seed)
	default:
		return dynamo.NoJitter{}
	}
}

// GraphOptions translates the config into options for dynamo.New and the
// topology builders.
func (c *Config) GraphOptions() []dynamo.Option {
	j := c.JitterSource()
	opts := []dynamo.Option{
		dynamo.WithBounds(c.Width, c.Height),
		dynamo.WithSubsteps(c.Substeps),
		dynamo.WithJitter(j),
		dynamo.WithRestLengthJitter(j),
	}
	if c.Physics != nil {
		opts = append(opts, dynamo.WithParams(*c.Physics))
	}
	return opts
}

// SetPhysics overrides one physical parameter, starting from base when no
// override exists yet.
func (c *Config) SetPhysics(base dynamo.Params, set func(p *dynamo.Params)) {
	if c.Physics == nil {
		p := base
		c.Physics = &p
	}
	set(c.Physics)
}

func (c *Config) Clone() *Config {
	out := *c
	if c.Physics != nil {
		p := *c.Physics
		out.Physics = &p
	}
	return &out
}

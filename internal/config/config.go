package config

import (
	"fmt"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSize            = 5.0
	DefaultResolution      = 1.0
	DefaultMaxDistance     = 3.0
	DefaultFreePoints      = 20
	DefaultDt              = 0.1
	DefaultObstacleEpsilon = 0.5
)

type Config struct {
	Field         FieldConfig      `yaml:"field"`
	Obstacles     []Vec3           `yaml:"obstacles"`
	ObstaclesFile string           `yaml:"obstacles_file"`
	Trajectory    TrajectoryConfig `yaml:"trajectory"`
	Path          PathConfig       `yaml:"path"`
}

type FieldConfig struct {
	Size        Vec3    `yaml:"size" json:"size"`
	Resolution  float64 `yaml:"resolution" json:"resolution"`
	Origin      Vec3    `yaml:"origin" json:"origin"`
	MaxDistance float64 `yaml:"max_distance" json:"max_distance"`
}

type TrajectoryConfig struct {
	FreePoints        int       `yaml:"free_points"`
	Dt                float64   `yaml:"dt"`
	DerivativeWeights []float64 `yaml:"derivative_weights"`
	RidgeFactor       float64   `yaml:"ridge_factor"`
}

type PathConfig struct {
	Start            Vec3    `yaml:"start"`
	End              Vec3    `yaml:"end"`
	ObstacleEpsilon  float64 `yaml:"obstacle_epsilon"`
	SmoothnessWeight float64 `yaml:"smoothness_weight"`
}

// Vec3 is a point written as a three element YAML sequence.
type Vec3 [3]float64

func (v Vec3) Vector() r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func DefaultConfig() *Config {
	return &Config{
		Field: FieldConfig{
			Size:        Vec3{DefaultSize, DefaultSize, DefaultSize},
			Resolution:  DefaultResolution,
			MaxDistance: DefaultMaxDistance,
		},
		Trajectory: TrajectoryConfig{
			FreePoints:        DefaultFreePoints,
			Dt:                DefaultDt,
			DerivativeWeights: []float64{0, 1, 0},
		},
		Path: PathConfig{
			Start:            Vec3{0.5, 0.5, 0.5},
			End:              Vec3{DefaultSize - 0.5, DefaultSize - 0.5, DefaultSize - 0.5},
			ObstacleEpsilon:  DefaultObstacleEpsilon,
			SmoothnessWeight: 1.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid setting at once. Non-positive max_distance
// is allowed and disables propagation.
func (c *Config) Validate() error {
	var errs error
	for i, s := range c.Field.Size {
		if !(s > 0) {
			errs = multierr.Append(errs, fmt.Errorf("field.size[%d] must be positive, got %v", i, s))
		}
	}
	if !(c.Field.Resolution > 0) {
		errs = multierr.Append(errs, fmt.Errorf("field.resolution must be positive, got %v", c.Field.Resolution))
	}
	if math.IsNaN(c.Field.MaxDistance) || math.IsInf(c.Field.MaxDistance, 0) {
		errs = multierr.Append(errs, fmt.Errorf("field.max_distance must be finite, got %v", c.Field.MaxDistance))
	}
	if c.Trajectory.FreePoints < 1 {
		errs = multierr.Append(errs, fmt.Errorf("trajectory.free_points must be at least 1, got %d", c.Trajectory.FreePoints))
	}
	if !(c.Trajectory.Dt > 0) {
		errs = multierr.Append(errs, fmt.Errorf("trajectory.dt must be positive, got %v", c.Trajectory.Dt))
	}
	if n := len(c.Trajectory.DerivativeWeights); n == 0 || n > 3 {
		errs = multierr.Append(errs, fmt.Errorf("trajectory.derivative_weights needs 1 to 3 entries, got %d", n))
	}
	for i, w := range c.Trajectory.DerivativeWeights {
		if !(w >= 0) {
			errs = multierr.Append(errs, fmt.Errorf("trajectory.derivative_weights[%d] must be non-negative, got %v", i, w))
		}
	}
	if !(c.Trajectory.RidgeFactor >= 0) {
		errs = multierr.Append(errs, fmt.Errorf("trajectory.ridge_factor must be non-negative, got %v", c.Trajectory.RidgeFactor))
	}
	if !(c.Path.ObstacleEpsilon > 0) {
		errs = multierr.Append(errs, fmt.Errorf("path.obstacle_epsilon must be positive, got %v", c.Path.ObstacleEpsilon))
	}
	if !(c.Path.SmoothnessWeight >= 0) {
		errs = multierr.Append(errs, fmt.Errorf("path.smoothness_weight must be non-negative, got %v", c.Path.SmoothnessWeight))
	}
	return errs
}

// ObstaclePoints returns the inline obstacles as vectors.
func (c *Config) ObstaclePoints() []r3.Vector {
	pts := make([]r3.Vector, len(c.Obstacles))
	for i, o := range c.Obstacles {
		pts[i] = o.Vector()
	}
	return pts
}

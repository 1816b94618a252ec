package metrics

import (
	"github.com/san-kum/chompkit/internal/distfield"
	"github.com/san-kum/chompkit/internal/voxel"
)

type ObstacleCount struct {
	name  string
	count int
}

func NewObstacleCount() *ObstacleCount {
	return &ObstacleCount{name: "obstacles"}
}

func (o *ObstacleCount) Name() string { return o.name }

func (o *ObstacleCount) Observe(c voxel.Coord, v distfield.Voxel, d float64) {
	if closest, ok := v.Closest(); ok && v.DistanceSq() == 0 && closest == c {
		o.count++
	}
}

func (o *ObstacleCount) Value() float64 { return float64(o.count) }

func (o *ObstacleCount) Reset() { o.count = 0 }

// Reached counts voxels that some wavefront has touched.
type Reached struct {
	name  string
	count int
}

func NewReached() *Reached {
	return &Reached{name: "reached"}
}

func (r *Reached) Name() string { return r.name }

func (r *Reached) Observe(c voxel.Coord, v distfield.Voxel, d float64) {
	if _, ok := v.Closest(); ok {
		r.count++
	}
}

func (r *Reached) Value() float64 { return float64(r.count) }

func (r *Reached) Reset() { r.count = 0 }

// Coverage is the fraction of voxels that have a closest obstacle.
type Coverage struct {
	name    string
	reached int
	samples int
}

func NewCoverage() *Coverage {
	return &Coverage{name: "coverage"}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(_ voxel.Coord, v distfield.Voxel, d float64) {
	c.samples++
	if _, ok := v.Closest(); ok {
		c.reached++
	}
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.reached) / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.reached = 0
	c.samples = 0
}

// MeanDistance averages the world distance over reached voxels.
type MeanDistance struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDistance() *MeanDistance {
	return &MeanDistance{name: "mean_distance"}
}

func (m *MeanDistance) Name() string { return m.name }

func (m *MeanDistance) Observe(c voxel.Coord, v distfield.Voxel, d float64) {
	if _, ok := v.Closest(); !ok {
		return
	}
	m.sum += d
	m.samples++
}

func (m *MeanDistance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanDistance) Reset() {
	m.sum = 0
	m.samples = 0
}

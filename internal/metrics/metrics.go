// Package metrics summarizes a distance field voxel by voxel.
package metrics

import (
	"github.com/san-kum/chompkit/internal/distfield"
	"github.com/san-kum/chompkit/internal/voxel"
)

// Metric accumulates a statistic over observed voxels. d is the world
// distance of v.
type Metric interface {
	Name() string
	Observe(c voxel.Coord, v distfield.Voxel, d float64)
	Value() float64
	Reset()
}

// Default returns the standard field metrics.
func Default() []Metric {
	return []Metric{
		NewObstacleCount(),
		NewReached(),
		NewCoverage(),
		NewMeanDistance(),
	}
}

// Collect resets ms, walks every voxel of f and returns the values by name.
func Collect(f *distfield.Field, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	f.Walk(func(c voxel.Coord, v distfield.Voxel) {
		d, _ := f.DistanceFromCell(c)
		for _, m := range ms {
			m.Observe(c, v, d)
		}
	})
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

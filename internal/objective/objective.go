// Package objective scores a 3-D waypoint path by combining the quadratic
// smoothness cost of each axis with the obstacle cost of the free waypoints.
package objective

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/chompkit/internal/scene"
	"github.com/san-kum/chompkit/internal/trajcost"
)

var ErrPathLength = errors.New("objective: path length does not match cost model")

type Breakdown struct {
	Smoothness float64   `json:"smoothness"`
	Obstacle   float64   `json:"obstacle"`
	Total      float64   `json:"total"`
	Waypoints  []float64 `json:"waypoints"`
}

type Objective struct {
	model            *trajcost.CostModel
	scene            *scene.Scene
	epsilon          float64
	smoothnessWeight float64
}

func New(model *trajcost.CostModel, sc *scene.Scene, epsilon, smoothnessWeight float64) (*Objective, error) {
	var errs error
	if model == nil {
		errs = multierr.Append(errs, errors.New("objective: nil cost model"))
	}
	if sc == nil {
		errs = multierr.Append(errs, errors.New("objective: nil scene"))
	}
	if !(epsilon > 0) || math.IsInf(epsilon, 0) {
		errs = multierr.Append(errs, errors.Wrapf(scene.ErrInvalidEpsilon, "%v", epsilon))
	}
	if !(smoothnessWeight >= 0) || math.IsInf(smoothnessWeight, 0) {
		errs = multierr.Append(errs, errors.Errorf("objective: smoothness weight must be non-negative, got %v", smoothnessWeight))
	}
	if errs != nil {
		return nil, errs
	}
	return &Objective{model: model, scene: sc, epsilon: epsilon, smoothnessWeight: smoothnessWeight}, nil
}

// StraightLine returns a path of model.NumPoints() waypoints whose padding
// sits on start and end and whose free points are evenly spaced between.
func (o *Objective) StraightLine(start, end r3.Vector) []r3.Vector {
	n := o.model.NumPoints()
	axes := [3]*trajcost.Trajectory{}
	from := [3]float64{start.X, start.Y, start.Z}
	to := [3]float64{end.X, end.Y, end.Z}
	for k := range axes {
		axes[k] = &trajcost.Trajectory{Points: make([]float64, n), Dt: o.model.Discretization()}
		axes[k].FillLinear(from[k], to[k])
	}
	path := make([]r3.Vector, n)
	for i := range path {
		path[i] = r3.Vector{X: axes[0].Points[i], Y: axes[1].Points[i], Z: axes[2].Points[i]}
	}
	return path
}

// Evaluate scores path. Padding waypoints contribute to smoothness only.
func (o *Objective) Evaluate(ctx context.Context, path []r3.Vector) (*Breakdown, error) {
	if len(path) != o.model.NumPoints() {
		return nil, errors.Wrapf(ErrPathLength, "got %d waypoints, want %d", len(path), o.model.NumPoints())
	}

	smooth := 0.0
	for k := 0; k < 3; k++ {
		c, err := o.model.FullCost(Axis(path, k))
		if err != nil {
			return nil, err
		}
		smooth += c
	}

	free := path[trajcost.Padding : len(path)-trajcost.Padding]
	costs, err := o.scene.WaypointCosts(ctx, free, o.epsilon)
	if err != nil {
		return nil, err
	}
	obstacle := 0.0
	for _, c := range costs {
		obstacle += c
	}

	return &Breakdown{
		Smoothness: smooth,
		Obstacle:   obstacle,
		Total:      o.smoothnessWeight*smooth + obstacle,
		Waypoints:  costs,
	}, nil
}

// Axis extracts coordinate k (0=x, 1=y, 2=z) of every waypoint.
func Axis(path []r3.Vector, k int) []float64 {
	out := make([]float64, len(path))
	for i, p := range path {
		switch k {
		case 0:
			out[i] = p.X
		case 1:
			out[i] = p.Y
		default:
			out[i] = p.Z
		}
	}
	return out
}

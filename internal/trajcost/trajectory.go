package trajcost

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Trajectory is a sequence of waypoints for one scalar variable sampled every
// Dt. The first and last Padding points are fixed boundary points.
type Trajectory struct {
	Points []float64
	Dt     float64
}

// NewTrajectory allocates a zeroed trajectory with freePoints free points.
func NewTrajectory(freePoints int, dt float64) (*Trajectory, error) {
	if freePoints < 1 {
		return nil, errors.Wrapf(ErrTooFewPoints, "got %d free points", freePoints)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, errors.Wrapf(ErrInvalidDiscretization, "dt=%v", dt)
	}
	return &Trajectory{
		Points: make([]float64, freePoints+2*Padding),
		Dt:     dt,
	}, nil
}

// NumPoints returns the total number of points, padding included.
func (t *Trajectory) NumPoints() int { return len(t.Points) }

// NumFree returns the number of free points.
func (t *Trajectory) NumFree() int { return len(t.Points) - 2*Padding }

// Free returns the free points as a slice sharing storage with Points.
func (t *Trajectory) Free() []float64 {
	return t.Points[Padding : len(t.Points)-Padding]
}

// FreeVector returns the free points as a vector sharing storage with Points.
func (t *Trajectory) FreeVector() *mat.VecDense {
	return mat.NewVecDense(t.NumFree(), t.Free())
}

// FillLinear pins the start padding to start and the end padding to end, and
// interpolates the free points linearly between them.
func (t *Trajectory) FillLinear(start, end float64) {
	n := len(t.Points)
	for i := 0; i < Padding; i++ {
		t.Points[i] = start
		t.Points[n-1-i] = end
	}
	first, last := Padding-1, n-Padding
	span := float64(last - first)
	for i := Padding; i < n-Padding; i++ {
		frac := float64(i-first) / span
		t.Points[i] = start + frac*(end-start)
	}
}

// Model builds a CostModel matching this trajectory's length and dt.
func (t *Trajectory) Model(weights []float64, opts ...Option) (*CostModel, error) {
	return NewCostModel(t.NumPoints(), t.Dt, weights, opts...)
}

package trajcost

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CostModel holds the precomputed quadratic smoothness cost of a trajectory.
type CostModel struct {
	numPoints int
	dt        float64
	weights   []float64
	ridge     float64

	full    *mat.SymDense
	free    *mat.SymDense
	inverse *mat.SymDense
}

// Option configures optional parts of a CostModel.
type Option func(*options)

type options struct {
	ridge float64
}

// WithRidge adds ridge*I to the full cost matrix before the free block is
// extracted. A small ridge keeps the free block invertible for weight sets
// that are otherwise degenerate.
func WithRidge(ridge float64) Option {
	return func(o *options) { o.ridge = ridge }
}

// NewCostModel builds Q_full, Q_free and Q_free⁻¹ for a trajectory of
// numPoints points sampled every dt. weights[d-1] scales the d-th derivative.
func NewCostModel(numPoints int, dt float64, weights []float64, opts ...Option) (*CostModel, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, errors.Wrapf(ErrInvalidDiscretization, "dt=%v", dt)
	}
	if numPoints < MinPoints() {
		return nil, errors.Wrapf(ErrTooFewPoints, "got %d points, need at least %d", numPoints, MinPoints())
	}
	if len(weights) == 0 || len(weights) > MaxDerivativeOrder {
		return nil, errors.Wrapf(ErrInvalidWeights, "got %d weights, want 1..%d", len(weights), MaxDerivativeOrder)
	}
	for i, w := range weights {
		if !(w >= 0) || math.IsInf(w, 0) {
			return nil, errors.Wrapf(ErrInvalidWeights, "weight for derivative %d is %v", i+1, w)
		}
	}
	if !(o.ridge >= 0) || math.IsInf(o.ridge, 0) {
		return nil, errors.Wrapf(ErrInvalidWeights, "ridge factor %v", o.ridge)
	}

	m := &CostModel{
		numPoints: numPoints,
		dt:        dt,
		weights:   append([]float64(nil), weights...),
		ridge:     o.ridge,
	}

	m.full = mat.NewSymDense(numPoints, nil)
	multiplier := 1.0
	for i, w := range weights {
		multiplier *= dt
		if w == 0 {
			continue
		}
		term := mat.NewSymDense(numPoints, nil)
		term.SymOuterK(w*multiplier, DiffMatrix(numPoints, i+1).T())
		m.full.AddSym(m.full, term)
	}
	if o.ridge > 0 {
		for i := 0; i < numPoints; i++ {
			m.full.SetSym(i, i, m.full.At(i, i)+o.ridge)
		}
	}

	numFree := numPoints - 2*Padding
	m.free = mat.NewSymDense(numFree, nil)
	m.free.CopySym(m.full.SliceSym(Padding, Padding+numFree))

	var chol mat.Cholesky
	if ok := chol.Factorize(m.free); !ok {
		return nil, errors.Wrapf(ErrSingular, "%d free points, dt=%v, weights=%v, ridge=%v", numFree, dt, weights, o.ridge)
	}
	m.inverse = mat.NewSymDense(numFree, nil)
	if err := chol.InverseTo(m.inverse); err != nil {
		return nil, errors.Wrapf(ErrSingular, "%v (%d free points, weights=%v)", err, numFree, weights)
	}

	return m, nil
}

// MinPoints is the smallest trajectory length a CostModel accepts.
func MinPoints() int {
	return 2*Padding + 1
}

// NumPoints returns the total number of trajectory points, padding included.
func (m *CostModel) NumPoints() int { return m.numPoints }

// NumFree returns the number of free points.
func (m *CostModel) NumFree() int { return m.numPoints - 2*Padding }

// Discretization returns dt.
func (m *CostModel) Discretization() float64 { return m.dt }

// Weights returns a copy of the derivative weights.
func (m *CostModel) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// QuadraticCostFull returns Q_full. Callers must not modify it.
func (m *CostModel) QuadraticCostFull() mat.Symmetric { return m.full }

// QuadraticCostFree returns Q_free. Callers must not modify it.
func (m *CostModel) QuadraticCostFree() mat.Symmetric { return m.free }

// QuadraticCostInverse returns Q_free⁻¹. Callers must not modify it.
func (m *CostModel) QuadraticCostInverse() mat.Symmetric { return m.inverse }

// Cost returns xᵀ Q_free x for a free-variable vector x.
func (m *CostModel) Cost(x mat.Vector) (float64, error) {
	if x.Len() != m.NumFree() {
		return 0, errors.Wrapf(ErrDimensionMismatch, "vector has %d entries, want %d", x.Len(), m.NumFree())
	}
	return mat.Inner(x, m.free, x), nil
}

// FullCost returns pᵀ Q_full p over every trajectory point.
func (m *CostModel) FullCost(points []float64) (float64, error) {
	if len(points) != m.numPoints {
		return 0, errors.Wrapf(ErrDimensionMismatch, "trajectory has %d points, want %d", len(points), m.numPoints)
	}
	p := mat.NewVecDense(len(points), points)
	return mat.Inner(p, m.full, p), nil
}

// Gradient returns 2 Q_free x.
func (m *CostModel) Gradient(x mat.Vector) (*mat.VecDense, error) {
	if x.Len() != m.NumFree() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "vector has %d entries, want %d", x.Len(), m.NumFree())
	}
	g := mat.NewVecDense(m.NumFree(), nil)
	g.MulVec(m.free, x)
	g.ScaleVec(2, g)
	return g, nil
}

// Smooth returns Q_free⁻¹ g, the covariant update direction for gradient g.
func (m *CostModel) Smooth(g mat.Vector) (*mat.VecDense, error) {
	if g.Len() != m.NumFree() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "vector has %d entries, want %d", g.Len(), m.NumFree())
	}
	out := mat.NewVecDense(m.NumFree(), nil)
	out.MulVec(m.inverse, g)
	return out, nil
}

// MaxInverseValue returns the largest coefficient of Q_free⁻¹.
func (m *CostModel) MaxInverseValue() float64 {
	n := m.inverse.SymmetricDim()
	best := math.Inf(-1)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if v := m.inverse.At(i, j); v > best {
				best = v
			}
		}
	}
	return best
}

// Scale returns a model whose cost matrices are multiplied by s and whose
// inverse is divided by s.
func (m *CostModel) Scale(s float64) (*CostModel, error) {
	if !(s > 0) || math.IsInf(s, 0) {
		return nil, errors.Errorf("trajcost: scale must be positive, got %v", s)
	}
	out := &CostModel{
		numPoints: m.numPoints,
		dt:        m.dt,
		weights:   make([]float64, len(m.weights)),
		ridge:     m.ridge * s,
		full:      mat.NewSymDense(m.full.SymmetricDim(), nil),
		free:      mat.NewSymDense(m.free.SymmetricDim(), nil),
		inverse:   mat.NewSymDense(m.inverse.SymmetricDim(), nil),
	}
	for i, w := range m.weights {
		out.weights[i] = w * s
	}
	out.full.ScaleSym(s, m.full)
	out.free.ScaleSym(s, m.free)
	out.inverse.ScaleSym(1/s, m.inverse)
	return out, nil
}

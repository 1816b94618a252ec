// Package trajcost builds the quadratic smoothness cost used by covariant
// trajectory optimization.
//
// A trajectory of one scalar variable is sampled at a fixed interval dt and
// padded on both ends with [Padding] fixed points. For each derivative order
// d in 1..3 the package builds a finite-difference matrix D_d from a fixed
// 7-tap stencil and accumulates
//
//	Q_full = sum_d w_d * dt^d * D_dᵀ D_d
//
// The block of Q_full over the free (non-padding) points, Q_free, is the
// quadratic form an optimizer minimizes, and its inverse is the smoothing
// operator applied to gradient steps:
//
//	model, err := trajcost.NewCostModel(n, dt, []float64{0, 1, 0})
//	step := model.Smooth(grad)
//
// # Thread Safety
//
// A [CostModel] is immutable once constructed and may be shared by any
// number of goroutines.
package trajcost

package trajcost

import "gonum.org/v1/gonum/mat"

const (
	// RuleLength is the number of taps in every differentiation rule.
	RuleLength = 7

	// HalfWidth is the stencil half-width K; a rule spans 2K-1 points.
	HalfWidth = (RuleLength + 1) / 2

	// Padding is the number of fixed boundary points on each end of a trajectory.
	Padding = HalfWidth - 1

	// MaxDerivativeOrder is the highest derivative the rule table covers.
	MaxDerivativeOrder = 3
)

// diffRules[d-1] approximates the d-th derivative. Rows are centered on tap 3.
var diffRules = [MaxDerivativeOrder][RuleLength]float64{
	{0, 0, -2 / 6.0, -3 / 6.0, 6 / 6.0, -1 / 6.0, 0},
	{0, -1 / 12.0, 16 / 12.0, -30 / 12.0, 16 / 12.0, -1 / 12.0, 0},
	{0, 1 / 12.0, -17 / 12.0, 46 / 12.0, -46 / 12.0, 17 / 12.0, -1 / 12.0},
}

// DiffRule returns a copy of the stencil for the given derivative order.
func DiffRule(order int) ([RuleLength]float64, bool) {
	if order < 1 || order > MaxDerivativeOrder {
		return [RuleLength]float64{}, false
	}
	return diffRules[order-1], true
}

// DiffMatrix returns the size×size matrix whose row i applies the stencil of
// the given order centered at point i. Taps that fall outside [0, size) are
// dropped and the remaining taps are not renormalized. It panics on an order
// outside 1..MaxDerivativeOrder.
func DiffMatrix(size, order int) *mat.Dense {
	rule, ok := DiffRule(order)
	if !ok {
		panic("trajcost: derivative order out of range")
	}
	half := RuleLength / 2
	d := mat.NewDense(size, size, nil)
	for i := 0; i < size; i++ {
		for j := -half; j <= half; j++ {
			idx := i + j
			if idx < 0 || idx >= size {
				continue
			}
			d.Set(i, idx, rule[j+half])
		}
	}
	return d
}

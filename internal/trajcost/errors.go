package trajcost

import "errors"

var (
	// ErrInvalidDiscretization indicates a non-positive or non-finite dt.
	ErrInvalidDiscretization = errors.New("trajcost: discretization must be positive")

	// ErrTooFewPoints indicates the trajectory cannot hold both boundary paddings
	// and at least one free point.
	ErrTooFewPoints = errors.New("trajcost: too few trajectory points for stencil width")

	// ErrInvalidWeights indicates an empty, oversized, negative or non-finite
	// derivative weight list.
	ErrInvalidWeights = errors.New("trajcost: invalid derivative weights")

	// ErrSingular indicates the free-variable cost block could not be inverted.
	ErrSingular = errors.New("trajcost: free-variable cost matrix is singular")

	// ErrDimensionMismatch indicates a vector whose length does not match the model.
	ErrDimensionMismatch = errors.New("trajcost: dimension mismatch")
)

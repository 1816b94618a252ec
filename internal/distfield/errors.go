package distfield

import "errors"

var (
	// ErrOutOfBounds indicates a query outside the grid, or too close to its
	// edge for a finite-difference gradient.
	ErrOutOfBounds = errors.New("distfield: query outside grid bounds")

	// ErrNoObstacle indicates a voxel that no obstacle's wavefront reached.
	ErrNoObstacle = errors.New("distfield: voxel has no nearest obstacle")

	// ErrInvalidMaxDistance indicates a NaN, infinite or unrepresentably
	// large propagation radius.
	ErrInvalidMaxDistance = errors.New("distfield: invalid max distance")
)

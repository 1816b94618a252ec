package scene

import "errors"

var (
	ErrInvalidEpsilon = errors.New("scene: obstacle epsilon must be positive")
	ErrEmptyPath      = errors.New("scene: path has no waypoints")
)

package distfield

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/chompkit/internal/voxel"
)

// Voxel returns the voxel at c.
func (f *Field) Voxel(c voxel.Coord) (Voxel, error) {
	if !f.grid.IsCellValid(c) {
		return Voxel{}, errors.Wrapf(ErrOutOfBounds, "cell %v", c)
	}
	return *f.grid.Cell(c), nil
}

// DistanceSqFromCell returns the squared cell distance stored at c.
func (f *Field) DistanceSqFromCell(c voxel.Coord) (int, error) {
	v, err := f.Voxel(c)
	if err != nil {
		return f.maxDistSq, err
	}
	return v.DistanceSq(), nil
}

// DistanceFromCell returns the world distance from c to its nearest obstacle.
func (f *Field) DistanceFromCell(c voxel.Coord) (float64, error) {
	d, err := f.DistanceSqFromCell(c)
	return f.cellDistance(d), err
}

// Distance returns the world distance from the cell containing p to its
// nearest obstacle. Out of bounds it returns the sentinel distance and
// ErrOutOfBounds.
func (f *Field) Distance(p r3.Vector) (float64, error) {
	c, ok := f.grid.WorldToGrid(p)
	if !ok {
		return f.SentinelDistance(), errors.Wrapf(ErrOutOfBounds, "point %v", p)
	}
	return f.DistanceFromCell(c)
}

// IsObstacle reports whether c was inserted as an obstacle.
func (f *Field) IsObstacle(c voxel.Coord) bool {
	v, err := f.Voxel(c)
	return err == nil && v.distSq == 0 && v.closest == c
}

// ClosestObstacleCell returns the cell of the obstacle nearest to c.
func (f *Field) ClosestObstacleCell(c voxel.Coord) (voxel.Coord, error) {
	v, err := f.Voxel(c)
	if err != nil {
		return uninitialized, err
	}
	closest, ok := v.Closest()
	if !ok {
		return uninitialized, errors.Wrapf(ErrNoObstacle, "cell %v", c)
	}
	return closest, nil
}

// ClosestObstacle returns the world position of the obstacle cell nearest to p.
func (f *Field) ClosestObstacle(p r3.Vector) (r3.Vector, error) {
	c, ok := f.grid.WorldToGrid(p)
	if !ok {
		return r3.Vector{}, errors.Wrapf(ErrOutOfBounds, "point %v", p)
	}
	closest, err := f.ClosestObstacleCell(c)
	if err != nil {
		return r3.Vector{}, err
	}
	return f.grid.GridToWorld(closest), nil
}

// Gradient returns the distance at p and its central-difference gradient.
// The cell containing p needs a neighbor on every side; otherwise the
// sentinel distance, a zero gradient and ErrOutOfBounds are returned.
func (f *Field) Gradient(p r3.Vector) (float64, r3.Vector, error) {
	c, _ := f.grid.WorldToGrid(p)
	nx, ny, nz := f.grid.NumCells()
	if c.X < 1 || c.Y < 1 || c.Z < 1 || c.X >= nx-1 || c.Y >= ny-1 || c.Z >= nz-1 {
		return f.SentinelDistance(), r3.Vector{}, errors.Wrapf(ErrOutOfBounds, "gradient at %v", p)
	}

	at := func(dx, dy, dz int) float64 {
		return f.cellDistance(int(f.grid.Cell(voxel.Coord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}).distSq))
	}
	invTwiceRes := 1 / (2 * f.grid.Resolution())
	grad := r3.Vector{
		X: (at(1, 0, 0) - at(-1, 0, 0)) * invTwiceRes,
		Y: (at(0, 1, 0) - at(0, -1, 0)) * invTwiceRes,
		Z: (at(0, 0, 1) - at(0, 0, -1)) * invTwiceRes,
	}
	return at(0, 0, 0), grad, nil
}

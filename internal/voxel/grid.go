// Package voxel provides a dense, fixed-resolution, axis-aligned 3-D grid.
//
// Cells live in one flat slice addressed by Index, so neighbors are reached
// by arithmetic on coordinates rather than pointers. Cell (0,0,0) is centered
// on the grid origin.
package voxel

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrInvalidGrid indicates non-positive extents or resolution.
var ErrInvalidGrid = errors.New("voxel: invalid grid dimensions")

// Coord is an integer cell coordinate.
type Coord struct {
	X, Y, Z int
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// DistSq returns the squared Euclidean distance between two cells in cell units.
func (c Coord) DistSq(o Coord) int {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Grid is a dense grid of T.
type Grid[T any] struct {
	cells      []T
	size       r3.Vector
	resolution float64
	origin     r3.Vector
	numCells   [3]int
	strideX    int
	strideY    int
}

// New allocates a grid spanning size (in world units) at the given resolution,
// with every cell set to def.
func New[T any](sizeX, sizeY, sizeZ, resolution float64, origin r3.Vector, def T) (*Grid[T], error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return nil, errors.Wrapf(ErrInvalidGrid, "resolution %v", resolution)
	}
	size := r3.Vector{X: sizeX, Y: sizeY, Z: sizeZ}
	n := [3]int{}
	for i, s := range []float64{sizeX, sizeY, sizeZ} {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, errors.Wrapf(ErrInvalidGrid, "size %v along axis %d", s, i)
		}
		n[i] = int(s / resolution)
		if n[i] < 1 {
			return nil, errors.Wrapf(ErrInvalidGrid, "size %v along axis %d is smaller than resolution %v", s, i, resolution)
		}
	}

	g := &Grid[T]{
		cells:      make([]T, n[0]*n[1]*n[2]),
		size:       size,
		resolution: resolution,
		origin:     origin,
		numCells:   n,
		strideX:    n[1] * n[2],
		strideY:    n[2],
	}
	g.Reset(def)
	return g, nil
}

// Reset sets every cell to def.
func (g *Grid[T]) Reset(def T) {
	for i := range g.cells {
		g.cells[i] = def
	}
}

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.cells) }

// NumCells returns the cell count along each axis.
func (g *Grid[T]) NumCells() (int, int, int) {
	return g.numCells[0], g.numCells[1], g.numCells[2]
}

// Size returns the world extents passed to New.
func (g *Grid[T]) Size() r3.Vector { return g.size }

// Resolution returns the cell edge length.
func (g *Grid[T]) Resolution() float64 { return g.resolution }

// Origin returns the world position of cell (0,0,0).
func (g *Grid[T]) Origin() r3.Vector { return g.origin }

// IsCellValid reports whether c lies inside the grid.
func (g *Grid[T]) IsCellValid(c Coord) bool {
	return c.X >= 0 && c.X < g.numCells[0] &&
		c.Y >= 0 && c.Y < g.numCells[1] &&
		c.Z >= 0 && c.Z < g.numCells[2]
}

// Index returns the flat index of c. c must be valid.
func (g *Grid[T]) Index(c Coord) int {
	return c.X*g.strideX + c.Y*g.strideY + c.Z
}

// CoordOf is the inverse of Index.
func (g *Grid[T]) CoordOf(idx int) Coord {
	x := idx / g.strideX
	rem := idx - x*g.strideX
	y := rem / g.strideY
	return Coord{X: x, Y: y, Z: rem - y*g.strideY}
}

// Cell returns a pointer to the cell at c. c must be valid.
func (g *Grid[T]) Cell(c Coord) *T {
	return &g.cells[g.Index(c)]
}

// At returns a pointer to the cell at a flat index.
func (g *Grid[T]) At(idx int) *T {
	return &g.cells[idx]
}

// WorldToGrid maps a world point to the nearest cell. ok is false when the
// cell falls outside the grid; the coordinate is still returned.
func (g *Grid[T]) WorldToGrid(p r3.Vector) (Coord, bool) {
	c := Coord{
		X: g.cellFromLocation(p.X, g.origin.X),
		Y: g.cellFromLocation(p.Y, g.origin.Y),
		Z: g.cellFromLocation(p.Z, g.origin.Z),
	}
	return c, g.IsCellValid(c)
}

// GridToWorld returns the world position of a cell center.
func (g *Grid[T]) GridToWorld(c Coord) r3.Vector {
	return r3.Vector{
		X: g.origin.X + g.resolution*float64(c.X),
		Y: g.origin.Y + g.resolution*float64(c.Y),
		Z: g.origin.Z + g.resolution*float64(c.Z),
	}
}

// Get returns the cell containing p.
func (g *Grid[T]) Get(p r3.Vector) (T, bool) {
	c, ok := g.WorldToGrid(p)
	if !ok {
		var zero T
		return zero, false
	}
	return g.cells[g.Index(c)], true
}

// cellFromLocation returns -1 for locations that cannot map to any cell.
func (g *Grid[T]) cellFromLocation(loc, origin float64) int {
	f := math.Round((loc - origin) / g.resolution)
	if math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return -1
	}
	return int(f)
}

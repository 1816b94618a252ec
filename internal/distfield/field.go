package distfield

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/chompkit/internal/voxel"
)

// maxDistanceCells keeps max_distance_sq inside int32.
const maxDistanceCells = 46340

var uninitialized = voxel.Coord{X: -1, Y: -1, Z: -1}

// Voxel is one cell of a Field.
type Voxel struct {
	distSq  int32
	closest voxel.Coord
	dir     int8
}

// DistanceSq returns the squared distance to the nearest obstacle in cell units.
func (v Voxel) DistanceSq() int { return int(v.distSq) }

// Closest returns the cell of the nearest obstacle. ok is false when no
// wavefront has reached the voxel.
func (v Voxel) Closest() (voxel.Coord, bool) {
	return v.closest, v.closest != uninitialized
}

// Direction returns the update-direction tag in [0, 27).
func (v Voxel) Direction() int { return int(v.dir) }

// Field is a propagation distance field.
type Field struct {
	grid        *voxel.Grid[Voxel]
	maxDistance float64
	maxDistSq   int
	sqrtTable   []float64
	buckets     [][]int32
}

// New builds a field covering size (world units) starting at origin, with
// cubic cells of edge resolution. maxDistance bounds how far obstacle
// influence is propagated; values <= 0 disable propagation entirely.
func New(sizeX, sizeY, sizeZ, resolution, originX, originY, originZ, maxDistance float64) (*Field, error) {
	if math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) {
		return nil, errors.Wrapf(ErrInvalidMaxDistance, "%v", maxDistance)
	}

	maxCells := 0
	if maxDistance > 0 && resolution > 0 {
		c := math.Ceil(maxDistance / resolution)
		if c > maxDistanceCells {
			return nil, errors.Wrapf(ErrInvalidMaxDistance, "%v is %v cells, limit %d", maxDistance, c, maxDistanceCells)
		}
		maxCells = int(c)
	}

	origin := r3.Vector{X: originX, Y: originY, Z: originZ}
	grid, err := voxel.New(sizeX, sizeY, sizeZ, resolution, origin, Voxel{})
	if err != nil {
		return nil, err
	}

	f := &Field{
		grid:        grid,
		maxDistance: maxDistance,
		maxDistSq:   maxCells * maxCells,
	}

	// No pair of cells is farther apart than the grid diagonal, so buckets
	// past it would never be filled.
	nx, ny, nz := grid.NumCells()
	diagSq := (nx-1)*(nx-1) + (ny-1)*(ny-1) + (nz-1)*(nz-1)
	numBuckets := min(f.maxDistSq, diagSq) + 1

	f.buckets = make([][]int32, numBuckets)
	f.sqrtTable = make([]float64, numBuckets)
	for i := range f.sqrtTable {
		f.sqrtTable[i] = math.Sqrt(float64(i)) * resolution
	}

	f.Reset()
	return f, nil
}

// Reset returns every voxel to the sentinel state. The grid is not resized.
func (f *Field) Reset() {
	f.grid.Reset(Voxel{
		distSq:  int32(f.maxDistSq),
		closest: uninitialized,
	})
	for i := range f.buckets {
		f.buckets[i] = f.buckets[i][:0]
	}
}

// AddPoints marks every in-bounds point as an obstacle and propagates the new
// distances. Points outside the grid are ignored. It returns the number of
// voxels that became obstacles.
func (f *Field) AddPoints(points []r3.Vector) int {
	seeded := 0
	for _, p := range points {
		c, ok := f.grid.WorldToGrid(p)
		if !ok {
			continue
		}
		v := f.grid.Cell(c)
		if v.distSq == 0 && v.closest == c {
			continue
		}
		v.distSq = 0
		v.closest = c
		v.dir = selfDirection
		f.buckets[0] = append(f.buckets[0], int32(f.grid.Index(c)))
		seeded++
	}
	if seeded > 0 {
		f.propagate()
	}
	return seeded
}

func (f *Field) propagate() {
	for i := 0; i < len(f.buckets); i++ {
		hood := 1
		if i == 0 {
			hood = 0
		}
		// buckets[i] may grow while it is drained
		for j := 0; j < len(f.buckets[i]); j++ {
			idx := int(f.buckets[i][j])
			cur := *f.grid.At(idx)
			loc := f.grid.CoordOf(idx)

			for _, d := range neighborhoods[hood][cur.dir] {
				n := loc.Add(d)
				if !f.grid.IsCellValid(n) {
					continue
				}
				distSq := cur.closest.DistSq(n)
				if distSq > f.maxDistSq {
					continue
				}
				nv := f.grid.Cell(n)
				if distSq >= int(nv.distSq) {
					continue
				}
				nv.distSq = int32(distSq)
				nv.closest = cur.closest
				nv.dir = int8(directionNumber(d.X, d.Y, d.Z))

				b := max(distSq, i)
				f.buckets[b] = append(f.buckets[b], int32(f.grid.Index(n)))
			}
		}
		f.buckets[i] = f.buckets[i][:0]
	}
}

// MaxDistance returns the configured propagation radius.
func (f *Field) MaxDistance() float64 { return f.maxDistance }

// MaxDistanceSq returns the sentinel squared distance in cell units.
func (f *Field) MaxDistanceSq() int { return f.maxDistSq }

// SentinelDistance is the world distance reported for unreached voxels.
func (f *Field) SentinelDistance() float64 { return f.cellDistance(f.maxDistSq) }

// Resolution returns the cell edge length.
func (f *Field) Resolution() float64 { return f.grid.Resolution() }

// Origin returns the world position of cell (0,0,0).
func (f *Field) Origin() r3.Vector { return f.grid.Origin() }

// Size returns the world extents of the field.
func (f *Field) Size() r3.Vector { return f.grid.Size() }

// NumCells returns the cell count along each axis.
func (f *Field) NumCells() (int, int, int) { return f.grid.NumCells() }

// WorldToGrid maps a world point to its cell.
func (f *Field) WorldToGrid(p r3.Vector) (voxel.Coord, bool) { return f.grid.WorldToGrid(p) }

// GridToWorld returns the world position of a cell center.
func (f *Field) GridToWorld(c voxel.Coord) r3.Vector { return f.grid.GridToWorld(c) }

// Walk calls fn for every voxel in index order.
func (f *Field) Walk(fn func(c voxel.Coord, v Voxel)) {
	for i := 0; i < f.grid.Len(); i++ {
		fn(f.grid.CoordOf(i), *f.grid.At(i))
	}
}

// DistancesSq returns a copy of every voxel's squared distance in index order.
func (f *Field) DistancesSq() []int32 {
	out := make([]int32, f.grid.Len())
	for i := range out {
		out[i] = f.grid.At(i).distSq
	}
	return out
}

func (f *Field) cellDistance(distSq int) float64 {
	if distSq < len(f.sqrtTable) {
		return f.sqrtTable[distSq]
	}
	return math.Sqrt(float64(distSq)) * f.grid.Resolution()
}

package distfield

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/san-kum/chompkit/internal/voxel"
)

func newTestField(t *testing.T, size, maxDistance float64) *Field {
	t.Helper()
	f, err := New(size, size, size, 1.0, 0, 0, 0, maxDistance)
	if err != nil {
		t.Fatalf("new field failed: %v", err)
	}
	return f
}

func bruteForceDistSq(c voxel.Coord, obstacles []voxel.Coord) int {
	best := math.MaxInt
	for _, o := range obstacles {
		best = min(best, c.DistSq(o))
	}
	return best
}

func TestNeighborhoods(t *testing.T) {
	for dir := 0; dir < numDirections; dir++ {
		if len(neighborhoods[0][dir]) != 26 {
			t.Errorf("dir %d: expected 26 seed neighbors, got %d", dir, len(neighborhoods[0][dir]))
		}
	}
	if len(neighborhoods[1][selfDirection]) != 6 {
		t.Errorf("self direction should see all 6 faces, got %d", len(neighborhoods[1][selfDirection]))
	}
	// +x face step only continues along +x, ±y, ±z
	if n := len(neighborhoods[1][directionNumber(1, 0, 0)]); n != 5 {
		t.Errorf("expected 5 neighbors for +x, got %d", n)
	}
	// corner step only continues along its three positive faces
	if n := len(neighborhoods[1][directionNumber(1, 1, 1)]); n != 3 {
		t.Errorf("expected 3 neighbors for corner, got %d", n)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(1, 1, 1, 0, 0, 0, 0, 1); !errors.Is(err, voxel.ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
	if _, err := New(0, 1, 1, 0.1, 0, 0, 0, 1); !errors.Is(err, voxel.ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
	if _, err := New(1, 1, 1, 0.1, 0, 0, 0, math.NaN()); !errors.Is(err, ErrInvalidMaxDistance) {
		t.Errorf("expected ErrInvalidMaxDistance, got %v", err)
	}
	if _, err := New(1, 1, 1, 1e-6, 0, 0, 0, 1); err == nil {
		t.Error("expected error for radius beyond the representable range")
	}
}

func TestSinglePointMatchesBruteForce(t *testing.T) {
	for _, maxDist := range []float64{3, 4.5, 20} {
		f := newTestField(t, 10, maxDist)
		center := voxel.Coord{X: 5, Y: 5, Z: 5}

		if n := f.AddPoints([]r3.Vector{{X: 5, Y: 5, Z: 5}}); n != 1 {
			t.Fatalf("expected 1 seeded voxel, got %d", n)
		}

		v, err := f.Voxel(center)
		if err != nil {
			t.Fatalf("voxel lookup failed: %v", err)
		}
		if v.DistanceSq() != 0 {
			t.Errorf("obstacle voxel distance %d", v.DistanceSq())
		}
		if c, ok := v.Closest(); !ok || c != center {
			t.Errorf("obstacle should be its own nearest obstacle, got %v", c)
		}

		maxSq := f.MaxDistanceSq()
		f.Walk(func(c voxel.Coord, v Voxel) {
			want := min(c.DistSq(center), maxSq)
			if v.DistanceSq() != want {
				t.Fatalf("max %v: voxel %v has distSq %d, expected %d", maxDist, c, v.DistanceSq(), want)
			}
			if c.DistSq(center) < maxSq {
				if cl, ok := v.Closest(); !ok || cl != center {
					t.Fatalf("max %v: voxel %v nearest %v, expected %v", maxDist, c, cl, center)
				}
			}
		})
	}
}

func TestScenarioFiveCube(t *testing.T) {
	f, err := New(5, 5, 5, 1.0, 0, 0, 0, 3.0)
	if err != nil {
		t.Fatalf("new field failed: %v", err)
	}
	f.AddPoints([]r3.Vector{{X: 2, Y: 2, Z: 2}})

	d, err := f.DistanceSqFromCell(voxel.Coord{X: 0, Y: 2, Z: 2})
	if err != nil || d != 4 {
		t.Errorf("expected distSq 4 at (0,2,2), got %d (%v)", d, err)
	}
	d, err = f.DistanceSqFromCell(voxel.Coord{X: 2, Y: 2, Z: 2})
	if err != nil || d != 0 {
		t.Errorf("expected distSq 0 at (2,2,2), got %d (%v)", d, err)
	}
	dist, err := f.Distance(r3.Vector{X: 0, Y: 2, Z: 2})
	if err != nil || dist != 2 {
		t.Errorf("expected distance 2, got %f (%v)", dist, err)
	}
}

func TestResetRestoresSentinel(t *testing.T) {
	f := newTestField(t, 8, 3)
	f.AddPoints([]r3.Vector{{X: 1, Y: 1, Z: 1}, {X: 6, Y: 6, Z: 2}})
	f.Reset()

	sentinel := f.MaxDistanceSq()
	f.Walk(func(c voxel.Coord, v Voxel) {
		if v.DistanceSq() != sentinel {
			t.Fatalf("voxel %v distSq %d, expected sentinel %d", c, v.DistanceSq(), sentinel)
		}
		if _, ok := v.Closest(); ok {
			t.Fatalf("voxel %v still has a nearest obstacle", c)
		}
	})
	if f.SentinelDistance() != 3 {
		t.Errorf("expected sentinel distance 3, got %f", f.SentinelDistance())
	}
}

func TestIncrementalInsertionMatchesUnion(t *testing.T) {
	// wavefronts never meet here, so both builds are exact; see
	// TestOverlappingWavefrontsStayBounded for the general case
	p1 := r3.Vector{X: 2, Y: 2, Z: 2}
	p2 := r3.Vector{X: 9, Y: 9, Z: 9}
	p3 := r3.Vector{X: 2, Y: 9, Z: 5}

	inc := newTestField(t, 12, 2)
	inc.AddPoints([]r3.Vector{p1, p2})
	if n := inc.AddPoints([]r3.Vector{p2, p3}); n != 1 {
		t.Errorf("expected only p3 to be seeded, got %d", n)
	}

	union := newTestField(t, 12, 2)
	union.AddPoints([]r3.Vector{p1, p2, p3})

	a, b := inc.DistancesSq(), union.DistancesSq()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("voxel %d: incremental %d, union %d", i, a[i], b[i])
		}
	}
}

func TestRepeatedInsertionIsNoOp(t *testing.T) {
	f := newTestField(t, 10, 4)
	pts := []r3.Vector{{X: 3, Y: 4, Z: 5}, {X: 6, Y: 6, Z: 6}}
	f.AddPoints(pts)
	before := f.DistancesSq()

	if n := f.AddPoints(pts); n != 0 {
		t.Errorf("expected no new seeds, got %d", n)
	}
	after := f.DistancesSq()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("voxel %d changed from %d to %d", i, before[i], after[i])
		}
	}
}

func TestOutOfBoundsInsertionIsNoOp(t *testing.T) {
	f := newTestField(t, 6, 3)
	f.AddPoints([]r3.Vector{{X: 1, Y: 1, Z: 1}})
	before := f.DistancesSq()

	n := f.AddPoints([]r3.Vector{
		{X: -3, Y: 1, Z: 1},
		{X: 1, Y: 40, Z: 1},
		{X: 1, Y: 1, Z: 6},
		{X: math.NaN(), Y: 1, Z: 1},
	})
	if n != 0 {
		t.Errorf("expected 0 seeds, got %d", n)
	}
	after := f.DistancesSq()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("voxel %d changed from %d to %d", i, before[i], after[i])
		}
	}
}

func TestNonPositiveMaxDistanceMarksObstaclesOnly(t *testing.T) {
	for _, maxDist := range []float64{0, -2} {
		f := newTestField(t, 5, maxDist)
		if f.MaxDistanceSq() != 0 {
			t.Fatalf("expected max distSq 0, got %d", f.MaxDistanceSq())
		}
		if n := f.AddPoints([]r3.Vector{{X: 1, Y: 2, Z: 3}}); n != 1 {
			t.Fatalf("expected 1 seed, got %d", n)
		}

		obstacle := voxel.Coord{X: 1, Y: 2, Z: 3}
		f.Walk(func(c voxel.Coord, v Voxel) {
			_, reached := v.Closest()
			if reached != (c == obstacle) {
				t.Fatalf("max %v: voxel %v reached=%v", maxDist, c, reached)
			}
		})
		if !f.IsObstacle(obstacle) {
			t.Error("seed should be an obstacle")
		}
		if f.IsObstacle(voxel.Coord{X: 1, Y: 2, Z: 2}) {
			t.Error("neighbor should not be an obstacle")
		}
		if _, err := f.ClosestObstacleCell(voxel.Coord{X: 0, Y: 0, Z: 0}); !errors.Is(err, ErrNoObstacle) {
			t.Errorf("expected ErrNoObstacle, got %v", err)
		}
	}
}

// checkConsistent verifies what holds for any insertion order: stored
// distances never undercut the true distance, every closest cell is a real
// obstacle at the stored distance, and voxels touching an obstacle stay within
// distSq 3.
// It returns the largest excess over brute force and how many voxels have one.
func checkConsistent(t *testing.T, f *Field, cells []voxel.Coord) (worst, deviating int) {
	t.Helper()
	obstacle := make(map[voxel.Coord]bool)
	for _, c := range cells {
		obstacle[c] = true
	}

	maxSq := f.MaxDistanceSq()
	f.Walk(func(c voxel.Coord, v Voxel) {
		truth := min(bruteForceDistSq(c, cells), maxSq)
		if v.DistanceSq() < truth {
			t.Fatalf("voxel %v distSq %d below true distance %d", c, v.DistanceSq(), truth)
		}
		if truth <= 3 && v.DistanceSq() > 3 {
			t.Fatalf("voxel %v touches an obstacle but has distSq %d", c, v.DistanceSq())
		}
		if excess := v.DistanceSq() - truth; excess > 0 {
			worst = max(worst, excess)
			deviating++
		}
		cl, ok := v.Closest()
		if !ok {
			return
		}
		if !obstacle[cl] {
			t.Fatalf("voxel %v points at %v, which is not an obstacle", c, cl)
		}
		if cl.DistSq(c) != v.DistanceSq() {
			t.Fatalf("voxel %v stored %d but nearest obstacle is %d away", c, v.DistanceSq(), cl.DistSq(c))
		}
	})
	return worst, deviating
}

func randomCells(rng *rand.Rand, n, size int) ([]voxel.Coord, []r3.Vector) {
	cells := make([]voxel.Coord, n)
	pts := make([]r3.Vector, n)
	for i := range cells {
		c := voxel.Coord{X: rng.Intn(size), Y: rng.Intn(size), Z: rng.Intn(size)}
		cells[i] = c
		pts[i] = r3.Vector{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}
	}
	return cells, pts
}

func TestMultipleObstaclesAreConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	f := newTestField(t, 12, 5)

	cells, pts := randomCells(rng, 15, 12)
	f.AddPoints(pts)

	if worst, _ := checkConsistent(t, f, cells); worst > 2 {
		t.Errorf("worst excess over true distance %d, want at most 2", worst)
	}
}

// Face-neighbor continuation can settle a voxel slightly above its true
// distance where wavefronts meet, and where that happens depends on insertion
// order. Incremental and union builds must both stay consistent and close.
func TestOverlappingWavefrontsStayBounded(t *testing.T) {
	const (
		trials = 50
		size   = 10
	)
	rng := rand.New(rand.NewSource(7))

	totalDeviating, differing := 0, 0
	for trial := 0; trial < trials; trial++ {
		cellsA, ptsA := randomCells(rng, 6, size)
		cellsB, ptsB := randomCells(rng, 5, size)
		cellsB, ptsB = append(cellsB, cellsA[0]), append(ptsB, ptsA[0])
		all := append(append([]voxel.Coord{}, cellsA...), cellsB...)

		inc := newTestField(t, size, 4)
		inc.AddPoints(ptsA)
		inc.AddPoints(ptsB)

		union := newTestField(t, size, 4)
		union.AddPoints(append(append([]r3.Vector{}, ptsA...), ptsB...))

		for _, f := range []*Field{inc, union} {
			worst, deviating := checkConsistent(t, f, all)
			if worst > 2 {
				t.Fatalf("trial %d: worst excess over true distance %d, want at most 2", trial, worst)
			}
			totalDeviating += deviating
		}

		a, b := inc.DistancesSq(), union.DistancesSq()
		for i := range a {
			if d := a[i] - b[i]; d != 0 {
				differing++
				if d > 2 || d < -2 {
					t.Fatalf("trial %d voxel %v: incremental %d, union %d", trial, inc.grid.CoordOf(i), a[i], b[i])
				}
			}
		}
	}

	// 2 fields per trial
	voxels := 2 * trials * size * size * size
	if totalDeviating*100 > voxels {
		t.Errorf("%d of %d voxels above true distance, want under 1%%", totalDeviating, voxels)
	}
	if differing*100 > trials*size*size*size {
		t.Errorf("%d voxels differ between incremental and union builds, want under 1%%", differing)
	}
}

func TestQueries(t *testing.T) {
	f, err := New(7, 7, 7, 0.5, -1, -1, -1, 2)
	if err != nil {
		t.Fatalf("new field failed: %v", err)
	}
	// cell (4,4,4)
	f.AddPoints([]r3.Vector{{X: 1, Y: 1, Z: 1}})

	d, err := f.Distance(r3.Vector{X: 2, Y: 1, Z: 1})
	if err != nil || math.Abs(d-1) > 1e-12 {
		t.Errorf("expected distance 1, got %f (%v)", d, err)
	}

	p, err := f.ClosestObstacle(r3.Vector{X: 1.4, Y: 0.6, Z: 1})
	if err != nil || p != (r3.Vector{X: 1, Y: 1, Z: 1}) {
		t.Errorf("expected closest (1,1,1), got %v (%v)", p, err)
	}

	dist, grad, err := f.Gradient(r3.Vector{X: 2, Y: 1, Z: 1})
	if err != nil {
		t.Fatalf("gradient failed: %v", err)
	}
	if math.Abs(dist-1) > 1e-12 {
		t.Errorf("expected gradient distance 1, got %f", dist)
	}
	// cells (7,4,4) and (5,4,4) are 1.5 and 0.5 away
	if math.Abs(grad.X-1) > 1e-12 || math.Abs(grad.Y) > 1e-12 || math.Abs(grad.Z) > 1e-12 {
		t.Errorf("expected gradient (1,0,0), got %v", grad)
	}

	if _, err := f.Distance(r3.Vector{X: 50, Y: 0, Z: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := f.DistanceFromCell(voxel.Coord{X: -1}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	dist, grad, err = f.Gradient(r3.Vector{X: -1, Y: 1, Z: 1})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds at grid edge, got %v", err)
	}
	if dist != f.SentinelDistance() || grad != (r3.Vector{}) {
		t.Errorf("expected sentinel and zero gradient, got %f %v", dist, grad)
	}
}

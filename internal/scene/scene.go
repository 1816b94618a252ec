// Package scene guards a distance field for concurrent use and turns field
// distances into per-waypoint obstacle costs.
package scene

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/chompkit/internal/distfield"
	"github.com/san-kum/chompkit/internal/logging"
)

// minChunk is the smallest number of waypoints handed to one worker.
const minChunk = 64

// Scene is a distance field with a single writer and many readers.
type Scene struct {
	mu     sync.RWMutex
	field  *distfield.Field
	logger logging.Logger
}

func New(field *distfield.Field, logger logging.Logger) *Scene {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Scene{field: field, logger: logger}
}

// AddObstacles inserts points under the write lock and returns how many
// voxels became obstacles.
func (s *Scene) AddObstacles(points []r3.Vector) int {
	start := time.Now()
	s.mu.Lock()
	n := s.field.AddPoints(points)
	s.mu.Unlock()
	s.logger.Debugw("added obstacles", "points", len(points), "seeded", n, "elapsed", time.Since(start))
	return n
}

func (s *Scene) Reset() {
	s.mu.Lock()
	s.field.Reset()
	s.mu.Unlock()
	s.logger.Debug("field reset")
}

// Distance returns the field distance at p, or the sentinel distance outside
// the field.
func (s *Scene) Distance(p r3.Vector) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, _ := s.field.Distance(p)
	return d
}

// Read runs fn with the read lock held.
func (s *Scene) Read(fn func(f *distfield.Field)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.field)
}

// ObstacleCost is the hinge penalty for a waypoint at distance d from the
// nearest obstacle: linear inside obstacles, quadratic within eps, zero beyond.
func ObstacleCost(d, eps float64) float64 {
	switch {
	case d < 0:
		return -d + eps/2
	case d <= eps:
		return (eps - d) * (eps - d) / (2 * eps)
	default:
		return 0
	}
}

// WaypointCosts returns the obstacle cost of every waypoint. Large paths are
// split across workers that share the read lock.
func (s *Scene) WaypointCosts(ctx context.Context, path []r3.Vector, eps float64) ([]float64, error) {
	if !(eps > 0) || math.IsInf(eps, 0) {
		return nil, errors.Wrapf(ErrInvalidEpsilon, "%v", eps)
	}
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	costs := make([]float64, len(path))
	s.mu.RLock()
	defer s.mu.RUnlock()

	err := parallelFor(ctx, len(path), minChunk, func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if i%minChunk == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			d, _ := s.field.Distance(path[i])
			costs[i] = ObstacleCost(d, eps)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return costs, nil
}

// parallelFor splits [0, n) into contiguous chunks of at least minChunk and
// runs fn on each. The first error cancels the rest.
func parallelFor(ctx context.Context, n, minChunk int, fn func(ctx context.Context, lo, hi int) error) error {
	workers := runtime.GOMAXPROCS(0)
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		return fn(ctx, 0, n)
	}

	chunk := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error { return fn(ctx, lo, hi) })
	}
	return g.Wait()
}

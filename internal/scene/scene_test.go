package scene_test

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chompkit/internal/distfield"
	"github.com/san-kum/chompkit/internal/logging"
	"github.com/san-kum/chompkit/internal/scene"
	"github.com/san-kum/chompkit/internal/voxel"
)

var _ = Describe("Scene", func() {
	var (
		field *distfield.Field
		s     *scene.Scene
	)

	BeforeEach(func() {
		var err error
		field, err = distfield.New(5, 5, 5, 1.0, 0, 0, 0, 3.0)
		Expect(err).NotTo(HaveOccurred())
		s = scene.New(field, logging.NewTestLogger(GinkgoT()))
	})

	Context("with one obstacle in the middle of a 5x5x5 grid", func() {
		BeforeEach(func() {
			Expect(s.AddObstacles([]r3.Vector{{X: 2, Y: 2, Z: 2}})).To(Equal(1))
		})

		It("stores squared cell distances", func() {
			s.Read(func(f *distfield.Field) {
				d, err := f.DistanceSqFromCell(voxel.Coord{X: 0, Y: 2, Z: 2})
				Expect(err).NotTo(HaveOccurred())
				Expect(d).To(Equal(4))

				d, err = f.DistanceSqFromCell(voxel.Coord{X: 2, Y: 2, Z: 2})
				Expect(err).NotTo(HaveOccurred())
				Expect(d).To(Equal(0))
			})
		})

		It("reports world distances", func() {
			Expect(s.Distance(r3.Vector{X: 0, Y: 2, Z: 2})).To(BeNumerically("~", 2.0, 1e-12))
			Expect(s.Distance(r3.Vector{X: 2, Y: 2, Z: 2})).To(BeZero())
		})

		It("returns the sentinel outside the field", func() {
			Expect(s.Distance(r3.Vector{X: -10, Y: 0, Z: 0})).To(BeNumerically("~", 3.0, 1e-12))
		})

		It("costs waypoints by their clearance", func() {
			path := []r3.Vector{{X: 2, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 3}, {X: 0, Y: 0, Z: 0}}
			costs, err := s.WaypointCosts(context.Background(), path, 1.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(costs).To(HaveLen(3))
			Expect(costs[0]).To(BeNumerically("~", 1.5*1.5/3, 1e-12))
			Expect(costs[1]).To(BeNumerically("~", 0.5*0.5/3, 1e-12))
			Expect(costs[2]).To(BeZero())
		})

		It("clears everything on reset", func() {
			s.Reset()
			s.Read(func(f *distfield.Field) {
				Expect(f.IsObstacle(voxel.Coord{X: 2, Y: 2, Z: 2})).To(BeFalse())
			})
			Expect(s.Distance(r3.Vector{X: 2, Y: 2, Z: 2})).To(BeNumerically("~", 3.0, 1e-12))
		})
	})

	It("matches the sequential costs on a long path", func() {
		s.AddObstacles([]r3.Vector{{X: 1, Y: 1, Z: 1}, {X: 3, Y: 3, Z: 3}})

		path := make([]r3.Vector, 1000)
		for i := range path {
			t := float64(i) / float64(len(path)-1)
			path[i] = r3.Vector{X: 4 * t, Y: 4 * t, Z: 4 * (1 - t)}
		}
		costs, err := s.WaypointCosts(context.Background(), path, 1.0)
		Expect(err).NotTo(HaveOccurred())
		for i, p := range path {
			Expect(costs[i]).To(Equal(scene.ObstacleCost(s.Distance(p), 1.0)))
		}
	})

	It("serves readers while a writer inserts", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for j := 0; j < 100; j++ {
					d := s.Distance(r3.Vector{X: 4, Y: 4, Z: 4})
					Expect(d).To(BeNumerically("<=", 3.0))
				}
			}()
		}
		for x := 0.0; x < 5; x++ {
			s.AddObstacles([]r3.Vector{{X: x, Y: 0, Z: 0}})
		}
		wg.Wait()
	})

	It("rejects bad arguments", func() {
		_, err := s.WaypointCosts(context.Background(), nil, 1.0)
		Expect(err).To(MatchError(scene.ErrEmptyPath))

		_, err = s.WaypointCosts(context.Background(), []r3.Vector{{}}, 0)
		Expect(err).To(MatchError(scene.ErrInvalidEpsilon))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.WaypointCosts(ctx, make([]r3.Vector, 512), 1.0)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = DescribeTable("ObstacleCost",
	func(d, eps, want float64) {
		Expect(scene.ObstacleCost(d, eps)).To(BeNumerically("~", want, 1e-12))
	},
	Entry("inside an obstacle", -0.5, 1.0, 1.0),
	Entry("on the surface", 0.0, 1.0, 0.5),
	Entry("within the margin", 0.5, 1.0, 0.125),
	Entry("at the margin", 1.0, 1.0, 0.0),
	Entry("clear", 2.0, 1.0, 0.0),
)

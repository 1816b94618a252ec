package distfield

import (
	"testing"

	"github.com/golang/geo/r3"
)

func wallPoints(n int) []r3.Vector {
	pts := make([]r3.Vector, 0, n*n)
	for y := 0; y < n; y++ {
		for z := 0; z < n; z++ {
			pts = append(pts, r3.Vector{X: float64(n / 2), Y: float64(y), Z: float64(z)})
		}
	}
	return pts
}

func BenchmarkAddPointsWall(b *testing.B) {
	f, err := New(40, 40, 40, 1.0, 0, 0, 0, 8)
	if err != nil {
		b.Fatal(err)
	}
	pts := wallPoints(40)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Reset()
		f.AddPoints(pts)
	}
}

func BenchmarkGradient(b *testing.B) {
	f, err := New(40, 40, 40, 1.0, 0, 0, 0, 8)
	if err != nil {
		b.Fatal(err)
	}
	f.AddPoints(wallPoints(40))
	p := r3.Vector{X: 24, Y: 20, Z: 20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = f.Gradient(p)
	}
}

package config

var Presets = map[string]*Config{
	"cube": {
		Field:      FieldConfig{Size: Vec3{5, 5, 5}, Resolution: 1.0, MaxDistance: 3.0},
		Obstacles:  []Vec3{{2, 2, 2}},
		Trajectory: TrajectoryConfig{FreePoints: 20, Dt: 0.1, DerivativeWeights: []float64{0, 1, 0}},
		Path:       PathConfig{Start: Vec3{0, 0, 0}, End: Vec3{4, 4, 4}, ObstacleEpsilon: 0.5, SmoothnessWeight: 1.0},
	},
	"wall": {
		Field:      FieldConfig{Size: Vec3{2, 2, 1}, Resolution: 0.05, MaxDistance: 0.4},
		Obstacles:  wall(1.0, 0.4, 1.6, 0.05),
		Trajectory: TrajectoryConfig{FreePoints: 40, Dt: 0.05, DerivativeWeights: []float64{0, 1, 0}, RidgeFactor: 1e-6},
		Path:       PathConfig{Start: Vec3{0.2, 1.0, 0.5}, End: Vec3{1.8, 1.0, 0.5}, ObstacleEpsilon: 0.2, SmoothnessWeight: 0.1},
	},
	"tabletop": {
		Field:      FieldConfig{Size: Vec3{1.5, 1.5, 1.2}, Resolution: 0.025, MaxDistance: 0.3},
		Obstacles:  table(0.75, 0.75, 0.6, 0.5, 0.025),
		Trajectory: TrajectoryConfig{FreePoints: 60, Dt: 0.05, DerivativeWeights: []float64{0.1, 1, 0.01}},
		Path:       PathConfig{Start: Vec3{0.25, 0.25, 0.9}, End: Vec3{1.25, 1.25, 0.9}, ObstacleEpsilon: 0.1, SmoothnessWeight: 0.5},
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	cp.Obstacles = append([]Vec3(nil), p.Obstacles...)
	cp.Trajectory.DerivativeWeights = append([]float64(nil), p.Trajectory.DerivativeWeights...)
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// wall is a vertical plane at x spanning y in [y0, y1] and the full height.
func wall(x, y0, y1, step float64) []Vec3 {
	var pts []Vec3
	for y := y0; y <= y1+step/2; y += step {
		for z := 0.0; z <= 1.0+step/2; z += step {
			pts = append(pts, Vec3{x, y, z})
		}
	}
	return pts
}

// table is a horizontal square of half-width half centered on (cx, cy) at height h.
func table(cx, cy, h, half, step float64) []Vec3 {
	var pts []Vec3
	for x := cx - half; x <= cx+half+step/2; x += step {
		for y := cy - half; y <= cy+half+step/2; y += step {
			pts = append(pts, Vec3{x, y, h})
		}
	}
	return pts
}

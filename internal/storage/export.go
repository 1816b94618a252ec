package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/chompkit/internal/distfield"
)

type ExportData struct {
	Run         *RunMetadata `json:"run"`
	NumCells    [3]int       `json:"num_cells"`
	Resolution  float64      `json:"resolution"`
	Origin      [3]float64   `json:"origin"`
	MaxDistSq   int          `json:"max_distance_sq"`
	DistancesSq []int32      `json:"distances_sq"`
}

// ExportJSON writes the run and every voxel's squared cell distance, z
// fastest, to w.
func ExportJSON(w io.Writer, meta *RunMetadata, f *distfield.Field) error {
	nx, ny, nz := f.NumCells()
	o := f.Origin()
	data := ExportData{
		Run:         meta,
		NumCells:    [3]int{nx, ny, nz},
		Resolution:  f.Resolution(),
		Origin:      [3]float64{o.X, o.Y, o.Z},
		MaxDistSq:   f.MaxDistanceSq(),
		DistancesSq: f.DistancesSq(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

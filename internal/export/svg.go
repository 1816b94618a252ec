package export

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/chompkit/internal/distfield"
	"github.com/san-kum/chompkit/internal/voxel"
)

var ErrSliceOutOfRange = errors.New("export: slice out of range")

const (
	colorObstacle = "#ffffff"
	colorUnknown  = "#0a0a0a"
)

// SliceToSVG draws slice z of f as one square per cell, shaded from red
// (touching an obstacle) to dark blue (at max distance). y grows upwards.
// When path is non-empty its xy projection is drawn on top.
func SliceToSVG(f *distfield.Field, z int, scale float64, path []r3.Vector) (string, error) {
	nx, ny, nz := f.NumCells()
	if z < 0 || z >= nz {
		return "", errors.Wrapf(ErrSliceOutOfRange, "z=%d, field has %d slices", z, nz)
	}
	if !(scale > 0) {
		scale = 8
	}

	width := float64(nx) * scale
	height := float64(ny) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke="none">
`, width, height, width, height, colorUnknown))

	sentinel := f.SentinelDistance()
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			c := voxel.Coord{X: x, Y: y, Z: z}
			v, _ := f.Voxel(c)
			closest, ok := v.Closest()
			if !ok {
				continue
			}
			fill := colorObstacle
			if v.DistanceSq() != 0 || closest != c {
				d, _ := f.DistanceFromCell(c)
				fill = heat(d / sentinel)
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(x)*scale, height-float64(y+1)*scale, scale, scale, fill))
		}
	}
	sb.WriteString("</g>\n")

	if len(path) > 1 {
		res := f.Resolution()
		origin := f.Origin()
		sb.WriteString(`<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`)
		for i, p := range path {
			// cell centers sit on integer grid coordinates
			px := ((p.X-origin.X)/res + 0.5) * scale
			py := height - ((p.Y-origin.Y)/res+0.5)*scale
			if i > 0 {
				sb.WriteString(" L")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// heat maps t in [0, 1] onto a red to dark blue ramp.
func heat(t float64) string {
	t = max(0, min(t, 1))
	r := int(255 * (1 - t))
	g := int(64 * (1 - t))
	b := int(64 + 96*t)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

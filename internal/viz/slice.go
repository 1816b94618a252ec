package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chompkit/internal/distfield"
	"github.com/san-kum/chompkit/internal/voxel"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	profileHeight = 6
)

type cellKind int

const (
	cellUnknown cellKind = iota
	cellObstacle
	cellNear
	cellMid
	cellFar
)

var glyphs = map[cellKind]string{
	cellUnknown:  "··",
	cellObstacle: "██",
	cellNear:     "▓▓",
	cellMid:      "▒▒",
	cellFar:      "░░",
}

// classify buckets a voxel by its distance relative to the field's range.
// frac is the distance as a fraction of the max distance.
func classify(f *distfield.Field, c voxel.Coord) (kind cellKind, frac float64) {
	v, err := f.Voxel(c)
	if err != nil {
		return cellUnknown, 1
	}
	closest, ok := v.Closest()
	if !ok {
		return cellUnknown, 1
	}
	if v.DistanceSq() == 0 && closest == c {
		return cellObstacle, 0
	}
	if f.MaxDistanceSq() > 0 {
		d, _ := f.DistanceFromCell(c)
		frac = d / f.SentinelDistance()
	}
	switch {
	case frac < 1.0/3:
		return cellNear, frac
	case frac < 2.0/3:
		return cellMid, frac
	default:
		return cellFar, frac
	}
}

// RenderSlice draws slice z with y increasing upwards. At most maxCols x
// maxRows cells are drawn.
func RenderSlice(f *distfield.Field, z int, theme Theme, maxCols, maxRows int) string {
	nx, ny, _ := f.NumCells()
	cols, rows := min(nx, maxCols), min(ny, maxRows)

	var s strings.Builder
	for y := rows - 1; y >= 0; y-- {
		for x := 0; x < cols; x++ {
			kind, frac := classify(f, voxel.Coord{X: x, Y: y, Z: z})
			var color lipgloss.Color
			switch kind {
			case cellUnknown:
				color = theme.Unknown
			case cellObstacle:
				color = theme.Obstacle
			default:
				color = lerpColor(theme.Near, theme.Far, frac)
			}
			s.WriteString(lipgloss.NewStyle().Foreground(color).Render(glyphs[kind]))
		}
		if y > 0 {
			s.WriteByte('\n')
		}
	}
	return s.String()
}

// Profile returns the world distance of every cell along x at (y, z).
func Profile(f *distfield.Field, y, z int) []float64 {
	nx, _, _ := f.NumCells()
	out := make([]float64, nx)
	for x := range out {
		out[x], _ = f.DistanceFromCell(voxel.Coord{X: x, Y: y, Z: z})
	}
	return out
}

// SliceView browses a field one z-slice at a time.
type SliceView struct {
	field         *distfield.Field
	title         string
	metrics       map[string]float64
	z, row        int
	theme         int
	width, height int
}

func NewSliceView(f *distfield.Field, title string, metrics map[string]float64) SliceView {
	_, ny, nz := f.NumCells()
	return SliceView{
		field:   f,
		title:   title,
		metrics: metrics,
		z:       nz / 2,
		row:     ny / 2,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Run shows v full screen until the user quits.
func Run(v SliceView) error {
	_, err := tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}

// WithTheme selects a theme by name. Unknown names leave the theme unchanged.
func (v SliceView) WithTheme(name string) SliceView {
	for i, t := range Themes {
		if t.Name == name {
			v.theme = i
		}
	}
	return v
}

func (v SliceView) Slice() int { return v.z }

func (v SliceView) Row() int { return v.row }

func (v SliceView) Theme() Theme { return Themes[v.theme] }

func (v SliceView) Init() tea.Cmd { return nil }

func (v SliceView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, ny, nz := v.field.NumCells()
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "up", "k":
			v.z = min(v.z+1, nz-1)
		case "down", "j":
			v.z = max(v.z-1, 0)
		case "right", "l":
			v.row = min(v.row+1, ny-1)
		case "left", "h":
			v.row = max(v.row-1, 0)
		case "t":
			v.theme = (v.theme + 1) % len(Themes)
		}
	}
	return v, nil
}

func (v SliceView) View() string {
	theme := Themes[v.theme]
	nx, ny, nz := v.field.NumCells()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(v.title)) + "\n")
	s.WriteString(Subtle.Render(fmt.Sprintf("slice z=%d/%d  row y=%d  grid %dx%dx%d  theme %s",
		v.z, nz-1, v.row, nx, ny, nz, theme.Name)) + "\n\n")

	maxRows := max(v.height-profileHeight-12, 4)
	maxCols := max((v.width-4)/2, 4)
	s.WriteString(GlassPanel.Render(RenderSlice(v.field, v.z, theme, maxCols, maxRows)) + "\n")

	if profile := Profile(v.field, v.row, v.z); len(profile) > 1 {
		chart := asciigraph.Plot(profile,
			asciigraph.Height(profileHeight),
			asciigraph.Width(min(len(profile)*2, max(v.width-12, 10))),
			asciigraph.Caption(fmt.Sprintf("distance along x at y=%d", v.row)))
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render(chart) + "\n")
	}

	if len(v.metrics) > 0 {
		s.WriteString(Separator(min(v.width, 60)) + "\n")
		names := make([]string, 0, len(v.metrics))
		for name := range v.metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			val := v.metrics[name]
			if name == "coverage" {
				s.WriteString(MetricLabel.Render(name) + ProgressBar(val, 20) + MetricValue.Render(fmt.Sprintf(" %.1f%%", val*100)) + "\n")
				continue
			}
			s.WriteString(MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.4g", val)) + "\n")
		}
	}

	s.WriteString("\n" + KeyHint.Render("↑/↓ slice  ←/→ row  t theme  q quit"))
	return s.String()
}

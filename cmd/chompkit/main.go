package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/golang/geo/r3"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/chompkit/internal/config"
	"github.com/san-kum/chompkit/internal/distfield"
	"github.com/san-kum/chompkit/internal/export"
	"github.com/san-kum/chompkit/internal/logging"
	"github.com/san-kum/chompkit/internal/metrics"
	"github.com/san-kum/chompkit/internal/objective"
	"github.com/san-kum/chompkit/internal/scene"
	"github.com/san-kum/chompkit/internal/storage"
	"github.com/san-kum/chompkit/internal/trajcost"
	"github.com/san-kum/chompkit/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	debug      bool
	logger     logging.Logger

	// trajectory
	freePoints int
	dt         float64
	weights    []float64
	ridge      float64

	// field
	size          []float64
	resolution    float64
	maxDistance   float64
	obstaclesFile string
	runName       string
	noSave        bool

	// path
	epsilon float64

	// output
	outFile  string
	theme    string
	sliceZ   int
	svgScale float64
	svgOut   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chompkit",
		Short: "trajectory smoothness costs and voxel distance fields",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger("chompkit", debug)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chompkit", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	costCmd := &cobra.Command{
		Use:   "cost",
		Short: "build a trajectory cost model",
		RunE:  runCost,
	}
	addTrajectoryFlags(costCmd)

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "build a distance field from obstacle points",
		RunE:  runField,
	}
	addFieldFlags(fieldCmd)
	fieldCmd.Flags().StringVar(&runName, "name", "field", "run name")
	fieldCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "score the straight-line path between start and end",
		RunE:  runEvaluate,
	}
	addTrajectoryFlags(evaluateCmd)
	addFieldFlags(evaluateCmd)
	evaluateCmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultObstacleEpsilon, "obstacle clearance margin")
	evaluateCmd.Flags().StringVar(&svgOut, "svg", "", "write the path over the start slice to this SVG file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved fields",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved field",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export field distances to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one z-slice of a field as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&sliceZ, "slice", -1, "z slice (default: through the first obstacle)")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 8, "pixels per cell")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse a saved field slice by slice",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRID\tRES\tMAX\tOBSTACLES")
			for _, name := range names {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%gx%gx%g\t%g\t%g\t%d\n", name,
					p.Field.Size[0], p.Field.Size[1], p.Field.Size[2],
					p.Field.Resolution, p.Field.MaxDistance, len(p.Obstacles))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(costCmd, fieldCmd, evaluateCmd, listCmd, showCmd, exportJSONCmd, exportSVGCmd, viewCmd, presetsCmd)

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func addTrajectoryFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&freePoints, "points", config.DefaultFreePoints, "number of free trajectory points")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time between trajectory points")
	cmd.Flags().Float64SliceVar(&weights, "weights", []float64{0, 1, 0}, "derivative weights (velocity,acceleration,jerk)")
	cmd.Flags().Float64Var(&ridge, "ridge", 0, "ridge factor added to the cost diagonal")
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().Float64SliceVar(&size, "size", []float64{config.DefaultSize, config.DefaultSize, config.DefaultSize}, "field extents x,y,z")
	cmd.Flags().Float64Var(&resolution, "resolution", config.DefaultResolution, "cell edge length")
	cmd.Flags().Float64Var(&maxDistance, "max-distance", config.DefaultMaxDistance, "propagation radius")
	cmd.Flags().StringVar(&obstaclesFile, "obstacles", "", "CSV file of x,y,z obstacle points")
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("points") {
		cfg.Trajectory.FreePoints = freePoints
	}
	if flags.Changed("dt") {
		cfg.Trajectory.Dt = dt
	}
	if flags.Changed("weights") {
		cfg.Trajectory.DerivativeWeights = weights
	}
	if flags.Changed("ridge") {
		cfg.Trajectory.RidgeFactor = ridge
	}
	if flags.Changed("size") {
		if len(size) != 3 {
			return nil, fmt.Errorf("--size needs 3 values, got %d", len(size))
		}
		cfg.Field.Size = config.Vec3{size[0], size[1], size[2]}
	}
	if flags.Changed("resolution") {
		cfg.Field.Resolution = resolution
	}
	if flags.Changed("max-distance") {
		cfg.Field.MaxDistance = maxDistance
	}
	if flags.Changed("obstacles") {
		cfg.ObstaclesFile = obstaclesFile
	}
	if flags.Changed("epsilon") {
		cfg.Path.ObstacleEpsilon = epsilon
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func obstaclePoints(cfg *config.Config) ([]r3.Vector, error) {
	points := cfg.ObstaclePoints()
	if cfg.ObstaclesFile != "" {
		fromFile, err := storage.LoadPointsFile(cfg.ObstaclesFile)
		if err != nil {
			return nil, errors.Wrap(err, "reading obstacles")
		}
		points = append(points, fromFile...)
	}
	return points, nil
}

func buildModel(cfg *config.Config) (*trajcost.CostModel, error) {
	tc := cfg.Trajectory
	var opts []trajcost.Option
	if tc.RidgeFactor > 0 {
		opts = append(opts, trajcost.WithRidge(tc.RidgeFactor))
	}
	return trajcost.NewCostModel(tc.FreePoints+2*trajcost.Padding, tc.Dt, tc.DerivativeWeights, opts...)
}

func buildScene(cfg *config.Config) (*scene.Scene, []r3.Vector, error) {
	fc := cfg.Field
	f, err := distfield.New(fc.Size[0], fc.Size[1], fc.Size[2], fc.Resolution,
		fc.Origin[0], fc.Origin[1], fc.Origin[2], fc.MaxDistance)
	if err != nil {
		return nil, nil, err
	}
	nx, ny, nz := f.NumCells()
	logger.Debugw("field allocated", "cells", fmt.Sprintf("%dx%dx%d", nx, ny, nz), "max_distance_sq", f.MaxDistanceSq())

	points, err := obstaclePoints(cfg)
	if err != nil {
		return nil, nil, err
	}
	sc := scene.New(f, logger)
	start := time.Now()
	seeded := sc.AddObstacles(points)
	logger.Infow("field built", "points", len(points), "obstacles", seeded, "elapsed", time.Since(start))
	return sc, points, nil
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	model, err := buildModel(cfg)
	if err != nil {
		return err
	}
	logger.Debugw("cost model built", "points", model.NumPoints(), "elapsed", time.Since(start))

	traj, err := trajcost.NewTrajectory(model.NumFree(), model.Discretization())
	if err != nil {
		return err
	}
	traj.FillLinear(0, 1)
	lineCost, err := model.FullCost(traj.Points)
	if err != nil {
		return err
	}

	fmt.Printf("points:      %d (%d free)\n", model.NumPoints(), model.NumFree())
	fmt.Printf("dt:          %g\n", model.Discretization())
	fmt.Printf("weights:     %v\n", model.Weights())
	fmt.Printf("max inverse: %.6g\n", model.MaxInverseValue())
	fmt.Printf("line cost:   %.6g (0 -> 1)\n\n", lineCost)

	inv := model.QuadraticCostInverse()
	mid := model.NumFree() / 2
	kernel := make([]float64, model.NumFree())
	for j := range kernel {
		kernel[j] = inv.At(mid, j)
	}
	if len(kernel) > 1 {
		fmt.Println(asciigraph.Plot(kernel,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("smoothing kernel (row %d of inverse)", mid)),
		))
	}
	return nil
}

func runField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, points, err := buildScene(cfg)
	if err != nil {
		return err
	}

	var values map[string]float64
	var profile []float64
	var row, slice int
	sc.Read(func(f *distfield.Field) {
		values = metrics.Collect(f, metrics.Default()...)
		row, slice = profileRow(f, points)
		profile = viz.Profile(f, row, slice)
	})
	printMetrics(values)
	plotProfile(profile, row, slice)

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runName, cfg.Field, points, values)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	model, err := buildModel(cfg)
	if err != nil {
		return err
	}
	sc, _, err := buildScene(cfg)
	if err != nil {
		return err
	}
	obj, err := objective.New(model, sc, cfg.Path.ObstacleEpsilon, cfg.Path.SmoothnessWeight)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path := obj.StraightLine(cfg.Path.Start.Vector(), cfg.Path.End.Vector())
	b, err := obj.Evaluate(ctx, path)
	if err != nil {
		return err
	}

	fmt.Printf("waypoints:  %d (%d free)\n", len(path), len(b.Waypoints))
	fmt.Printf("smoothness: %.6g (weight %g)\n", b.Smoothness, cfg.Path.SmoothnessWeight)
	fmt.Printf("obstacle:   %.6g (epsilon %g)\n", b.Obstacle, cfg.Path.ObstacleEpsilon)
	fmt.Printf("total:      %.6g\n\n", b.Total)

	if len(b.Waypoints) > 1 {
		fmt.Println(asciigraph.Plot(b.Waypoints,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("obstacle cost per free waypoint"),
		))
	}

	if svgOut == "" {
		return nil
	}
	var svg string
	sc.Read(func(f *distfield.Field) {
		_, _, nz := f.NumCells()
		z := nz / 2
		if c, ok := f.WorldToGrid(path[0]); ok {
			z = c.Z
		}
		svg, err = export.SliceToSVG(f, z, 8, path)
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("\nwrote %s\n", svgOut)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tRES\tMAX\tOBSTACLES")

	for _, run := range runs {
		fc := run.Field
		fmt.Fprintf(w, "%s\t%s\t%s\t%gx%gx%g\t%g\t%g\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fc.Size[0], fc.Size[1], fc.Size[2],
			fc.Resolution,
			fc.MaxDistance,
			run.NumObstacles,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, meta, err := st.Rebuild(args[0])
	if err != nil {
		return err
	}
	points, err := st.LoadObstacles(args[0])
	if err != nil {
		return err
	}

	nx, ny, nz := f.NumCells()
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("grid: %dx%dx%d cells at %g\n", nx, ny, nz, f.Resolution())
	fmt.Printf("max distance: %g\n\n", f.MaxDistance())

	printMetrics(metrics.Collect(f, metrics.Default()...))
	row, slice := profileRow(f, points)
	plotProfile(viz.Profile(f, row, slice), row, slice)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, meta, err := st.Rebuild(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, meta, f)
	}
	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := storage.ExportJSON(file, meta, f); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, _, err := st.Rebuild(args[0])
	if err != nil {
		return err
	}
	z := sliceZ
	if z < 0 {
		points, err := st.LoadObstacles(args[0])
		if err != nil {
			return err
		}
		_, z = profileRow(f, points)
	}

	svg, err := export.SliceToSVG(f, z, svgScale, nil)
	if err != nil {
		return err
	}
	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported slice z=%d to %s\n", z, outFile)
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, meta, err := st.Rebuild(args[0])
	if err != nil {
		return err
	}
	v := viz.NewSliceView(f, meta.ID, metrics.Collect(f, metrics.Default()...))
	return viz.Run(v.WithTheme(theme))
}

// profileRow picks the row through the first in-bounds obstacle, or the
// middle of the grid.
func profileRow(f *distfield.Field, points []r3.Vector) (y, z int) {
	for _, p := range points {
		if c, ok := f.WorldToGrid(p); ok {
			return c.Y, c.Z
		}
	}
	_, ny, nz := f.NumCells()
	return ny / 2, nz / 2
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-14s %.6g\n", name+":", values[name])
	}
	fmt.Println()
}

func plotProfile(profile []float64, row, slice int) {
	if len(profile) < 2 {
		return
	}
	fmt.Println(asciigraph.Plot(profile,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("distance along x at y=%d z=%d", row, slice)),
	))
}

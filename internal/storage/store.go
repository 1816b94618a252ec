package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/chompkit/internal/config"
	"github.com/san-kum/chompkit/internal/distfield"
)

var ErrBadPoint = errors.New("storage: malformed point row")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Field        config.FieldConfig `json:"field"`
	NumObstacles int                `json:"num_obstacles"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and obstacles.csv for a field built from field
// and points.
func (s *Store) Save(name string, field config.FieldConfig, points []r3.Vector, metrics map[string]float64) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.Unix())
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", name, now.Unix(), i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Name:         name,
		Timestamp:    now,
		Field:        field,
		NumObstacles: len(points),
		Metrics:      metrics,
	}

	err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, "obstacles.csv"), func(w io.Writer) error {
			return WritePoints(w, points)
		})
	}
	if err != nil {
		// leave no partial run behind
		return "", multierr.Append(errors.Wrapf(err, "saving run %s", runID), os.RemoveAll(runDir))
	}
	return runID, nil
}

// writeFile creates path, runs write on it and reports the first error from
// either write or Close.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return write(f)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}
	return &meta, nil
}

func (s *Store) LoadObstacles(runID string) ([]r3.Vector, error) {
	return LoadPointsFile(filepath.Join(s.baseDir, runID, "obstacles.csv"))
}

// Rebuild reconstructs the field of a saved run. Insertion is deterministic,
// so the result matches the field that was saved.
func (s *Store) Rebuild(runID string) (*distfield.Field, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	points, err := s.LoadObstacles(runID)
	if err != nil {
		return nil, nil, err
	}
	fc := meta.Field
	f, err := distfield.New(fc.Size[0], fc.Size[1], fc.Size[2], fc.Resolution,
		fc.Origin[0], fc.Origin[1], fc.Origin[2], fc.MaxDistance)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "run %s", runID)
	}
	f.AddPoints(points)
	return f, meta, nil
}

// WritePoints writes an x,y,z header followed by one row per point.
func WritePoints(w io.Writer, points []r3.Vector) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatFloat(p.Z, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPoints parses x,y,z rows. A leading non-numeric row is taken as a header.
func ReadPoints(r io.Reader) ([]r3.Vector, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	points := make([]r3.Vector, 0, len(records))
	for i, record := range records {
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}
		if len(record) != 3 {
			return nil, errors.Wrapf(ErrBadPoint, "row %d has %d fields", i+1, len(record))
		}
		p, err := parsePoint(record)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, errors.Wrapf(ErrBadPoint, "row %d: %v", i+1, err)
		}
		points = append(points, p)
	}
	return points, nil
}

func parsePoint(record []string) (r3.Vector, error) {
	var xyz [3]float64
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return r3.Vector{}, err
		}
		xyz[j] = v
	}
	return r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func LoadPointsFile(path string) ([]r3.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPoints(f)
}

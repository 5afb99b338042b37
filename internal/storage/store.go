package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/msdsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"

	// Latest names the most recently saved run.
	Latest = "latest"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrCorruptRun  = errors.New("storage: corrupt run")
)

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
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Timestamp time.Time                `json:"timestamp"`
	Params    dynamo.Params            `json:"params"`
	Dt        float64                  `json:"dt"`
	Steps     int                      `json:"steps"`
	InitState [dynamo.StateDim]float64 `json:"init_state"`
	Input     string                   `json:"input"`
	Stability *dynamo.StabilityReport  `json:"stability,omitempty"`
	Metrics   map[string]float64       `json:"metrics"`
}

// Save writes traj and meta under a fresh run directory and returns the run
// ID. meta.ID, Timestamp, Dt, Steps and InitState are filled from traj.
func (s *Store) Save(meta RunMetadata, traj *dynamo.Trajectory) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%s_%s", meta.Name, now.Format("20060102-150405"), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Dt = traj.Dt()
	meta.Steps = traj.Steps()
	meta.InitState = [dynamo.StateDim]float64{traj.Velocity(0), traj.Displacement(0)}

	// JSON has no encoding for NaN or Inf
	finite := make(map[string]float64, len(meta.Metrics))
	for name, v := range meta.Metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite[name] = v
		}
	}
	meta.Metrics = finite

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, statesFile), func(w io.Writer) error {
			return WriteCSV(w, traj)
		})
	}
	if err != nil {
		// a partial run would still be listed
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save run %s: %w", runID, err)
	}

	return runID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes one row per state: time, velocity, displacement and the
// force that produced the state. The force of the initial state is empty.
func WriteCSV(w io.Writer, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "velocity", "displacement", "force"}); err != nil {
		return err
	}

	forces := traj.Forces()
	for i := 0; i < traj.Len(); i++ {
		force := ""
		if i > 0 {
			force = formatFloat(forces[i-1])
		}
		row := []string{
			formatFloat(traj.Time(i)),
			formatFloat(traj.Velocity(i)),
			formatFloat(traj.Displacement(i)),
			force,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// List returns all readable runs, oldest first.
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

// Resolve maps Latest to the newest run ID and returns other IDs unchanged.
func (s *Store) Resolve(runID string) (string, error) {
	if runID != Latest {
		return runID, nil
	}
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("%w: no runs in %s", ErrRunNotFound, s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}

// Load reads the metadata of a run. runID may be Latest.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	runID, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRun, runID, err)
	}

	return &meta, nil
}

// LoadTrajectory rebuilds the stored trajectory of a run.
func (s *Store) LoadTrajectory(runID string) (*RunMetadata, *dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, meta.ID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	traj, err := ReadCSV(file, meta.Dt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrCorruptRun, meta.ID, err)
	}
	return meta, traj, nil
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(r io.Reader, dt float64) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("no states")
	}

	rows := make([][]float64, 0, len(records)-1)
	forces := make([]float64, 0, len(records)-2)

	for i, record := range records[1:] {
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		d, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, []float64{dynamo.Velocity: v, dynamo.Displacement: d})

		if i == 0 {
			continue
		}
		u, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		forces = append(forces, u)
	}

	return dynamo.NewTrajectory(dt, rows, forces)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

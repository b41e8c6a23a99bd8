// Package store persists closed-loop runs for later plotting and
// comparison.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/ctrlkit/pid/internal/loop"
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
	ID        string             `json:"id"`
	Plant     string             `json:"plant"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Kp        float64            `json:"kp"`
	Ki        float64            `json:"ki"`
	Kd        float64            `json:"kd"`
	Kaw       float64            `json:"kaw"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run as metadata.json plus series.csv under a
// timestamped run directory and returns the run id.
func (s *Store) Save(meta RunMetadata, result *loop.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Plant, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	// Mkdir, not MkdirAll: a colliding run id must fail instead of
	// silently overwriting the earlier run
	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run dir")
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", errors.Wrap(err, "create metadata")
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}

	if err := s.writeSeries(filepath.Join(runDir, "series.csv"), result); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeSeries(path string, result *loop.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create series")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "setpoint", "output", "control"}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Setpoints[i], 'f', 6, 64),
			strconv.FormatFloat(result.Outputs[i], 'f', 6, 64),
			strconv.FormatFloat(result.Controls[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	return nil
}

// List returns metadata for all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read store dir")
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip damaged runs
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, errors.Wrapf(err, "load run %s", runID)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, errors.Wrapf(err, "parse run %s", runID)
	}
	return meta, nil
}

// LoadSeries reads a stored run's series back into a Result (metrics
// come from metadata, not the csv).
func (s *Store) LoadSeries(runID string) (*loop.Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, errors.Wrapf(err, "open series for %s", runID)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read series for %s", runID)
	}
	if len(rows) < 1 {
		return nil, errors.Errorf("empty series for %s", runID)
	}

	result := &loop.Result{Metrics: make(map[string]float64)}
	for _, row := range rows[1:] {
		if len(row) != 4 {
			return nil, errors.Errorf("malformed series row in %s", runID)
		}
		vals := make([]float64, 4)
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parse series cell in %s", runID)
			}
			vals[i] = v
		}
		result.Times = append(result.Times, vals[0])
		result.Setpoints = append(result.Setpoints, vals[1])
		result.Outputs = append(result.Outputs, vals[2])
		result.Controls = append(result.Controls, vals[3])
	}
	return result, nil
}

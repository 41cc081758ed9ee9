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

	"github.com/celbio/methanosim/internal/metrics"
	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/reactor"
)

// Store persists runs under a data directory: one subdirectory per run
// holding metadata.json and trajectory.csv.
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
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Integrator string          `json:"integrator"`
	Horizon    float64         `json:"horizon"`
	Samples    int             `json:"samples"`
	Tolerance  float64         `json:"tolerance"`
	Parameters params.Set      `json:"parameters"`
	Metrics    metrics.Derived `json:"metrics"`
}

func (s *Store) Save(meta RunMetadata, tr *reactor.Trajectory) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	trajFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer trajFile.Close()

	if err := WriteTrajectoryCSV(trajFile, tr); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) Load(id string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip corrupted runs
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) LoadTrajectory(id string) (*reactor.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("run %s: empty trajectory", id)
	}

	tr := &reactor.Trajectory{
		Times:  make([]float64, 0, len(rows)-1),
		States: make([]reactor.State, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		if len(row) != reactor.SpeciesCount+1 {
			return nil, fmt.Errorf("run %s: malformed trajectory row", id)
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, err
		}
		state := make(reactor.State, reactor.SpeciesCount)
		for i := 0; i < reactor.SpeciesCount; i++ {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, err
			}
			state[i] = v
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, state)
	}
	return tr, nil
}

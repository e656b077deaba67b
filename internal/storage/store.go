// Package storage keeps the table of finished runs and a detail file per run.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/quadai/internal/sim"
)

const (
	ResultsFile = "results.csv"
	runsDir     = "runs"
)

// Record is one row of the results table.
type Record struct {
	Simulation string `csv:"Simulation"`
	TimeChosen string `csv:"TimeChosen"`
	PID        string `csv:"PID"`
	SAC        string `csv:"SAC"`
	DQN        string `csv:"DQN"`
	Human      string `csv:"Human"`
}

// NewRecord flattens a run result into a table row. SAC players are listed
// as name=score pairs joined by commas so several variants fit one column.
func NewRecord(res *sim.Result) Record {
	byFamily := map[string][]sim.Score{}
	for _, s := range res.Scores {
		byFamily[s.Family] = append(byFamily[s.Family], s)
	}

	column := func(family string) string {
		scores := byFamily[family]
		if len(scores) == 1 && family != sim.FamilySAC {
			return strconv.Itoa(scores[0].Score)
		}
		parts := make([]string, len(scores))
		for i, s := range scores {
			parts[i] = fmt.Sprintf("%s=%d", s.Name, s.Score)
		}
		return strings.Join(parts, ",")
	}

	return Record{
		Simulation: res.Simulation,
		TimeChosen: strconv.FormatFloat(res.TimeLimit, 'f', -1, 64),
		PID:        column(sim.FamilyPID),
		SAC:        column(sim.FamilySAC),
		DQN:        column(sim.FamilyDQN),
		Human:      column(sim.FamilyHuman),
	}
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(filepath.Join(s.baseDir, runsDir), 0755)
}

func (s *Store) Path() string {
	return filepath.Join(s.baseDir, ResultsFile)
}

// List returns every stored row, oldest first.
func (s *Store) List() ([]Record, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, err
	}
	records := []Record{}
	if len(data) == 0 {
		return records, nil
	}
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", s.Path(), err)
	}
	return records, nil
}

// Append adds rec to the table. The whole table is written to a temporary
// file next to the old one, synced, then renamed over it, so a crash leaves
// either the old or the new table in place.
func (s *Store) Append(rec Record) error {
	records, err := s.List()
	if err != nil {
		return err
	}
	records = append(records, rec)

	if err := s.Init(); err != nil {
		return err
	}
	return writeAtomic(s.Path(), func(f *os.File) error {
		return gocsv.MarshalFile(&records, f)
	})
}

func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// RunMetadata is the detail file kept for each run.
type RunMetadata struct {
	ID         string      `json:"id"`
	Simulation string      `json:"simulation"`
	Timestamp  time.Time   `json:"timestamp"`
	Seed       int64       `json:"seed"`
	TimeLimit  float64     `json:"time_limit"`
	Elapsed    float64     `json:"elapsed"`
	Reason     string      `json:"reason"`
	Winner     string      `json:"winner,omitempty"`
	Scores     []sim.Score `json:"scores"`
}

// Save writes the run's detail file and appends its row to the table.
func (s *Store) Save(res *sim.Result, seed int64) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	meta := RunMetadata{
		ID:         res.RunID.String(),
		Simulation: res.Simulation,
		Timestamp:  time.Now(),
		Seed:       seed,
		TimeLimit:  res.TimeLimit,
		Elapsed:    res.Elapsed,
		Reason:     res.Reason.String(),
		Winner:     res.Winner,
		Scores:     res.Scores,
	}

	metaPath := filepath.Join(s.baseDir, runsDir, meta.ID+".json")
	err := writeAtomic(metaPath, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	if err := s.Append(NewRecord(res)); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runsDir, runID+".json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

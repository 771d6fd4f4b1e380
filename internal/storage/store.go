package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/bigmod/internal/bench"
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
	ID          string        `json:"id"`
	Mode        string        `json:"mode"`
	Timestamp   time.Time     `json:"timestamp"`
	Seed        int64         `json:"seed"`
	Runs        int           `json:"runs"`
	Bits        int           `json:"bits"`
	Accelerated bool          `json:"accelerated"`
	Backend     int           `json:"backend_version"`
	FacadeTotal time.Duration `json:"facade_total_ns"`
	RefTotal    time.Duration `json:"reference_total_ns"`
	Mismatches  int           `json:"mismatches"`
}

func (s *Store) Save(result *bench.Result, backendVersion int) (string, error) {
	runID := fmt.Sprintf("%s_%d", result.Mode, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Mode:        result.Mode.String(),
		Timestamp:   time.Now(),
		Seed:        result.Seed,
		Runs:        result.Runs,
		Bits:        result.Bits,
		Accelerated: result.Accelerated,
		Backend:     backendVersion,
		FacadeTotal: result.FacadeTotal,
		RefTotal:    result.RefTotal,
		Mismatches:  result.Mismatches,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "samples.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"run", "facade_ns", "reference_ns"}); err != nil {
		return "", err
	}
	for _, sample := range result.Samples {
		row := []string{
			strconv.Itoa(sample.Run),
			strconv.FormatInt(sample.Facade.Nanoseconds(), 10),
			strconv.FormatInt(sample.Reference.Nanoseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

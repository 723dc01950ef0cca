package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chemketoo/gentleHMC/internal/hmc"
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
	ID          string             `json:"id"`
	Target      string             `json:"target"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	StepSize    float64            `json:"step_size"`
	Steps       int                `json:"steps"`
	Samples     int                `json:"samples"`
	AcceptRate  float64            `json:"accept_rate"`
	Divergences int                `json:"divergences"`
	Metrics     map[string]float64 `json:"metrics"`
}

func (s *Store) Save(targetName string, cfg hmc.Config, result *hmc.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", targetName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Target:      targetName,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		StepSize:    cfg.StepSize,
		Steps:       cfg.Steps,
		Samples:     cfg.Samples,
		AcceptRate:  result.AcceptanceRate(),
		Divergences: result.Divergences,
		Metrics:     result.Metrics,
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

	if err := s.writeSamples(runDir, result); err != nil {
		return "", err
	}

	if len(result.Trajectories) > 0 {
		if err := s.writeTrajectories(runDir, result); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) writeSamples(runDir string, result *hmc.Result) error {
	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Samples) == 0 {
		return nil
	}

	header := []string{"iter"}
	for i := range result.Samples[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	header = append(header, "accepted")
	if err := w.Write(header); err != nil {
		return err
	}

	for i, sample := range result.Samples {
		row := []string{strconv.Itoa(i)}
		for _, val := range sample {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		accepted := "0"
		if i < len(result.Accepted) && result.Accepted[i] {
			accepted = "1"
		}
		row = append(row, accepted)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeTrajectories(runDir string, result *hmc.Result) error {
	csvFile, err := os.Create(filepath.Join(runDir, "trajectories.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"iter", "step", "x", "y", "px", "py"}); err != nil {
		return err
	}

	for i, traj := range result.Trajectories {
		for step, ps := range traj {
			if len(ps.Position) < 2 || len(ps.Momentum) < 2 {
				continue
			}
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(step),
				strconv.FormatFloat(ps.Position[0], 'f', 6, 64),
				strconv.FormatFloat(ps.Position[1], 'f', 6, 64),
				strconv.FormatFloat(ps.Momentum[0], 'f', 6, 64),
				strconv.FormatFloat(ps.Momentum[1], 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
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

// LoadSamples reads back samples.csv: one row per iteration, coordinates
// then the accepted flag.
func (s *Store) LoadSamples(runID string) ([][]float64, []bool, error) {
	csvPath := filepath.Join(s.baseDir, runID, "samples.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []bool{}, nil
	}

	samples := make([][]float64, 0, len(records)-1)
	accepted := make([]bool, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		sample := make([]float64, 0, len(record)-2)
		for j := 1; j < len(record)-1; j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			sample = append(sample, val)
		}
		samples = append(samples, sample)
		accepted = append(accepted, record[len(record)-1] == "1")
	}

	return samples, accepted, nil
}

package storage

import (
	"encoding/json"
	"io"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

type ExportData struct {
	Target      string             `json:"target"`
	StepSize    float64            `json:"step_size"`
	Steps       int                `json:"steps"`
	Seed        int64              `json:"seed"`
	Samples     [][]float64        `json:"samples"`
	Accepted    []bool             `json:"accepted"`
	AcceptRate  float64            `json:"accept_rate"`
	Divergences int                `json:"divergences"`
	Metrics     map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, targetName string, cfg hmc.Config, result *hmc.Result) error {
	data := ExportData{
		Target:      targetName,
		StepSize:    cfg.StepSize,
		Steps:       cfg.Steps,
		Seed:        cfg.Seed,
		Samples:     make([][]float64, len(result.Samples)),
		Accepted:    result.Accepted,
		AcceptRate:  result.AcceptanceRate(),
		Divergences: result.Divergences,
		Metrics:     result.Metrics,
	}

	for i, s := range result.Samples {
		data.Samples[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

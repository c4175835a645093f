package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest describes one batch run.
type Manifest struct {
	Generated time.Time  `json:"generated"`
	InputDir  string     `json:"input_dir"`
	Scale     [3]float32 `json:"scale"`
	Imported  int        `json:"imported"`
	Empty     int        `json:"empty"`
	Failed    int        `json:"failed"`
	Files     []Result   `json:"files"`
}

// NewManifest summarizes results.
func NewManifest(cfg Config, results []Result) Manifest {
	m := Manifest{
		Generated: time.Now().UTC(),
		InputDir:  cfg.InputDir,
		Scale:     cfg.Scale,
		Files:     results,
	}
	for _, r := range results {
		switch {
		case r.Success:
			m.Imported++
		case r.Empty:
			m.Empty++
		default:
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes the manifest as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest %s: %w", path, err)
	}
	return nil
}

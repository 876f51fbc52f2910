package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/springnet/internal/sim"
)

type ExportData struct {
	RunMetadata
	Potential []float64 `json:"potential"`
	Kinetic   []float64 `json:"kinetic"`
}

// ExportJSON writes a run's metadata and energy history as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		RunMetadata: meta,
		Potential:   result.Potential,
		Kinetic:     result.Kinetic,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

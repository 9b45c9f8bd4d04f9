package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/kview/internal/view"
)

type ExportData struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Exec    string             `json:"exec"`
	Layout  string             `json:"layout"`
	Metrics map[string]float64 `json:"metrics"`
	Views   []ExportView       `json:"views"`
}

type ExportView struct {
	Label          string    `json:"label"`
	Layout         string    `json:"layout"`
	Dims           []int     `json:"dims"`
	DerivativeSize int       `json:"derivative_size"`
	Values         []float64 `json:"values"`
}

func newExportData(meta *RunMetadata, snaps []view.Snapshot) ExportData {
	data := ExportData{
		ID:      meta.ID,
		Name:    meta.Name,
		Exec:    meta.Exec,
		Layout:  meta.Layout,
		Metrics: meta.Metrics,
		Views:   make([]ExportView, len(snaps)),
	}
	for i, s := range snaps {
		data.Views[i] = ExportView{
			Label:          s.Label,
			Layout:         s.Layout,
			Dims:           s.Dims,
			DerivativeSize: s.DerivativeSize,
			Values:         s.Values,
		}
	}
	return data
}

func Export(w io.Writer, meta *RunMetadata, snaps []view.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, snaps))
}

func ExportJSON(path string, meta *RunMetadata, snaps []view.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return Export(file, meta, snaps)
}

func ExportJSONStdout(meta *RunMetadata, snaps []view.Snapshot) error {
	return Export(os.Stdout, meta, snaps)
}

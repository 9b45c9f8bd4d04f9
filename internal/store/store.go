package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/kview/internal/view"
)

const (
	metadataFile = "metadata.json"
	valuesFile   = "values.csv"
)

// ErrCorrupt marks a run directory whose values do not match its metadata.
var ErrCorrupt = errors.New("store: run data does not match metadata")

// Store keeps view snapshots in one directory per run.
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
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Exec      string             `json:"exec"`
	Layout    string             `json:"layout"`
	Views     []view.Snapshot    `json:"views"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the snapshots under a new run id derived from meta.Name. The
// view shapes go to metadata.json and the values to values.csv, one row per
// element.
func (s *Store) Save(meta RunMetadata, snaps []view.Snapshot) (string, error) {
	for _, snap := range snaps {
		if err := snap.Validate(); err != nil {
			return "", err
		}
	}

	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.UnixNano())
	meta.Views = snaps
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", fmt.Errorf("create metadata: %w", err)
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, valuesFile))
	if err != nil {
		return "", fmt.Errorf("create values: %w", err)
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeValues(w, snaps); err != nil {
		return "", fmt.Errorf("write values: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write values: %w", err)
	}

	return meta.ID, nil
}

func writeValues(w *csv.Writer, snaps []view.Snapshot) error {
	width := 1
	for _, snap := range snaps {
		width = max(width, snap.Width())
	}

	header := []string{"view", "element", "value"}
	for i := 0; i < width-1; i++ {
		header = append(header, fmt.Sprintf("d%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for vi, snap := range snaps {
		sw := snap.Width()
		for e := 0; e < snap.Elements(); e++ {
			row := []string{strconv.Itoa(vi), strconv.Itoa(e)}
			for _, x := range snap.Values[e*sw : (e+1)*sw] {
				row = append(row, strconv.FormatFloat(x, 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// List returns the metadata of every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSnapshots returns the snapshots of a run with their values filled in.
func (s *Store) LoadSnapshots(runID string) ([]view.Snapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, valuesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read values of %s: %w", runID, err)
	}

	snaps := meta.Views
	for i := range snaps {
		snaps[i].Values = make([]float64, 0, snaps[i].Elements()*snaps[i].Width())
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			return nil, fmt.Errorf("%w: %s row %d", ErrCorrupt, runID, i)
		}

		vi, err := strconv.Atoi(record[0])
		if err != nil || vi < 0 || vi >= len(snaps) {
			return nil, fmt.Errorf("%w: %s row %d names view %q", ErrCorrupt, runID, i, record[0])
		}
		w := snaps[vi].Width()
		if len(record) < 2+w {
			return nil, fmt.Errorf("%w: %s row %d has %d values, want %d", ErrCorrupt, runID, i, len(record)-2, w)
		}

		for _, field := range record[2 : 2+w] {
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: %v", ErrCorrupt, runID, i, err)
			}
			snaps[vi].Values = append(snaps[vi].Values, x)
		}
	}

	for _, snap := range snaps {
		if err := snap.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	return snaps, nil
}

// Find returns the snapshot labelled label.
func Find(snaps []view.Snapshot, label string) (view.Snapshot, bool) {
	for _, snap := range snaps {
		if snap.Label == label {
			return snap, true
		}
	}
	return view.Snapshot{}, false
}

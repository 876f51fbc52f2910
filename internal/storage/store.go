package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/san-kum/springnet/internal/config"
	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/sim"
)

const (
	metadataFile = "metadata.json"
	energyFile   = "energy.csv"
	graphFile    = "graph.csv"
)

// Store keeps one directory per settle run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return errors.Wrapf(os.MkdirAll(s.baseDir, 0755), "create %s", s.baseDir)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Topology   string             `json:"topology"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Jitter     string             `json:"jitter"`
	Shape      config.Shape       `json:"shape"`
	Params     dynamo.Params      `json:"params"`
	Vertices   int                `json:"vertices"`
	Edges      int                `json:"edges"`
	Steps      int                `json:"steps"`
	Settled    bool               `json:"settled"`
	SettleStep int                `json:"settle_step"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewRunMetadata describes a finished run of g.
func NewRunMetadata(cfg *config.Config, g *dynamo.Graph, result *sim.Result) RunMetadata {
	return RunMetadata{
		Topology:   cfg.Topology,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Jitter:     cfg.Jitter,
		Shape:      cfg.Shape,
		Params:     g.Params,
		Vertices:   g.NumVertices(),
		Edges:      g.NumEdges(),
		Steps:      result.StepsTaken,
		Settled:    result.Settled,
		SettleStep: result.SettleStep,
		Metrics:    result.Metrics,
	}
}

// Save writes metadata, energy history and the final graph of a run under a
// fresh run ID and returns that ID.
func (s *Store) Save(meta RunMetadata, g *dynamo.Graph, result *sim.Result) (string, error) {
	meta.ID = uuid.NewString()
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run dir")
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", errors.Wrap(err, "create metadata")
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}

	if err := s.saveEnergy(filepath.Join(runDir, energyFile), result); err != nil {
		return "", err
	}

	if err := SaveGraph(filepath.Join(runDir, graphFile), g); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func (s *Store) saveEnergy(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create energy history")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"sample", "potential", "kinetic"}); err != nil {
		return errors.Wrap(err, "write energy header")
	}
	for i := range result.Potential {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(result.Potential[i], 'f', 6, 64),
			strconv.FormatFloat(result.Kinetic[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "write energy row")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush energy history")
}

// List returns stored runs, newest first. Unreadable run directories are
// skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", s.baseDir)
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s metadata", runID)
	}

	return &meta, nil
}

// LoadEnergy returns the recorded potential and kinetic energy histories.
func (s *Store) LoadEnergy(runID string) (potential, kinetic []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, energyFile))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "run %s", runID)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "run %s energy history", runID)
	}

	potential = make([]float64, 0, len(records))
	kinetic = make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}

		pe, err1 := strconv.ParseFloat(record[1], 64)
		ke, err2 := strconv.ParseFloat(record[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		potential = append(potential, pe)
		kinetic = append(kinetic, ke)
	}

	return potential, kinetic, nil
}

// LoadGraph restores the final graph of a run into g.
func (s *Store) LoadGraph(runID string, g *dynamo.Graph) error {
	return LoadGraph(filepath.Join(s.baseDir, runID, graphFile), g)
}

package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/orbithop/config"
)

// WarpRecord is one completed or rejected warp, as written to warps.csv.
type WarpRecord struct {
	Time      float64 `csv:"time"`
	Dest      string  `csv:"dest"`
	Distance  float64 `csv:"distance"`
	BaseCost  float64 `csv:"base_cost"`
	FinalCost float64 `csv:"final_cost"`
	Committed bool    `csv:"committed"`
	Optimal   bool    `csv:"optimal"`
	Emergency bool    `csv:"emergency"`
	Skill     float64 `csv:"skill"`
	Adapt     float64 `csv:"adaptation"`
}

// CurveRecord is one learning-curve sample, as written to learning.csv.
type CurveRecord struct {
	Time       float64 `csv:"time"`
	Cost       float64 `csv:"cost"`
	WasOptimal bool    `csv:"was_optimal"`
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir       string
	warpFile  *os.File
	curveFile *os.File

	// Track if headers have been written
	warpHeaderWritten  bool
	curveHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	warpPath := filepath.Join(dir, "warps.csv")
	f, err := os.Create(warpPath)
	if err != nil {
		return nil, fmt.Errorf("creating warps.csv: %w", err)
	}
	om.warpFile = f

	curvePath := filepath.Join(dir, "learning.csv")
	f, err = os.Create(curvePath)
	if err != nil {
		om.warpFile.Close()
		return nil, fmt.Errorf("creating learning.csv: %w", err)
	}
	om.curveFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteWarp appends one warp record to warps.csv.
func (om *OutputManager) WriteWarp(record WarpRecord) error {
	if om == nil {
		return nil
	}

	records := []WarpRecord{record}

	if !om.warpHeaderWritten {
		if err := gocsv.Marshal(records, om.warpFile); err != nil {
			return fmt.Errorf("writing warp record: %w", err)
		}
		om.warpHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.warpFile); err != nil {
			return fmt.Errorf("writing warp record: %w", err)
		}
	}
	return nil
}

// WriteCurve appends learning-curve samples to learning.csv.
func (om *OutputManager) WriteCurve(records []CurveRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}

	if !om.curveHeaderWritten {
		if err := gocsv.Marshal(records, om.curveFile); err != nil {
			return fmt.Errorf("writing learning curve: %w", err)
		}
		om.curveHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.curveFile); err != nil {
			return fmt.Errorf("writing learning curve: %w", err)
		}
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.warpFile, om.curveFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

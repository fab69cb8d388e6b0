// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/toolscout/pkg/types"
)

// Default file names inside the run directory.
const (
	DefaultPass1File   = "pass1.json"
	DefaultCatalogFile = "catalog.json"
	DefaultIDFFile     = "tool.idf"
	DefaultCacheFile   = "db.sqlite"
	DefaultResultsFile = "results.tsv"
	DefaultDiffFile    = "diff.tsv"
	DefaultNewFile     = "new.json"
	DefaultWorkers     = 4
)

// WithDefaults fills zero-valued fields of cfg and resolves relative file
// names against cfg.Dir.
func WithDefaults(cfg types.RunConfig) types.RunConfig {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	cfg.Pass1File = inDir(cfg.Dir, cfg.Pass1File, DefaultPass1File)
	cfg.CatalogFile = inDir(cfg.Dir, cfg.CatalogFile, DefaultCatalogFile)
	cfg.IDFFile = inDir(cfg.Dir, cfg.IDFFile, DefaultIDFFile)
	cfg.Cache.Path = inDir(cfg.Dir, cfg.Cache.Path, DefaultCacheFile)
	cfg.ResultsFile = inDir(cfg.Dir, cfg.ResultsFile, DefaultResultsFile)
	cfg.DiffFile = inDir(cfg.Dir, cfg.DiffFile, DefaultDiffFile)
	cfg.NewFile = inDir(cfg.Dir, cfg.NewFile, DefaultNewFile)
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	cfg.Confidence = cfg.Confidence.WithDefaults()
	cfg.Inclusion = cfg.Inclusion.WithDefaults()
	return cfg
}

func inDir(dir, name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// LoadPass1 reads the first-pass records from path.
func LoadPass1(path string) ([]types.FirstPassRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening first-pass input: %w", err)
	}
	defer f.Close()
	records, err := ReadPass1(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadPass1 decodes a JSON array of first-pass records. Fields the record
// type does not know are a schema mismatch and fail the read, as do a null
// document and anything after the array.
func ReadPass1(r io.Reader) ([]types.FirstPassRecord, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var records []types.FirstPassRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding first-pass input: %w", err)
	}
	if records == nil {
		return nil, errors.New("decoding first-pass input: expected an array of records")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding first-pass input: unexpected data after the array")
	}
	return records, nil
}

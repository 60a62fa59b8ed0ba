package dsconv

// Run orchestration across splits.

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// DefaultSplits returns the split names processed when none are configured.
func DefaultSplits() []string {
	return []string{"train", "val"}
}

// RunConfig carries the resolved parameters for a conversion run. Zero values
// select the defaults documented per field.
type RunConfig struct {
	SourceRoot     string
	OutputRoot     string
	Splits         []string // Defaults to DefaultSplits().
	SplitDirPrefix string   // Defaults to DefaultSplitDirPrefix.
	Classes        ClassMap // Defaults to DefaultClassMap().
	MinBoxSize     int      // Defaults to DefaultMinBoxSize; negative disables the filter.
	NumWorkers     int
	Dimensions     DimensionReader // Defaults to ReadImageDimensions.
	Progress       ProgressFunc
}

// RunResult aggregates the per-split tallies of one conversion run.
type RunResult struct {
	PerSplit map[string]SplitResult
	Total    SplitResult
}

// Run converts all requested splits and writes the dataset manifest once at
// the end.
//
// Per-line and per-image failures are absorbed into the counters and never
// abort the run. Only a missing source root or an unusable output root is
// fatal, and both are detected before any split is processed.
func Run(cfg RunConfig) (RunResult, error) {
	if len(cfg.Splits) == 0 {
		cfg.Splits = DefaultSplits()
	}
	if cfg.Classes.isZero() {
		cfg.Classes = DefaultClassMap()
	}
	if cfg.MinBoxSize == 0 {
		cfg.MinBoxSize = DefaultMinBoxSize
	}

	if info, err := os.Stat(cfg.SourceRoot); err != nil || !info.IsDir() {
		return RunResult{}, fmt.Errorf("cannot access source root %q: %v", cfg.SourceRoot, err)
	}
	if err := os.MkdirAll(cfg.OutputRoot, 0755); err != nil {
		return RunResult{}, fmt.Errorf("cannot create output root %q: %v", cfg.OutputRoot, err)
	}

	processor := &SplitProcessor{
		SourceRoot:     cfg.SourceRoot,
		OutputRoot:     cfg.OutputRoot,
		SplitDirPrefix: cfg.SplitDirPrefix,
		Converter:      Converter{Classes: cfg.Classes, MinBoxSize: cfg.MinBoxSize},
		NumWorkers:     cfg.NumWorkers,
		Dimensions:     cfg.Dimensions,
		Progress:       cfg.Progress,
	}

	result := RunResult{PerSplit: make(map[string]SplitResult, len(cfg.Splits))}
	for _, split := range cfg.Splits {
		sr, err := processor.Process(split)
		if err != nil {
			return RunResult{}, err
		}
		log.Printf("Split %s: processed %d, skipped %d", split, sr.Processed, sr.Skipped)

		result.PerSplit[split] = sr
		result.Total.Add(sr)
	}

	manifest := NewManifest(cfg.OutputRoot, cfg.Splits, cfg.Classes)
	if err := manifest.WriteFile(filepath.Join(cfg.OutputRoot, ManifestFileName)); err != nil {
		return RunResult{}, err
	}

	return result, nil
}

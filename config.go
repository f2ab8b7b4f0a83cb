// Filter configuration: YAML file loading, flag overrides and validation

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// FilterConfig holds the read filters for one run. Optional thresholds are nil
// when disabled
type FilterConfig struct {
	TargetCount       uint64   `yaml:"target_count"`
	MinAvgQuality     int      `yaml:"min_avg_quality"`
	MaxNCount         *int     `yaml:"max_n_count"`
	TrimLength        *int     `yaml:"trim_length"`
	MaxExpectedErrors *float64 `yaml:"max_expected_errors"`
}

// trim returns the trim length, or -1 when trimming is disabled
func (c FilterConfig) trim() int {
	if c.TrimLength == nil {
		return -1
	}
	return *c.TrimLength
}

func (c FilterConfig) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Uint64("target", c.TargetCount),
		slog.Int("min_avg_quality", c.MinAvgQuality),
	}
	if c.MaxNCount != nil {
		attrs = append(attrs, slog.Int("max_n_count", *c.MaxNCount))
	}
	if c.TrimLength != nil {
		attrs = append(attrs, slog.Int("trim_length", *c.TrimLength))
	}
	if c.MaxExpectedErrors != nil {
		attrs = append(attrs, slog.Float64("max_expected_errors", *c.MaxExpectedErrors))
	}
	return slog.GroupValue(attrs...)
}

func (c FilterConfig) Validate() error {
	if c.MinAvgQuality < 0 {
		return fmt.Errorf("minimum average quality must be non-negative, got %d", c.MinAvgQuality)
	}
	if c.MaxNCount != nil && *c.MaxNCount < 0 {
		return fmt.Errorf("maximum N count must be non-negative, got %d", *c.MaxNCount)
	}
	if c.TrimLength != nil && *c.TrimLength < 0 {
		return fmt.Errorf("trim length must be non-negative, got %d", *c.TrimLength)
	}
	if c.MaxExpectedErrors != nil && *c.MaxExpectedErrors < 0 {
		return fmt.Errorf("maximum expected errors must be non-negative, got %g", *c.MaxExpectedErrors)
	}
	return nil
}

// decodeFilterConfig parses a YAML filter configuration. Unknown keys are rejected
func decodeFilterConfig(r io.Reader) (FilterConfig, error) {
	var cfg FilterConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FilterConfig{}, fmt.Errorf("error parsing filter config: %w", err)
	}
	return cfg, nil
}

func loadFilterConfig(path string) (FilterConfig, error) {
	fh, err := os.Open(path)
	if err != nil {
		return FilterConfig{}, fmt.Errorf("error opening filter config: %w", err)
	}
	defer fh.Close()
	return decodeFilterConfig(fh)
}

// filterFlags are the command-line counterparts of FilterConfig
type filterFlags struct {
	configFile    string
	targetCount   uint64
	minAvgQuality int
	maxNCount     int
	trimLength    int
	maxEE         float64
}

func (f *filterFlags) register(cmd *cobra.Command, withTarget bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.configFile, "config", "", "YAML file with filter settings (flags override file values)")
	if withTarget {
		flags.Uint64VarP(&f.targetCount, "target", "n", DEFAULT_TARGET_COUNT, "Target number of reads to sample")
	}
	flags.IntVarP(&f.minAvgQuality, "min", "m", 0, "Minimum average Phred quality of accepted reads")
	flags.IntVarP(&f.maxNCount, "n-content", "N", 0, "Maximum number of N bases allowed in accepted reads")
	flags.IntVarP(&f.trimLength, "trim", "t", 0, "Trim each read to the given length (shorter reads are skipped)")
	flags.Float64VarP(&f.maxEE, "max-ee", "E", 0, "Maximum expected errors allowed in accepted reads")
}

// resolve builds the run configuration: config file first, then any flag the
// user set explicitly
func (f *filterFlags) resolve(cmd *cobra.Command) (FilterConfig, error) {
	cfg := FilterConfig{TargetCount: DEFAULT_TARGET_COUNT}
	if f.configFile != "" {
		fileCfg, err := loadFilterConfig(f.configFile)
		if err != nil {
			return FilterConfig{}, err
		}
		if fileCfg.TargetCount == 0 {
			fileCfg.TargetCount = cfg.TargetCount
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.TargetCount = f.targetCount
	}
	if flags.Changed("min") {
		cfg.MinAvgQuality = f.minAvgQuality
	}
	if flags.Changed("n-content") {
		v := f.maxNCount
		cfg.MaxNCount = &v
	}
	if flags.Changed("trim") {
		v := f.trimLength
		cfg.TrimLength = &v
	}
	if flags.Changed("max-ee") {
		v := f.maxEE
		cfg.MaxExpectedErrors = &v
	}

	if err := cfg.Validate(); err != nil {
		return FilterConfig{}, err
	}
	return cfg, nil
}

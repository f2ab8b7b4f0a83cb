// Main command (`fastq2comp extract`) for per-position base composition.
// Also used as the root command's default action

package main

import (
	"github.com/spf13/cobra"
)

type extractOptions struct {
	inFile  string
	outFile string
	format  string
	mode    string
	seed    int64
	filters filterFlags
}

func (o *extractOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.inFile, "in", "i", "-", "Input FASTQ file, gzip/xz/zstd/bzip2 detected automatically (default: stdin)")
	flags.StringVarP(&o.outFile, "out", "o", "-", "Output file (default: stdout)")
	flags.StringVarP(&o.format, "format", "f", "json", "Output format (json, tsv)")
	flags.StringVarP(&o.mode, "mode", "M", "sample", "Which reads to aggregate (sample, head, all)")
	flags.Int64Var(&o.seed, "seed", 0, "Random seed for sampling (0 = seed from current time)")
	o.filters.register(cmd, true)
}

// ExtractCommand creates the `extract` subcommand
func ExtractCommand(opts *globalOptions) *cobra.Command {
	var eo extractOptions
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract per-position base composition (default command)",
		Long: `Read FASTQ records, filter them by length, N-content and average quality,
optionally reservoir-sample them, and report the percentage of A, T, G, C and N
at every read position.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtractCommand(cmd, opts, &eo)
		},
	}
	eo.register(cmd)
	return cmd
}

func runExtractCommand(cmd *cobra.Command, opts *globalOptions, eo *extractOptions) error {
	format, err := parseOutputFormat(eo.format)
	if err != nil {
		return err
	}
	mode, err := parseMode(eo.mode)
	if err != nil {
		return err
	}
	cfg, err := eo.filters.resolve(cmd)
	if err != nil {
		return err
	}

	logger := opts.logger()
	logger.Info("arguments received", "in", eo.inFile, "out", eo.outFile, "format", eo.format, "mode", eo.mode, "config", cfg)

	stats, err := runExtract(eo.inFile, eo.outFile, cfg, mode, format, newRandom(eo.seed), opts)
	if err != nil {
		return err
	}
	opts.summary("Extracted base composition of %d reads.", stats.Extracted)
	return nil
}

// runExtract opens the input, builds the composition and writes the formatted
// result. The output file is only created once the composition is complete
func runExtract(inFile, outFile string, cfg FilterConfig, mode Mode, format OutputFormat, rng Random, opts *globalOptions) (RunStats, error) {
	infh, err := openInput(inFile)
	if err != nil {
		return RunStats{}, err
	}
	defer infh.Close()

	table, stats, err := extractComposition(infh, cfg, mode, rng, opts.logger())
	if err != nil {
		return stats, err
	}

	result, err := formatComposition(table, format)
	if err != nil {
		return stats, err
	}

	outfh, err := openOutput(outFile)
	if err != nil {
		return stats, err
	}
	if err := writeResult(outfh, result); err != nil {
		outfh.Close()
		return stats, err
	}
	return stats, closeOutput(outfh)
}

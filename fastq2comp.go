package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	VERSION              = "0.3.0"
	PHRED_OFFSET         = 33
	DEFAULT_TARGET_COUNT = 10000
)

// Define color functions
var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// exitFunc is replaced in tests
var exitFunc = os.Exit

// globalOptions are the persistent flags shared by all subcommands
type globalOptions struct {
	verbose bool
	debug   bool
	quiet   bool

	stderr io.Writer
	log    *slog.Logger
}

// logger returns the diagnostics logger for the selected verbosity
func (o *globalOptions) logger() *slog.Logger {
	if o.log != nil {
		return o.log
	}
	level := slog.LevelWarn
	switch {
	case o.quiet:
		level = slog.LevelError
	case o.debug:
		level = slog.LevelDebug
	case o.verbose:
		level = slog.LevelInfo
	}
	o.log = slog.New(slog.NewTextHandler(o.errWriter(), &slog.HandlerOptions{Level: level}))
	return o.log
}

func (o *globalOptions) errWriter() io.Writer {
	if o.stderr != nil {
		return o.stderr
	}
	return os.Stderr
}

// summary prints a one-line run summary on stderr unless --quiet is set
func (o *globalOptions) summary(format string, args ...any) {
	if o.quiet {
		return
	}
	fmt.Fprintf(o.errWriter(), format+"\n", args...)
}

func newRandom(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// newRootCommand builds the command tree. Invoked without a subcommand, the
// root command runs `extract`
func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	var (
		version bool
		eo      extractOptions
	)

	rootCmd := &cobra.Command{
		Use:           "fastq2comp",
		Short:         bold("Per-position base composition of FASTQ reads"),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version {
				fmt.Printf("fastq2comp %s\n", VERSION)
				return nil
			}
			// No input given on an interactive terminal: show help
			if !cmd.Flags().Changed("in") && isTerminal(os.Stdin) {
				helpFunc(cmd, args)
				return nil
			}
			return runExtractCommand(cmd, opts, &eo)
		},
	}

	rootCmd.SetHelpFunc(helpFunc)

	persistent := rootCmd.PersistentFlags()
	persistent.BoolVar(&opts.verbose, "verbose", false, "Log run progress to stderr")
	persistent.BoolVar(&opts.debug, "debug", false, "Log every skipped read to stderr")
	persistent.BoolVarP(&opts.quiet, "quiet", "q", false, "Only report errors (overrides --verbose and --debug)")

	rootCmd.Flags().BoolVarP(&version, "version", "v", false, "Show version information")
	eo.register(rootCmd)

	rootCmd.AddCommand(ExtractCommand(opts))
	rootCmd.AddCommand(SampleCommand(opts))
	rootCmd.AddCommand(CompareCommand(opts))

	return rootCmd
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	rootCmd := newRootCommand()

	// Custom error handling
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		fmt.Fprintln(os.Stderr, red("Try 'fastq2comp --help' for more information"))
		exitFunc(1)
	}
}

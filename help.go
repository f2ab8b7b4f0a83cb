package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func getColorizedLogo() string {
	return yellow("A") + cyan("T") + red("G") + bold("C")
}

// Custom help function used
// It provides nicely formatted help messages for the root command and other subcommands
func helpFunc(cmd *cobra.Command, args []string) {

	filterHelp := []string{
		cyan("-n, --target") + " <int>      : Target number of reads (default, 10000)",
		cyan("-m, --min") + " <int>         : Minimum average Phred quality of accepted reads (default, 0)",
		cyan("-N, --n-content") + " <int>   : Maximum number of N bases per read (optional)",
		cyan("-t, --trim") + " <int>        : Trim reads to this length, shorter reads are skipped (optional)",
		cyan("-E, --max-ee") + " <float>    : Maximum expected errors per read (optional)",
		cyan("--config") + " <file>         : YAML file with filter settings; flags take precedence",
	}

	// Specialized help for subcommands
	switch cmd.Name() {
	case "sample":
		fmt.Printf(`
%s

%s
  Select a uniform random sample of the reads passing the filters in a single
  pass (reservoir sampling) and write them as FASTQ. Reads are trimmed when
  --trim is given.

%s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s

%s
  %s
  %s

`,
			bold(getColorizedLogo()+" fastq2comp sample - Reservoir-samples FASTQ reads"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-i, --in")+" <string>       : Input FASTQ file (default, stdin)",
			cyan("-o, --out")+" <string>      : Output FASTQ file (default, stdout)",
			filterHelp[0],
			filterHelp[1],
			filterHelp[2],
			filterHelp[3],
			filterHelp[4],
			filterHelp[5],
			cyan("-c, --compress")+" <int>    : Memory compression level for sampled reads (0=disabled, 1-22)",
			cyan("--sort-ids")+"              : Write sampled reads in natural read ID order",
			cyan("--seed")+" <int>            : Random seed (default, current time)",
			bold(yellow("Examples:")),
			cyan("fastq2comp sample -n 1000 -t 50 -i input.fq.gz -o sample.fq"),
			cyan("zcat input.fq.gz | fastq2comp sample -n 500 --compress 3 --sort-ids > sample.fq"),
		)
		return
	case "compare":
		fmt.Printf(`
%s

%s
  Summarise composition files produced by 'extract' for several libraries.
  For every position, reports the mean and sample standard deviation of each
  base percentage across the libraries covering that position.

%s
  %s
  %s

%s
  %s

`,
			bold(getColorizedLogo()+" fastq2comp compare - Compares base composition of several libraries"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-o, --out")+" <string>      : Output file (default, stdout)",
			cyan("-f, --format")+" <string>   : Output format (json, tsv) (default, 'json')",
			bold(yellow("Examples:")),
			cyan("fastq2comp compare lib1.json lib2.json lib3.json -f tsv"),
		)
		return
	}

	// Default: root command and `extract` help
	fmt.Printf(`
%s

%s
  %s
  %s
  %s

%s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s

%s
  %s
  %s
  %s

%s
  # Composition of a random sample of 10000 reads, trimmed to 50 bases
  %s

  # Composition of every read with average quality of at least 20, as TSV
  %s

`,
		bold(getColorizedLogo()+" fastq2comp v."+VERSION+" - Per-position base composition of FASTQ reads"),
		bold(yellow("Modes:")),
		cyan("sample")+" : reservoir-sample the target number of reads, then aggregate (default)",
		cyan("head")+"   : aggregate the first target number of accepted reads",
		cyan("all")+"    : aggregate every accepted read",
		bold(yellow("Flags:")),
		cyan("-i, --in")+" <string>       : Input FASTQ file, may be compressed (default, stdin)",
		cyan("-o, --out")+" <string>      : Output file (default, stdout)",
		cyan("-f, --format")+" <string>   : Output format (json, tsv) (default, 'json')",
		cyan("-M, --mode")+" <string>     : Aggregation mode (sample, head, all) (default, 'sample')",
		filterHelp[0],
		filterHelp[1],
		filterHelp[2],
		filterHelp[3],
		filterHelp[4],
		filterHelp[5],
		cyan("--seed")+" <int>            : Random seed for sampling (default, current time)",
		cyan("--verbose")+"               : Log run progress",
		cyan("--debug")+"                 : Log every skipped read",
		cyan("-q, --quiet")+"             : Only report errors",
		cyan("-h, --help")+"              : Show help message",
		cyan("-v, --version")+"           : Show version information",
		bold(yellow("Subcommands:")),
		cyan("extract")+" : Per-position base composition (default)",
		cyan("sample")+"  : Write a reservoir sample of filtered reads as FASTQ",
		cyan("compare")+" : Mean and standard deviation of composition across libraries",
		bold(yellow("Usage examples:")),
		cyan("fastq2comp -n 10000 -t 50 -i input.fq.gz -o comp.json"),
		cyan("cat input.fq | fastq2comp extract --mode all -m 20 -f tsv > comp.tsv"),
	)
}

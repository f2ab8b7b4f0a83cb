// Subcommand (`fastq2comp compare`) summarising several composition files:
// per-position mean and standard deviation of each base percentage

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

type compareColumn struct {
	Pos  int        `json:"pos"`
	N    int        `json:"n"`
	Mean baseValues `json:"mean"`
	SD   baseValues `json:"sd"`
}

type compareDoc struct {
	Lib []compareColumn `json:"lib"`
	Len int             `json:"len"`
}

// readCompositionDoc decodes one composition document and orders its columns
// by position
func readCompositionDoc(r io.Reader) (compositionDoc, error) {
	var doc compositionDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return compositionDoc{}, fmt.Errorf("error decoding composition: %w", err)
	}
	sort.Slice(doc.Lib, func(i, j int) bool { return doc.Lib[i].Pos < doc.Lib[j].Pos })
	for _, c := range doc.Lib {
		if c.Pos < 1 {
			return compositionDoc{}, fmt.Errorf("invalid position %d in composition", c.Pos)
		}
	}
	return doc, nil
}

// compareCompositions computes, for every position present in any library,
// the mean and sample standard deviation of each base percentage across the
// libraries that cover it. Positions covered by a single library get sd 0
func compareCompositions(libs []compositionDoc) compareDoc {
	byPos := make(map[int][][5]int)
	maxPos := 0
	for _, lib := range libs {
		for _, c := range lib.Lib {
			byPos[c.Pos] = append(byPos[c.Pos], c.Bases.array())
			if c.Pos > maxPos {
				maxPos = c.Pos
			}
		}
	}

	out := compareDoc{Lib: make([]compareColumn, 0, maxPos)}
	for pos := 1; pos <= maxPos; pos++ {
		values := byPos[pos]
		if len(values) == 0 {
			continue
		}
		var mean, sd [5]int
		x := make([]float64, len(values))
		for b := range Bases {
			for i, v := range values {
				x[i] = float64(v[b])
			}
			m, s := stat.MeanStdDev(x, nil)
			if len(x) < 2 {
				s = 0
			}
			mean[b] = int(math.Round(m))
			sd[b] = int(math.Round(s))
		}
		out.Lib = append(out.Lib, compareColumn{
			Pos:  pos,
			N:    len(values),
			Mean: newBaseValues(mean),
			SD:   newBaseValues(sd),
		})
	}
	out.Len = len(out.Lib)
	return out
}

func formatComparison(doc compareDoc, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("error encoding comparison: %w", err)
		}
		return string(b), nil
	case FormatTSV:
		var sb strings.Builder
		sb.WriteString("pos\tn")
		for _, kind := range []string{"mean", "sd"} {
			for _, b := range Bases {
				sb.WriteString("\t" + string(b) + "_" + kind)
			}
		}
		for _, c := range doc.Lib {
			sb.WriteString("\n" + strconv.Itoa(c.Pos) + "\t" + strconv.Itoa(c.N))
			for _, vals := range [][5]int{c.Mean.array(), c.SD.array()} {
				for _, v := range vals {
					sb.WriteString("\t" + strconv.Itoa(v))
				}
			}
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unsupported output format: %d", format)
	}
}

// CompareCommand creates the `compare` subcommand
func CompareCommand(opts *globalOptions) *cobra.Command {
	var (
		outFile string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "compare <composition.json>...",
		Short: "Summarise composition files from several libraries (mean and sd per position)",
		Long: `Read composition files written by 'extract' (JSON format) and report, for
every position, the mean and sample standard deviation of each base percentage
across the libraries.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			opts.logger().Info("arguments received", "files", args, "out", outFile, "format", format)
			return runCompare(args, outFile, outputFormat)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outFile, "out", "o", "-", "Output file (default: stdout)")
	flags.StringVarP(&format, "format", "f", "json", "Output format (json, tsv)")
	return cmd
}

func runCompare(inFiles []string, outFile string, format OutputFormat) error {
	libs := make([]compositionDoc, 0, len(inFiles))
	for _, file := range inFiles {
		fh, err := openInput(file)
		if err != nil {
			return err
		}
		doc, err := readCompositionDoc(fh)
		fh.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		libs = append(libs, doc)
	}

	result, err := formatComparison(compareCompositions(libs), format)
	if err != nil {
		return err
	}

	outfh, err := openOutput(outFile)
	if err != nil {
		return err
	}
	if err := writeResult(outfh, result); err != nil {
		outfh.Close()
		return err
	}
	return closeOutput(outfh)
}

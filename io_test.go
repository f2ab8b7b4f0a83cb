package main

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shenwei356/xopen"
)

// Helper function to read a whole output file
func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestRecordID(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"@read1", "read1"},
		{"@read1 length=150", "read1"},
		{"@SRR001.7\tlane=2", "SRR001.7"},
		{"read2", "read2"},
		{"@", ""},
	}

	for _, tt := range tests {
		if got := recordID(tt.header); got != tt.want {
			t.Errorf("recordID(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

// Test FASTQ record writing
func TestWriteRecord(t *testing.T) {
	tests := []struct {
		name   string
		record *Record
		want   string
	}{
		{
			name:   "Plain header",
			record: &Record{Header: "@read1", Seq: "ACGT", Qual: "IIII"},
			want:   "@read1\nACGT\n+\nIIII\n",
		},
		{
			name:   "Header with description",
			record: &Record{Header: "@read2 sample=A", Seq: "GGN", Qual: "#I!"},
			want:   "@read2 sample=A\nGGN\n+\n#I!\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.fastq")
			writer, err := xopen.Wopen(path)
			if err != nil {
				t.Fatal(err)
			}
			writeRecord(writer, tt.record)
			if err := writer.Close(); err != nil {
				t.Fatal(err)
			}

			if got := readFile(t, path); got != tt.want {
				t.Errorf("written record = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunExtract(t *testing.T) {
	input := "@\nAA\n+\n~~~\n@\nTA\n+\n~~~\n"
	cfg := FilterConfig{TargetCount: 1, TrimLength: intPtr(2)}

	// Compressed input is detected from its content
	gzPath := filepath.Join(t.TempDir(), "reads.fastq.gz")
	gz, err := xopen.Wopen(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gz.WriteString(input); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		in     string
		format OutputFormat
		want   string
	}{
		{
			name:   "JSON from plain input",
			in:     writeTempFile(t, "reads.fastq", input),
			format: FormatJSON,
			want: `{"lib":[{"pos":1,"bases":{"A":50,"T":50,"G":0,"C":0,"N":0}},` +
				`{"pos":2,"bases":{"A":100,"T":0,"G":0,"C":0,"N":0}}],"len":2}` + "\n",
		},
		{
			name:   "TSV from gzip input",
			in:     gzPath,
			format: FormatTSV,
			want:   "50\t50\t0\t0\t0\t100\t0\t0\t0\t0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "composition.out")
			stats, err := runExtract(tt.in, out, cfg, ModeAll, tt.format, rand.New(rand.NewSource(1)), testOptions())
			if err != nil {
				t.Fatalf("runExtract() error: %v", err)
			}
			if stats.Extracted != 2 {
				t.Errorf("extracted %d reads, want 2", stats.Extracted)
			}
			if got := readFile(t, out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunExtractErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "composition.json")
	cfg := FilterConfig{TargetCount: 10}

	in := writeTempFile(t, "bad.fastq", fastqText("ACGT", "IIII", "ACNNX", "IIIII"))
	_, err := runExtract(in, out, cfg, ModeAll, FormatJSON, rand.New(rand.NewSource(1)), testOptions())
	if err == nil {
		t.Fatal("expected an error for inconsistent read lengths")
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("output file should not be created on error, stat error: %v", statErr)
	}

	if _, err := runExtract(filepath.Join(dir, "missing.fastq"), out, cfg, ModeAll, FormatJSON, rand.New(rand.NewSource(1)), testOptions()); err == nil {
		t.Error("expected an error for a missing input file")
	}
}

// A full device accepts the open but fails the buffered writes
func TestRunWriteFailure(t *testing.T) {
	const full = "/dev/full"
	if _, err := os.Stat(full); err != nil {
		t.Skipf("%s not available: %v", full, err)
	}
	in := writeTempFile(t, "reads.fastq", fastqText("ACGT", "IIII", "TTGA", "IIII"))
	lib := writeTempFile(t, "lib.json", `{"lib":[{"pos":1,"bases":{"A":100,"T":0,"G":0,"C":0,"N":0}}],"len":1}`)
	cfg := FilterConfig{TargetCount: 10}

	if _, err := runExtract(in, full, cfg, ModeAll, FormatJSON, rand.New(rand.NewSource(1)), testOptions()); err == nil {
		t.Error("runExtract() did not report the write failure")
	}
	if _, err := runSample(in, full, cfg, 0, false, rand.New(rand.NewSource(1)), testLogger()); err == nil {
		t.Error("runSample() did not report the write failure")
	}
	if err := runCompare([]string{lib}, full, FormatTSV); err == nil {
		t.Error("runCompare() did not report the write failure")
	}
}

func TestRunSample(t *testing.T) {
	input := "@read10 x\nACGT\n+\nIIII\n" +
		"@read2\nNNNN\n+\nIIII\n" +
		"@read1\nTTGA\n+\n#III\n" +
		"@read3\nGGCC\n+\nIII!\n"
	in := writeTempFile(t, "reads.fastq", input)
	cfg := FilterConfig{TargetCount: 10, MaxNCount: intPtr(1), TrimLength: intPtr(3)}

	tests := []struct {
		name      string
		compLevel int
		sortIDs   bool
		want      string
	}{
		{
			name: "Input order",
			want: "@read10 x\nACG\n+\nIII\n@read1\nTTG\n+\n#II\n@read3\nGGC\n+\nIII\n",
		},
		{
			name:      "Compressed pool, natural ID order",
			compLevel: 3,
			sortIDs:   true,
			want:      "@read1\nTTG\n+\n#II\n@read3\nGGC\n+\nIII\n@read10 x\nACG\n+\nIII\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "sample.fastq")
			stats, err := runSample(in, out, cfg, tt.compLevel, tt.sortIDs, rand.New(rand.NewSource(1)), testLogger())
			if err != nil {
				t.Fatalf("runSample() error: %v", err)
			}
			if stats.Extracted != 3 || stats.Rejected.NContent != 1 {
				t.Errorf("stats = %+v, want 3 written and 1 N-content rejection", stats)
			}
			if got := readFile(t, out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunSampleSubset(t *testing.T) {
	var pairs []string
	for i := 0; i < 50; i++ {
		pairs = append(pairs, "ACGTACGT", "IIIIIIII")
	}
	in := writeTempFile(t, "reads.fastq", fastqText(pairs...))
	out := filepath.Join(t.TempDir(), "sample.fastq.gz")

	stats, err := runSample(in, out, FilterConfig{TargetCount: 7}, 1, false, rand.New(rand.NewSource(9)), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Extracted != 7 || stats.Accepted != 50 {
		t.Errorf("stats = %+v, want 7 of 50 reads written", stats)
	}

	fh, err := xopen.Ropen(out)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	table, _, err := extractComposition(fh, FilterConfig{TargetCount: 100}, ModeAll, rand.New(rand.NewSource(1)), testLogger())
	if err != nil {
		t.Fatalf("sampled output is not valid FASTQ: %v", err)
	}
	if table.Extracted() != 7 {
		t.Errorf("sampled output holds %d reads, want 7", table.Extracted())
	}
}

func TestRunCompare(t *testing.T) {
	lib1 := writeTempFile(t, "lib1.json", `{"lib":[{"pos":1,"bases":{"A":100,"T":0,"G":0,"C":0,"N":0}}],"len":1}`)
	lib2 := writeTempFile(t, "lib2.json", `{"lib":[{"pos":1,"bases":{"A":60,"T":40,"G":0,"C":0,"N":0}}],"len":1}`)
	out := filepath.Join(t.TempDir(), "compare.json")

	if err := runCompare([]string{lib1, lib2}, out, FormatJSON); err != nil {
		t.Fatalf("runCompare() error: %v", err)
	}
	want := `{"lib":[{"pos":1,"n":2,"mean":{"A":80,"T":20,"G":0,"C":0,"N":0},"sd":{"A":28,"T":28,"G":0,"C":0,"N":0}}],"len":1}` + "\n"
	if got := readFile(t, out); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	bad := writeTempFile(t, "bad.json", "not json")
	err := runCompare([]string{lib1, bad}, out, FormatJSON)
	if err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("error = %v, want one naming %s", err, bad)
	}
}

// Subcommands are reachable from the root command, and the root command runs
// extract by default
func TestRootCommand(t *testing.T) {
	in := writeTempFile(t, "reads.fastq", fastqText("GATC", "IIII", "GATC", "IIII"))
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		out  string
		want string
	}{
		{
			name: "Default command",
			args: []string{"-q", "-i", in, "-o", filepath.Join(dir, "root.tsv"), "-f", "tsv", "--seed", "5"},
			out:  filepath.Join(dir, "root.tsv"),
			want: "0\t0\t100\t0\t0\t100\t0\t0\t0\t0\t0\t100\t0\t0\t0\t0\t0\t0\t100\t0\n",
		},
		{
			name: "Extract subcommand",
			args: []string{"extract", "-q", "-i", in, "-o", filepath.Join(dir, "extract.tsv"), "-f", "tsv", "-M", "head", "-n", "1"},
			out:  filepath.Join(dir, "extract.tsv"),
			want: "0\t0\t100\t0\t0\t100\t0\t0\t0\t0\t0\t100\t0\t0\t0\t0\t0\t0\t100\t0\n",
		},
		{
			name: "Sample subcommand",
			args: []string{"sample", "-q", "-i", in, "-o", filepath.Join(dir, "sample.fastq"), "-n", "1", "--seed", "5"},
			out:  filepath.Join(dir, "sample.fastq"),
			want: "@read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute(%v) error: %v", tt.args, err)
			}
			if got := readFile(t, tt.out); !strings.HasPrefix(got, tt.want) {
				t.Errorf("output = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestRootCommandInvalidArguments(t *testing.T) {
	in := writeTempFile(t, "reads.fastq", fastqText("GATC", "IIII"))
	for _, args := range [][]string{
		{"extract", "-q", "-i", in, "-f", "xml"},
		{"extract", "-q", "-i", in, "-M", "every"},
		{"sample", "-q", "-i", in, "-c", "30"},
		{"compare", "-q"},
	} {
		cmd := newRootCommand()
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Errorf("Execute(%v) succeeded, want an error", args)
		}
	}
}

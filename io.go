// I/O utilities: input/output opening and FASTQ record writing

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// openInput opens a (possibly compressed) input file, or stdin for "-"
func openInput(path string) (*xopen.Reader, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input: %w", err)
	}
	return fh, nil
}

// openOutput creates an output file, or stdout for "-". Compression is chosen
// from the file extension
func openOutput(path string) (*xopen.Writer, error) {
	outfh, err := xopen.Wopen(path)
	if err != nil {
		return nil, fmt.Errorf("error creating output file: %w", err)
	}
	return outfh, nil
}

// writeResult writes a formatted result followed by a newline
func writeResult(w io.Writer, result string) error {
	if _, err := io.WriteString(w, result+"\n"); err != nil {
		return fmt.Errorf("error writing result: %w", err)
	}
	return nil
}

// closeOutput flushes and closes an output writer. Output is buffered, so
// failed writes are only reported here
func closeOutput(outfh *xopen.Writer) error {
	if err := outfh.Close(); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

// recordID returns the read ID: the header without its leading '@', up to the
// first whitespace
func recordID(header string) string {
	name := strings.TrimPrefix(header, "@")
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		return name[:i]
	}
	return name
}

// writeRecord writes a read in FASTQ format. The header keeps its description;
// the separator line is written as a bare '+'
func writeRecord(outfh *xopen.Writer, rec *Record) {
	record := &fastx.Record{
		Name: []byte(strings.TrimPrefix(rec.Header, "@")),
		Seq: &seq.Seq{
			Seq:  []byte(rec.Seq),
			Qual: []byte(rec.Qual),
		},
	}
	record.FormatToWriter(outfh, 0)
}

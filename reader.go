// Strict 4-line FASTQ record reader with record-length consistency checks

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a captured line is not valid UTF-8
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in input, make sure the input is UTF-8 encoded text")

// Record is a single FASTQ read. The separator line is not retained
type Record struct {
	Header string
	Seq    string
	Qual   string
}

// LengthMismatchError reports a record whose sequence or quality length differs
// from the previous record, when the difference cannot be absorbed by trimming
type LengthMismatchError struct {
	RecordNum   int
	PrevSeqLen  int
	PrevQualLen int
	Seq         string
	Qual        string
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("reads have inconsistent lengths, record %d:\n%s\n%s\nexpected read to be %d (quality %d) long but it was %d (quality %d)",
		e.RecordNum, e.Seq, e.Qual, e.PrevSeqLen, e.PrevQualLen, len(e.Seq), len(e.Qual))
}

// lineReader is satisfied by *bufio.Reader and *xopen.Reader
type lineReader interface {
	ReadString(delim byte) (string, error)
}

// RecordReader parses one FASTQ record per call from a line-oriented stream.
// Each record occupies exactly four lines: header, sequence, separator, quality
type RecordReader struct {
	r          lineReader
	trimLength int // -1 when trimming is disabled
	logger     *slog.Logger

	records     int
	prevSeqLen  int
	prevQualLen int
}

// NewRecordReader wraps r for record parsing. trimLength < 0 disables the
// trim-based tolerance of length mismatches
func NewRecordReader(r io.Reader, trimLength int, logger *slog.Logger) *RecordReader {
	lr, ok := r.(lineReader)
	if !ok {
		lr = bufio.NewReaderSize(r, 64<<10)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordReader{r: lr, trimLength: trimLength, logger: logger}
}

// Records returns the number of complete records read so far
func (rr *RecordReader) Records() int { return rr.records }

// readLine returns the next line without its trailing newline characters.
// ok is false when the stream has no more lines
func (rr *RecordReader) readLine() (line string, ok bool, err error) {
	line, err = rr.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", false, fmt.Errorf("error reading line: %w", err)
		}
		if line == "" {
			return "", false, nil
		}
	}
	if !utf8.ValidString(line) {
		return "", false, fmt.Errorf("record %d: %w", rr.records+1, ErrInvalidUTF8)
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// ReadNext reads the next record. It returns io.EOF when fewer than four lines
// remain. A *LengthMismatchError is returned when the record's lengths differ
// from the previous record and the configured trim length does not excuse it
func (rr *RecordReader) ReadNext() (*Record, error) {
	var lines [4]string
	for i := range lines {
		line, ok, err := rr.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			if i > 0 {
				rr.logger.Debug("discarding incomplete trailing record", "lines", i)
			}
			rr.logger.Debug("input reading finished", "records", rr.records)
			return nil, io.EOF
		}
		lines[i] = line
	}

	rec := &Record{Header: lines[0], Seq: lines[1], Qual: lines[3]}
	rr.records++

	if rr.records > 1 && rr.mismatch(rec) {
		return nil, &LengthMismatchError{
			RecordNum:   rr.records,
			PrevSeqLen:  rr.prevSeqLen,
			PrevQualLen: rr.prevQualLen,
			Seq:         rec.Seq,
			Qual:        rec.Qual,
		}
	}

	rr.prevSeqLen, rr.prevQualLen = len(rec.Seq), len(rec.Qual)
	return rec, nil
}

// mismatch reports a fatal length deviation. Reads longer or shorter than the
// previous one are tolerated when a trim length no longer than the previous
// sequence length is configured
func (rr *RecordReader) mismatch(rec *Record) bool {
	if len(rec.Seq) == rr.prevSeqLen && len(rec.Qual) == rr.prevQualLen {
		return false
	}
	fixable := rr.trimLength >= 0 && rr.trimLength <= rr.prevSeqLen
	return !fixable
}

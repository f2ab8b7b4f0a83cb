// Per-position nucleotide composition: counting and percentage conversion

package main

import (
	"errors"
	"fmt"
	"math"
)

// Bases in output order
var Bases = [5]byte{'A', 'T', 'G', 'C', 'N'}

// baseIndex maps a base symbol to its slot in BaseCounts, -1 if invalid
var baseIndex [256]int8

func init() {
	for i := range baseIndex {
		baseIndex[i] = -1
	}
	for i, b := range Bases {
		baseIndex[b] = int8(i)
	}
}

// ErrFinalized is returned when a table is modified or finalized again after
// its counts have been converted to percentages
var ErrFinalized = errors.New("composition table already finalized")

// UnknownBaseError reports a symbol outside A, T, G, C, N
type UnknownBaseError struct {
	Pos  int // 1-based
	Base byte
}

func (e *UnknownBaseError) Error() string {
	return fmt.Sprintf("invalid character %q found in read at position %d", e.Base, e.Pos)
}

// BaseCounts holds occurrence counts for A, T, G, C, N at one position
type BaseCounts [5]uint64

func (c BaseCounts) Sum() uint64 {
	var s uint64
	for _, n := range c {
		s += n
	}
	return s
}

// Percentage converts counts to rounded percentages of their sum. Counts are
// not modified; a position with no observations yields all zeros
func (c BaseCounts) Percentage() BasePercentages {
	var p BasePercentages
	sum := float64(c.Sum())
	if sum == 0 {
		return p
	}
	for i, n := range c {
		p[i] = int(math.Round(float64(n) / sum * 100))
	}
	return p
}

// BasePercentages holds rounded percentages for A, T, G, C, N at one position
type BasePercentages [5]int

// CompositionTable accumulates base counts per position. Columns are appended
// as longer sequences are seen and are never removed. Once finalized, the table
// only serves percentages
type CompositionTable struct {
	counts      []BaseCounts
	percentages []BasePercentages
	extracted   int
}

func NewCompositionTable() *CompositionTable {
	return &CompositionTable{}
}

// Len returns the number of positions observed so far
func (t *CompositionTable) Len() int { return len(t.counts) }

// Extracted returns the number of sequences added to the table
func (t *CompositionTable) Extracted() int { return t.extracted }

func (t *CompositionTable) Empty() bool { return t.extracted == 0 }

func (t *CompositionTable) Finalized() bool { return t.percentages != nil }

// Extract adds every base of seq to the count of its position. The sequence is
// checked before any count changes, so an invalid symbol leaves the table as it
// was
func (t *CompositionTable) Extract(seq string) error {
	if t.Finalized() {
		return ErrFinalized
	}
	for i := 0; i < len(seq); i++ {
		if baseIndex[seq[i]] < 0 {
			return &UnknownBaseError{Pos: i + 1, Base: seq[i]}
		}
	}

	for len(t.counts) < len(seq) {
		t.counts = append(t.counts, BaseCounts{})
	}
	for i := 0; i < len(seq); i++ {
		t.counts[i][baseIndex[seq[i]]]++
	}
	t.extracted++
	return nil
}

// Counts returns the raw counts at the 1-based position pos
func (t *CompositionTable) Counts(pos int) BaseCounts {
	return t.counts[pos-1]
}

// Finalize converts all columns to percentages. It may only be called once
func (t *CompositionTable) Finalize() error {
	if t.Finalized() {
		return ErrFinalized
	}
	t.percentages = make([]BasePercentages, len(t.counts))
	for i, c := range t.counts {
		t.percentages[i] = c.Percentage()
	}
	return nil
}

// Percentages returns the per-position percentages, nil before Finalize
func (t *CompositionTable) Percentages() []BasePercentages {
	return t.percentages
}

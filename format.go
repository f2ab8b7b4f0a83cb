// JSON and TSV rendering of composition tables

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OutputFormat selects how a composition table is rendered
type OutputFormat int

const (
	FormatJSON OutputFormat = iota
	FormatTSV
)

func parseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "tsv":
		return FormatTSV, nil
	default:
		return 0, fmt.Errorf("invalid output format: %s (must be json or tsv)", s)
	}
}

// baseValues serializes five per-base values with keys in A, T, G, C, N order
type baseValues struct {
	A int `json:"A"`
	T int `json:"T"`
	G int `json:"G"`
	C int `json:"C"`
	N int `json:"N"`
}

func newBaseValues(v [5]int) baseValues {
	return baseValues{A: v[0], T: v[1], G: v[2], C: v[3], N: v[4]}
}

func (b baseValues) array() [5]int {
	return [5]int{b.A, b.T, b.G, b.C, b.N}
}

type compositionColumn struct {
	Pos   int        `json:"pos"`
	Bases baseValues `json:"bases"`
}

// compositionDoc is the JSON document written by `extract` and read by `compare`
type compositionDoc struct {
	Lib []compositionColumn `json:"lib"`
	Len int                 `json:"len"`
}

func newCompositionDoc(t *CompositionTable) compositionDoc {
	pcts := t.Percentages()
	doc := compositionDoc{Lib: make([]compositionColumn, 0, len(pcts)), Len: len(pcts)}
	for i, p := range pcts {
		doc.Lib = append(doc.Lib, compositionColumn{Pos: i + 1, Bases: newBaseValues(p)})
	}
	return doc
}

// formatComposition renders a finalized table. An empty table renders as an
// empty library rather than an error
func formatComposition(t *CompositionTable, format OutputFormat) (string, error) {
	if !t.Finalized() {
		return "", fmt.Errorf("composition table must be finalized before formatting")
	}

	switch format {
	case FormatJSON:
		b, err := json.Marshal(newCompositionDoc(t))
		if err != nil {
			return "", fmt.Errorf("error encoding composition: %w", err)
		}
		return string(b), nil
	case FormatTSV:
		pcts := t.Percentages()
		fields := make([]string, 0, len(pcts)*len(Bases))
		for _, p := range pcts {
			for _, v := range p {
				fields = append(fields, strconv.Itoa(v))
			}
		}
		return strings.Join(fields, "\t"), nil
	default:
		return "", fmt.Errorf("unsupported output format: %d", format)
	}
}

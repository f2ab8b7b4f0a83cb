package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Helper function to create a logger that discards output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Helper function to create test options with a silent logger
func testOptions() *globalOptions {
	return &globalOptions{quiet: true, stderr: io.Discard, log: testLogger()}
}

// Helper function to write content to a file in a temporary directory
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Helper function to build FASTQ text from sequence/quality pairs
func fastqText(pairs ...string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		sb.WriteString("@read" + strconv.Itoa(i/2+1) + "\n")
		sb.WriteString(pairs[i] + "\n+\n" + pairs[i+1] + "\n")
	}
	return sb.String()
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

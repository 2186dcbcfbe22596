package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samcharles93/synthkit/internal/logger"
)

func testOptions() generateOptions {
	return generateOptions{
		rows:        40,
		continuous:  2,
		binary:      1,
		categorical: 1,
		ordinal:     1,
		rank:        3,
		numCats:     3,
		numOrd:      4,
		pctMissing:  0.1,
		noiseScale:  0.5,
		seed:        11,
		format:      "csv",
		output:      "-",
		header:      true,
	}
}

func testContext() context.Context {
	return logger.WithContext(context.Background(), logger.Discard())
}

func TestRunGenerateCSV(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	o := testOptions()
	o.missingValue = "NA"
	if err := runGenerate(testContext(), o, &stdout, &stderr); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}

	records, err := csv.NewReader(&stdout).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 41 {
		t.Fatalf("expected header + 40 rows, got %d", len(records))
	}
	want := "numerical_1,numerical_2,binary_1,categorical_1,ordinal_1"
	if got := strings.Join(records[0], ","); got != want {
		t.Fatalf("header: got %q want %q", got, want)
	}
	var missing int
	for _, row := range records[1:] {
		for _, cell := range row {
			if cell == "NA" {
				missing++
			}
		}
	}
	// 10% of 80 + 40 + 40 + 40 cells per block.
	if missing != 8+4+4+4 {
		t.Fatalf("missing cells: got %d", missing)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output without --summary: %q", stderr.String())
	}
}

func TestRunGenerateIsReproducible(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	if err := runGenerate(testContext(), testOptions(), &a, &bytes.Buffer{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := runGenerate(testContext(), testOptions(), &b, &bytes.Buffer{}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("same seed produced different output")
	}
}

func TestRunGenerateJSONToFile(t *testing.T) {
	t.Parallel()

	o := testOptions()
	o.format = "JSON"
	o.output = filepath.Join(t.TempDir(), "ds.json")
	o.summary = true

	var stdout, stderr bytes.Buffer
	if err := runGenerate(testContext(), o, &stdout, &stderr); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing on stdout when writing to a file")
	}
	if !strings.Contains(stderr.String(), "numerical_1") {
		t.Fatalf("summary missing from stderr: %q", stderr.String())
	}

	data, err := os.ReadFile(o.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc struct {
		Rows int          `json:"rows"`
		Cols int          `json:"cols"`
		Seed uint64       `json:"seed"`
		Data [][]*float64 `json:"data"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if doc.Rows != 40 || doc.Cols != 5 || doc.Seed != 11 || len(doc.Data) != 40 {
		t.Fatalf("unexpected document: rows=%d cols=%d seed=%d data=%d", doc.Rows, doc.Cols, doc.Seed, len(doc.Data))
	}
}

func TestRunGenerateRejectsBadInput(t *testing.T) {
	t.Parallel()

	o := testOptions()
	o.format = "parquet"
	if err := runGenerate(testContext(), o, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown format")
	}

	o = testOptions()
	o.pctMissing = 1.5
	if err := runGenerate(testContext(), o, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

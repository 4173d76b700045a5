package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestConvertCSVToParquet(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "monthly_cost.csv")
	csvContent := "date,service,cost\n" +
		"2026-08-01,EC2,42.50\n" +
		"2026-08-01,S3,3.10\n" +
		"2026-08-02,EC2,40.00\n"
	if err := os.WriteFile(csvPath, []byte(csvContent), 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	outPath, size, err := ConvertCSVToParquet(csvPath)
	if err != nil {
		t.Fatalf("ConvertCSVToParquet failed: %v", err)
	}
	if outPath != filepath.Join(dir, "monthly_cost.parquet") {
		t.Errorf("Unexpected output path: %s", outPath)
	}
	if size <= 0 {
		t.Errorf("Expected non-zero output size, got %d", size)
	}

	// Read it back to verify rows and schema
	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Failed to open parquet output: %v", err)
	}
	defer f.Close()
	info, _ := f.Stat()

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		t.Fatalf("Output is not a valid parquet file: %v", err)
	}
	if pf.NumRows() != 3 {
		t.Errorf("Expected 3 rows, got %d", pf.NumRows())
	}

	fields := pf.Schema().Fields()
	if len(fields) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(fields))
	}
	names := map[string]bool{}
	for _, field := range fields {
		names[field.Name()] = true
	}
	for _, want := range []string{"date", "service", "cost"} {
		if !names[want] {
			t.Errorf("Missing column %q in schema", want)
		}
	}

	// No leftover temp file from the atomic replace
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".flexctl-convert-") {
			t.Errorf("Leftover temp file: %s", e.Name())
		}
	}
}

func TestConvertEmptyCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(csvPath, nil, 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	if _, _, err := ConvertCSVToParquet(csvPath); err == nil {
		t.Error("Expected error for empty CSV, got nil")
	}
}

func TestConvertHeaderOnlyCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "header_only.csv")
	if err := os.WriteFile(csvPath, []byte("date,cost\n"), 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	outPath, _, err := ConvertCSVToParquet(csvPath)
	if err != nil {
		t.Fatalf("ConvertCSVToParquet failed on header-only CSV: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Failed to open parquet output: %v", err)
	}
	defer f.Close()
	info, _ := f.Stat()

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		t.Fatalf("Output is not a valid parquet file: %v", err)
	}
	if pf.NumRows() != 0 {
		t.Errorf("Expected 0 rows, got %d", pf.NumRows())
	}
}

func TestConvertMissingFile(t *testing.T) {
	if _, _, err := ConvertCSVToParquet(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

package internal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ConvertCSVToParquet converts a downloaded report CSV to a Parquet file
// next to it (<stem>.parquet) and returns the output path and size. Every
// column is written as an optional string; FlexReport CSVs carry no type
// information beyond the header row.
func ConvertCSVToParquet(csvPath string) (string, int64, error) {
	in, err := os.Open(csvPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	header, err := reader.Read()
	if err == io.EOF {
		return "", 0, fmt.Errorf("%s is empty", csvPath)
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	group := parquet.Group{}
	for _, column := range header {
		group[column] = parquet.Optional(parquet.String())
	}
	stem := strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
	schema := parquet.NewSchema(stem, group)
	outPath := filepath.Join(filepath.Dir(csvPath), stem+".parquet")

	// Same atomic-replace discipline as artifact downloads.
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".flexctl-convert-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create output file: %w", err)
	}
	discard := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	writer := parquet.NewGenericWriter[map[string]any](tmp, schema)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			discard()
			return "", 0, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := make(map[string]any, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		if _, err := writer.Write([]map[string]any{row}); err != nil {
			discard()
			return "", 0, fmt.Errorf("failed to write Parquet row: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		discard()
		return "", 0, fmt.Errorf("failed to finalize Parquet file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", 0, err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		os.Remove(tmp.Name())
		return "", 0, err
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return "", 0, err
	}
	return outPath, info.Size(), nil
}

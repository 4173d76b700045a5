package internal

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadJobList reads a batch job list: one "name<TAB>report-id" record per
// line. Blank lines and lines starting with # are skipped.
func LoadJobList(path string) ([]ReportJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open job list: %w", err)
	}
	defer f.Close()

	var jobs []ReportJob
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, id, ok := strings.Cut(line, "\t")
		name = strings.TrimSpace(name)
		id = strings.TrimSpace(id)
		if !ok || name == "" || id == "" {
			return nil, fmt.Errorf("%s:%d: expected name<TAB>report-id", path, lineNo)
		}
		jobs = append(jobs, ReportJob{Name: name, ID: id})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job list: %w", err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("job list %s contains no records", path)
	}
	return jobs, nil
}

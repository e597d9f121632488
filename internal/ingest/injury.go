package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/galactusaurus/roster-opt/internal/pool"
)

// ParseInjuredNames reads an injury report CSV and returns the disqualified
// athlete keys. Reports come from several sources with differing layouts, so
// the name column is located heuristically; when no header matches, the
// first column is assumed to hold names.
func ParseInjuredNames(r io.Reader) (map[string]bool, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading injury header: %w", err)
	}

	nameCol := 0
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		if strings.Contains(lower, "name") || strings.Contains(lower, "player") {
			nameCol = i
			break
		}
	}

	injured := make(map[string]bool)
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading injury row: %w", err)
		}
		if nameCol >= len(fields) {
			continue
		}
		if name := strings.TrimSpace(fields[nameCol]); name != "" {
			injured[pool.AthleteKeyFor(name)] = true
		}
	}
	return injured, nil
}

// LoadInjuredNames parses an injury report from disk.
func LoadInjuredNames(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening injury file: %w", err)
	}
	defer f.Close()
	return ParseInjuredNames(f)
}

// FilterInjured removes every role listing of a disqualified athlete before
// the pool is built, returning the kept records and the number removed.
func FilterInjured(records []pool.Record, injured map[string]bool) ([]pool.Record, int) {
	if len(injured) == 0 {
		return records, 0
	}
	kept := make([]pool.Record, 0, len(records))
	removed := 0
	for _, r := range records {
		if injured[pool.AthleteKeyFor(r.Name)] {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}

// Package ingest loads salary and injury files and normalizes them into pool
// records. Source files name their columns inconsistently across exports, so
// the parser reconciles header variants before reading rows.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/galactusaurus/roster-opt/internal/pool"
)

// column variants seen across salary exports, checked in order.
var (
	idColumns       = []string{"ID", "Id"}
	nameColumns     = []string{"Name", "Player", "Player Name"}
	roleColumns     = []string{"Roster Position", "Position"}
	salaryColumns   = []string{"Salary"}
	teamColumns     = []string{"TeamAbbrev", "Team", "TeamAbbrev "}
	pointsColumns   = []string{"AvgPointsPerGame", "FPPG", "Projection", "Avg Points"}
	gameInfoColumns = []string{"Game Info", "Game"}
)

// ParseSalaries reads a salary CSV into pool records. Malformed rows are an
// error, not a silent drop; the row number is included for operator triage.
func ParseSalaries(r io.Reader) ([]pool.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading salary header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	find := func(candidates []string) (int, bool) {
		for _, c := range candidates {
			if i, ok := cols[c]; ok {
				return i, true
			}
		}
		return 0, false
	}

	nameCol, ok := find(nameColumns)
	if !ok {
		return nil, fmt.Errorf("salary file has no name column (header: %v)", header)
	}
	roleCol, ok := find(roleColumns)
	if !ok {
		return nil, fmt.Errorf("salary file has no position column (header: %v)", header)
	}
	salaryCol, ok := find(salaryColumns)
	if !ok {
		return nil, fmt.Errorf("salary file has no salary column (header: %v)", header)
	}
	teamCol, ok := find(teamColumns)
	if !ok {
		return nil, fmt.Errorf("salary file has no team column (header: %v)", header)
	}
	pointsCol, ok := find(pointsColumns)
	if !ok {
		return nil, fmt.Errorf("salary file has no projection column (header: %v)", header)
	}
	idCol, hasID := find(idColumns)
	gameCol, hasGame := find(gameInfoColumns)

	var records []pool.Record
	row := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("salary row %d: %w", row, err)
		}

		rec := pool.Record{
			Name: strings.TrimSpace(fields[nameCol]),
			Role: strings.TrimSpace(fields[roleCol]),
			Team: strings.TrimSpace(fields[teamCol]),
		}
		if hasID {
			rec.ID = strings.TrimSpace(fields[idCol])
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(row - 1)
		}
		if hasGame {
			rec.GameInfo = strings.TrimSpace(fields[gameCol])
			rec.Opponent = opponentFromGameInfo(rec.GameInfo, rec.Team)
		}

		rec.Salary, err = strconv.Atoi(strings.TrimSpace(fields[salaryCol]))
		if err != nil {
			return nil, fmt.Errorf("salary row %d (%s): bad salary %q", row, rec.Name, fields[salaryCol])
		}
		rec.ProjectedPoints, err = strconv.ParseFloat(strings.TrimSpace(fields[pointsCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("salary row %d (%s): bad projection %q", row, rec.Name, fields[pointsCol])
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("salary file has no data rows")
	}
	return records, nil
}

// LoadSalaries parses a salary file from disk.
func LoadSalaries(path string) ([]pool.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening salary file: %w", err)
	}
	defer f.Close()
	return ParseSalaries(f)
}

// opponentFromGameInfo extracts the opposing team from a "AWY@HOM date"
// descriptor. Unparseable descriptors leave the opponent empty.
func opponentFromGameInfo(info, team string) string {
	matchup := strings.Fields(info)
	if len(matchup) == 0 {
		return ""
	}
	sides := strings.Split(matchup[0], "@")
	if len(sides) != 2 {
		return ""
	}
	switch team {
	case sides[0]:
		return sides[1]
	case sides[1]:
		return sides[0]
	}
	return ""
}

package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/generate"
)

// WriteDetailed writes one row per selected player across all lineups.
func WriteDetailed(path string, lineups []generate.Lineup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Lineup", "Position", "Name", "Team", "Salary", "Points", "Game Info"}); err != nil {
		return err
	}
	for i, lineup := range lineups {
		for _, s := range lineup.Slots {
			row := []string{
				strconv.Itoa(i + 1),
				s.Role,
				s.Record.Name,
				s.Record.Team,
				strconv.Itoa(s.Salary),
				strconv.FormatFloat(s.Points, 'f', 2, 64),
				s.Record.GameInfo,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// WriteRoster writes the fixed-column roster file: a header of slot labels in
// configured order, then one row of entry IDs per lineup. Slots are filled in
// lineup display order, so the highest-scoring member of a position lands in
// that position's first column.
func WriteRoster(path string, cfg *contest.Configuration, lineups []generate.Lineup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	labels := cfg.SlotLabels()
	if err := w.Write(labels); err != nil {
		return err
	}

	for _, lineup := range lineups {
		// Slots are already ordered by rank then points descending.
		byRole := make(map[string][]string)
		for _, s := range lineup.Slots {
			byRole[s.Role] = append(byRole[s.Role], s.Record.ID)
		}

		row := make([]string, len(labels))
		for i, label := range labels {
			if ids := byRole[label]; len(ids) > 0 {
				row[i] = ids[0]
				byRole[label] = ids[1:]
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// Package writer renders finished batches: terminal tables for humans and the
// two CSV formats downstream tooling consumes (a detailed per-player file and
// a fixed-column roster file).
package writer

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"

	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/generate"
)

// RenderLineups writes one table per lineup. Teams contributing more than one
// counted member are marked with a star so stacks are visible at a glance.
func RenderLineups(w io.Writer, cfg *contest.Configuration, lineups []generate.Lineup) {
	for i, lineup := range lineups {
		fmt.Fprintf(w, "\nLINEUP #%d — Points: %.2f  Salary: $%d  Teams: %d\n",
			i+1, lineup.TotalPoints, lineup.TotalSalary, lineup.TeamCount())

		stacked := make(map[string]int)
		for _, s := range lineup.Slots {
			if cfg.TeamCounted(s.Role) {
				stacked[s.Record.Team]++
			}
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"POS", "NAME", "TEAM", "SALARY", "POINTS", "GAME INFO"})
		for _, s := range lineup.Slots {
			team := s.Record.Team
			if stacked[team] > 1 && cfg.TeamCounted(s.Role) {
				team += "*"
			}
			t.AppendRow(table.Row{
				s.Role,
				s.Record.Name,
				team,
				fmt.Sprintf("$%d", s.Salary),
				fmt.Sprintf("%.2f", s.Points),
				s.Record.GameInfo,
			})
		}
		t.Render()
	}
}

// RenderUsage writes the player-usage summary for a batch: appearances,
// percentage of lineups, and a marker for athletes at the appearance limit.
func RenderUsage(w io.Writer, lineups []generate.Lineup, maxAppearances int) {
	if len(lineups) == 0 {
		return
	}
	usage := generate.Usage(lineups)

	type row struct {
		name  string
		role  string
		count int
	}
	roles := make(map[string]string)
	for _, l := range lineups {
		for _, s := range l.Slots {
			roles[s.Record.Name] = s.Role
		}
	}
	rows := make([]row, 0, len(usage))
	counts := make([]float64, 0, len(usage))
	for name, count := range usage {
		rows = append(rows, row{name: name, role: roles[name], count: count})
		counts = append(counts, float64(count))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	fmt.Fprintf(w, "\nPLAYER USAGE (total lineups: %d, mean appearances: %.1f)\n",
		len(lineups), stat.Mean(counts, nil))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"NAME", "POSITION", "APPEARANCES", "% OF LINEUPS"})
	for _, r := range rows {
		pct := fmt.Sprintf("%.1f%%", float64(r.count)/float64(len(lineups))*100)
		if maxAppearances > 0 && r.count >= maxAppearances {
			pct += " **MAX**"
		}
		t.AppendRow(table.Row{r.name, r.role, r.count, pct})
	}
	t.Render()
}

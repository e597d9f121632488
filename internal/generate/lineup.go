package generate

import (
	"sort"

	"github.com/google/uuid"

	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/pool"
	"github.com/galactusaurus/roster-opt/internal/solver"
)

// Slot is one selected entry with its role-adjusted cost and score.
type Slot struct {
	Record pool.Record `json:"record"`
	Role   string      `json:"role"`
	Salary int         `json:"salary"`
	Points float64     `json:"points"`
}

// Lineup is one accepted roster. It is immutable once created; slots are in
// display order (configured position rank, then points descending within a
// position), which also drives the fixed-column export.
type Lineup struct {
	ID          string   `json:"id"`
	Slots       []Slot   `json:"slots"`
	TotalSalary int      `json:"total_salary"`
	TotalPoints float64  `json:"total_points"`
	Teams       []string `json:"teams"`
}

// TeamCount returns the number of distinct teams among non-exempt slots.
func (l *Lineup) TeamCount() int { return len(l.Teams) }

// extract maps a solved assignment back to a Lineup plus the member entry
// indices that feed the next iteration's diversity cut.
func extract(cfg *contest.Configuration, p *pool.Pool, sol *solver.Solution) (Lineup, []int) {
	lineup := Lineup{ID: uuid.New().String()}
	var members []int
	teams := make(map[string]bool)

	for i := 0; i < p.Len(); i++ {
		if sol.Values[i] < 0.5 {
			continue
		}
		members = append(members, i)
		r := p.Record(i)
		slot := Slot{
			Record: r,
			Role:   r.Role,
			Salary: cfg.ChargedSalary(r.Role, r.Salary),
			Points: cfg.ScoredPoints(r.Role, r.ProjectedPoints),
		}
		lineup.Slots = append(lineup.Slots, slot)
		lineup.TotalSalary += slot.Salary
		lineup.TotalPoints += slot.Points
		if cfg.TeamCounted(r.Role) {
			teams[r.Team] = true
		}
	}

	sort.SliceStable(lineup.Slots, func(a, b int) bool {
		ra, rb := cfg.PositionRank[lineup.Slots[a].Role], cfg.PositionRank[lineup.Slots[b].Role]
		if ra != rb {
			return ra < rb
		}
		return lineup.Slots[a].Points > lineup.Slots[b].Points
	})

	for team := range teams {
		lineup.Teams = append(lineup.Teams, team)
	}
	sort.Strings(lineup.Teams)

	return lineup, members
}

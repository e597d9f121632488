package model

import (
	"fmt"

	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/pool"
)

// FadeFactor scales the objective coefficient of entries on faded teams. Fade
// is a soft de-preference applied to the objective, never a hard constraint.
const FadeFactor = 0.8

// Options are the per-iteration inputs that vary across one batch: the
// request knobs plus the accumulated diversity and exposure state.
type Options struct {
	StackTeam          string
	StackCount         int
	FadeTeams          []string
	MinSalaryFraction  float64
	DiversityThreshold int

	// Banned lists entry indices whose appearance count has reached its
	// exposure cap; their variables are fixed to zero this iteration.
	Banned []int

	// Previous holds each prior accepted lineup as a set of entry indices.
	// One diversity cut is added per prior lineup, so later iterations solve
	// larger models.
	Previous [][]int
}

// Build assembles the integer program for one iteration. Constraints are
// added in a fixed order so models are reproducible given identical inputs.
func Build(cfg *contest.Configuration, p *pool.Pool, opts Options) *Model {
	m := &Model{
		NumVars: p.Len(),
		Entries: p.Len(),
		teamVar: make(map[string]int),
	}

	faded := make(map[string]bool, len(opts.FadeTeams))
	for _, team := range opts.FadeTeams {
		faded[team] = true
	}

	// Objective: maximize role-adjusted projection, with fade scaling folded
	// into the coefficients before anything else sees them.
	m.Objective = make([]float64, p.Len())
	for i := 0; i < p.Len(); i++ {
		r := p.Record(i)
		coef := cfg.ScoredPoints(r.Role, r.ProjectedPoints)
		if faded[r.Team] {
			coef *= FadeFactor
		}
		m.Objective[i] = coef
	}

	// Auxiliary team-used binaries, one per team with counted entries.
	countedByTeam := make(map[string][]int, p.TeamCount())
	for _, team := range p.Teams() {
		for _, i := range p.ByTeam(team) {
			if cfg.TeamCounted(p.Record(i).Role) {
				countedByTeam[team] = append(countedByTeam[team], i)
			}
		}
		if len(countedByTeam[team]) > 0 {
			m.teamVar[team] = m.NumVars
			m.NumVars++
		}
	}
	m.Objective = append(m.Objective, make([]float64, m.NumVars-p.Len())...)

	// 1. Role exclusivity: at most one listing of each athlete.
	for _, group := range p.VariantGroups() {
		terms := make([]Term, len(group))
		for j, i := range group {
			terms[j] = Term{Var: i, Coef: 1}
		}
		m.addConstraint(fmt.Sprintf("athlete_%s", p.Record(group[0]).AthleteKey), terms, LE, 1)
	}

	// 2. Salary cap and floor, at role-adjusted cost.
	salaryTerms := make([]Term, p.Len())
	for i := 0; i < p.Len(); i++ {
		r := p.Record(i)
		salaryTerms[i] = Term{Var: i, Coef: float64(cfg.ChargedSalary(r.Role, r.Salary))}
	}
	m.addConstraint("salary_cap", salaryTerms, LE, float64(cfg.SalaryCap))
	if opts.MinSalaryFraction > 0 {
		m.addConstraint("salary_floor", salaryTerms, GE, float64(cfg.SalaryCap)*opts.MinSalaryFraction)
	}

	// 3. Position quotas. Captain-style formats reduce to the same equality
	// constraints because every variant row carries its slot's role label;
	// role exclusivity above prevents double-counting an athlete.
	for _, pos := range cfg.Positions() {
		indices := p.ByRole(pos)
		terms := make([]Term, len(indices))
		for j, i := range indices {
			terms[j] = Term{Var: i, Coef: 1}
		}
		m.addConstraint(fmt.Sprintf("quota_%s", pos), terms, EQ, float64(cfg.Quotas[pos]))
	}

	// 4. Roster size.
	rosterTerms := make([]Term, p.Len())
	for i := 0; i < p.Len(); i++ {
		rosterTerms[i] = Term{Var: i, Coef: 1}
	}
	m.addConstraint("roster_size", rosterTerms, EQ, float64(cfg.RosterSize()))

	// 5. Team-used linkage: entry <= teamUsed for every counted entry, and
	// sum(entries) >= teamUsed, which together make the auxiliary binary
	// exactly track whether any counted entry from the team is selected.
	for _, team := range p.Teams() {
		indices := countedByTeam[team]
		if len(indices) == 0 {
			continue
		}
		t := m.teamVar[team]
		for _, i := range indices {
			m.addConstraint(
				fmt.Sprintf("team_link_%s_%s", team, p.Record(i).ID),
				[]Term{{Var: i, Coef: 1}, {Var: t, Coef: -1}}, LE, 0)
		}
		terms := make([]Term, 0, len(indices)+1)
		for _, i := range indices {
			terms = append(terms, Term{Var: i, Coef: 1})
		}
		terms = append(terms, Term{Var: t, Coef: -1})
		m.addConstraint(fmt.Sprintf("team_used_%s", team), terms, GE, 0)
	}

	// 6. Max picks per team, counted entries only.
	for _, team := range p.Teams() {
		indices := countedByTeam[team]
		if len(indices) == 0 {
			continue
		}
		terms := make([]Term, len(indices))
		for j, i := range indices {
			terms[j] = Term{Var: i, Coef: 1}
		}
		m.addConstraint(fmt.Sprintf("max_per_team_%s", team), terms, LE, float64(cfg.MaxPerTeam))
	}

	// 7. Minimum distinct teams.
	teamTerms := make([]Term, 0, len(m.teamVar))
	for _, team := range p.Teams() {
		if t, ok := m.teamVar[team]; ok {
			teamTerms = append(teamTerms, Term{Var: t, Coef: 1})
		}
	}
	m.addConstraint("min_teams", teamTerms, GE, float64(cfg.MinTeams))

	// 8. Stacking, clamped to pool availability so a request for more stack
	// players than exist does not force infeasibility.
	if opts.StackTeam != "" && opts.StackCount > 0 {
		if indices := countedByTeam[opts.StackTeam]; len(indices) > 0 {
			want := opts.StackCount
			if want > len(indices) {
				want = len(indices)
			}
			terms := make([]Term, len(indices))
			for j, i := range indices {
				terms[j] = Term{Var: i, Coef: 1}
			}
			m.addConstraint(fmt.Sprintf("stack_%s", opts.StackTeam), terms, GE, float64(want))
		}
	}

	// 9. Fade is objective scaling, handled above; no constraint.

	// 10. Exposure ceiling: zero-fix entries already at their cap.
	for _, i := range opts.Banned {
		m.addConstraint(
			fmt.Sprintf("exposure_%s", p.Record(i).ID),
			[]Term{{Var: i, Coef: 1}}, EQ, 0)
	}

	// 11. Diversity cuts against every previously accepted lineup.
	for k, prev := range opts.Previous {
		terms := make([]Term, len(prev))
		for j, i := range prev {
			terms[j] = Term{Var: i, Coef: 1}
		}
		m.addConstraint(fmt.Sprintf("diversity_%d", k), terms, LE, float64(len(prev)-opts.DiversityThreshold))
	}

	return m
}

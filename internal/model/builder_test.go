package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/pool"
)

func motorsportPool(t *testing.T) *pool.Pool {
	t.Helper()
	p, err := pool.New([]pool.Record{
		{ID: "1", Name: "Verstappen", Team: "RB", Role: "CPT", Salary: 11000, ProjectedPoints: 50},
		{ID: "2", Name: "Verstappen", Team: "RB", Role: "D", Salary: 11000, ProjectedPoints: 50},
		{ID: "3", Name: "Perez", Team: "RB", Role: "D", Salary: 9000, ProjectedPoints: 40},
		{ID: "4", Name: "Hamilton", Team: "MER", Role: "D", Salary: 10000, ProjectedPoints: 45},
		{ID: "5", Name: "Russell", Team: "MER", Role: "D", Salary: 8500, ProjectedPoints: 38},
		{ID: "6", Name: "Alonso", Team: "AM", Role: "D", Salary: 8000, ProjectedPoints: 36},
		{ID: "7", Name: "Stroll", Team: "AM", Role: "D", Salary: 5500, ProjectedPoints: 22},
		{ID: "8", Name: "Red Bull", Team: "RB", Role: "CNSTR", Salary: 12000, ProjectedPoints: 38},
		{ID: "9", Name: "Mercedes", Team: "MER", Role: "CNSTR", Salary: 10000, ProjectedPoints: 33},
	})
	require.NoError(t, err)
	return p
}

func findConstraint(t *testing.T, m *Model, name string) Constraint {
	t.Helper()
	for _, c := range m.Constraints {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("constraint %q not found", name)
	return Constraint{}
}

func TestBuild_VariableLayout(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{})

	assert.Equal(t, p.Len(), m.Entries)
	// One auxiliary binary per team with counted entries: RB, MER, AM. The
	// constructor rows are team-exempt, but both teams also list drivers.
	assert.Equal(t, p.Len()+3, m.NumVars)
	for _, team := range []string{"RB", "MER", "AM"} {
		_, ok := m.TeamVar(team)
		assert.True(t, ok, team)
	}
	assert.Len(t, m.Objective, m.NumVars)
}

func TestBuild_NoTeamVarForExemptOnlyTeam(t *testing.T) {
	p, err := pool.New([]pool.Record{
		{ID: "1", Name: "Verstappen", Team: "RB", Role: "D", Salary: 11000, ProjectedPoints: 50},
		{ID: "2", Name: "McLaren", Team: "MCL", Role: "CNSTR", Salary: 9000, ProjectedPoints: 30},
	})
	require.NoError(t, err)

	m := Build(contest.Motorsport(), p, Options{})
	_, ok := m.TeamVar("MCL")
	assert.False(t, ok, "a team with only exempt entries gets no team-used variable")
	_, ok = m.TeamVar("RB")
	assert.True(t, ok)
}

func TestBuild_ObjectiveUsesRoleMultipliersAndFade(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{FadeTeams: []string{"MER"}})

	// Captain listing scores 1.5x its projection.
	assert.InDelta(t, 75.0, m.Objective[0], 1e-9)
	assert.InDelta(t, 50.0, m.Objective[1], 1e-9)
	// Faded team entries are scaled, not excluded.
	assert.InDelta(t, 45.0*FadeFactor, m.Objective[3], 1e-9)
	assert.InDelta(t, 33.0*FadeFactor, m.Objective[8], 1e-9)
	// Auxiliary team variables carry no objective weight.
	for v := m.Entries; v < m.NumVars; v++ {
		assert.Zero(t, m.Objective[v])
	}
}

func TestBuild_ConstraintOrder(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{
		StackTeam:          "RB",
		StackCount:         2,
		MinSalaryFraction:  0.9,
		DiversityThreshold: 2,
		Banned:             []int{3},
		Previous:           [][]int{{0, 2, 3, 5, 6, 8}},
	})

	var order []string
	for _, c := range m.Constraints {
		prefix := c.Name
		if i := strings.IndexByte(prefix, '_'); i >= 0 && !strings.HasPrefix(prefix, "salary") &&
			!strings.HasPrefix(prefix, "roster") && !strings.HasPrefix(prefix, "min_teams") {
			prefix = prefix[:i]
		}
		if len(order) == 0 || order[len(order)-1] != prefix {
			order = append(order, prefix)
		}
	}
	assert.Equal(t, []string{
		"athlete",
		"salary_cap", "salary_floor",
		"quota",
		"roster_size",
		"team", "max",
		"min_teams",
		"stack",
		"exposure",
		"diversity",
	}, order)
}

func TestBuild_SalaryConstraints(t *testing.T) {
	cfg := contest.Motorsport()
	p := motorsportPool(t)
	m := Build(cfg, p, Options{MinSalaryFraction: 0.9})

	capCon := findConstraint(t, m, "salary_cap")
	assert.Equal(t, LE, capCon.Op)
	assert.Equal(t, 50000.0, capCon.RHS)
	assert.Len(t, capCon.Terms, p.Len())
	// Motorsport captains pay listed salary.
	assert.Equal(t, 11000.0, capCon.Terms[0].Coef)

	floorCon := findConstraint(t, m, "salary_floor")
	assert.Equal(t, GE, floorCon.Op)
	assert.Equal(t, 45000.0, floorCon.RHS)
}

func TestBuild_ShowdownCaptainChargesPremiumSalary(t *testing.T) {
	cfg := contest.ShowdownCaptain()
	p, err := pool.New(pool.ExpandCaptain([]pool.Record{
		{ID: "1", Name: "Mahomes", Team: "KC", Role: "FLEX", Salary: 11000, ProjectedPoints: 22},
	}, "CPT", "UTIL"))
	require.NoError(t, err)

	m := Build(cfg, p, Options{})
	capCon := findConstraint(t, m, "salary_cap")
	assert.Equal(t, 11000.0, capCon.Terms[0].Coef) // UTIL listing
	assert.Equal(t, 16500.0, capCon.Terms[1].Coef) // CPT listing at 1.5x
}

func TestBuild_QuotaAndRosterConstraints(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{})

	quota := findConstraint(t, m, "quota_D")
	assert.Equal(t, EQ, quota.Op)
	assert.Equal(t, 4.0, quota.RHS)
	assert.Len(t, quota.Terms, 6)

	roster := findConstraint(t, m, "roster_size")
	assert.Equal(t, EQ, roster.Op)
	assert.Equal(t, 6.0, roster.RHS)
}

func TestBuild_RoleExclusivityPerAthlete(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{})

	con := findConstraint(t, m, "athlete_verstappen")
	assert.Equal(t, LE, con.Op)
	assert.Equal(t, 1.0, con.RHS)
	assert.Len(t, con.Terms, 2)
}

func TestBuild_TeamLinkageExcludesExemptRows(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{})

	// RB has three counted entries (CPT + two drivers); the constructor row
	// does not participate.
	used := findConstraint(t, m, "team_used_RB")
	assert.Equal(t, GE, used.Op)
	assert.Equal(t, 0.0, used.RHS)
	assert.Len(t, used.Terms, 4) // 3 entries + the negated team var

	maxCon := findConstraint(t, m, "max_per_team_RB")
	assert.Equal(t, 3.0, maxCon.RHS)
	assert.Len(t, maxCon.Terms, 3)

	minTeams := findConstraint(t, m, "min_teams")
	assert.Equal(t, GE, minTeams.Op)
	assert.Equal(t, 2.0, minTeams.RHS)
	assert.Len(t, minTeams.Terms, 3)
}

func TestBuild_StackClampedToAvailability(t *testing.T) {
	p := motorsportPool(t)
	// AM lists only two drivers; a request for four clamps to two.
	m := Build(contest.Motorsport(), p, Options{StackTeam: "AM", StackCount: 4})

	con := findConstraint(t, m, "stack_AM")
	assert.Equal(t, GE, con.Op)
	assert.Equal(t, 2.0, con.RHS)
}

func TestBuild_StackForUnknownTeamIsDropped(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{StackTeam: "FER", StackCount: 2})
	for _, c := range m.Constraints {
		assert.NotContains(t, c.Name, "stack_")
	}
}

func TestBuild_ExposureZeroFix(t *testing.T) {
	p := motorsportPool(t)
	m := Build(contest.Motorsport(), p, Options{Banned: []int{2, 5}})

	con := findConstraint(t, m, "exposure_3")
	assert.Equal(t, EQ, con.Op)
	assert.Equal(t, 0.0, con.RHS)
	require.Len(t, con.Terms, 1)
	assert.Equal(t, 2, con.Terms[0].Var)
}

func TestBuild_DiversityCutPerPriorLineup(t *testing.T) {
	p := motorsportPool(t)
	prior := [][]int{{0, 2, 3, 5, 6, 8}, {1, 3, 4, 5, 6, 7}}
	m := Build(contest.Motorsport(), p, Options{DiversityThreshold: 2, Previous: prior})

	first := findConstraint(t, m, "diversity_0")
	assert.Equal(t, LE, first.Op)
	assert.Equal(t, 4.0, first.RHS) // 6 members - threshold 2
	assert.Len(t, first.Terms, 6)
	findConstraint(t, m, "diversity_1")
}

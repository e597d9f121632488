package contest

import (
	"fmt"
	"math"
	"sort"
)

// RoleMultiplier scales the listed salary and projection for entries carrying
// a premium role, e.g. a captain slot that costs 1.5x and scores 1.5x.
type RoleMultiplier struct {
	Salary float64 `json:"salary"`
	Points float64 `json:"points"`
}

// Configuration is the static description of a contest format. It is pure
// data: the engine never branches on a format name, only on the values here.
type Configuration struct {
	Name        string                    `json:"name"`
	Quotas      map[string]int            `json:"quotas"` // position label -> required count
	SalaryCap   int                       `json:"salary_cap"`
	MaxPerTeam  int                       `json:"max_per_team"`
	MinTeams    int                       `json:"min_teams"`
	Multipliers map[string]RoleMultiplier `json:"multipliers,omitempty"`

	// TeamExempt lists roles whose entries never count toward team
	// aggregation (team-used linkage, max-per-team, stacking, distinct-team
	// sets). A motorsport constructor entry is the canonical example.
	TeamExempt map[string]bool `json:"team_exempt,omitempty"`

	// PositionRank orders positions for display and for the fixed-column
	// roster export. Lower rank renders first.
	PositionRank map[string]int `json:"position_rank"`

	// CaptainRole and UtilityRole are set for captain-style formats where the
	// pool carries one flat listing per athlete and the captain variants are
	// derived at pool build time.
	CaptainRole string `json:"captain_role,omitempty"`
	UtilityRole string `json:"utility_role,omitempty"`
}

// ConfigurationError reports an invalid contest configuration. It is raised
// before any solve is attempted.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// RosterSize returns the fixed roster size for the format.
func (c *Configuration) RosterSize() int {
	total := 0
	for _, n := range c.Quotas {
		total += n
	}
	return total
}

// Validate checks the structural invariants that do not depend on a pool.
func (c *Configuration) Validate() error {
	if len(c.Quotas) == 0 || c.RosterSize() <= 0 {
		return &ConfigurationError{Field: "quotas", Reason: "quota sum must be positive"}
	}
	for pos, n := range c.Quotas {
		if n <= 0 {
			return &ConfigurationError{Field: "quotas", Reason: fmt.Sprintf("position %s requires a positive count", pos)}
		}
	}
	if c.SalaryCap <= 0 {
		return &ConfigurationError{Field: "salary_cap", Reason: "must be positive"}
	}
	if c.MaxPerTeam < 1 {
		return &ConfigurationError{Field: "max_per_team", Reason: "must be at least 1"}
	}
	if c.MinTeams < 1 {
		return &ConfigurationError{Field: "min_teams", Reason: "must be at least 1"}
	}
	for role, m := range c.Multipliers {
		if m.Salary <= 0 || m.Points <= 0 {
			return &ConfigurationError{Field: "multipliers", Reason: fmt.Sprintf("role %s multipliers must be positive", role)}
		}
	}
	return nil
}

// CheckPool rejects configurations that can never be satisfied by a pool with
// the given number of distinct teams. This is the fast-fail path: no solver
// call is made for a min-teams value the pool cannot meet.
func (c *Configuration) CheckPool(distinctTeams int) error {
	if c.MinTeams > distinctTeams {
		return &ConfigurationError{
			Field:  "min_teams",
			Reason: fmt.Sprintf("requires %d teams but pool has %d", c.MinTeams, distinctTeams),
		}
	}
	return nil
}

// ChargedSalary returns the salary a selection at the given role counts
// against the cap. Roles without a multiplier charge the listed salary.
func (c *Configuration) ChargedSalary(role string, listed int) int {
	if m, ok := c.Multipliers[role]; ok {
		return int(math.Round(float64(listed) * m.Salary))
	}
	return listed
}

// ScoredPoints returns the role-adjusted projection for a selection.
func (c *Configuration) ScoredPoints(role string, projected float64) float64 {
	if m, ok := c.Multipliers[role]; ok {
		return projected * m.Points
	}
	return projected
}

// TeamCounted reports whether entries at the given role participate in team
// aggregation.
func (c *Configuration) TeamCounted(role string) bool {
	return !c.TeamExempt[role]
}

// Positions returns the position labels in display-rank order.
func (c *Configuration) Positions() []string {
	positions := make([]string, 0, len(c.Quotas))
	for pos := range c.Quotas {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		ri, rj := c.PositionRank[positions[i]], c.PositionRank[positions[j]]
		if ri != rj {
			return ri < rj
		}
		return positions[i] < positions[j]
	})
	return positions
}

// SlotLabels expands the quotas into one label per roster slot, in
// display-rank order. This is the header row of the fixed-column export.
func (c *Configuration) SlotLabels() []string {
	labels := make([]string, 0, c.RosterSize())
	for _, pos := range c.Positions() {
		for i := 0; i < c.Quotas[pos]; i++ {
			labels = append(labels, pos)
		}
	}
	return labels
}

package pool

import (
	"fmt"
	"sort"
	"strings"
)

// Record is one candidate entry: a single (athlete, role) listing as it
// appears in the salary file. Role variants of the same athlete are separate
// records linked by AthleteKey at pool build time.
type Record struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Team            string  `json:"team"`
	Role            string  `json:"role"`
	Salary          int     `json:"salary"`
	ProjectedPoints float64 `json:"projected_points"`
	GameInfo        string  `json:"game_info,omitempty"`
	Opponent        string  `json:"opponent,omitempty"`

	// AthleteKey identifies the underlying athlete across role variants. It
	// is assigned once during pool construction; leave it empty on input.
	AthleteKey string `json:"-"`
}

// DataError reports a malformed pool entry. The pool fails construction
// rather than silently dropping the row.
type DataError struct {
	RecordID string
	Reason   string
}

func (e *DataError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("invalid pool data: %s", e.Reason)
	}
	return fmt.Sprintf("invalid pool entry %s: %s", e.RecordID, e.Reason)
}

// Pool is the immutable, indexed set of candidate entries for one batch.
// Records are indexed by role and by team at construction so model building
// never rescans the full pool.
type Pool struct {
	records []Record
	byRole  map[string][]int
	byTeam  map[string][]int
	// variantGroups holds, for every athlete with more than one role listing,
	// the indices of the mutually exclusive records.
	variantGroups [][]int
	teams         []string
}

// AthleteKeyFor normalizes a display name into the identity used to link role
// variants. Establishing the link once here replaces per-iteration name
// comparison.
func AthleteKeyFor(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// New builds and indexes a pool from externally validated rows. Duplicate
// identical rows are collapsed; conflicting rows sharing an ID are rejected.
func New(records []Record) (*Pool, error) {
	p := &Pool{
		byRole: make(map[string][]int),
		byTeam: make(map[string][]int),
	}
	seen := make(map[string]int)
	variants := make(map[string][]int)

	for _, r := range records {
		if r.ID == "" {
			return nil, &DataError{Reason: fmt.Sprintf("entry %q has no id", r.Name)}
		}
		if r.Role == "" {
			return nil, &DataError{RecordID: r.ID, Reason: "no eligible role"}
		}
		if r.Salary <= 0 {
			return nil, &DataError{RecordID: r.ID, Reason: fmt.Sprintf("salary must be positive, got %d", r.Salary)}
		}
		if r.ProjectedPoints < 0 {
			return nil, &DataError{RecordID: r.ID, Reason: fmt.Sprintf("projection must be non-negative, got %.2f", r.ProjectedPoints)}
		}
		if prev, ok := seen[r.ID]; ok {
			existing := p.records[prev]
			r.AthleteKey = existing.AthleteKey
			if existing == r {
				continue // exact duplicate row
			}
			return nil, &DataError{RecordID: r.ID, Reason: "conflicting duplicate entry"}
		}

		r.AthleteKey = AthleteKeyFor(r.Name)
		idx := len(p.records)
		seen[r.ID] = idx
		p.records = append(p.records, r)
		p.byRole[r.Role] = append(p.byRole[r.Role], idx)
		p.byTeam[r.Team] = append(p.byTeam[r.Team], idx)
		variants[r.AthleteKey] = append(variants[r.AthleteKey], idx)
	}

	if len(p.records) == 0 {
		return nil, &DataError{Reason: "pool is empty"}
	}

	keys := make([]string, 0, len(variants))
	for key, group := range variants {
		if len(group) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		p.variantGroups = append(p.variantGroups, variants[key])
	}

	for team := range p.byTeam {
		p.teams = append(p.teams, team)
	}
	sort.Strings(p.teams)

	return p, nil
}

// Len returns the number of entries.
func (p *Pool) Len() int { return len(p.records) }

// Record returns the entry at index i.
func (p *Pool) Record(i int) Record { return p.records[i] }

// ByRole returns the indices of entries listed at the given role.
func (p *Pool) ByRole(role string) []int { return p.byRole[role] }

// ByTeam returns the indices of entries on the given team.
func (p *Pool) ByTeam(team string) []int { return p.byTeam[team] }

// VariantGroups returns, per athlete with multiple role listings, the indices
// that are mutually exclusive in any lineup.
func (p *Pool) VariantGroups() [][]int { return p.variantGroups }

// Variants returns the indices of all role listings of one athlete.
func (p *Pool) Variants(name string) []int {
	key := AthleteKeyFor(name)
	var out []int
	for i, r := range p.records {
		if r.AthleteKey == key {
			out = append(out, i)
		}
	}
	return out
}

// Teams returns the distinct team codes in the pool, sorted.
func (p *Pool) Teams() []string { return p.teams }

// TeamCount returns the number of distinct teams in the pool.
func (p *Pool) TeamCount() int { return len(p.teams) }

// Roles returns the distinct role labels present in the pool.
func (p *Pool) Roles() []string {
	roles := make([]string, 0, len(p.byRole))
	for role := range p.byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// ExpandCaptain derives captain-style role variants from flat listings: every
// input row becomes a utility-role record plus a captain-role clone sharing
// the athlete key. Salary and projection stay listed; the configuration's
// role multipliers apply the premium at model build time.
func ExpandCaptain(records []Record, captainRole, utilityRole string) []Record {
	out := make([]Record, 0, 2*len(records))
	for _, r := range records {
		util := r
		util.Role = utilityRole
		out = append(out, util)

		cpt := r
		cpt.ID = r.ID + "-" + captainRole
		cpt.Role = captainRole
		out = append(out, cpt)
	}
	return out
}

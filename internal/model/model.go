// Package model assembles the per-iteration integer program: one binary
// decision variable per pool entry, auxiliary team-used binaries, a
// maximization objective over role-adjusted projections, and the constraint
// set in a fixed, deterministic order. Models are ephemeral; the generator
// builds one per iteration and discards it after the solve.
package model

import "fmt"

// Op is a constraint comparison operator.
type Op int

const (
	LE Op = iota // sum <= rhs
	GE           // sum >= rhs
	EQ           // sum == rhs
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "=="
	}
	return "?"
}

// Term is one coefficient in a linear constraint.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a named linear constraint over binary variables.
type Constraint struct {
	Name  string
	Terms []Term
	Op    Op
	RHS   float64
}

// Model is a 0/1 integer program. Variables [0, Entries) map one-to-one onto
// pool record indices; variables [Entries, NumVars) are auxiliary team-used
// binaries.
type Model struct {
	NumVars     int
	Entries     int // decision variables, == pool.Len()
	Objective   []float64
	Constraints []Constraint

	// teamVar maps a team code to its auxiliary variable index.
	teamVar map[string]int
}

// IsEntry reports whether variable v is a pool-entry decision variable.
func (m *Model) IsEntry(v int) bool { return v < m.Entries }

// TeamVar returns the auxiliary variable index for a team.
func (m *Model) TeamVar(team string) (int, bool) {
	v, ok := m.teamVar[team]
	return v, ok
}

func (m *Model) addConstraint(name string, terms []Term, op Op, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Terms: terms, Op: op, RHS: rhs})
}

func (m *Model) String() string {
	return fmt.Sprintf("model{vars=%d entries=%d constraints=%d}", m.NumVars, m.Entries, len(m.Constraints))
}

package solver

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/galactusaurus/roster-opt/internal/model"
)

const (
	eps           = 1e-6
	ctxCheckNodes = 1024
)

// BranchBound is an exact depth-first branch-and-bound backend for 0/1
// models. Nodes are pruned on two grounds: a constraint whose remaining
// variables can no longer bring it into range, and an optimistic objective
// bound that cannot beat the incumbent. It is meant for the pool sizes a
// single slate produces; larger deployments swap in a MIP backend behind the
// Solver interface.
type BranchBound struct{}

// NewBranchBound returns the reference backend.
func NewBranchBound() *BranchBound { return &BranchBound{} }

func satisfiedAt(sum float64, op model.Op, rhs float64) bool {
	switch op {
	case model.LE:
		return sum <= rhs+eps
	case model.GE:
		return sum >= rhs-eps
	default:
		return math.Abs(sum-rhs) <= eps
	}
}

type varRef struct {
	con  int
	coef float64
}

type bbState struct {
	m       *model.Model
	order   []int // variable assignment order, objective descending
	refs    [][]varRef
	act     []float64 // current activity per constraint
	minRem  []float64 // min attainable addition from unassigned vars
	maxRem  []float64 // max attainable addition from unassigned vars
	posSuf  []float64 // optimistic remaining objective from position k on
	values  []float64
	best    []float64
	bestObj float64
	found   bool
	nodes   int
	ctx     context.Context
	stopped bool
}

// Solve runs the search. Expiry of ctx is reported as StatusInfeasible for
// this iteration, matching the engine's timeout policy.
func (b *BranchBound) Solve(ctx context.Context, m *model.Model) (*Solution, error) {
	st := &bbState{
		m:       m,
		refs:    make([][]varRef, m.NumVars),
		act:     make([]float64, len(m.Constraints)),
		minRem:  make([]float64, len(m.Constraints)),
		maxRem:  make([]float64, len(m.Constraints)),
		values:  make([]float64, m.NumVars),
		bestObj: math.Inf(-1),
		ctx:     ctx,
	}

	for c, con := range m.Constraints {
		// A constraint with no terms is never touched by the search, so it
		// has to be checked here.
		if len(con.Terms) == 0 && !satisfiedAt(0, con.Op, con.RHS) {
			return &Solution{Status: StatusInfeasible}, nil
		}
		for _, t := range con.Terms {
			st.refs[t.Var] = append(st.refs[t.Var], varRef{con: c, coef: t.Coef})
			if t.Coef > 0 {
				st.maxRem[c] += t.Coef
			} else {
				st.minRem[c] += t.Coef
			}
		}
	}

	st.order = make([]int, m.NumVars)
	for i := range st.order {
		st.order[i] = i
	}
	sort.SliceStable(st.order, func(i, j int) bool {
		return m.Objective[st.order[i]] > m.Objective[st.order[j]]
	})

	st.posSuf = make([]float64, m.NumVars+1)
	for k := m.NumVars - 1; k >= 0; k-- {
		st.posSuf[k] = st.posSuf[k+1] + math.Max(0, m.Objective[st.order[k]])
	}

	st.search(0, 0)

	if st.stopped || !st.found {
		return &Solution{Status: StatusInfeasible}, nil
	}
	return &Solution{
		Status:    StatusOptimal,
		Values:    st.best,
		Objective: floats.Dot(st.m.Objective, st.best),
	}, nil
}

func (s *bbState) search(k int, obj float64) {
	if s.stopped {
		return
	}
	s.nodes++
	if s.nodes%ctxCheckNodes == 0 && s.ctx.Err() != nil {
		s.stopped = true
		return
	}

	if s.found && obj+s.posSuf[k] <= s.bestObj+eps {
		return
	}
	if k == s.m.NumVars {
		// All remaining ranges are empty, so range-feasibility here means
		// every constraint holds exactly.
		if obj > s.bestObj {
			s.bestObj = obj
			s.best = append([]float64(nil), s.values...)
			s.found = true
		}
		return
	}

	v := s.order[k]
	first := 1.0
	if s.m.Objective[v] < 0 {
		first = 0
	}
	for _, val := range [2]float64{first, 1 - first} {
		if s.assign(v, val) {
			s.values[v] = val
			s.search(k+1, obj+s.m.Objective[v]*val)
		}
		s.unassign(v, val)
		if s.stopped {
			return
		}
	}
}

// assign fixes variable v and reports whether every constraint touching v can
// still be brought into range by its unassigned variables. The ranges of
// untouched constraints are unchanged, so only the touched ones need
// rechecking.
func (s *bbState) assign(v int, val float64) bool {
	ok := true
	for _, r := range s.refs[v] {
		s.act[r.con] += r.coef * val
		if r.coef > 0 {
			s.maxRem[r.con] -= r.coef
		} else {
			s.minRem[r.con] -= r.coef
		}
	}
	for _, r := range s.refs[v] {
		con := s.m.Constraints[r.con]
		lo := s.act[r.con] + s.minRem[r.con]
		hi := s.act[r.con] + s.maxRem[r.con]
		switch con.Op {
		case model.LE:
			if lo > con.RHS+eps {
				ok = false
			}
		case model.GE:
			if hi < con.RHS-eps {
				ok = false
			}
		case model.EQ:
			if lo > con.RHS+eps || hi < con.RHS-eps {
				ok = false
			}
		}
		if !ok {
			break
		}
	}
	return ok
}

func (s *bbState) unassign(v int, val float64) {
	for _, r := range s.refs[v] {
		s.act[r.con] -= r.coef * val
		if r.coef > 0 {
			s.maxRem[r.con] += r.coef
		} else {
			s.minRem[r.con] += r.coef
		}
	}
}

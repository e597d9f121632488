// Package solver defines the adapter contract between the constraint model
// and an integer-program backend, plus a reference exact backend. The engine
// depends only on the Solver interface; any MIP backend can sit behind it.
package solver

import (
	"context"
	"fmt"

	"github.com/galactusaurus/roster-opt/internal/model"
)

// Status classifies the outcome of one solve.
type Status int

const (
	// StatusOptimal means a provably best assignment was found.
	StatusOptimal Status = iota
	// StatusInfeasible means no assignment satisfies the constraints. This is
	// a normal, handled outcome, not an error; a per-iteration timeout is
	// also reported as infeasible rather than hanging the batch.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded. It cannot occur for a
	// pure binary model and is treated as a backend malfunction upstream.
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	}
	return "unknown"
}

// Solution is the outcome of one solve. Values holds the 0/1 assignment for
// every model variable and is only populated for StatusOptimal. When several
// assignments share the optimal objective the backend may return any of
// them; callers must not depend on which.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Solver executes one assembled model. An error return signals backend
// malfunction and aborts the batch; legitimate infeasibility is a Solution
// with StatusInfeasible and a nil error.
type Solver interface {
	Solve(ctx context.Context, m *model.Model) (*Solution, error)
}

// BackendError wraps an unexpected backend failure.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("solver backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Package generate orchestrates sequential multi-lineup generation: each
// iteration builds a fresh constraint model from the pool, the configuration,
// and the diversity/exposure state accumulated so far, runs the solver, and
// extracts an accepted lineup. Batches are strictly sequential internally;
// independent generators share no state and may run concurrently.
package generate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/model"
	"github.com/galactusaurus/roster-opt/internal/pool"
	"github.com/galactusaurus/roster-opt/internal/solver"
)

// ErrNoLineups is returned when the very first iteration is infeasible: the
// request as a whole cannot produce a single valid lineup.
var ErrNoLineups = errors.New("no feasible lineup for the request")

// Progress is emitted after every accepted lineup when a hook is installed.
type Progress struct {
	BatchID   string `json:"batch_id"`
	Iteration int    `json:"iteration"`
	Requested int    `json:"requested"`
	Accepted  int    `json:"accepted"`
	Message   string `json:"message"`
}

// Generator runs batches against one configuration and pool.
type Generator struct {
	cfg    *contest.Configuration
	pool   *pool.Pool
	solver solver.Solver
	log    *logrus.Entry

	// SolveTimeout bounds each iteration's solve; an expired iteration is
	// treated as infeasible rather than hanging the batch. Zero disables it.
	SolveTimeout time.Duration

	// OnProgress, when set, receives an update after each accepted lineup.
	OnProgress func(Progress)
}

// New validates the configuration against the pool and returns a generator.
// Configuration problems and pool data problems are reported here, before
// any solve is attempted.
func New(cfg *contest.Configuration, p *pool.Pool, s solver.Solver, log *logrus.Entry) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	counted := make(map[string]bool)
	for _, team := range p.Teams() {
		for _, i := range p.ByTeam(team) {
			if cfg.TeamCounted(p.Record(i).Role) {
				counted[team] = true
				break
			}
		}
	}
	if err := cfg.CheckPool(len(counted)); err != nil {
		return nil, err
	}

	// Every athlete must have at least one listing at a quota position;
	// anything else means the ingest layer produced a row the format cannot
	// place, and that has to surface, not be silently dropped.
	eligible := make(map[string]bool)
	names := make(map[string]string)
	for i := 0; i < p.Len(); i++ {
		r := p.Record(i)
		names[r.AthleteKey] = r.Name
		if _, ok := cfg.Quotas[r.Role]; ok {
			eligible[r.AthleteKey] = true
		}
	}
	for key, name := range names {
		if !eligible[key] {
			return nil, &pool.DataError{RecordID: name, Reason: "no role eligible for format " + cfg.Name}
		}
	}

	return &Generator{cfg: cfg, pool: p, solver: s, log: log}, nil
}

// Generate produces up to req.Count lineups, ordered by total points
// descending. A truncated batch from mid-run infeasibility is a valid result;
// first-iteration infeasibility returns ErrNoLineups; a solver malfunction
// aborts and is surfaced.
func (g *Generator) Generate(ctx context.Context, req Request) ([]Lineup, error) {
	if err := req.validate(g.cfg); err != nil {
		return nil, err
	}

	batchID := uuid.New().String()
	log := g.log.WithFields(logrus.Fields{
		"batch_id":  batchID,
		"format":    g.cfg.Name,
		"pool_size": g.pool.Len(),
		"requested": req.Count,
	})
	log.Info("Starting lineup generation")

	tracker := NewExposureTracker(g.pool)
	previous := make([][]int, 0, req.Count)
	lineups := make([]Lineup, 0, req.Count)

	for i := 0; i < req.Count; i++ {
		m := model.Build(g.cfg, g.pool, model.Options{
			StackTeam:          req.StackTeam,
			StackCount:         req.StackCount,
			FadeTeams:          req.FadeTeams,
			MinSalaryFraction:  req.MinSalaryFraction,
			DiversityThreshold: req.DiversityThreshold,
			Banned:             tracker.Banned(req),
			Previous:           previous,
		})

		sctx := ctx
		cancel := context.CancelFunc(func() {})
		if g.SolveTimeout > 0 {
			sctx, cancel = context.WithTimeout(ctx, g.SolveTimeout)
		}
		sol, err := g.solver.Solve(sctx, m)
		cancel()
		if err != nil {
			log.WithError(err).Error("Solver malfunction, aborting batch")
			return nil, fmt.Errorf("lineup %d: %w", i+1, err)
		}
		if sol.Status == solver.StatusUnbounded {
			log.Error("Solver reported an unbounded model, aborting batch")
			return nil, &solver.BackendError{Backend: "adapter", Err: fmt.Errorf("unbounded model on lineup %d", i+1)}
		}
		if sol.Status != solver.StatusOptimal {
			if i == 0 {
				log.Warn("First iteration infeasible, request yields no lineups")
				return nil, ErrNoLineups
			}
			log.WithFields(logrus.Fields{
				"accepted": len(lineups),
			}).Info("Iteration infeasible, returning truncated batch")
			break
		}

		lineup, members := extract(g.cfg, g.pool, sol)
		previous = append(previous, members)
		tracker.Record(members)
		lineups = append(lineups, lineup)

		log.WithFields(logrus.Fields{
			"iteration":    i + 1,
			"total_points": lineup.TotalPoints,
			"total_salary": lineup.TotalSalary,
			"teams_used":   lineup.TeamCount(),
		}).Debug("Accepted lineup")

		if g.OnProgress != nil {
			g.OnProgress(Progress{
				BatchID:   batchID,
				Iteration: i + 1,
				Requested: req.Count,
				Accepted:  len(lineups),
				Message:   fmt.Sprintf("accepted lineup %d of %d", i+1, req.Count),
			})
		}
	}

	sort.SliceStable(lineups, func(a, b int) bool {
		return lineups[a].TotalPoints > lineups[b].TotalPoints
	})

	log.WithField("accepted", len(lineups)).Info("Lineup generation completed")
	return lineups, nil
}

// Usage returns appearance counts by athlete name for a finished batch.
func Usage(lineups []Lineup) map[string]int {
	usage := make(map[string]int)
	for _, l := range lineups {
		for _, s := range l.Slots {
			usage[s.Record.Name]++
		}
	}
	return usage
}

package generate

import "github.com/galactusaurus/roster-opt/internal/contest"

// Request carries the per-batch generation knobs collected upstream (CLI or
// API). Zero values mean "no constraint" for the optional fields.
type Request struct {
	Count              int            `json:"count"`
	StackTeam          string         `json:"stack_team,omitempty"`
	StackCount         int            `json:"stack_count,omitempty"`
	FadeTeams          []string       `json:"fade_teams,omitempty"`
	MinSalaryFraction  float64        `json:"min_salary_fraction"`
	DiversityThreshold int            `json:"diversity_threshold"`
	MaxAppearances     int            `json:"max_player_appearances,omitempty"`
	ExposureCaps       map[string]int `json:"exposure_caps,omitempty"` // entry ID -> cap
}

func (r *Request) validate(cfg *contest.Configuration) error {
	if r.Count < 1 {
		return &contest.ConfigurationError{Field: "count", Reason: "must request at least one lineup"}
	}
	if r.MinSalaryFraction < 0 || r.MinSalaryFraction > 1 {
		return &contest.ConfigurationError{Field: "min_salary_fraction", Reason: "must be within [0, 1]"}
	}
	if r.DiversityThreshold < 0 || r.DiversityThreshold > cfg.RosterSize() {
		return &contest.ConfigurationError{Field: "diversity_threshold", Reason: "must be within [0, roster size]"}
	}
	if r.StackCount < 0 {
		return &contest.ConfigurationError{Field: "stack_count", Reason: "must be non-negative"}
	}
	if r.MaxAppearances < 0 {
		return &contest.ConfigurationError{Field: "max_player_appearances", Reason: "must be non-negative"}
	}
	for id, cap := range r.ExposureCaps {
		if cap < 0 {
			return &contest.ConfigurationError{Field: "exposure_caps", Reason: "cap for " + id + " must be non-negative"}
		}
	}
	return nil
}

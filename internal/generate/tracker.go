package generate

import (
	"sort"

	"github.com/galactusaurus/roster-opt/internal/pool"
)

// ExposureTracker counts how often each athlete has appeared across the
// accepted lineups of one batch. It is owned by the generator and mutated
// only after a lineup is accepted; counting by athlete key means the captain
// and utility variants of one athlete share a single exposure count.
type ExposureTracker struct {
	pool   *pool.Pool
	counts map[string]int // athlete key -> appearances
}

// NewExposureTracker starts an empty tracker for one batch.
func NewExposureTracker(p *pool.Pool) *ExposureTracker {
	return &ExposureTracker{pool: p, counts: make(map[string]int)}
}

// Record registers an accepted lineup's members by entry index.
func (t *ExposureTracker) Record(members []int) {
	for _, i := range members {
		t.counts[t.pool.Record(i).AthleteKey]++
	}
}

// Count returns the appearances of the athlete behind an entry index.
func (t *ExposureTracker) Count(i int) int {
	return t.counts[t.pool.Record(i).AthleteKey]
}

// Appearances returns appearance counts keyed by athlete display name.
func (t *ExposureTracker) Appearances() map[string]int {
	out := make(map[string]int, len(t.counts))
	for i := 0; i < t.pool.Len(); i++ {
		r := t.pool.Record(i)
		if n := t.counts[r.AthleteKey]; n > 0 {
			out[r.Name] = n
		}
	}
	return out
}

// Banned returns the entry indices whose athlete has already reached its
// exposure cap, so the builder can fix their variables to zero this
// iteration. Per-entry caps take precedence over the batch-wide limit.
func (t *ExposureTracker) Banned(req Request) []int {
	var banned []int
	for i := 0; i < t.pool.Len(); i++ {
		r := t.pool.Record(i)
		cap, ok := req.ExposureCaps[r.ID]
		if !ok {
			if req.MaxAppearances <= 0 {
				continue
			}
			cap = req.MaxAppearances
		}
		if t.counts[r.AthleteKey] >= cap {
			banned = append(banned, i)
		}
	}
	sort.Ints(banned)
	return banned
}

package worker

import "sync/atomic"

// Tally counts row outcomes across all workers of a pool.
type Tally struct {
	processed  atomic.Int64
	saved      atomic.Int64
	failed     atomic.Int64
	skipped    atomic.Int64
	invalid    atomic.Int64
	eligible   atomic.Int64
	ineligible atomic.Int64
}

// Counts is a point-in-time copy of a Tally.
type Counts struct {
	Processed  int64 `json:"processed"`
	Saved      int64 `json:"saved"`
	Failed     int64 `json:"failed"`
	Skipped    int64 `json:"skipped"`
	Invalid    int64 `json:"invalid"`
	Eligible   int64 `json:"eligible"`
	Ineligible int64 `json:"ineligible"`
}

// Counts returns the current totals.
func (t *Tally) Counts() Counts {
	return Counts{
		Processed:  t.processed.Load(),
		Saved:      t.saved.Load(),
		Failed:     t.failed.Load(),
		Skipped:    t.skipped.Load(),
		Invalid:    t.invalid.Load(),
		Eligible:   t.eligible.Load(),
		Ineligible: t.ineligible.Load(),
	}
}

func (t *Tally) verdict(eligible bool) {
	if eligible {
		t.eligible.Add(1)
		return
	}
	t.ineligible.Add(1)
}

package schedule

import (
	"fmt"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
)

// allocateRoundRobin assigns the i-th member to dates[i mod len(dates)].
// Used for members bound to a single bucket, so cross-bucket load is ignored.
func (r *run) allocateRoundRobin(members []model.Member, dates []EligibleDate) error {
	if len(members) == 0 {
		return nil
	}
	if len(dates) == 0 {
		return fmt.Errorf("%w: %d constrained members but no matching dates", ErrNoEligibleDates, len(members))
	}

	for i, member := range members {
		r.place(member, dates[i%len(dates)])
	}

	return nil
}

// allocateLeastLoaded assigns each member, in order, to the candidate date with
// the fewest assignments so far
func (r *run) allocateLeastLoaded(members []model.Member, candidates []EligibleDate) error {
	if len(members) == 0 {
		return nil
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %d flexible members but no candidate dates", ErrNoEligibleDates, len(members))
	}

	for _, member := range members {
		r.place(member, leastLoaded(r.ledger, candidates))
	}

	return nil
}

// leastLoaded scans candidates left to right and only replaces the current best
// on a strictly smaller count, so ties go to the earliest candidate
func leastLoaded(ledger *Ledger, candidates []EligibleDate) EligibleDate {
	best := candidates[0]
	bestCount := ledger.Count(best)

	for _, candidate := range candidates[1:] {
		count := ledger.Count(candidate)
		if count < bestCount {
			best = candidate
			bestCount = count
		}
	}

	return best
}

/*
search.go - Maximum-safe-duration search

PURPOSE:
  Given a trip start date, find the longest trip that keeps the window count
  at or under LimitDays - bufferDays on EVERY day of the trip.

SEARCH SHAPE:
  Durations are tried in increasing order and the scan STOPS at the first
  unsafe duration. The returned maximum is therefore the longest safe
  PREFIX of durations. Extending a trip from a fixed start date only adds
  tracked days near the window's leading edge, so in the typical case the
  daily peak is non-decreasing in trip length and the prefix maximum is the
  true maximum. A history with tracked-country intervals dropping out of
  the window mid-trip can in principle make a longer duration safe again
  after a transient spike; this search intentionally does not look past the
  first violation. Callers needing an exhaustive answer should simulate the
  durations they care about with Rule.Simulate.
*/
package residence

import "fmt"

// MaxSafeDuration finds the longest trip starting at tripStart that keeps
// every day of the trip at or under LimitDays - bufferDays, trying durations
// 1..maxDuration. Each candidate is evaluated against the history extended
// with the candidate interval; the receiver history is never modified.
func (r Rule) MaxSafeDuration(h *History, tripStart Date, bufferDays, maxDuration int) PlanResult {
	threshold := r.LimitDays - bufferDays
	best := 0
	var trials []DurationTrial

	for duration := 1; duration <= maxDuration; duration++ {
		tripEnd := tripStart.AddDays(duration - 1)
		scenario := h.Extend(Interval{Country: r.TrackedCountry, Start: tripStart, End: tripEnd})

		peak := 0
		violation := false
		for d := tripStart; d.BeforeOrEqual(tripEnd); d = d.AddDays(1) {
			days := r.DaysInWindow(scenario, d)
			if days > peak {
				peak = days
			}
			if days > threshold {
				violation = true
				break
			}
		}

		trials = append(trials, DurationTrial{
			Duration: duration,
			TripEnd:  tripEnd,
			PeakDays: peak,
			Margin:   r.LimitDays - peak,
			Safe:     !violation,
		})

		if violation {
			break
		}
		best = duration
	}

	if best == 0 {
		result := PlanResult{
			Safe:              false,
			MaxDuration:       0,
			TripStart:         tripStart,
			RecommendedReturn: tripStart,
			Message: fmt.Sprintf("cannot take this trip: day one already exceeds %d days (limit %d minus buffer %d)",
				threshold, r.LimitDays, bufferDays),
			Trials: trials,
		}
		if len(trials) > 0 {
			result.PeakDays = trials[0].PeakDays
			result.BufferMaintained = trials[0].Margin
		}
		return result
	}

	bestTrial := trials[best-1]
	return PlanResult{
		Safe:              true,
		MaxDuration:       best,
		TripStart:         tripStart,
		RecommendedReturn: bestTrial.TripEnd,
		PeakDays:          bestTrial.PeakDays,
		BufferMaintained:  bestTrial.Margin,
		Trials:            trials,
	}
}

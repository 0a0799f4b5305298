package residence

// =============================================================================
// INTERVAL SIMULATOR
// =============================================================================

// Simulate produces the full day-by-day compliance trace of one specific
// candidate trip in the tracked country. Unlike MaxSafeDuration it never
// stops early: every day of the trip is evaluated against the history
// extended with the exact candidate interval, so the caller sees the whole
// picture including any violation days. Compliance here is against the raw
// limit, not the buffered one; buffering is a planning concern.
func (r Rule) Simulate(h *History, tripStart Date, duration int) Simulation {
	tripEnd := tripStart.AddDays(duration - 1)
	scenario := h.Extend(Interval{Country: r.TrackedCountry, Start: tripStart, End: tripEnd})

	sim := Simulation{
		TripStart: tripStart,
		TripEnd:   tripEnd,
		Duration:  duration,
		Compliant: true,
	}

	for d := tripStart; d.BeforeOrEqual(tripEnd); d = d.AddDays(1) {
		days := r.DaysInWindow(scenario, d)
		compliant := days <= r.LimitDays

		if days > sim.PeakDays {
			sim.PeakDays = days
		}
		if !compliant && sim.FirstViolation == nil {
			violation := d
			sim.FirstViolation = &violation
			sim.Compliant = false
		}

		sim.Days = append(sim.Days, DayStatus{
			Date:         d,
			DaysInWindow: days,
			Compliant:    compliant,
		})
	}

	sim.DaysAfterTrip = r.DaysInWindow(scenario, tripEnd)
	return sim
}

package residence

// =============================================================================
// WINDOW OVERLAP CALCULATOR
// =============================================================================

// windowStart returns the first day of the trailing window ending on ref.
// The window spans exactly WindowDays calendar days including ref itself.
func (r Rule) windowStart(ref Date) Date {
	return ref.AddDays(-(r.WindowDays - 1))
}

// DaysInWindow counts tracked-country days inside the trailing window ending
// on ref. For each matching interval the contribution is the inclusive
// overlap between [interval.Start, interval.End] and [windowStart, ref];
// intervals that miss the window contribute zero.
//
// This is a linear scan over the history. At the expected scale (tens of
// intervals, hundreds of query days) that is well under a millisecond per
// query; a prefix-sum structure would only pay off at far larger histories.
func (r Rule) DaysInWindow(h *History, ref Date) int {
	winStart := r.windowStart(ref)
	total := 0
	for _, iv := range h.intervals {
		if iv.Country != r.TrackedCountry {
			continue
		}
		overlapStart := iv.Start.Max(winStart)
		overlapEnd := iv.End.Min(ref)
		if overlapStart.BeforeOrEqual(overlapEnd) {
			total += DaysBetween(overlapStart, overlapEnd) + 1
		}
	}
	return total
}

package residence

// =============================================================================
// TIMELINE GENERATOR
// =============================================================================

// Timeline produces one TimelinePoint per calendar day in [from, to],
// inclusive, in date order. Cost is O(days x intervals), which is fine at
// the scales this engine targets; the output feeds charts and reports.
// An empty slice is returned when from is after to.
func (r Rule) Timeline(h *History, from, to Date) []TimelinePoint {
	var points []TimelinePoint
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		days := r.DaysInWindow(h, d)

		country, ok := h.CountryOn(d)
		if !ok {
			country = r.HomeCountry
		}

		points = append(points, TimelinePoint{
			Date:          d,
			Country:       country,
			DaysInWindow:  days,
			DaysRemaining: r.LimitDays - days,
			Compliant:     days <= r.LimitDays,
		})
	}
	return points
}

package residence

// =============================================================================
// STATUS EVALUATOR
// =============================================================================

// Status derives point-in-time compliance metrics for ref. Location is the
// country of the first sorted interval containing ref, falling back to the
// rule's home country when no interval covers it. Any reference date is
// legal; dates before all recorded travel report zero tracked days.
func (r Rule) Status(h *History, ref Date) Status {
	days := r.DaysInWindow(h, ref)

	location, ok := h.CountryOn(ref)
	if !ok {
		location = r.HomeCountry
	}

	return Status{
		Date:          ref,
		Location:      location,
		DaysInWindow:  days,
		DaysRemaining: r.LimitDays - days,
		Compliant:     days <= r.LimitDays,
		Limit:         r.LimitDays,
	}
}

package residence

// =============================================================================
// INTERVAL - One stay in one country, inclusive on both ends
// =============================================================================

// Interval is a stay in a single country over [Start, End], inclusive on
// both ends. A single-day stay has Start == End. Intervals are immutable
// value records; collections are rebuilt rather than mutated in place.
type Interval struct {
	Country string
	Start   Date
	End     Date
}

// Days returns the number of calendar days the interval covers.
// Zero or negative when Start is after End (see the precondition note in
// errors.go).
func (iv Interval) Days() int {
	return DaysBetween(iv.Start, iv.End) + 1
}

// Contains reports whether the date falls within [Start, End].
func (iv Interval) Contains(d Date) bool {
	return d.AfterOrEqual(iv.Start) && d.BeforeOrEqual(iv.End)
}

// String formats the interval as "Country [start, end]".
func (iv Interval) String() string {
	return iv.Country + " [" + iv.Start.String() + ", " + iv.End.String() + "]"
}

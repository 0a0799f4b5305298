/*
Package residence provides the core rolling-window compliance engine.

PURPOSE:
  This package contains the types and algorithms for tracking presence in a
  country that caps days within a rolling window (e.g. at most 183 Turkey
  days in any trailing 365-day window). It answers three questions:

  1. Where does someone stand today?        (Status)
  2. How long can a future trip safely be?  (MaxSafeDuration)
  3. What does a specific trip look like?   (Simulate, Timeline)

KEY CONCEPTS IN THIS FILE (types.go):
  - Rule:          The compliance rule (tracked country, window, limit)
  - Status:        Point-in-time compliance metrics
  - PlanResult:    Outcome of the maximum-safe-duration search
  - Simulation:    Day-by-day trace of a specific candidate trip
  - TimelinePoint: One day of window metrics for visualization

DESIGN PRINCIPLES:
  1. Purity: every operation is a pure function of a History snapshot plus
     scalar parameters. No I/O, no hidden state, no mutation.
  2. Immutability: a History is never modified; what-if queries run against
     a copy extended with the candidate interval (History.Extend).
  3. Totality: any reference date is legal, including dates before all
     recorded travel. Such dates simply count zero tracked days.

USAGE:
  hist, err := residence.NewHistory(records)
  if err != nil { ... }

  rule := residence.DefaultRule()
  status := rule.Status(hist, residence.NewDate(2025, time.November, 8))
  plan := rule.MaxSafeDuration(hist, tripStart, 12, 90)

SEE ALSO:
  - history.go: History construction and the overlay composition
  - window.go:  The trailing-window overlap calculation
  - search.go:  The maximum-safe-duration search
*/
package residence

// Rule describes a single-jurisdiction residence rule: no more than
// LimitDays of presence in TrackedCountry within any trailing window of
// WindowDays calendar days. HomeCountry is the fallback location for dates
// not covered by any travel interval.
type Rule struct {
	TrackedCountry string
	HomeCountry    string
	WindowDays     int
	LimitDays      int
}

// DefaultRule returns the canonical Turkey/Germany 183-in-365 rule.
func DefaultRule() Rule {
	return Rule{
		TrackedCountry: "Turkey",
		HomeCountry:    "Germany",
		WindowDays:     365,
		LimitDays:      183,
	}
}

// Status is a point-in-time view of compliance, derived from a History.
type Status struct {
	Date          Date
	Location      string
	DaysInWindow  int
	DaysRemaining int // LimitDays - DaysInWindow; negative when over the limit
	Compliant     bool
	Limit         int
}

// DurationTrial records the outcome of testing one candidate trip length
// during the maximum-duration search.
type DurationTrial struct {
	Duration int
	TripEnd  Date
	PeakDays int
	Margin   int // LimitDays - PeakDays
	Safe     bool
}

// PlanResult is the outcome of MaxSafeDuration. When Safe is false the trip
// cannot start at all (day one already breaches the buffered limit) and
// Message explains why. Results are computed fresh per query and never
// persisted.
type PlanResult struct {
	Safe              bool
	MaxDuration       int
	TripStart         Date
	RecommendedReturn Date
	PeakDays          int // highest window count on any day of the trip
	BufferMaintained  int // LimitDays - PeakDays
	Message           string

	// Trials holds the per-duration trace; the final entry is the first
	// unsafe duration when one was hit before the search bound.
	Trials []DurationTrial
}

// DayStatus is one day of a simulated trip.
type DayStatus struct {
	Date         Date
	DaysInWindow int
	Compliant    bool
}

// Simulation is the full day-by-day trace of one specific candidate trip.
// Unlike the search it never stops early; every day of the trip is reported.
type Simulation struct {
	TripStart      Date
	TripEnd        Date
	Duration       int
	PeakDays       int
	Compliant      bool
	FirstViolation *Date // nil when the whole trip is compliant
	Days           []DayStatus
	DaysAfterTrip  int // window count on the return date
}

// TimelinePoint is one calendar day of window metrics, used by charts.
type TimelinePoint struct {
	Date          Date
	Country       string
	DaysInWindow  int
	DaysRemaining int
	Compliant     bool
}

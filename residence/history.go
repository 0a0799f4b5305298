/*
history.go - Travel history construction and the overlay composition

PURPOSE:
  History is the engine's period store: travel intervals parsed from raw
  records and held sorted ascending by start date. Ties on start keep their
  original insertion order (stable sort), so callers control how coincident
  intervals rank.

VALIDATION BOUNDARY:
  NewHistory is strict about shape (missing fields, unparseable dates fail
  with ParseError) and deliberately permissive about content: overlapping
  intervals, gaps between intervals, and even start-after-end intervals are
  all accepted. Contiguity is a data-quality concern owned by callers; the
  engine only promises that a start-after-end interval counts zero days.

WHAT-IF COMPOSITION:
  Extend returns a new History with extra intervals merged in, leaving the
  receiver untouched. Search and simulation build their hypothetical
  histories this way; no operation ever mutates a snapshot it was given.
*/
package residence

import (
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Record is a raw travel record as loaded from storage or an API payload.
// Start and End accept an ISO YYYY-MM-DD string, a time.Time, or a Date.
type Record struct {
	Country string `json:"country"`
	Start   any    `json:"start"`
	End     any    `json:"end"`
}

// History is an ordered collection of travel intervals, sorted ascending by
// start date. It is immutable after construction.
type History struct {
	intervals []Interval
}

// NewHistory parses and sorts raw records into a History. It fails with a
// *ParseError (wrapping ErrInvalidRecord) on the first record with a missing
// field or an unrecognizable date.
func NewHistory(records []Record) (*History, error) {
	intervals := make([]Interval, 0, len(records))
	for i, r := range records {
		if err := validation.Validate(r.Country, validation.Required); err != nil {
			return nil, &ParseError{Index: i, Field: "country", Value: r.Country, Err: err}
		}
		start, err := parseDateValue(r.Start)
		if err != nil {
			return nil, &ParseError{Index: i, Field: "start", Value: r.Start, Err: err}
		}
		end, err := parseDateValue(r.End)
		if err != nil {
			return nil, &ParseError{Index: i, Field: "end", Value: r.End, Err: err}
		}
		intervals = append(intervals, Interval{Country: r.Country, Start: start, End: end})
	}
	return NewHistoryFromIntervals(intervals), nil
}

// NewHistoryFromIntervals builds a History from already-parsed intervals.
// The input slice is copied and stable-sorted; the caller's slice is not
// modified.
func NewHistoryFromIntervals(intervals []Interval) *History {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return &History{intervals: sorted}
}

// parseDateValue accepts the date representations a Record may carry:
// an ISO string, a time.Time, or a Date.
func parseDateValue(v any) (Date, error) {
	if err := validation.Validate(v, validation.Required); err != nil {
		return Date{}, err
	}
	switch d := v.(type) {
	case Date:
		return d, nil
	case time.Time:
		return DateOf(d), nil
	case string:
		return ParseDate(d)
	default:
		return Date{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// Len returns the number of intervals in the history.
func (h *History) Len() int { return len(h.intervals) }

// Intervals returns a copy of the sorted intervals.
func (h *History) Intervals() []Interval {
	out := make([]Interval, len(h.intervals))
	copy(out, h.intervals)
	return out
}

// Extend returns a new History containing the receiver's intervals plus the
// extras, re-sorted. The receiver is never modified; this is the overlay
// composition used for what-if queries.
func (h *History) Extend(extra ...Interval) *History {
	combined := make([]Interval, 0, len(h.intervals)+len(extra))
	combined = append(combined, h.intervals...)
	combined = append(combined, extra...)
	return NewHistoryFromIntervals(combined)
}

// CountryOn returns the country of the first interval (in sorted order)
// containing the date, or ok=false when no interval covers it.
func (h *History) CountryOn(d Date) (string, bool) {
	for _, iv := range h.intervals {
		if iv.Contains(d) {
			return iv.Country, true
		}
	}
	return "", false
}

// TotalsByCountry sums days per country, with each interval first clipped to
// the optional [from, to] range. A nil bound leaves that side unclipped.
// Intervals fully outside the range contribute nothing.
func (h *History) TotalsByCountry(from, to *Date) map[string]int {
	totals := make(map[string]int)
	for _, iv := range h.intervals {
		start, end := iv.Start, iv.End
		if from != nil {
			start = start.Max(*from)
		}
		if to != nil {
			end = end.Min(*to)
		}
		if start.BeforeOrEqual(end) {
			totals[iv.Country] += DaysBetween(start, end) + 1
		}
	}
	return totals
}

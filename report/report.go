/*
PURPOSE: Console report rendering for residence compliance analysis.

Renders a full text report to any io.Writer: current window status, the
maximum safe duration for a planned trip, a table of alternative trip
lengths, and calendar-year travel totals. A quiet mode prints only the
key figures for scripting.

SEE ALSO:
  - residence/status.go for the status computation
  - residence/search.go for the planning search
  - cmd/check-trip for the CLI wrapping this package
*/
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/warp/residence-engine/residence"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls what the report analyzes and how it is rendered.
type Options struct {
	PersonName   string
	AnalysisDate residence.Date
	TripStart    residence.Date
	BufferDays   int
	MaxDuration  int
	Quiet        bool
}

// alternative trip lengths shown in the comparison table, in days
var altDurations = []int{14, 21, 28, 35, 42, 49, 56}

// =============================================================================
// REPORTER
// =============================================================================

// Reporter renders compliance reports for one person's travel history.
type Reporter struct {
	rule residence.Rule
	hist *residence.History
}

// New returns a Reporter over the given history.
func New(rule residence.Rule, hist *residence.History) *Reporter {
	return &Reporter{rule: rule, hist: hist}
}

// Render writes the full report to w.
func (rp *Reporter) Render(w io.Writer, opts Options) error {
	status := rp.rule.Status(rp.hist, opts.AnalysisDate)
	plan := rp.rule.MaxSafeDuration(rp.hist, opts.TripStart, opts.BufferDays, opts.MaxDuration)

	if opts.Quiet {
		return rp.renderQuiet(w, opts, status, plan)
	}

	rp.renderHeader(w, opts)
	rp.renderStatus(w, opts, status)
	rp.renderTrip(w, opts, status, plan)
	rp.renderAlternatives(w, opts)
	rp.renderYearTotals(w, opts, plan)

	banner(w, "ANALYSIS COMPLETE")
	return nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func (rp *Reporter) renderHeader(w io.Writer, opts Options) {
	banner(w, fmt.Sprintf("%s-%s RESIDENCE TRACKER",
		strings.ToUpper(rp.rule.TrackedCountry), strings.ToUpper(rp.rule.HomeCountry)))
	fmt.Fprintf(w, "Person:        %s\n", opts.PersonName)
	fmt.Fprintf(w, "Analysis Date: %s\n", longDate(opts.AnalysisDate))
	fmt.Fprintf(w, "Rule:          maximum %d %s days in any rolling %d-day window\n",
		rp.rule.LimitDays, rp.rule.TrackedCountry, rp.rule.WindowDays)
	fmt.Fprintf(w, "Safety Buffer: %d days\n", opts.BufferDays)
}

func (rp *Reporter) renderStatus(w io.Writer, opts Options, status residence.Status) {
	section(w, "CURRENT STATUS")
	fmt.Fprintf(w, "Current Location: %s\n", status.Location)
	fmt.Fprintf(w, "%s Days Used:  %d / %d\n", rp.rule.TrackedCountry, status.DaysInWindow, rp.rule.LimitDays)
	fmt.Fprintf(w, "Days Remaining:   %d\n", status.DaysRemaining)

	switch {
	case !status.Compliant:
		fmt.Fprintln(w, "Compliance Status: NON-COMPLIANT")
	case status.DaysRemaining >= opts.BufferDays:
		fmt.Fprintln(w, "Compliance Status: COMPLIANT (safe)")
	default:
		fmt.Fprintln(w, "Compliance Status: COMPLIANT (below buffer)")
		fmt.Fprintf(w, "\nWARNING: only %d days from limit, recommended buffer is %d days\n",
			status.DaysRemaining, opts.BufferDays)
	}
}

func (rp *Reporter) renderTrip(w io.Writer, opts Options, status residence.Status, plan residence.PlanResult) {
	section(w, "PLANNED TRIP ANALYSIS")
	fmt.Fprintf(w, "Planned Trip Start: %s\n", longDate(opts.TripStart))
	fmt.Fprintf(w, "Days Until Trip:    %d\n", residence.DaysBetween(opts.AnalysisDate, opts.TripStart))
	fmt.Fprintf(w, "\nMaximum Safe Trip Duration: %d days\n", plan.MaxDuration)

	if !plan.Safe {
		fmt.Fprintf(w, "\nWARNING: cannot safely take this trip with the current buffer\n  %s\n", plan.Message)
		return
	}

	fmt.Fprintf(w, "Recommended Return Date:    %s\n", longDate(plan.RecommendedReturn))
	fmt.Fprintf(w, "Peak %s Days on Trip:   %d / %d\n", rp.rule.TrackedCountry, plan.PeakDays, rp.rule.LimitDays)
	fmt.Fprintf(w, "Buffer After Trip:          %d days\n", plan.BufferMaintained)

	// Status on the return date, with the recommended trip applied.
	withTrip := rp.hist.Extend(residence.Interval{
		Country: rp.rule.TrackedCountry,
		Start:   opts.TripStart,
		End:     plan.RecommendedReturn,
	})
	returnStatus := rp.rule.Status(withTrip, plan.RecommendedReturn)
	fmt.Fprintln(w, "\nStatus After Trip (on return date):")
	fmt.Fprintf(w, "  %s Days in Window: %d / %d\n",
		rp.rule.TrackedCountry, returnStatus.DaysInWindow, rp.rule.LimitDays)
	fmt.Fprintf(w, "  Days Remaining:      %d\n", returnStatus.DaysRemaining)
}

func (rp *Reporter) renderAlternatives(w io.Writer, opts Options) {
	section(w, "ALTERNATIVE TRIP DURATIONS")
	fmt.Fprintln(w, "Testing different trip lengths:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-12s %-15s %-15s %-10s %-6s\n", "Duration", "Return Date", "Peak Days", "Buffer", "Safe?")
	fmt.Fprintln(w, strings.Repeat("-", 62))

	for _, duration := range altDurations {
		sim := rp.rule.Simulate(rp.hist, opts.TripStart, duration)
		buffer := rp.rule.LimitDays - sim.PeakDays
		safe := "NO"
		if sim.Compliant && buffer >= opts.BufferDays {
			safe = "YES"
		}
		fmt.Fprintf(w, "%-12s %-15s %-15d %-10d %-6s\n",
			fmt.Sprintf("%d days", duration), shortDate(sim.TripEnd), sim.PeakDays, buffer, safe)
	}
}

func (rp *Reporter) renderYearTotals(w io.Writer, opts Options, plan residence.PlanResult) {
	section(w, "TRAVEL SUMMARY")

	year := opts.AnalysisDate.Year()
	from := residence.NewDate(year, time.January, 1)
	to := residence.NewDate(year, time.December, 31)
	totals := rp.hist.TotalsByCountry(&from, &to)

	fmt.Fprintf(w, "%d Travel Days (so far):\n", year)
	fmt.Fprintf(w, "  %-10s %d days\n", rp.rule.TrackedCountry+":", totals[rp.rule.TrackedCountry])
	fmt.Fprintf(w, "  %-10s %d days\n", rp.rule.HomeCountry+":", totals[rp.rule.HomeCountry])

	if plan.Safe && opts.TripStart.Year() == year {
		fmt.Fprintf(w, "\n%d Travel Days (including recommended trip):\n", year)
		fmt.Fprintf(w, "  %-10s %d days\n",
			rp.rule.TrackedCountry+":", totals[rp.rule.TrackedCountry]+plan.MaxDuration)
		fmt.Fprintf(w, "  %-10s %d days\n", rp.rule.HomeCountry+":", totals[rp.rule.HomeCountry])
	}
}

func (rp *Reporter) renderQuiet(w io.Writer, opts Options, status residence.Status, plan residence.PlanResult) error {
	fmt.Fprintf(w, "Status: %d days remaining (%d/%d used)\n",
		status.DaysRemaining, status.DaysInWindow, rp.rule.LimitDays)
	fmt.Fprintf(w, "Trip: %s (%d days away)\n",
		shortDate(opts.TripStart), residence.DaysBetween(opts.AnalysisDate, opts.TripStart))
	if plan.Safe {
		fmt.Fprintf(w, "Max duration: %d days (return %s)\n", plan.MaxDuration, shortDate(plan.RecommendedReturn))
		fmt.Fprintf(w, "After trip: %d days buffer remaining\n", plan.BufferMaintained)
	} else {
		fmt.Fprintf(w, "WARNING: trip not safe: %s\n", plan.Message)
	}
	return nil
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func banner(w io.Writer, title string) {
	line := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\n  %s\n%s\n\n", line, title, line)
}

func section(w io.Writer, title string) {
	line := strings.Repeat("-", 70)
	fmt.Fprintf(w, "\n%s\n  %s\n%s\n\n", line, title, line)
}

func longDate(d residence.Date) string {
	return d.Format("January 2, 2006")
}

func shortDate(d residence.Date) string {
	return d.Format("Jan 2, 2006")
}

package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/residence-engine/report"
	"github.com/warp/residence-engine/residence"
)

func historyWithStay(t *testing.T, start, end residence.Date) *residence.History {
	t.Helper()
	return residence.NewHistoryFromIntervals([]residence.Interval{
		{Country: "Turkey", Start: start, End: end},
	})
}

func TestRender_FullReport(t *testing.T) {
	// GIVEN a 60-day stay well under the limit
	hist := historyWithStay(t,
		residence.NewDate(2025, time.January, 1),
		residence.NewDate(2025, time.March, 1))
	rp := report.New(residence.DefaultRule(), hist)

	// WHEN rendering the full report
	var buf bytes.Buffer
	err := rp.Render(&buf, report.Options{
		PersonName:   "Deniz",
		AnalysisDate: residence.NewDate(2025, time.March, 1),
		TripStart:    residence.NewDate(2025, time.April, 1),
		BufferDays:   12,
		MaxDuration:  90,
	})
	require.NoError(t, err)
	out := buf.String()

	// THEN every section and the key figures appear
	assert.Contains(t, out, "TURKEY-GERMANY RESIDENCE TRACKER")
	assert.Contains(t, out, "Person:        Deniz")
	assert.Contains(t, out, "CURRENT STATUS")
	assert.Contains(t, out, "Turkey Days Used:  60 / 183")
	assert.Contains(t, out, "Days Remaining:   123")
	assert.Contains(t, out, "COMPLIANT (safe)")
	assert.Contains(t, out, "PLANNED TRIP ANALYSIS")
	assert.Contains(t, out, "Maximum Safe Trip Duration: 90 days")
	assert.Contains(t, out, "ALTERNATIVE TRIP DURATIONS")
	assert.Contains(t, out, "14 days")
	assert.Contains(t, out, "56 days")
	assert.Contains(t, out, "TRAVEL SUMMARY")
	assert.Contains(t, out, "2025 Travel Days")
	assert.Contains(t, out, "ANALYSIS COMPLETE")
}

func TestRender_BelowBufferWarning(t *testing.T) {
	// GIVEN 178 tracked days, inside the limit but under a 12-day buffer
	hist := historyWithStay(t,
		residence.NewDate(2025, time.January, 1),
		residence.NewDate(2025, time.June, 27))
	rp := report.New(residence.DefaultRule(), hist)

	var buf bytes.Buffer
	err := rp.Render(&buf, report.Options{
		PersonName:   "Deniz",
		AnalysisDate: residence.NewDate(2025, time.June, 27),
		TripStart:    residence.NewDate(2025, time.August, 1),
		BufferDays:   12,
		MaxDuration:  90,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "COMPLIANT (below buffer)")
	assert.Contains(t, buf.String(), "WARNING: only 5 days from limit")
}

func TestRender_Quiet(t *testing.T) {
	hist := historyWithStay(t,
		residence.NewDate(2025, time.January, 1),
		residence.NewDate(2025, time.March, 1))
	rp := report.New(residence.DefaultRule(), hist)

	var buf bytes.Buffer
	err := rp.Render(&buf, report.Options{
		PersonName:   "Deniz",
		AnalysisDate: residence.NewDate(2025, time.March, 1),
		TripStart:    residence.NewDate(2025, time.April, 1),
		BufferDays:   12,
		MaxDuration:  90,
		Quiet:        true,
	})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Status: 123 days remaining (60/183 used)")
	assert.Contains(t, out, "Trip: Apr 1, 2025 (31 days away)")
	assert.Contains(t, out, "Max duration: 90 days")
	assert.NotContains(t, out, "CURRENT STATUS")
}

func TestRender_UnsafeTrip(t *testing.T) {
	// GIVEN a history already at the limit
	hist := historyWithStay(t,
		residence.NewDate(2025, time.January, 1),
		residence.NewDate(2025, time.July, 2))
	rp := report.New(residence.DefaultRule(), hist)

	var buf bytes.Buffer
	err := rp.Render(&buf, report.Options{
		PersonName:   "Deniz",
		AnalysisDate: residence.NewDate(2025, time.July, 2),
		TripStart:    residence.NewDate(2025, time.July, 3),
		BufferDays:   0,
		MaxDuration:  30,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "cannot safely take this trip")
}

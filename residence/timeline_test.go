package residence_test

import (
	"testing"
	"time"

	"github.com/warp/residence-engine/residence"
)

// =============================================================================
// TIMELINE GENERATOR TESTS
// =============================================================================

func TestTimeline_OnePointPerDayWithLocations(t *testing.T) {
	// GIVEN: A Turkey stay followed by uncovered days
	// WHEN: Generating a timeline across the stay boundary
	// THEN: One point per day, locations tracking the intervals with home fallback

	rule := residence.DefaultRule()
	h := historyOf(t, turkeyStay(date(2025, time.March, 1), date(2025, time.March, 10)))

	points := rule.Timeline(h, date(2025, time.February, 27), date(2025, time.March, 12))

	if len(points) != 14 {
		t.Fatalf("expected 14 points, got %d", len(points))
	}
	if points[0].Country != "Germany" || points[0].DaysInWindow != 0 {
		t.Errorf("pre-trip day wrong: %+v", points[0])
	}
	if points[2].Country != "Turkey" || points[2].DaysInWindow != 1 {
		t.Errorf("first trip day wrong: %+v", points[2])
	}
	if points[11].Country != "Turkey" || points[11].DaysInWindow != 10 {
		t.Errorf("last trip day wrong: %+v", points[11])
	}
	if points[13].Country != "Germany" || points[13].DaysInWindow != 10 {
		t.Errorf("post-trip day wrong: %+v", points[13])
	}
	for i, p := range points {
		if p.DaysRemaining != rule.LimitDays-p.DaysInWindow {
			t.Errorf("point %d: remaining inconsistent with window count", i)
		}
		if !p.Compliant {
			t.Errorf("point %d: expected compliant", i)
		}
	}
}

func TestTimeline_Idempotent(t *testing.T) {
	// GIVEN: A fixed history and range
	// WHEN: Generating the timeline twice
	// THEN: The sequences are identical (pure function, no hidden state)

	rule := residence.DefaultRule()
	h := historyOf(t,
		turkeyStay(date(2025, time.January, 1), date(2025, time.February, 10)),
		germanyStay(date(2025, time.February, 11), date(2025, time.April, 1)),
	)

	first := rule.Timeline(h, date(2025, time.January, 1), date(2025, time.April, 30))
	second := rule.Timeline(h, date(2025, time.January, 1), date(2025, time.April, 30))

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTimeline_EmptyWhenRangeInverted(t *testing.T) {
	// GIVEN: Any history
	// WHEN: Requesting a timeline whose start is after its end
	// THEN: No points

	rule := residence.DefaultRule()
	h := historyOf(t)

	points := rule.Timeline(h, date(2025, time.June, 2), date(2025, time.June, 1))
	if len(points) != 0 {
		t.Errorf("expected empty timeline, got %d points", len(points))
	}
}

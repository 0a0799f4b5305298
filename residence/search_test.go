package residence_test

import (
	"testing"
	"time"

	"github.com/warp/residence-engine/residence"
)

// =============================================================================
// MAX-DURATION SEARCH TESTS
// =============================================================================

func TestMaxSafeDuration_BoundaryAtLimit(t *testing.T) {
	// GIVEN: 181 Turkey days (Jan 1 - Jun 30 2025) already in the window and a
	//        trip starting Jul 1 with no buffer
	// WHEN: Searching durations up to 10 days
	// THEN: Day 2 of the trip reaches exactly 183 (still allowed), day 3 would
	//       reach 184, so the maximum safe duration is 2

	rule := residence.DefaultRule()
	h := historyOf(t, turkeyStay(date(2025, time.January, 1), date(2025, time.June, 30)))

	plan := rule.MaxSafeDuration(h, date(2025, time.July, 1), 0, 10)

	if !plan.Safe {
		t.Fatalf("expected a safe plan, got message %q", plan.Message)
	}
	if plan.MaxDuration != 2 {
		t.Errorf("expected max duration 2, got %d", plan.MaxDuration)
	}
	if !plan.RecommendedReturn.Equal(date(2025, time.July, 2)) {
		t.Errorf("expected return on 2025-07-02, got %s", plan.RecommendedReturn)
	}
	if plan.PeakDays != 183 {
		t.Errorf("expected peak of exactly 183, got %d", plan.PeakDays)
	}
	if plan.BufferMaintained != 0 {
		t.Errorf("expected zero margin, got %d", plan.BufferMaintained)
	}
}

func TestMaxSafeDuration_StopsAtFirstUnsafeDuration(t *testing.T) {
	// GIVEN: The boundary history above
	// WHEN: Searching
	// THEN: The trial trace ends at the first unsafe duration; nothing past it
	//       is scanned (longest safe prefix semantics)

	rule := residence.DefaultRule()
	h := historyOf(t, turkeyStay(date(2025, time.January, 1), date(2025, time.June, 30)))

	plan := rule.MaxSafeDuration(h, date(2025, time.July, 1), 0, 10)

	if len(plan.Trials) != 3 {
		t.Fatalf("expected 3 trials (2 safe + 1 unsafe), got %d", len(plan.Trials))
	}
	last := plan.Trials[len(plan.Trials)-1]
	if last.Safe {
		t.Error("expected final trial to be the unsafe one")
	}
	if last.Duration != 3 {
		t.Errorf("expected final trial duration 3, got %d", last.Duration)
	}
}

func TestMaxSafeDuration_UnsafeFromDayOne(t *testing.T) {
	// GIVEN: 183 Turkey days already in the window (Jan 1 - Jul 2 2025)
	// WHEN: Planning a trip starting Jul 3 with no buffer
	// THEN: Even one more day breaches the limit

	rule := residence.DefaultRule()
	h := historyOf(t, turkeyStay(date(2025, time.January, 1), date(2025, time.July, 2)))

	plan := rule.MaxSafeDuration(h, date(2025, time.July, 3), 0, 30)

	if plan.Safe {
		t.Fatal("expected an unsafe plan")
	}
	if plan.MaxDuration != 0 {
		t.Errorf("expected max duration 0, got %d", plan.MaxDuration)
	}
	if plan.Message == "" {
		t.Error("expected a human-readable message on the unsafe result")
	}
	if !plan.RecommendedReturn.Equal(plan.TripStart) {
		t.Errorf("expected recommended return to equal trip start, got %s", plan.RecommendedReturn)
	}
}

func TestMaxSafeDuration_MonotonicInBuffer(t *testing.T) {
	// GIVEN: A fixed history and trip start
	// WHEN: Increasing the buffer
	// THEN: The returned max duration never increases

	rule := residence.DefaultRule()
	h := historyOf(t,
		turkeyStay(date(2025, time.January, 1), date(2025, time.April, 30)),
		germanyStay(date(2025, time.May, 1), date(2025, time.August, 31)),
	)
	start := date(2025, time.September, 1)

	prev := -1
	for buffer := 0; buffer <= 30; buffer += 5 {
		plan := rule.MaxSafeDuration(h, start, buffer, 120)
		if prev >= 0 && plan.MaxDuration > prev {
			t.Fatalf("buffer %d increased max duration from %d to %d", buffer, prev, plan.MaxDuration)
		}
		prev = plan.MaxDuration
	}
}

func TestMaxSafeDuration_BufferShortensTrip(t *testing.T) {
	// GIVEN: The 181-day boundary history
	// WHEN: Planning with a 1-day buffer (effective limit 182)
	// THEN: Only the first trip day fits

	rule := residence.DefaultRule()
	h := historyOf(t, turkeyStay(date(2025, time.January, 1), date(2025, time.June, 30)))

	plan := rule.MaxSafeDuration(h, date(2025, time.July, 1), 1, 10)

	if !plan.Safe || plan.MaxDuration != 1 {
		t.Errorf("expected safe plan of 1 day, got safe=%v duration=%d", plan.Safe, plan.MaxDuration)
	}
}

func TestMaxSafeDuration_EmptyHistoryUsesFullBound(t *testing.T) {
	// GIVEN: No prior travel at all
	// WHEN: Planning with a 10-day buffer and a 90-day bound
	// THEN: The whole bound is safe (90 days in a fresh window is far under 173)

	rule := residence.DefaultRule()
	h := historyOf(t)

	plan := rule.MaxSafeDuration(h, date(2025, time.December, 20), 10, 90)

	if !plan.Safe || plan.MaxDuration != 90 {
		t.Errorf("expected safe plan of 90 days, got safe=%v duration=%d", plan.Safe, plan.MaxDuration)
	}
	if plan.PeakDays != 90 {
		t.Errorf("expected peak 90, got %d", plan.PeakDays)
	}
}

func TestMaxSafeDuration_DoesNotMutateHistory(t *testing.T) {
	// GIVEN: A history snapshot
	// WHEN: Running the search
	// THEN: The snapshot still holds exactly its original intervals

	rule := residence.DefaultRule()
	h := historyOf(t, turkeyStay(date(2025, time.January, 1), date(2025, time.March, 1)))

	rule.MaxSafeDuration(h, date(2025, time.July, 1), 12, 60)

	if h.Len() != 1 {
		t.Fatalf("history mutated: expected 1 interval, got %d", h.Len())
	}
	iv := h.Intervals()[0]
	if !iv.Start.Equal(date(2025, time.January, 1)) || !iv.End.Equal(date(2025, time.March, 1)) {
		t.Errorf("history interval changed: %s", iv)
	}
}

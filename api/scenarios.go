/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Pre-built scenarios that populate the database with realistic travel
  histories. Each scenario creates one or more people with settings and
  travel periods that demonstrate a specific planning situation.

AVAILABLE SCENARIOS:
  frequent-traveler: Alternating Turkey/Germany stays over 14 months
  near-limit:        A traveler a handful of days from the 183 limit
  fresh-start:       A new person with no recorded travel

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save person records with buffer settings
 3. Replace their travel histories

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers
  - server.go:   Route wiring
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/residence-engine/residence"
	"github.com/warp/residence-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "frequent-traveler",
		Name:        "Frequent Traveler",
		Description: "Alternating Turkey/Germany stays over fourteen months, well under the limit",
	},
	{
		ID:          "near-limit",
		Name:        "Near the Limit",
		Description: "A traveler only a few days below 183, where planning gets tight",
	},
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "A new person with an empty travel history",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx := r.Context()

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "frequent-traveler":
		err = h.loadFrequentTravelerScenario(ctx)
	case "near-limit":
		err = h.loadNearLimitScenario(ctx)
	case "fresh-start":
		err = h.loadFreshStartScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadFrequentTravelerScenario(ctx context.Context) error {
	if err := h.Store.SavePerson(ctx, sqlite.Person{ID: "deniz", Name: "Deniz", BufferDays: 12}); err != nil {
		return err
	}

	history := []residence.Interval{
		scenarioStay("Germany", 2024, time.September, 15, 2024, time.November, 4),
		scenarioStay("Turkey", 2024, time.November, 4, 2024, time.November, 21),
		scenarioStay("Germany", 2024, time.November, 21, 2024, time.December, 31),
		scenarioStay("Germany", 2025, time.January, 1, 2025, time.March, 7),
		scenarioStay("Turkey", 2025, time.March, 7, 2025, time.March, 31),
		scenarioStay("Germany", 2025, time.April, 1, 2025, time.April, 22),
		scenarioStay("Turkey", 2025, time.April, 22, 2025, time.June, 16),
		scenarioStay("Germany", 2025, time.June, 16, 2025, time.August, 7),
		scenarioStay("Turkey", 2025, time.August, 7, 2025, time.September, 15),
		scenarioStay("Turkey", 2025, time.September, 16, 2025, time.October, 7),
		scenarioStay("Germany", 2025, time.October, 7, 2025, time.November, 8),
	}
	return h.Store.ReplaceHistory(ctx, "deniz", history)
}

func (h *Handler) loadNearLimitScenario(ctx context.Context) error {
	if err := h.Store.SavePerson(ctx, sqlite.Person{ID: "sinan", Name: "Sinan", BufferDays: 10}); err != nil {
		return err
	}

	// 178 Turkey days in the trailing year: planning anything long from here
	// should fail against a 10-day buffer.
	history := []residence.Interval{
		scenarioStay("Turkey", 2025, time.January, 1, 2025, time.April, 30), // 120 days
		scenarioStay("Germany", 2025, time.May, 1, 2025, time.July, 31),
		scenarioStay("Turkey", 2025, time.August, 1, 2025, time.September, 27), // 58 days
		scenarioStay("Germany", 2025, time.September, 28, 2025, time.November, 8),
	}
	return h.Store.ReplaceHistory(ctx, "sinan", history)
}

func (h *Handler) loadFreshStartScenario(ctx context.Context) error {
	return h.Store.SavePerson(ctx, sqlite.Person{ID: "alex", Name: "Alex", BufferDays: 12})
}

func scenarioStay(country string, startY int, startM time.Month, startD, endY int, endM time.Month, endD int) residence.Interval {
	return residence.Interval{
		Country: country,
		Start:   residence.NewDate(startY, startM, startD),
		End:     residence.NewDate(endY, endM, endD),
	}
}

/*
handlers_test.go - HTTP-level tests for the residence tracker API

Tests run against the real router and an in-memory sqlite store, so route
wiring, JSON shapes, and error mapping are all covered together.
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/residence-engine/api"
	"github.com/warp/residence-engine/residence"
	"github.com/warp/residence-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store, residence.DefaultRule(), 12)
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, store
}

func seedPerson(t *testing.T, store *sqlite.Store, id string, buffer int, intervals ...residence.Interval) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SavePerson(ctx, sqlite.Person{ID: id, Name: id, BufferDays: buffer}))
	require.NoError(t, store.ReplaceHistory(ctx, id, intervals))
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func turkeyJan1ToMar1() residence.Interval {
	return residence.Interval{
		Country: "Turkey",
		Start:   residence.NewDate(2025, time.January, 1),
		End:     residence.NewDate(2025, time.March, 1),
	}
}

// =============================================================================
// STATUS
// =============================================================================

func TestGetStatus(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 12, turkeyJan1ToMar1())

	var status api.StatusDTO
	resp := getJSON(t, srv.URL+"/api/people/omer/status?date=2025-03-01", &status)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 60, status.DaysInWindow)
	assert.Equal(t, 123, status.DaysRemaining)
	assert.Equal(t, "Turkey", status.Location)
	assert.True(t, status.Compliant)
}

func TestGetStatus_UnknownPerson(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := getJSON(t, srv.URL+"/api/people/nobody/status", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// PLANNING
// =============================================================================

func TestPlan_UsesPersonBufferByDefault(t *testing.T) {
	srv, store := newTestServer(t)
	// 181 Turkey days ending Jun 30; with zero buffer the max is 2 days.
	seedPerson(t, store, "omer", 0, residence.Interval{
		Country: "Turkey",
		Start:   residence.NewDate(2025, time.January, 1),
		End:     residence.NewDate(2025, time.June, 30),
	})

	var plan api.PlanDTO
	resp := getJSON(t, srv.URL+"/api/people/omer/plan?start=2025-07-01&max=10", &plan)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, plan.Safe)
	assert.Equal(t, 2, plan.MaxDuration)
	assert.Equal(t, "2025-07-02", plan.RecommendedReturn)
	assert.Equal(t, 183, plan.PeakDays)
}

func TestPlan_ExplicitBufferOverrides(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 0, residence.Interval{
		Country: "Turkey",
		Start:   residence.NewDate(2025, time.January, 1),
		End:     residence.NewDate(2025, time.June, 30),
	})

	var plan api.PlanDTO
	getJSON(t, srv.URL+"/api/people/omer/plan?start=2025-07-01&max=10&buffer=1", &plan)

	assert.Equal(t, 1, plan.MaxDuration)
}

func TestPlan_MissingStart(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 12)

	resp := getJSON(t, srv.URL+"/api/people/omer/plan", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// SIMULATION AND TIMELINE
// =============================================================================

func TestSimulate(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 12, turkeyJan1ToMar1())

	var sim api.SimulationDTO
	resp := getJSON(t, srv.URL+"/api/people/omer/simulate?start=2025-07-01&duration=14", &sim)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, sim.Days, 14)
	assert.True(t, sim.Compliant)
	assert.Equal(t, 74, sim.PeakDays)
	assert.Nil(t, sim.FirstViolation)
}

func TestTimeline(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 12, turkeyJan1ToMar1())

	var points []api.TimelinePointDTO
	resp := getJSON(t, srv.URL+"/api/people/omer/timeline?from=2025-01-01&to=2025-01-31", &points)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, points, 31)
	assert.Equal(t, "Turkey", points[0].Country)
	assert.Equal(t, 1, points[0].DaysInWindow)
	assert.Equal(t, 31, points[30].DaysInWindow)
}

func TestTotals_Clipped(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 12,
		residence.Interval{
			Country: "Turkey",
			Start:   residence.NewDate(2024, time.December, 20),
			End:     residence.NewDate(2025, time.January, 10),
		},
	)

	var totals api.TotalsDTO
	getJSON(t, srv.URL+"/api/people/omer/totals?from=2025-01-01&to=2025-12-31", &totals)

	assert.Equal(t, 10, totals.Totals["Turkey"])
}

// =============================================================================
// HISTORY EDITING
// =============================================================================

func TestReplaceHistory_RejectsMalformedDate(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 12)

	body := `{"periods": [{"country": "Turkey", "start": "01/03/2025", "end": "2025-03-31"}]}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/people/omer/history", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddPeriod_ThenStatusReflectsIt(t *testing.T) {
	srv, store := newTestServer(t)
	seedPerson(t, store, "omer", 12)

	body := `{"country": "Turkey", "start": "2025-03-01", "end": "2025-03-10"}`
	resp, err := http.Post(srv.URL+"/api/people/omer/history/periods", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var status api.StatusDTO
	getJSON(t, srv.URL+"/api/people/omer/status?date=2025-03-10", &status)
	assert.Equal(t, 10, status.DaysInWindow)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestLoadScenario(t *testing.T) {
	srv, store := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/scenarios/load", "application/json",
		bytes.NewBufferString(`{"scenario_id": "frequent-traveler"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	people, err := store.ListPeople(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)

	periods, err := store.LoadHistory(context.Background(), people[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, periods)
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/scenarios/load", "application/json",
		bytes.NewBufferString(`{"scenario_id": "bogus"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

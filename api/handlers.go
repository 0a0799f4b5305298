/*
handlers.go - HTTP handlers for the residence tracker API

PURPOSE:
  Connects HTTP requests to the residence engine and the person store.
  Handlers are thin: decode, load the person's history snapshot, run one
  pure engine query, encode. All session state (which person is selected,
  unsaved edits) lives in the client; every request names its person
  explicitly.

ERROR MAPPING:
  sqlite.ErrPersonNotFound      -> 404
  residence.ErrInvalidRecord    -> 400 with the offending record's details
  anything else                 -> 500

SEE ALSO:
  - server.go:    Route wiring
  - dto.go:       Request/response shapes
  - scenarios.go: Demo data loaders
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/residence-engine/residence"
	"github.com/warp/residence-engine/store/sqlite"
)

// Handler holds API route handlers and their dependencies.
type Handler struct {
	Store             *sqlite.Store
	Rule              residence.Rule
	DefaultBufferDays int
}

// NewHandler creates a new Handler.
func NewHandler(store *sqlite.Store, rule residence.Rule, defaultBufferDays int) *Handler {
	return &Handler{Store: store, Rule: rule, DefaultBufferDays: defaultBufferDays}
}

// =============================================================================
// PEOPLE
// =============================================================================

// ListPeople returns all person records.
// GET /api/people
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.ListPeople(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list people", err)
		return
	}

	dtos := make([]PersonDTO, len(people))
	for i := range people {
		dtos[i] = toPersonDTO(&people[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePerson creates a new person record.
// POST /api/people
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	buffer := h.DefaultBufferDays
	if req.BufferDays != nil {
		buffer = *req.BufferDays
	}

	person := sqlite.Person{ID: req.ID, Name: req.Name, BufferDays: buffer}
	if err := h.Store.SavePerson(r.Context(), person); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save person", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonDTO(&person))
}

// GetPerson returns one person record.
// GET /api/people/{id}
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPersonDTO(person))
}

// UpdatePerson updates a person's name and buffer setting.
// PUT /api/people/{id}
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	var req UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name != "" {
		person.Name = req.Name
	}
	person.BufferDays = req.BufferDays

	if err := h.Store.SavePerson(r.Context(), *person); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save person", err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonDTO(person))
}

// DeletePerson removes a person and their travel history.
// DELETE /api/people/{id}
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeletePerson(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrPersonNotFound) {
			writeError(w, http.StatusNotFound, "person not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete person", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRAVEL HISTORY
// =============================================================================

// GetHistory returns the stored travel periods in insertion order.
// GET /api/people/{id}/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	periods, err := h.Store.LoadHistory(r.Context(), person.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTOs(periods))
}

// ReplaceHistory replaces the whole travel history.
// PUT /api/people/{id}/history
func (h *Handler) ReplaceHistory(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	var req ReplaceHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	intervals, err := parsePeriods(req.Periods)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid travel period", err)
		return
	}

	if err := h.Store.ReplaceHistory(r.Context(), person.ID, intervals); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to replace history", err)
		return
	}

	periods, err := h.Store.LoadHistory(r.Context(), person.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload history", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTOs(periods))
}

// AddPeriod appends one travel period.
// POST /api/people/{id}/history/periods
func (h *Handler) AddPeriod(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	var req PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	intervals, err := parsePeriods([]PeriodRequest{req})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid travel period", err)
		return
	}

	if err := h.Store.AddPeriod(r.Context(), person.ID, intervals[0]); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add period", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DeletePeriod removes the period at a position.
// DELETE /api/people/{id}/history/periods/{position}
func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid position", err)
		return
	}

	if err := h.Store.DeletePeriod(r.Context(), person.ID, position); err != nil {
		writeError(w, http.StatusNotFound, "failed to delete period", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ENGINE QUERIES
// =============================================================================

// GetStatus returns point-in-time compliance.
// GET /api/people/{id}/status?date=YYYY-MM-DD (default today)
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	_, hist, ok := h.loadHistory(w, r)
	if !ok {
		return
	}

	ref, err := queryDate(r, "date", residence.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	writeJSON(w, http.StatusOK, toStatusDTO(h.Rule.Status(hist, ref)))
}

// Plan runs the maximum-safe-duration search for a prospective trip.
// GET /api/people/{id}/plan?start=YYYY-MM-DD&buffer=N&max=N
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	person, hist, ok := h.loadHistory(w, r)
	if !ok {
		return
	}

	start, err := queryDate(r, "start", residence.Date{})
	if err != nil || start.IsZero() {
		writeError(w, http.StatusBadRequest, "start date is required (YYYY-MM-DD)", err)
		return
	}
	buffer := queryInt(r, "buffer", person.BufferDays)
	maxDuration := queryInt(r, "max", 90)

	plan := h.Rule.MaxSafeDuration(hist, start, buffer, maxDuration)
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// Simulate traces one specific candidate trip day by day.
// GET /api/people/{id}/simulate?start=YYYY-MM-DD&duration=N
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	_, hist, ok := h.loadHistory(w, r)
	if !ok {
		return
	}

	start, err := queryDate(r, "start", residence.Date{})
	if err != nil || start.IsZero() {
		writeError(w, http.StatusBadRequest, "start date is required (YYYY-MM-DD)", err)
		return
	}
	duration := queryInt(r, "duration", 0)
	if duration < 1 {
		writeError(w, http.StatusBadRequest, "duration must be at least 1 day", nil)
		return
	}

	writeJSON(w, http.StatusOK, toSimulationDTO(h.Rule.Simulate(hist, start, duration)))
}

// Timeline returns daily window metrics for charting.
// GET /api/people/{id}/timeline?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	_, hist, ok := h.loadHistory(w, r)
	if !ok {
		return
	}

	from, err := queryDate(r, "from", residence.Date{})
	if err != nil || from.IsZero() {
		writeError(w, http.StatusBadRequest, "from date is required (YYYY-MM-DD)", err)
		return
	}
	to, err := queryDate(r, "to", residence.Date{})
	if err != nil || to.IsZero() {
		writeError(w, http.StatusBadRequest, "to date is required (YYYY-MM-DD)", err)
		return
	}

	writeJSON(w, http.StatusOK, toTimelineDTOs(h.Rule.Timeline(hist, from, to)))
}

// Totals sums days per country, optionally clipped to a range.
// GET /api/people/{id}/totals?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	_, hist, ok := h.loadHistory(w, r)
	if !ok {
		return
	}

	dto := TotalsDTO{}
	var fromPtr, toPtr *residence.Date

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := residence.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date", err)
			return
		}
		fromPtr, dto.From = &from, from.String()
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := residence.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date", err)
			return
		}
		toPtr, dto.To = &to, to.String()
	}

	dto.Totals = hist.TotalsByCountry(fromPtr, toPtr)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

// loadPerson resolves the {id} route param to a stored person, writing the
// error response itself when that fails.
func (h *Handler) loadPerson(w http.ResponseWriter, r *http.Request) (*sqlite.Person, bool) {
	id := chi.URLParam(r, "id")
	person, err := h.Store.GetPerson(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrPersonNotFound) {
			writeError(w, http.StatusNotFound, "person not found", nil)
		} else {
			slog.Error("load person failed", slog.String("person", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to load person", err)
		}
		return nil, false
	}
	return person, true
}

// loadHistory loads the person and builds the engine's history snapshot.
func (h *Handler) loadHistory(w http.ResponseWriter, r *http.Request) (*sqlite.Person, *residence.History, bool) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return nil, nil, false
	}

	periods, err := h.Store.LoadHistory(r.Context(), person.ID)
	if err != nil {
		slog.Error("load history failed", slog.String("person", person.ID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load history", err)
		return nil, nil, false
	}

	intervals := make([]residence.Interval, len(periods))
	for i, tp := range periods {
		intervals[i] = tp.Interval()
	}
	return person, residence.NewHistoryFromIntervals(intervals), true
}

// parsePeriods converts raw period payloads through the engine's record
// validation, so malformed input fails with the same ParseError everywhere.
// Payload order is preserved; the store owns positions.
func parsePeriods(reqs []PeriodRequest) ([]residence.Interval, error) {
	intervals := make([]residence.Interval, len(reqs))
	for i, p := range reqs {
		hist, err := residence.NewHistory([]residence.Record{
			{Country: p.Country, Start: p.Start, End: p.End},
		})
		if err != nil {
			var parseErr *residence.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Index = i
			}
			return nil, err
		}
		intervals[i] = hist.Intervals()[0]
	}
	return intervals, nil
}

func queryDate(r *http.Request, key string, fallback residence.Date) (residence.Date, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return residence.ParseDate(raw)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

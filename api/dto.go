/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - residence: The domain types these wrap
*/
package api

import (
	"github.com/warp/residence-engine/residence"
	"github.com/warp/residence-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PersonDTO represents a tracked person in API responses.
type PersonDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BufferDays int    `json:"buffer_days"`
}

// CreatePersonRequest is the request to create a person record.
type CreatePersonRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BufferDays *int   `json:"buffer_days,omitempty"` // nil = server default
}

// UpdatePersonRequest updates name and buffer settings.
type UpdatePersonRequest struct {
	Name       string `json:"name"`
	BufferDays int    `json:"buffer_days"`
}

// PeriodDTO represents one travel history row.
type PeriodDTO struct {
	Position int    `json:"position"`
	Country  string `json:"country"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// PeriodRequest is one raw travel period in a history payload.
type PeriodRequest struct {
	Country string `json:"country"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// ReplaceHistoryRequest replaces a person's whole travel history.
type ReplaceHistoryRequest struct {
	Periods []PeriodRequest `json:"periods"`
}

// StatusDTO is the point-in-time compliance view.
type StatusDTO struct {
	Date          string `json:"date"`
	Location      string `json:"location"`
	DaysInWindow  int    `json:"days_in_window"`
	DaysRemaining int    `json:"days_remaining"`
	Compliant     bool   `json:"compliant"`
	Limit         int    `json:"limit"`
}

// TrialDTO is one tested duration from the planning search.
type TrialDTO struct {
	Duration int    `json:"duration"`
	TripEnd  string `json:"trip_end"`
	PeakDays int    `json:"peak_days"`
	Margin   int    `json:"margin"`
	Safe     bool   `json:"safe"`
}

// PlanDTO is the maximum-safe-duration search result.
type PlanDTO struct {
	Safe              bool       `json:"safe"`
	MaxDuration       int        `json:"max_duration"`
	TripStart         string     `json:"trip_start"`
	RecommendedReturn string     `json:"recommended_return"`
	PeakDays          int        `json:"peak_days"`
	BufferMaintained  int        `json:"buffer_maintained"`
	Message           string     `json:"message,omitempty"`
	Trials            []TrialDTO `json:"trials"`
}

// SimulationDayDTO is one day of a simulated trip.
type SimulationDayDTO struct {
	Date         string `json:"date"`
	DaysInWindow int    `json:"days_in_window"`
	Compliant    bool   `json:"compliant"`
}

// SimulationDTO is the day-by-day trace of one candidate trip.
type SimulationDTO struct {
	TripStart      string             `json:"trip_start"`
	TripEnd        string             `json:"trip_end"`
	Duration       int                `json:"duration"`
	PeakDays       int                `json:"peak_days"`
	Compliant      bool               `json:"compliant"`
	FirstViolation *string            `json:"first_violation,omitempty"`
	DaysAfterTrip  int                `json:"days_after_trip"`
	Days           []SimulationDayDTO `json:"days"`
}

// TimelinePointDTO is one calendar day of window metrics.
type TimelinePointDTO struct {
	Date          string `json:"date"`
	Country       string `json:"country"`
	DaysInWindow  int    `json:"days_in_window"`
	DaysRemaining int    `json:"days_remaining"`
	Compliant     bool   `json:"compliant"`
}

// TotalsDTO maps country to summed day counts over the requested range.
type TotalsDTO struct {
	From   string         `json:"from,omitempty"`
	To     string         `json:"to,omitempty"`
	Totals map[string]int `json:"totals"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPersonDTO(p *sqlite.Person) PersonDTO {
	return PersonDTO{ID: p.ID, Name: p.Name, BufferDays: p.BufferDays}
}

func toPeriodDTOs(periods []sqlite.TravelPeriod) []PeriodDTO {
	dtos := make([]PeriodDTO, len(periods))
	for i, tp := range periods {
		dtos[i] = PeriodDTO{
			Position: tp.Position,
			Country:  tp.Country,
			Start:    tp.Start.String(),
			End:      tp.End.String(),
		}
	}
	return dtos
}

func toStatusDTO(s residence.Status) StatusDTO {
	return StatusDTO{
		Date:          s.Date.String(),
		Location:      s.Location,
		DaysInWindow:  s.DaysInWindow,
		DaysRemaining: s.DaysRemaining,
		Compliant:     s.Compliant,
		Limit:         s.Limit,
	}
}

func toPlanDTO(p residence.PlanResult) PlanDTO {
	trials := make([]TrialDTO, len(p.Trials))
	for i, tr := range p.Trials {
		trials[i] = TrialDTO{
			Duration: tr.Duration,
			TripEnd:  tr.TripEnd.String(),
			PeakDays: tr.PeakDays,
			Margin:   tr.Margin,
			Safe:     tr.Safe,
		}
	}
	return PlanDTO{
		Safe:              p.Safe,
		MaxDuration:       p.MaxDuration,
		TripStart:         p.TripStart.String(),
		RecommendedReturn: p.RecommendedReturn.String(),
		PeakDays:          p.PeakDays,
		BufferMaintained:  p.BufferMaintained,
		Message:           p.Message,
		Trials:            trials,
	}
}

func toSimulationDTO(s residence.Simulation) SimulationDTO {
	days := make([]SimulationDayDTO, len(s.Days))
	for i, d := range s.Days {
		days[i] = SimulationDayDTO{
			Date:         d.Date.String(),
			DaysInWindow: d.DaysInWindow,
			Compliant:    d.Compliant,
		}
	}
	dto := SimulationDTO{
		TripStart:     s.TripStart.String(),
		TripEnd:       s.TripEnd.String(),
		Duration:      s.Duration,
		PeakDays:      s.PeakDays,
		Compliant:     s.Compliant,
		DaysAfterTrip: s.DaysAfterTrip,
		Days:          days,
	}
	if s.FirstViolation != nil {
		v := s.FirstViolation.String()
		dto.FirstViolation = &v
	}
	return dto
}

func toTimelineDTOs(points []residence.TimelinePoint) []TimelinePointDTO {
	dtos := make([]TimelinePointDTO, len(points))
	for i, p := range points {
		dtos[i] = TimelinePointDTO{
			Date:          p.Date.String(),
			Country:       p.Country,
			DaysInWindow:  p.DaysInWindow,
			DaysRemaining: p.DaysRemaining,
			Compliant:     p.Compliant,
		}
	}
	return dtos
}

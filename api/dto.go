/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the review-session domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the session commands, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - reconcile/session.go: The domain objects these mirror
*/
package api

import (
	"github.com/warp/attendance-reconciler/reconcile"
)

// =============================================================================
// SESSION RESPONSES
// =============================================================================

// RecordDTO is one working-set row in API responses.
type RecordDTO struct {
	RowID       string   `json:"row_id"`
	PersonID    string   `json:"person_id"`
	Name        string   `json:"name,omitempty"`
	Department  string   `json:"department,omitempty"`
	Date        string   `json:"date"`
	DayOfWeek   string   `json:"day_of_week,omitempty"`
	CheckIn     string   `json:"check_in,omitempty"`
	CheckOut    string   `json:"check_out,omitempty"`
	Status      string   `json:"status"`
	EmployeeID  string   `json:"employee_id,omitempty"`
	Validation  string   `json:"validation"`
	IsHoliday   bool     `json:"is_holiday,omitempty"`
	HolidayName string   `json:"holiday_name,omitempty"`
	IsPoya      bool     `json:"is_poya,omitempty"`
	PoyaName    string   `json:"poya_name,omitempty"`
	OnLeave     bool     `json:"on_leave,omitempty"`
	LeaveType   string   `json:"leave_type,omitempty"`
	Duplicate   bool     `json:"duplicate,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// SummaryDTO is the counts shown at the top of the review screen.
type SummaryDTO struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
	WithErrors int `json:"with_errors"`
	Duplicates int `json:"duplicates"`
}

// SessionDTO is a full review-session snapshot.
type SessionDTO struct {
	Token    string      `json:"token"`
	FileName string      `json:"file_name,omitempty"`
	Closed   bool        `json:"closed"`
	Summary  SummaryDTO  `json:"summary"`
	Records  []RecordDTO `json:"records"`
}

// BatchResultDTO reports one approve-all invocation.
type BatchResultDTO struct {
	SuccessCount  int            `json:"success_count"`
	FailedCount   int            `json:"failed_count"`
	Errors        []ItemErrorDTO `json:"errors,omitempty"`
	SessionClosed bool           `json:"session_closed"`
}

// ItemErrorDTO is a per-row commit failure.
type ItemErrorDTO struct {
	RowID   string `json:"row_id"`
	Message string `json:"message"`
}

// =============================================================================
// REQUESTS
// =============================================================================

// EditRowRequest carries a partial row edit. Absent fields are unchanged.
type EditRowRequest struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Status   *string `json:"status"`
}

// CreateEmployeeRequest is the request to register an employee.
type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	PersonID   string `json:"person_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Active     *bool  `json:"active"`
}

// CreateCalendarEventRequest is the request to register a holiday/poya.
type CreateCalendarEventRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	EventType string `json:"event_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CreateLeaveGrantRequest is the request to register an approved leave grant.
type CreateLeaveGrantRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// =============================================================================
// MISC
// =============================================================================

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// toRecordDTO converts a working-set record; duplicate is session-derived.
func toRecordDTO(rec *reconcile.EditableRecord, duplicate bool) RecordDTO {
	dto := RecordDTO{
		RowID:       string(rec.RowID),
		PersonID:    string(rec.Row.PersonID),
		Name:        rec.Row.Name,
		Department:  rec.Row.Department,
		Date:        rec.Row.Date.String(),
		DayOfWeek:   rec.Row.DayOfWeek,
		CheckIn:     rec.CheckIn,
		CheckOut:    rec.CheckOut,
		Status:      string(rec.Status),
		EmployeeID:  string(rec.EmployeeID),
		Validation:  string(rec.Validation),
		IsHoliday:   rec.IsHoliday,
		HolidayName: rec.HolidayName,
		IsPoya:      rec.IsPoya,
		PoyaName:    rec.PoyaName,
		OnLeave:     rec.OnLeave,
		LeaveType:   rec.LeaveType,
		Duplicate:   duplicate,
	}
	for _, issue := range reconcile.Issues(rec) {
		dto.Errors = append(dto.Errors, issue.Message)
	}
	return dto
}

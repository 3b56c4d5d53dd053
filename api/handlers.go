/*
handlers.go - HTTP API handlers for the attendance reconciliation service

PURPOSE:
  Exposes the reconciliation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Imports / review sessions:
    POST   /api/imports                              Upload workbook, open session
    GET    /api/imports/{token}                      Session snapshot
    PATCH  /api/imports/{token}/rows/{rowId}         Edit one row
    POST   /api/imports/{token}/rows/{rowId}/approve Approve one row
    POST   /api/imports/{token}/rows/{rowId}/skip    Skip one row
    POST   /api/imports/{token}/approve-all          Approve every valid row
    DELETE /api/imports/{token}                      Cancel the session

  Reference data:
    GET    /api/employees           List employees
    POST   /api/employees           Register employee
    GET    /api/calendar            List holidays/poya days
    POST   /api/calendar            Register a holiday/poya occurrence
    POST   /api/leave-grants        Register an approved leave grant
    GET    /api/attendance          List committed entries for a range

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown session or row
  - 409: Approval blocked (validation, duplicate, unresolved employee)
  - 422: Per-row commit failure
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - sessions.go: The in-process session registry
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/attendance-reconciler/ingest"
	"github.com/warp/attendance-reconciler/reconcile"
	"github.com/warp/attendance-reconciler/store/sqlite"
)

// maxUploadBytes caps workbook uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Sessions *Registry

	// ClosePolicy applied to every session this handler loads.
	ClosePolicy reconcile.ClosePolicy
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:    store,
		Sessions: NewRegistry(),
	}
}

// =============================================================================
// IMPORT / SESSION HANDLERS
// =============================================================================

// CreateImport accepts a multipart workbook upload, parses it and opens a
// review session.
// POST /api/imports  (multipart field "file")
func (h *Handler) CreateImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse upload", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	defer file.Close()

	batch, err := ingest.ParseWorkbook(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse workbook", err)
		return
	}

	session, err := reconcile.Load(r.Context(), reconcile.LoadInput{
		Rows:        batch.Rows,
		Resolver:    h.Store,
		Calendar:    h.Store,
		Conflicts:   h.Store,
		Committer:   h.Store,
		ClosePolicy: h.ClosePolicy,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if reconcile.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to open review session", err)
		return
	}

	h.Sessions.Put(session, batch.FileName)
	writeJSON(w, http.StatusCreated, h.sessionDTO(session, batch.FileName))
}

// GetSession returns the current working set and summary.
// GET /api/imports/{token}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, fileName, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(session, fileName))
}

// EditRow applies a partial edit to one working-set row.
// PATCH /api/imports/{token}/rows/{rowId}
func (h *Handler) EditRow(w http.ResponseWriter, r *http.Request) {
	session, _, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req EditRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := reconcile.EditInput{CheckIn: req.CheckIn, CheckOut: req.CheckOut}
	if req.Status != nil {
		status := reconcile.RowStatus(*req.Status)
		in.Status = &status
	}

	rowID := reconcile.RowID(chi.URLParam(r, "rowId"))
	rec, err := session.EditRow(rowID, in)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec, session.IsDuplicate(rowID)))
}

// ApproveRow commits one row.
// POST /api/imports/{token}/rows/{rowId}/approve
func (h *Handler) ApproveRow(w http.ResponseWriter, r *http.Request) {
	session, fileName, ok := h.lookup(w, r)
	if !ok {
		return
	}

	rowID := reconcile.RowID(chi.URLParam(r, "rowId"))
	if err := session.ApproveRow(r.Context(), rowID); err != nil {
		writeSessionError(w, err)
		return
	}
	if session.Closed() {
		h.Sessions.Evict(session.Token())
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(session, fileName))
}

// SkipRow removes one row from the working set without committing.
// POST /api/imports/{token}/rows/{rowId}/skip
func (h *Handler) SkipRow(w http.ResponseWriter, r *http.Request) {
	session, fileName, ok := h.lookup(w, r)
	if !ok {
		return
	}

	session.IgnoreRow(reconcile.RowID(chi.URLParam(r, "rowId")))
	if session.Closed() {
		h.Sessions.Evict(session.Token())
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(session, fileName))
}

// ApproveAll commits every remaining valid row as one batch.
// POST /api/imports/{token}/approve-all
func (h *Handler) ApproveAll(w http.ResponseWriter, r *http.Request) {
	session, _, ok := h.lookup(w, r)
	if !ok {
		return
	}

	result, err := session.ApproveAll(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if result.SessionClosed {
		h.Sessions.Evict(session.Token())
	}

	dto := BatchResultDTO{
		SuccessCount:  result.SuccessCount,
		FailedCount:   result.FailedCount,
		SessionClosed: result.SessionClosed,
	}
	for _, e := range result.Errors {
		dto.Errors = append(dto.Errors, ItemErrorDTO{RowID: string(e.RowID), Message: e.Message})
	}
	writeJSON(w, http.StatusOK, dto)
}

// CancelSession discards the session without committing anything.
// DELETE /api/imports/{token}
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	session, _, ok := h.lookup(w, r)
	if !ok {
		return
	}
	session.Cancel()
	h.Sessions.Evict(session.Token())
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// CreateEmployee registers an employee.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.PersonID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id, person_id and name are required", nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	emp := sqlite.Employee{
		ID:         req.ID,
		PersonID:   req.PersonID,
		Name:       req.Name,
		Department: req.Department,
		Active:     active,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusConflict, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

// ListCalendarEvents returns all holidays and poya days.
// GET /api/calendar
func (h *Handler) ListCalendarEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.ListCalendarEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calendar events", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateCalendarEvent registers a holiday or poya occurrence.
// POST /api/calendar
func (h *Handler) CreateCalendarEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateCalendarEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EventType != string(reconcile.EventHoliday) && req.EventType != string(reconcile.EventPoya) {
		writeError(w, http.StatusBadRequest, "event_type must be holiday or poya", nil)
		return
	}
	start, err := reconcile.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	end := start
	if req.EndDate != "" {
		if end, err = reconcile.ParseDate(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date", err)
			return
		}
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date precedes start_date", nil)
		return
	}

	ev := sqlite.CalendarEvent{
		ID:        req.ID,
		Title:     req.Title,
		EventType: req.EventType,
		StartDate: start,
		EndDate:   end,
	}
	if err := h.Store.SaveCalendarEvent(r.Context(), ev); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar event", err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// CreateLeaveGrant registers an approved leave grant.
// POST /api/leave-grants
func (h *Handler) CreateLeaveGrant(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := reconcile.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	end, err := reconcile.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}

	grant := sqlite.LeaveGrant{
		ID:         req.ID,
		EmployeeID: req.EmployeeID,
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Status:     "active",
	}
	if err := h.Store.SaveLeaveGrant(r.Context(), grant); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave grant", err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

// ListAttendance returns committed entries for a date range.
// GET /api/attendance?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	from, err := reconcile.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := reconcile.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	entries, err := h.Store.ListAttendance(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// =============================================================================
// HELPERS
// =============================================================================

// lookup resolves the {token} path parameter. Writes 404 and returns
// ok=false when the session is unknown.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*reconcile.Session, string, bool) {
	token := chi.URLParam(r, "token")
	session, fileName := h.Sessions.Get(token)
	if session == nil {
		writeError(w, http.StatusNotFound, "Review session not found", nil)
		return nil, "", false
	}
	return session, fileName, true
}

func (h *Handler) sessionDTO(session *reconcile.Session, fileName string) SessionDTO {
	sum := session.Summarize()
	dto := SessionDTO{
		Token:    session.Token(),
		FileName: fileName,
		Closed:   session.Closed(),
		Summary: SummaryDTO{
			Total:      sum.Total,
			Valid:      sum.Valid,
			Invalid:    sum.Invalid,
			WithErrors: sum.WithErrors,
			Duplicates: sum.Duplicates,
		},
		Records: []RecordDTO{},
	}
	for _, rec := range session.Records() {
		dto.Records = append(dto.Records, toRecordDTO(rec, session.IsDuplicate(rec.RowID)))
	}
	return dto
}

// writeSessionError maps session command errors onto HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case reconcile.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Row not found", err)
	case errors.Is(err, reconcile.ErrSessionClosed):
		writeError(w, http.StatusConflict, "Session is closed", err)
	case errors.Is(err, reconcile.ErrCommitFailed):
		writeError(w, http.StatusUnprocessableEntity, "Commit failed", err)
	case errors.Is(err, reconcile.ErrInvalidEdit):
		writeError(w, http.StatusBadRequest, "Invalid edit", err)
	case reconcile.IsClientError(err):
		writeError(w, http.StatusConflict, "Approval blocked", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
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

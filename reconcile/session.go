/*
session.go - The review session state machine

PURPOSE:
  A Session owns the working set of EditableRecord for one import batch.
  All mutations are explicit commands against the session object:

    EditRow    - change check-in/check-out/status of one row
    ApproveRow - commit one row, remove it from the working set on success
    IgnoreRow  - remove one row without committing (idempotent)
    ApproveAll - commit every valid remaining row as one batch
    Cancel     - discard the session

SESSION LOAD:
  Load annotates every ingested row in one pass: employee resolution,
  calendar context (holiday/Poya) and leave conflicts, then applies the
  status override chain (rules.go). The calendar fetch and the
  resolve-then-conflicts fetch depend on different inputs, so they are
  issued concurrently and joined before the first record is built.

LIFECYCLE:
  Records are created once at load, mutated in place by edits, and removed
  by approval or skip. The session closes on batch approval (per its
  ClosePolicy), on the working set emptying out, or on cancellation.

CONCURRENCY:
  One review session has a single operator, but commands may arrive on
  concurrent HTTP requests; a mutex serializes them.
*/
package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// CLOSE POLICY - What partial batch success does to the session
// =============================================================================

// ClosePolicy decides whether a batch approval with failures still ends the
// review session. The historical behavior is CloseOnAnySuccess: navigate
// away when anything committed, leaving failures to operator follow-up.
type ClosePolicy string

const (
	CloseOnAnySuccess  ClosePolicy = "any_success"
	CloseOnFullSuccess ClosePolicy = "full_success"
)

// =============================================================================
// SESSION LOAD
// =============================================================================

// LoadInput carries the batch and the collaborators a session needs.
type LoadInput struct {
	Rows      []IngestedRow
	Resolver  EmployeeResolver
	Calendar  CalendarProvider
	Conflicts LeaveConflictChecker
	Committer Committer

	// Rules defaults to DefaultOverrideRules().
	Rules []OverrideRule

	// ClosePolicy defaults to CloseOnAnySuccess.
	ClosePolicy ClosePolicy
}

// Session is the working set of one import review.
type Session struct {
	mu        sync.Mutex
	token     string
	records   []*EditableRecord
	committer Committer
	policy    ClosePolicy
	closed    bool
}

// Load builds a review session: resolves employees, fetches calendar context
// and leave conflicts for the batch's date range, annotates every row and
// applies the status override chain.
func Load(ctx context.Context, in LoadInput) (*Session, error) {
	if len(in.Rows) == 0 {
		return nil, ErrEmptyBatch
	}

	rules := in.Rules
	if rules == nil {
		rules = DefaultOverrideRules()
	}
	policy := in.ClosePolicy
	if policy == "" {
		policy = CloseOnAnySuccess
	}

	personIDs, dates := batchKeys(in.Rows)
	from, to, ok := DateSpan(dates)
	if !ok {
		// Every row has an unparseable date; the ingestor has already set
		// per-row errors, but there is no range to annotate against.
		return nil, fmt.Errorf("%w: no usable dates", ErrEmptyBatch)
	}

	// The calendar fetch depends only on the date range; the conflict fetch
	// depends on resolved employee ids. Issue both branches concurrently
	// and join before building records.
	var (
		wg          sync.WaitGroup
		occurrences []CalendarOccurrence
		calendarErr error
		resolved    map[PersonID]EmployeeID
		leaves      map[LeaveKey]string
		resolveErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		occurrences, calendarErr = in.Calendar.Occurrences(ctx, from, to)
	}()
	go func() {
		defer wg.Done()
		resolved, resolveErr = in.Resolver.Resolve(ctx, personIDs)
		if resolveErr != nil || len(resolved) == 0 {
			return
		}
		employeeIDs := make([]EmployeeID, 0, len(resolved))
		for _, id := range resolved {
			employeeIDs = append(employeeIDs, id)
		}
		leaves, resolveErr = in.Conflicts.ActiveLeaves(ctx, employeeIDs, dates)
	}()
	wg.Wait()

	if calendarErr != nil {
		return nil, fmt.Errorf("fetch calendar context: %w", calendarErr)
	}
	if resolveErr != nil {
		return nil, fmt.Errorf("resolve employees: %w", resolveErr)
	}

	calendar := BuildCalendarContext(occurrences)

	session := &Session{
		token:     uuid.NewString(),
		committer: in.Committer,
		policy:    policy,
	}

	for _, row := range in.Rows {
		rec := &EditableRecord{
			RowID:    RowID(uuid.NewString()),
			Row:      row,
			CheckIn:  row.CheckIn,
			CheckOut: row.CheckOut,
			Status:   row.Status,
		}

		if id, ok := resolved[row.PersonID]; ok {
			rec.EmployeeID = id
			rec.Validation = ValidationValid
		} else {
			rec.Validation = ValidationInvalid
		}

		if name, ok := calendar.HolidayName(row.Date); ok {
			rec.IsHoliday = true
			rec.HolidayName = name
		}
		if name, ok := calendar.PoyaName(row.Date); ok {
			rec.IsPoya = true
			rec.PoyaName = name
		}
		if rec.EmployeeID != "" {
			key := LeaveKey{EmployeeID: rec.EmployeeID, Date: row.Date.String()}
			if leaveType, ok := leaves[key]; ok {
				rec.OnLeave = true
				rec.LeaveType = leaveType
			}
		}

		ApplyOverrides(rec, rules)
		session.records = append(session.records, rec)
	}

	return session, nil
}

func batchKeys(rows []IngestedRow) ([]PersonID, []Date) {
	seenPerson := make(map[PersonID]bool)
	seenDate := make(map[string]bool)
	var persons []PersonID
	var dates []Date
	for _, row := range rows {
		if row.PersonID != "" && !seenPerson[row.PersonID] {
			seenPerson[row.PersonID] = true
			persons = append(persons, row.PersonID)
		}
		if !row.Date.IsZero() && !seenDate[row.Date.String()] {
			seenDate[row.Date.String()] = true
			dates = append(dates, row.Date)
		}
	}
	return persons, dates
}

// =============================================================================
// QUERIES
// =============================================================================

// Token returns the opaque session identifier.
func (s *Session) Token() string { return s.token }

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Records returns the current working set in import order.
func (s *Session) Records() []*EditableRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*EditableRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Record returns one working-set row by id.
func (s *Session) Record(id RowID) (*EditableRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.findLocked(id); rec != nil {
		return rec, nil
	}
	return nil, ErrRowNotFound
}

// Summary are the counts shown at the top of the review screen.
type Summary struct {
	Total      int
	Valid      int
	Invalid    int
	WithErrors int
	Duplicates int
}

// Summarize recomputes the working-set counts.
func (s *Session) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{Total: len(s.records)}
	for _, rec := range s.records {
		if rec.Validation == ValidationValid {
			sum.Valid++
		} else {
			sum.Invalid++
		}
		if HasErrors(rec) {
			sum.WithErrors++
		}
		if s.duplicateLocked(rec) {
			sum.Duplicates++
		}
	}
	return sum
}

// IsDuplicate reports whether another working-set row shares this row's
// (person, date) key. The flag clears once the other copy is removed.
func (s *Session) IsDuplicate(id RowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.findLocked(id)
	return rec != nil && s.duplicateLocked(rec)
}

// =============================================================================
// COMMANDS
// =============================================================================

// EditInput carries a partial row edit. Nil fields are left unchanged.
type EditInput struct {
	CheckIn  *string
	CheckOut *string
	Status   *RowStatus
}

// EditRow mutates the editable fields of one row. Edits never re-run the
// load-time override rules; validity is re-derived live from the new values.
func (s *Session) EditRow(id RowID, in EditInput) (*EditableRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	rec := s.findLocked(id)
	if rec == nil {
		return nil, ErrRowNotFound
	}

	if in.CheckIn != nil && !ValidClockTime(*in.CheckIn) {
		return nil, fmt.Errorf("%w: check-in %q", ErrInvalidEdit, *in.CheckIn)
	}
	if in.CheckOut != nil && !ValidClockTime(*in.CheckOut) {
		return nil, fmt.Errorf("%w: check-out %q", ErrInvalidEdit, *in.CheckOut)
	}
	if in.Status != nil && !KnownStatus(*in.Status) {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidEdit, *in.Status)
	}

	if in.CheckIn != nil {
		rec.CheckIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		rec.CheckOut = *in.CheckOut
	}
	if in.Status != nil {
		rec.Status = *in.Status
	}
	return rec, nil
}

// ApproveRow commits exactly one row. Blocked if the row fails the validity
// predicate, its employee is unresolved, or a duplicate copy remains. On
// committer-reported failure the row stays in the working set.
func (s *Session) ApproveRow(ctx context.Context, id RowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	rec := s.findLocked(id)
	if rec == nil {
		return ErrRowNotFound
	}

	if rec.Validation != ValidationValid {
		return &ApprovalBlockedError{RowID: id, Reason: ErrUnresolvedEmployee}
	}
	if s.duplicateLocked(rec) {
		return &ApprovalBlockedError{RowID: id, Reason: ErrDuplicateRow}
	}
	if issues := Issues(rec); len(issues) > 0 {
		return &ApprovalBlockedError{RowID: id, Reason: ErrRowHasErrors, Issues: issues}
	}

	result, err := s.committer.Commit(ctx, []CommitItem{commitItem(rec)})
	if err != nil {
		return fmt.Errorf("commit row %s: %w", id, err)
	}
	if msg, failed := result.Failed(id); failed {
		return &RowCommitError{RowID: id, Message: msg}
	}

	rec.Approved = true
	s.removeLocked(id)
	if len(s.records) == 0 {
		s.closed = true
	}
	return nil
}

// IgnoreRow removes a row from the working set without committing. Removing
// an already-removed row is a no-op; the bool reports whether anything was
// removed.
func (s *Session) IgnoreRow(id RowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.findLocked(id) == nil {
		return false
	}
	s.removeLocked(id)
	if len(s.records) == 0 {
		s.closed = true
	}
	return true
}

// BatchResult reports one ApproveAll invocation.
type BatchResult struct {
	SuccessCount  int
	FailedCount   int
	Errors        []ItemError
	SessionClosed bool
}

// ApproveAll commits every remaining valid row as one batch. It refuses to
// run while any remaining row fails the validity predicate, enumerating the
// problems in the error. Unresolved and duplicate rows are not committed but
// do not block the batch; they remain listed. Whether partial failure still
// closes the session is the session's ClosePolicy.
func (s *Session) ApproveAll(ctx context.Context) (BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return BatchResult{}, ErrSessionClosed
	}

	missingIn, missingOut, other := ClassifyIssues(s.records)
	if missingIn+missingOut+other > 0 {
		return BatchResult{}, &BatchBlockedError{
			MissingCheckIn:  missingIn,
			MissingCheckOut: missingOut,
			OtherErrors:     other,
		}
	}

	var items []CommitItem
	for _, rec := range s.records {
		if rec.Validation != ValidationValid || s.duplicateLocked(rec) {
			continue
		}
		items = append(items, commitItem(rec))
	}
	if len(items) == 0 {
		return BatchResult{}, nil
	}

	result, err := s.committer.Commit(ctx, items)
	if err != nil {
		return BatchResult{}, fmt.Errorf("commit batch: %w", err)
	}

	for _, item := range items {
		if _, failed := result.Failed(item.RowID); failed {
			continue
		}
		if rec := s.findLocked(item.RowID); rec != nil {
			rec.Approved = true
		}
		s.removeLocked(item.RowID)
	}

	shouldClose := false
	switch s.policy {
	case CloseOnFullSuccess:
		shouldClose = result.SuccessCount > 0 && result.FailedCount == 0
	default: // CloseOnAnySuccess
		shouldClose = result.SuccessCount > 0
	}
	if shouldClose || len(s.records) == 0 {
		s.closed = true
		shouldClose = true
	}

	return BatchResult{
		SuccessCount:  result.SuccessCount,
		FailedCount:   result.FailedCount,
		Errors:        result.Errors,
		SessionClosed: shouldClose,
	}, nil
}

// Cancel discards the session. All pending records are dropped; nothing is
// persisted.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *Session) findLocked(id RowID) *EditableRecord {
	for _, rec := range s.records {
		if rec.RowID == id {
			return rec
		}
	}
	return nil
}

func (s *Session) removeLocked(id RowID) {
	for i, rec := range s.records {
		if rec.RowID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

func (s *Session) duplicateLocked(rec *EditableRecord) bool {
	for _, other := range s.records {
		if other.RowID != rec.RowID && other.Key() == rec.Key() {
			return true
		}
	}
	return false
}

func commitItem(rec *EditableRecord) CommitItem {
	return CommitItem{
		RowID:      rec.RowID,
		EmployeeID: rec.EmployeeID,
		PersonID:   rec.Row.PersonID,
		Date:       rec.Row.Date,
		CheckIn:    rec.CheckIn,
		CheckOut:   rec.CheckOut,
		Status:     rec.Status,
		Notes:      commitNotes(rec),
		Deduction:  ComputeLeaveDeduction(rec),
	}
}

func commitNotes(rec *EditableRecord) string {
	switch {
	case rec.IsHoliday:
		return "holiday: " + rec.HolidayName
	case rec.IsPoya:
		return "poya: " + rec.PoyaName
	case rec.OnLeave:
		return "uploaded while on " + rec.LeaveType + " leave"
	default:
		return ""
	}
}

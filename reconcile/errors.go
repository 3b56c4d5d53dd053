/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All engine error types in one place. Validation problems are NOT errors:
  they are computed issues consulted by the approval preconditions (see
  validate.go). Errors here are the refusals and failures those
  preconditions produce.

ERROR CATEGORIES:
  1. Session errors   - Closed/unknown sessions, unknown rows
  2. Approval errors  - Preconditions that block approve/approve-all
  3. Commit errors    - Per-row failures reported by the committer

USAGE:
  if errors.Is(err, reconcile.ErrRowHasErrors) { ... }

  var blocked *reconcile.BatchBlockedError
  if errors.As(err, &blocked) {
      fmt.Println(blocked.MissingCheckIn, blocked.MissingCheckOut)
  }
*/
package reconcile

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSessionClosed is returned by commands against a finished session.
	ErrSessionClosed = errors.New("review session is closed")

	// ErrRowNotFound is returned when a RowID is not in the working set.
	// Skipping an already-removed row does NOT produce this; that is a no-op.
	ErrRowNotFound = errors.New("row not found in working set")

	// ErrUnresolvedEmployee blocks approval of a row whose person identifier
	// matched no active employee. Only re-import can fix it.
	ErrUnresolvedEmployee = errors.New("employee not resolved")

	// ErrRowHasErrors blocks approval of a row failing the validity predicate.
	ErrRowHasErrors = errors.New("row has validation errors")

	// ErrDuplicateRow blocks approval while another working-set row shares the
	// same (person, date) key.
	ErrDuplicateRow = errors.New("duplicate person/date row in working set")

	// ErrEmptyBatch is returned when a session is loaded with no rows.
	ErrEmptyBatch = errors.New("import batch contains no rows")

	// ErrCommitFailed wraps committer-reported per-row failures.
	ErrCommitFailed = errors.New("commit failed")

	// ErrInvalidEdit is returned for malformed edit values (bad "HH:MM"
	// clock time, unknown status).
	ErrInvalidEdit = errors.New("invalid edit value")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ApprovalBlockedError reports why a single row cannot be approved.
type ApprovalBlockedError struct {
	RowID  RowID
	Reason error   // one of the sentinel errors above
	Issues []Issue // populated when Reason is ErrRowHasErrors
}

func (e *ApprovalBlockedError) Error() string {
	return fmt.Sprintf("row %s cannot be approved: %v", e.RowID, e.Reason)
}

func (e *ApprovalBlockedError) Unwrap() error { return e.Reason }

// BatchBlockedError reports why approve-all refused to run. The counts
// enumerate the remaining problems so the operator knows what to fix.
type BatchBlockedError struct {
	MissingCheckIn  int
	MissingCheckOut int
	OtherErrors     int
}

func (e *BatchBlockedError) Error() string {
	return fmt.Sprintf(
		"cannot approve all: %d row(s) missing check-in, %d row(s) missing check-out, %d row(s) with other validation errors",
		e.MissingCheckIn, e.MissingCheckOut, e.OtherErrors)
}

func (e *BatchBlockedError) Unwrap() error { return ErrRowHasErrors }

// RowCommitError is the per-row failure surfaced after a commit attempt.
// The row stays in the working set for correction and resubmission.
type RowCommitError struct {
	RowID   RowID
	Message string
}

func (e *RowCommitError) Error() string {
	return fmt.Sprintf("commit failed for row %s: %s", e.RowID, e.Message)
}

func (e *RowCommitError) Unwrap() error { return ErrCommitFailed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true when the error is correctable by the operator
// (edit the row, skip a duplicate) rather than a system failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrRowHasErrors) ||
		errors.Is(err, ErrUnresolvedEmployee) ||
		errors.Is(err, ErrDuplicateRow) ||
		errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrInvalidEdit)
}

// IsNotFound returns true for unknown rows or sessions.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRowNotFound)
}

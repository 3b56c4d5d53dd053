/*
validate.go - The per-row validity predicate

PURPOSE:
  Computes the live validation state of an EditableRecord. The predicate is
  evaluated on every render and before every approval; it never throws.

PRECEDENCE (evaluated top-down, first match wins):
  1. Holiday rows: any recorded time is a hard error, as is an ingest error
     or a status other than holiday
  2. Partial times: exactly one of check-in/check-out set is always an error
  3. No times: status must be absent or leave
  4. Both times: status must be present, half_day or poya

NOT PART OF THIS PREDICATE:
  - Employee resolution (ValidationStatus) blocks approval separately
  - Duplicate (person, date) keys block approval separately
  Both are approval preconditions, not row validity, so that the predicate
  matches exactly what the operator can fix by editing the row.
*/
package reconcile

import "fmt"

// =============================================================================
// ISSUES - Classified validation problems
// =============================================================================

type IssueCode string

const (
	IssueIngestError     IssueCode = "ingest_error"
	IssueHolidayHasTimes IssueCode = "holiday_has_times"
	IssueMissingCheckIn  IssueCode = "missing_check_in"
	IssueMissingCheckOut IssueCode = "missing_check_out"
	IssueStatusMismatch  IssueCode = "status_mismatch"
)

type Issue struct {
	Code    IssueCode
	Message string
}

// =============================================================================
// VALIDITY PREDICATE
// =============================================================================

// Issues returns the validation problems of a record, in precedence order.
// An empty result means the record passes the validity predicate.
func Issues(rec *EditableRecord) []Issue {
	var issues []Issue

	ingestIssue := func() {
		if rec.Row.Error != "" {
			issues = append(issues, Issue{Code: IssueIngestError, Message: rec.Row.Error})
		}
	}

	// 1. Holiday rows: no clock events allowed, and the status must remain
	//    holiday. Edits never re-run the load-time override, so an edit away
	//    from holiday is caught here.
	if rec.IsHoliday {
		ingestIssue()
		if rec.CheckIn != "" || rec.CheckOut != "" {
			issues = append(issues, Issue{
				Code:    IssueHolidayHasTimes,
				Message: fmt.Sprintf("recorded time on holiday %q", rec.HolidayName),
			})
		}
		if rec.Status != StatusHoliday {
			issues = append(issues, Issue{
				Code:    IssueStatusMismatch,
				Message: fmt.Sprintf("status %q on holiday %q", rec.Status, rec.HolidayName),
			})
		}
		return issues
	}

	// 2. Exactly one clock event is always invalid.
	if rec.HasPartialTimes() {
		if rec.CheckIn == "" {
			issues = append(issues, Issue{Code: IssueMissingCheckIn, Message: "check-out recorded without check-in"})
		} else {
			issues = append(issues, Issue{Code: IssueMissingCheckOut, Message: "check-in recorded without check-out"})
		}
		return issues
	}

	// 3. No clock events: only absent/leave make sense.
	if rec.HasNoTimes() {
		ingestIssue()
		if rec.Status != StatusAbsent && rec.Status != StatusLeave {
			issues = append(issues, Issue{
				Code:    IssueStatusMismatch,
				Message: fmt.Sprintf("status %q requires clock events", rec.Status),
			})
		}
		return issues
	}

	// 4. Both clock events: only present/half_day/poya make sense.
	ingestIssue()
	if rec.Status != StatusPresent && rec.Status != StatusHalfDay && rec.Status != StatusPoya {
		issues = append(issues, Issue{
			Code:    IssueStatusMismatch,
			Message: fmt.Sprintf("status %q is incompatible with recorded clock events", rec.Status),
		})
	}
	return issues
}

// HasErrors reports whether the record fails the validity predicate.
func HasErrors(rec *EditableRecord) bool {
	return len(Issues(rec)) > 0
}

// ClassifyIssues buckets the working set's failing rows for the batch-approval
// error message. Each row counts once: partial-time rows under the missing
// side, any other failing row under other.
func ClassifyIssues(records []*EditableRecord) (missingCheckIn, missingCheckOut, other int) {
	for _, rec := range records {
		issues := Issues(rec)
		if len(issues) == 0 {
			continue
		}
		switch issues[0].Code {
		case IssueMissingCheckIn:
			missingCheckIn++
		case IssueMissingCheckOut:
			missingCheckOut++
		default:
			other++
		}
	}
	return missingCheckIn, missingCheckOut, other
}

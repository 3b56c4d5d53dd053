/*
Package reconcile implements the bulk attendance reconciliation engine.

PURPOSE:
  This package contains the domain types and algorithms for turning a raw
  spreadsheet import of attendance rows into a reviewed, validated, committed
  set of attendance entries with correct leave-balance side effects.

KEY CONCEPTS IN THIS FILE (types.go):
  - IngestedRow: An immutable row as produced by the spreadsheet ingestor
  - EditableRecord: An ingested row decorated with resolution, calendar and
    leave-conflict annotations, plus the user-editable fields
  - RowStatus: The attendance status enum (present, absent, half_day, ...)
  - LeaveDeduction: The instruction passed to the committer when an employee
    clocked in while on approved leave

DESIGN PRINCIPLES:
  1. Immutability: IngestedRow is never mutated, only decorated
  2. Precision: Leave-day amounts use decimal.Decimal, never float
  3. Explicitness: Annotation precedence and validation are named rule lists,
     not nested conditionals (see rules.go, validate.go)

SEE ALSO:
  - session.go: The review-session state machine that owns these records
  - validate.go: The per-row validity predicate
  - deduction.go: The leave-deduction decision table
*/
package reconcile

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// PersonID is the external identifier carried in the spreadsheet (badge or
// payroll number). It may or may not resolve to an employee.
type PersonID string

// EmployeeID is the internal employee record identifier.
type EmployeeID string

// RowID uniquely identifies one row within a review session. It is synthetic:
// the source keys rows by (PersonID, Date), but duplicate pairs in the upload
// must remain independently reviewable.
type RowID string

// RowKey is the source-level identity of a row. Assumed unique per batch by
// the upstream system; duplicates are flagged at session load.
type RowKey struct {
	PersonID PersonID
	Date     Date
}

// =============================================================================
// ROW STATUS
// =============================================================================

type RowStatus string

const (
	StatusPresent RowStatus = "present"
	StatusAbsent  RowStatus = "absent"
	StatusHalfDay RowStatus = "half_day"
	StatusLeave   RowStatus = "leave"
	StatusPoya    RowStatus = "poya"
	StatusHoliday RowStatus = "holiday"
)

// KnownStatus reports whether s is one of the recognized attendance statuses.
func KnownStatus(s RowStatus) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave, StatusPoya, StatusHoliday:
		return true
	}
	return false
}

// =============================================================================
// INGESTED ROW - Raw parsed record, immutable
// =============================================================================

// IngestedRow is one parsed spreadsheet row. CheckIn/CheckOut are "HH:MM"
// strings, empty when no clock event was recorded. Error carries any parse
// problem reported by the ingestor (malformed date, unknown status, ...).
type IngestedRow struct {
	PersonID   PersonID
	Name       string
	Department string
	Date       Date
	DayOfWeek  string
	CheckIn    string
	CheckOut   string
	Status     RowStatus
	Error      string
}

// Key returns the source-level (PersonID, Date) identity.
func (r IngestedRow) Key() RowKey {
	return RowKey{PersonID: r.PersonID, Date: r.Date}
}

// =============================================================================
// VALIDATION STATUS - Employee resolution outcome
// =============================================================================

type ValidationStatus string

const (
	ValidationPending ValidationStatus = "pending"
	ValidationValid   ValidationStatus = "valid"
	ValidationInvalid ValidationStatus = "invalid"
)

// =============================================================================
// EDITABLE RECORD - Ingested row plus reconciliation annotations
// =============================================================================

// EditableRecord is the unit of the review working set. The embedded Row is
// never mutated; CheckIn/CheckOut/Status start as copies and take user edits.
// Annotations (employee resolution, calendar, leave conflict) are fixed at
// session load and never re-derived by edits.
type EditableRecord struct {
	RowID RowID
	Row   IngestedRow

	// Editable fields, seeded from Row and possibly overridden at load
	// by the status override rules (holiday > poya > leave conflict).
	CheckIn  string
	CheckOut string
	Status   RowStatus

	// Employee resolution. EmployeeID is empty when unresolved.
	EmployeeID EmployeeID
	Validation ValidationStatus

	// Calendar annotations for Row.Date.
	IsHoliday   bool
	HolidayName string
	IsPoya      bool
	PoyaName    string

	// Leave-conflict annotation: an active approved leave grant covering
	// (EmployeeID, Row.Date).
	OnLeave   bool
	LeaveType string

	// Approved is a transient review flag. Not persisted.
	Approved bool
}

// Key returns the source-level identity of the underlying row.
func (r *EditableRecord) Key() RowKey { return r.Row.Key() }

// HasBothTimes reports whether both clock events are recorded.
func (r *EditableRecord) HasBothTimes() bool { return r.CheckIn != "" && r.CheckOut != "" }

// HasNoTimes reports whether neither clock event is recorded.
func (r *EditableRecord) HasNoTimes() bool { return r.CheckIn == "" && r.CheckOut == "" }

// HasPartialTimes reports whether exactly one clock event is recorded.
func (r *EditableRecord) HasPartialTimes() bool {
	return (r.CheckIn == "") != (r.CheckOut == "")
}

// =============================================================================
// LEAVE DEDUCTION - Instruction for the committer, never stored independently
// =============================================================================

// LeaveDeduction tells the committer how an approved attendance row affects a
// pre-existing leave grant. Days is 0, 0.5 or 1. CancelLeave voids the
// originating grant so the day is not double-booked.
type LeaveDeduction struct {
	EmployeeID  EmployeeID
	LeaveType   string
	Days        decimal.Decimal
	CancelLeave bool
}

// Convenience day amounts for the deduction table.
var (
	ZeroDays = decimal.Zero
	HalfDay  = decimal.NewFromFloat(0.5)
	FullDay  = decimal.NewFromInt(1)
)

/*
calendar.go - Calendar context: holidays and Poya days

PURPOSE:
  Supplies holiday/Poya annotations for the batch's date range. Providers
  return raw occurrences with [start, end] intervals; the engine expands each
  occurrence one calendar day at a time into two lookup maps keyed by ISO
  date, so multi-day holiday records need no special casing downstream.
*/
package reconcile

import "context"

// =============================================================================
// OCCURRENCES - As returned by the provider
// =============================================================================

type EventType string

const (
	EventHoliday EventType = "holiday"
	EventPoya    EventType = "poya"
)

// CalendarOccurrence is one holiday or Poya record. Start and End are
// inclusive; single-day events carry Start == End.
type CalendarOccurrence struct {
	Title string
	Start Date
	End   Date
	Type  EventType
}

// CalendarProvider returns all occurrences whose [Start, End] interval
// intersects [from, to].
type CalendarProvider interface {
	Occurrences(ctx context.Context, from, to Date) ([]CalendarOccurrence, error)
}

// =============================================================================
// CALENDAR CONTEXT - Per-day lookup maps
// =============================================================================

// CalendarContext maps individual calendar days to holiday/Poya names.
type CalendarContext struct {
	holidays map[string]string // ISO date -> holiday name
	poyas    map[string]string // ISO date -> poya name
}

// BuildCalendarContext expands occurrences day by day. An interval may span
// any number of days; no assumption that records are single-day.
func BuildCalendarContext(occurrences []CalendarOccurrence) *CalendarContext {
	cc := &CalendarContext{
		holidays: make(map[string]string),
		poyas:    make(map[string]string),
	}
	for _, occ := range occurrences {
		if occ.Start.IsZero() || occ.End.Before(occ.Start) {
			continue
		}
		for day := occ.Start; !day.After(occ.End); day = day.AddDays(1) {
			switch occ.Type {
			case EventHoliday:
				cc.holidays[day.String()] = occ.Title
			case EventPoya:
				cc.poyas[day.String()] = occ.Title
			}
		}
	}
	return cc
}

// HolidayName returns the holiday name covering d, if any.
func (cc *CalendarContext) HolidayName(d Date) (string, bool) {
	name, ok := cc.holidays[d.String()]
	return name, ok
}

// PoyaName returns the Poya-day name covering d, if any.
func (cc *CalendarContext) PoyaName(d Date) (string, bool) {
	name, ok := cc.poyas[d.String()]
	return name, ok
}

// =============================================================================
// COLLABORATOR CONTRACTS - Employee resolution and leave conflicts
// =============================================================================

// EmployeeResolver maps external person identifiers to internal employee ids.
// Identifiers with no active match are simply absent from the result; absence
// is the signal, no error is raised at this layer.
type EmployeeResolver interface {
	Resolve(ctx context.Context, personIDs []PersonID) (map[PersonID]EmployeeID, error)
}

// LeaveKey identifies an (employee, day) pair for conflict lookup.
type LeaveKey struct {
	EmployeeID EmployeeID
	Date       string // ISO date
}

// LeaveConflictChecker returns the leave type of any active approved leave
// grant covering each (employee, date) pair in the cross product of the
// inputs. Pairs without an active grant are absent from the result.
type LeaveConflictChecker interface {
	ActiveLeaves(ctx context.Context, employeeIDs []EmployeeID, dates []Date) (map[LeaveKey]string, error)
}

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-reconciler/reconcile"
	"github.com/warp/attendance-reconciler/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEmployee(t *testing.T, store *sqlite.Store, id, personID string) {
	t.Helper()
	require.NoError(t, store.SaveEmployee(context.Background(), sqlite.Employee{
		ID:       id,
		PersonID: personID,
		Name:     "Employee " + id,
		Active:   true,
	}))
}

func march(d int) reconcile.Date {
	return reconcile.NewDate(2025, time.March, d)
}

// =============================================================================
// EMPLOYEE RESOLUTION
// =============================================================================

func TestResolve_ActiveOnly(t *testing.T) {
	// GIVEN: One active and one deactivated employee
	// WHEN: Resolving both person ids plus an unknown one
	// THEN: Only the active employee resolves

	store := newTestStore(t)
	ctx := context.Background()

	seedEmployee(t, store, "emp-1", "P-100")
	require.NoError(t, store.SaveEmployee(ctx, sqlite.Employee{
		ID: "emp-2", PersonID: "P-200", Name: "Former", Active: false,
	}))

	resolved, err := store.Resolve(ctx, []reconcile.PersonID{"P-100", "P-200", "P-999"})
	require.NoError(t, err)
	assert.Equal(t, map[reconcile.PersonID]reconcile.EmployeeID{
		"P-100": "emp-1",
	}, resolved)
}

func TestSaveEmployee_DuplicatePersonID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedEmployee(t, store, "emp-1", "P-100")
	err := store.SaveEmployee(ctx, sqlite.Employee{
		ID: "emp-2", PersonID: "P-100", Name: "Clone", Active: true,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "P-100")
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestOccurrences_IntervalIntersection(t *testing.T) {
	// GIVEN: A multi-day holiday and a poya outside the query range
	// WHEN: Querying a range overlapping only the holiday's tail
	// THEN: The holiday is returned, the poya is not

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCalendarEvent(ctx, sqlite.CalendarEvent{
		ID: "ev-1", Title: "New Year", EventType: "holiday",
		StartDate: reconcile.NewDate(2025, time.April, 13),
		EndDate:   reconcile.NewDate(2025, time.April, 15),
	}))
	require.NoError(t, store.SaveCalendarEvent(ctx, sqlite.CalendarEvent{
		ID: "ev-2", Title: "Vesak Poya", EventType: "poya",
		StartDate: reconcile.NewDate(2025, time.May, 12),
		EndDate:   reconcile.NewDate(2025, time.May, 12),
	}))

	occs, err := store.Occurrences(ctx,
		reconcile.NewDate(2025, time.April, 15),
		reconcile.NewDate(2025, time.April, 20))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "New Year", occs[0].Title)
	assert.Equal(t, reconcile.EventHoliday, occs[0].Type)
}

// =============================================================================
// LEAVE CONFLICTS
// =============================================================================

func TestActiveLeaves_CoversGrantDaysOnly(t *testing.T) {
	// GIVEN: An active grant March 10-12 and a cancelled grant March 20
	// WHEN: Checking March 9-13 and March 20
	// THEN: Only the active grant's days report a conflict

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLeaveGrant(ctx, sqlite.LeaveGrant{
		ID: "g-1", EmployeeID: "emp-1", LeaveType: "annual",
		StartDate: march(10), EndDate: march(12),
	}))
	require.NoError(t, store.SaveLeaveGrant(ctx, sqlite.LeaveGrant{
		ID: "g-2", EmployeeID: "emp-1", LeaveType: "sick",
		StartDate: march(20), EndDate: march(20), Status: "cancelled",
	}))

	dates := []reconcile.Date{march(9), march(10), march(11), march(12), march(13), march(20)}
	leaves, err := store.ActiveLeaves(ctx, []reconcile.EmployeeID{"emp-1"}, dates)
	require.NoError(t, err)

	assert.Len(t, leaves, 3)
	for _, d := range []int{10, 11, 12} {
		key := reconcile.LeaveKey{EmployeeID: "emp-1", Date: march(d).String()}
		assert.Equal(t, "annual", leaves[key])
	}
}

// =============================================================================
// COMMIT
// =============================================================================

func TestCommit_UpsertsAttendance(t *testing.T) {
	// GIVEN: A committed entry for (emp-1, March 10)
	// WHEN: Committing the same (employee, date) again with new times
	// THEN: The entry is replaced, not duplicated

	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", "P-100")

	first := reconcile.CommitItem{
		RowID: "row-1", EmployeeID: "emp-1", PersonID: "P-100",
		Date: march(10), CheckIn: "08:30", CheckOut: "17:00",
		Status: reconcile.StatusPresent,
	}
	result, err := store.Commit(ctx, []reconcile.CommitItem{first})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	second := first
	second.RowID = "row-2"
	second.CheckIn = "09:00"
	result, err = store.Commit(ctx, []reconcile.CommitItem{second})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	entry, err := store.GetAttendance(ctx, "emp-1", march(10))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "09:00", entry.CheckIn)

	entries, err := store.ListAttendance(ctx, march(1), march(31))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCommit_DeductionAppendsLedgerAndCancelsGrant(t *testing.T) {
	// GIVEN: emp-1 has a 14-day annual entitlement and an active grant on
	//        March 10
	// WHEN: Committing a present row with a 1-day deduction and CancelLeave
	// THEN: The ledger holds a -1 delta, the balance drops to 13 and the
	//       grant is cancelled

	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", "P-100")

	require.NoError(t, store.AppendLeaveLedger(ctx, "emp-1", "annual",
		decimal.NewFromInt(14), "annual entitlement", ""))
	require.NoError(t, store.SaveLeaveGrant(ctx, sqlite.LeaveGrant{
		ID: "g-1", EmployeeID: "emp-1", LeaveType: "annual",
		StartDate: march(10), EndDate: march(10),
	}))

	item := reconcile.CommitItem{
		RowID: "row-1", EmployeeID: "emp-1", PersonID: "P-100",
		Date: march(10), CheckIn: "08:30", CheckOut: "17:00",
		Status: reconcile.StatusPresent,
		Notes:  "uploaded while on annual leave",
		Deduction: &reconcile.LeaveDeduction{
			EmployeeID:  "emp-1",
			LeaveType:   "annual",
			Days:        reconcile.FullDay,
			CancelLeave: true,
		},
	}
	result, err := store.Commit(ctx, []reconcile.CommitItem{item})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)

	balance, err := store.LeaveBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(13)), "got %s", balance)

	grant, err := store.GetLeaveGrant(ctx, "g-1")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Equal(t, "cancelled", grant.Status)
}

func TestCommit_ZeroDayDeductionLeavesLedgerAlone(t *testing.T) {
	// A confirmed-absent leave row carries a zero deduction: no ledger row,
	// grant untouched.
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", "P-100")

	require.NoError(t, store.SaveLeaveGrant(ctx, sqlite.LeaveGrant{
		ID: "g-1", EmployeeID: "emp-1", LeaveType: "annual",
		StartDate: march(10), EndDate: march(10),
	}))

	item := reconcile.CommitItem{
		RowID: "row-1", EmployeeID: "emp-1", PersonID: "P-100",
		Date: march(10), Status: reconcile.StatusLeave,
		Deduction: &reconcile.LeaveDeduction{
			EmployeeID: "emp-1", LeaveType: "annual",
			Days: reconcile.ZeroDays, CancelLeave: false,
		},
	}
	_, err := store.Commit(ctx, []reconcile.CommitItem{item})
	require.NoError(t, err)

	balance, err := store.LeaveBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	grant, err := store.GetLeaveGrant(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "active", grant.Status)
}

func TestLeaveBalance_HalfDayArithmetic(t *testing.T) {
	// Decimal deltas must survive the string round-trip exactly.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendLeaveLedger(ctx, "emp-1", "annual",
		decimal.NewFromInt(7), "entitlement", ""))
	require.NoError(t, store.AppendLeaveLedger(ctx, "emp-1", "annual",
		decimal.NewFromFloat(-0.5), "half day worked on leave", "row-1"))
	require.NoError(t, store.AppendLeaveLedger(ctx, "emp-1", "annual",
		decimal.NewFromFloat(-0.5), "half day worked on leave", "row-2"))

	balance, err := store.LeaveBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(6)), "got %s", balance)

	other, err := store.LeaveBalance(ctx, "emp-1", "sick")
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}

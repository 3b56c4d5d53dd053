package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-reconciler/reconcile"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(d int) reconcile.Date {
	return reconcile.NewDate(2025, time.March, d)
}

func record(checkIn, checkOut string, status reconcile.RowStatus) *reconcile.EditableRecord {
	return &reconcile.EditableRecord{
		RowID: "row-1",
		Row: reconcile.IngestedRow{
			PersonID: "P-100",
			Date:     day(10),
			Status:   status,
		},
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     status,
		EmployeeID: "emp-1",
		Validation: reconcile.ValidationValid,
	}
}

// =============================================================================
// VALIDITY PREDICATE TESTS
// =============================================================================

func TestIssues_BothTimes(t *testing.T) {
	// GIVEN: Rows with both clock events recorded
	// THEN: Only present, half_day and poya statuses are valid

	cases := []struct {
		status reconcile.RowStatus
		valid  bool
	}{
		{reconcile.StatusPresent, true},
		{reconcile.StatusHalfDay, true},
		{reconcile.StatusPoya, true},
		{reconcile.StatusAbsent, false},
		{reconcile.StatusLeave, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			rec := record("08:30", "17:00", tc.status)
			issues := reconcile.Issues(rec)
			if tc.valid {
				assert.Empty(t, issues)
				assert.False(t, reconcile.HasErrors(rec))
			} else {
				assert.Len(t, issues, 1)
				assert.Equal(t, reconcile.IssueStatusMismatch, issues[0].Code)
			}
		})
	}
}

func TestIssues_NoTimes(t *testing.T) {
	// GIVEN: Rows with no clock events recorded
	// THEN: Only absent and leave statuses are valid

	cases := []struct {
		status reconcile.RowStatus
		valid  bool
	}{
		{reconcile.StatusAbsent, true},
		{reconcile.StatusLeave, true},
		{reconcile.StatusPresent, false},
		{reconcile.StatusHalfDay, false},
		{reconcile.StatusPoya, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			rec := record("", "", tc.status)
			assert.Equal(t, !tc.valid, reconcile.HasErrors(rec))
		})
	}
}

func TestIssues_PartialTimes_AlwaysInvalid(t *testing.T) {
	// GIVEN: Exactly one clock event recorded
	// THEN: Invalid regardless of status, classified by the missing side

	for _, status := range []reconcile.RowStatus{
		reconcile.StatusPresent, reconcile.StatusAbsent, reconcile.StatusHalfDay,
		reconcile.StatusLeave, reconcile.StatusPoya,
	} {
		rec := record("08:30", "", status)
		issues := reconcile.Issues(rec)
		assert.Len(t, issues, 1, "status %s with check-in only", status)
		assert.Equal(t, reconcile.IssueMissingCheckOut, issues[0].Code)

		rec = record("", "17:00", status)
		issues = reconcile.Issues(rec)
		assert.Len(t, issues, 1, "status %s with check-out only", status)
		assert.Equal(t, reconcile.IssueMissingCheckIn, issues[0].Code)
	}
}

func TestIssues_Holiday_AnyTimeIsError(t *testing.T) {
	// GIVEN: A row on a declared holiday
	// WHEN: Any clock event is recorded
	// THEN: holiday_has_times, taking precedence over partial-time issues

	rec := record("08:30", "", reconcile.StatusHoliday)
	rec.IsHoliday = true
	rec.HolidayName = "Vesak"

	issues := reconcile.Issues(rec)
	assert.Len(t, issues, 1)
	assert.Equal(t, reconcile.IssueHolidayHasTimes, issues[0].Code)
	assert.Contains(t, issues[0].Message, "Vesak")
}

func TestIssues_Holiday_NoTimes_Valid(t *testing.T) {
	rec := record("", "", reconcile.StatusHoliday)
	rec.IsHoliday = true

	assert.False(t, reconcile.HasErrors(rec))
}

func TestIssues_Holiday_StatusMustStayHoliday(t *testing.T) {
	// GIVEN: A time-free holiday row edited away from status holiday
	// THEN: Invalid until the status is set back

	rec := record("", "", reconcile.StatusAbsent)
	rec.IsHoliday = true
	rec.HolidayName = "Vesak"

	issues := reconcile.Issues(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, reconcile.IssueStatusMismatch, issues[0].Code)
	assert.Contains(t, issues[0].Message, "Vesak")

	rec.Status = reconcile.StatusHoliday
	assert.False(t, reconcile.HasErrors(rec))
}

func TestIssues_IngestError_SurvivesEdits(t *testing.T) {
	// GIVEN: A row the ingestor flagged (malformed date)
	// THEN: The ingest error is an issue even when the shape is otherwise valid

	rec := record("08:30", "17:00", reconcile.StatusPresent)
	rec.Row.Error = `malformed date "32/13/2025"`

	issues := reconcile.Issues(rec)
	assert.Len(t, issues, 1)
	assert.Equal(t, reconcile.IssueIngestError, issues[0].Code)
}

func TestClassifyIssues(t *testing.T) {
	// GIVEN: A working set with one missing check-in, one missing check-out
	//        and one status mismatch
	// THEN: The batch-blocked buckets count each row once

	records := []*reconcile.EditableRecord{
		record("", "17:00", reconcile.StatusPresent),
		record("08:30", "", reconcile.StatusPresent),
		record("", "", reconcile.StatusPresent),
		record("08:30", "17:00", reconcile.StatusPresent),
	}

	missingIn, missingOut, other := reconcile.ClassifyIssues(records)
	assert.Equal(t, 1, missingIn)
	assert.Equal(t, 1, missingOut)
	assert.Equal(t, 1, other)
}

func TestClassifyIssues_RowCountsOnce(t *testing.T) {
	// GIVEN: One row carrying two problems (ingest error + status mismatch)
	// THEN: The buckets report one row, not two issues

	rec := record("", "", reconcile.StatusPresent)
	rec.Row.Error = `unknown status "teleworking"`
	require.Len(t, reconcile.Issues(rec), 2)

	missingIn, missingOut, other := reconcile.ClassifyIssues([]*reconcile.EditableRecord{rec})
	assert.Equal(t, 0, missingIn)
	assert.Equal(t, 0, missingOut)
	assert.Equal(t, 1, other)
}

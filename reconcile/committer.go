/*
committer.go - Approval committer contract

PURPOSE:
  The committer persists approved rows as attendance entries and applies
  leave-balance side effects. It reports per-item success/failure so the
  caller can show which specific rows failed and why. It never retries;
  every failure is terminal for that invocation and must be corrected and
  resubmitted by the operator.
*/
package reconcile

import "context"

// CommitItem is one approved row handed to the committer. Deduction is nil
// unless the row conflicts with an active leave grant.
type CommitItem struct {
	RowID      RowID
	EmployeeID EmployeeID
	PersonID   PersonID
	Date       Date
	CheckIn    string
	CheckOut   string
	Status     RowStatus
	Notes      string
	Deduction  *LeaveDeduction
}

// ItemError is a per-item commit failure, keyed by RowID.
type ItemError struct {
	RowID   RowID
	Message string
}

// CommitResult reports the outcome of one commit invocation.
type CommitResult struct {
	SuccessCount int
	FailedCount  int
	Errors       []ItemError
}

// Failed reports whether the item with the given RowID failed, and why.
func (r CommitResult) Failed(id RowID) (string, bool) {
	for _, e := range r.Errors {
		if e.RowID == id {
			return e.Message, true
		}
	}
	return "", false
}

// Committer persists approved attendance rows. For each item it upserts the
// attendance entry for (EmployeeID, Date) and, when Deduction is present,
// applies the day deduction to the employee's leave balance and voids the
// originating grant if CancelLeave is set.
//
// The returned error is reserved for infrastructure failures that prevented
// the invocation entirely; per-item problems go in CommitResult.Errors.
type Committer interface {
	Commit(ctx context.Context, items []CommitItem) (CommitResult, error)
}

/*
deduction.go - Leave-deduction decision table

PURPOSE:
  When an approved attendance row belongs to an employee who was already on
  approved leave that day, the commit must decide how the leave balance is
  affected. The table, applied per row at commit time:

    status     both times present?   days    cancel grant
    --------   -------------------   -----   ------------
    leave      no (both absent)      0       no
    half_day   yes                   0.5     yes
    present    yes                   1       yes
    other      -                     none computed

  An employee confirmed absent on leave consumes the granted leave as
  intended: the grant already accounts for the day, so no extra deduction.
  An employee who clocked in while on leave forfeits the day proportionally
  and the grant is voided to avoid double-booking.
*/
package reconcile

// ComputeLeaveDeduction applies the decision table to a record. Returns nil
// when the record is not on leave or no deduction is defined for its shape.
func ComputeLeaveDeduction(rec *EditableRecord) *LeaveDeduction {
	if !rec.OnLeave {
		return nil
	}

	switch rec.Status {
	case StatusLeave:
		if rec.HasNoTimes() {
			return &LeaveDeduction{
				EmployeeID:  rec.EmployeeID,
				LeaveType:   rec.LeaveType,
				Days:        ZeroDays,
				CancelLeave: false,
			}
		}
	case StatusHalfDay:
		if rec.HasBothTimes() {
			return &LeaveDeduction{
				EmployeeID:  rec.EmployeeID,
				LeaveType:   rec.LeaveType,
				Days:        HalfDay,
				CancelLeave: true,
			}
		}
	case StatusPresent:
		if rec.HasBothTimes() {
			return &LeaveDeduction{
				EmployeeID:  rec.EmployeeID,
				LeaveType:   rec.LeaveType,
				Days:        FullDay,
				CancelLeave: true,
			}
		}
	}
	return nil
}

package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/attendance-reconciler/reconcile"
)

func TestApplyOverrides_Precedence(t *testing.T) {
	// The chain is holiday > poya > leave conflict, first match only.
	rules := reconcile.DefaultOverrideRules()

	cases := []struct {
		name          string
		holiday, poya bool
		onLeave       bool
		wantRule      string
		wantStatus    reconcile.RowStatus
	}{
		{"holiday wins over poya and leave", true, true, true, "holiday", reconcile.StatusHoliday},
		{"poya wins over leave", false, true, true, "poya", reconcile.StatusPoya},
		{"leave conflict alone", false, false, true, "leave_conflict", reconcile.StatusLeave},
		{"no annotation keeps ingested status", false, false, false, "", reconcile.StatusPresent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := record("08:30", "17:00", reconcile.StatusPresent)
			rec.IsHoliday = tc.holiday
			rec.IsPoya = tc.poya
			rec.OnLeave = tc.onLeave

			applied := reconcile.ApplyOverrides(rec, rules)
			assert.Equal(t, tc.wantRule, applied)
			assert.Equal(t, tc.wantStatus, rec.Status)
		})
	}
}

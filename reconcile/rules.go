/*
rules.go - Load-time status override rules

PURPOSE:
  When a review session is loaded, each record's status may be overridden by
  calendar and leave-conflict context. The precedence is an explicit ordered
  rule list evaluated top-down, first match short-circuiting the rest:

    1. holiday        - date is a declared holiday       -> status "holiday"
    2. poya           - date is a Poya day               -> status "poya"
    3. leave conflict - employee has approved leave      -> status "leave"

  Edits never re-run these rules; only session load applies them.
*/
package reconcile

// OverrideRule is one named step of the load-time status override chain.
type OverrideRule struct {
	Name    string
	Applies func(*EditableRecord) bool
	Apply   func(*EditableRecord)
}

// DefaultOverrideRules returns the override chain in precedence order.
func DefaultOverrideRules() []OverrideRule {
	return []OverrideRule{
		{
			Name:    "holiday",
			Applies: func(r *EditableRecord) bool { return r.IsHoliday },
			Apply:   func(r *EditableRecord) { r.Status = StatusHoliday },
		},
		{
			Name:    "poya",
			Applies: func(r *EditableRecord) bool { return r.IsPoya },
			Apply:   func(r *EditableRecord) { r.Status = StatusPoya },
		},
		{
			Name:    "leave_conflict",
			Applies: func(r *EditableRecord) bool { return r.OnLeave },
			Apply:   func(r *EditableRecord) { r.Status = StatusLeave },
		},
	}
}

// ApplyOverrides runs the first matching rule against the record and returns
// the name of the rule applied, or "" when the ingested status stands.
func ApplyOverrides(rec *EditableRecord, rules []OverrideRule) string {
	for _, rule := range rules {
		if rule.Applies(rec) {
			rule.Apply(rec)
			return rule.Name
		}
	}
	return ""
}

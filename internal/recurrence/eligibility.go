package recurrence

import "time"

// ShouldGenerate decides whether the next occurrence of a rule should be
// materialized now. Rules short-circuit in order: hard bounds first, then
// the rolling lead-time window. A next-due date already in the past is
// still due.
func ShouldGenerate(r Rule, generated int64, today time.Time) (bool, error) {
	if r.EndDate != nil && DateOf(today).After(DateOf(*r.EndDate)) {
		return false, nil
	}
	if r.MaxOccurrences > 0 && generated >= int64(r.MaxOccurrences) {
		return false, nil
	}

	next, ok, err := NextDue(r)
	if err != nil || !ok {
		return false, err
	}

	// An unset window means same-day only; callers that carry a configured
	// default substitute it before evaluating.
	window := 0
	if r.LeadTimeDays != nil {
		window = *r.LeadTimeDays
	}
	return DaysBetween(today, next) <= window, nil
}

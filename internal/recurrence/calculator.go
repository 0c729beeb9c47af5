package recurrence

import "time"

// Next computes the first occurrence strictly after from.
// It is pure and deterministic; the second return is false when the
// computed date falls past the rule's end date.
func Next(r Rule, from time.Time) (time.Time, bool, error) {
	if err := r.Validate(); err != nil {
		return time.Time{}, false, err
	}

	from = DateOf(from)
	var next time.Time
	switch r.Frequency {
	case Daily:
		next = from.AddDate(0, 0, r.Interval)
	case Weekly:
		next = nextWeekly(r, from)
	case Monthly:
		next = nextMonthly(r, from)
	case Yearly:
		next = nextYearly(r, from)
	}

	if r.EndDate != nil && next.After(DateOf(*r.EndDate)) {
		return time.Time{}, false, nil
	}
	return next, true, nil
}

// NextDue computes the occurrence the rule should materialize next: the
// first one after the last generated date, or after the start date when
// nothing has been generated yet.
func NextDue(r Rule) (time.Time, bool, error) {
	ref := r.StartDate
	if r.LastGeneratedAt != nil {
		ref = *r.LastGeneratedAt
	}
	return Next(r, ref)
}

// NextOnOrAfter walks the rule's occurrences forward until one lands on or
// after the given date. The walk starts from the rule's own reference point,
// so interval phase is preserved: a rule due every third day stays anchored
// to its start date, not to the query date.
func NextOnOrAfter(r Rule, date time.Time) (time.Time, bool, error) {
	next, ok, err := NextDue(r)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	date = DateOf(date)
	for next.Before(date) {
		next, ok, err = Next(r, next)
		if err != nil || !ok {
			return time.Time{}, false, err
		}
	}
	return next, true, nil
}

func nextWeekly(r Rule, from time.Time) time.Time {
	if len(r.DaysOfWeek) > 0 {
		allowed := make(map[time.Weekday]bool, len(r.DaysOfWeek))
		for _, day := range r.DaysOfWeek {
			allowed[day] = true
		}
		for offset := 1; offset <= 7; offset++ {
			candidate := from.AddDate(0, 0, offset)
			if allowed[candidate.Weekday()] {
				return candidate
			}
		}
	}
	return from.AddDate(0, 0, 7*r.Interval)
}

// nextMonthly steps whole months by hand: AddDate would let Jan 31 roll
// over into March, while the rule wants clamping to the last day of the
// target month.
func nextMonthly(r Rule, from time.Time) time.Time {
	year, month := from.Year(), int(from.Month())
	month += r.Interval
	year += (month - 1) / 12
	month = (month-1)%12 + 1

	day := r.DayOfMonth
	if day == 0 {
		day = from.Day()
	}
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func nextYearly(r Rule, from time.Time) time.Time {
	year := from.Year() + r.Interval
	day := from.Day()
	if last := daysInMonth(year, from.Month()); day > last {
		day = last
	}
	return time.Date(year, from.Month(), day, 0, 0, 0, 0, time.UTC)
}

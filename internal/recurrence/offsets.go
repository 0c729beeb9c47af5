package recurrence

// Offsets configures on which days before a due date a reminder fires.
type Offsets struct {
	SameDay    bool
	DayBefore  bool
	WeekBefore bool
	CustomDays []int
}

// Matches reports whether a reminder with these offsets triggers when the
// next occurrence is daysUntilDue away.
func (o Offsets) Matches(daysUntilDue int) bool {
	if o.SameDay && daysUntilDue == 0 {
		return true
	}
	if o.DayBefore && daysUntilDue == 1 {
		return true
	}
	if o.WeekBefore && daysUntilDue == 7 {
		return true
	}
	for _, days := range o.CustomDays {
		if days == daysUntilDue {
			return true
		}
	}
	return false
}

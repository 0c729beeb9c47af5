package model

import "time"

// Patch structs carry partial updates with nil meaning "leave unchanged".
// Fields are applied by name so partial updates stay type-checked.

type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
}

type RecurrencePatch struct {
	Frequency      *string
	Interval       *int
	DaysOfWeek     *string
	DayOfMonth     *int
	StartDate      *time.Time
	EndDate        *time.Time
	MaxOccurrences *int
	LeadTimeDays   *int
}

// Apply mutates the spec and reports whether the pattern itself changed,
// in which case the caller must reset the generation bookkeeping.
func (p RecurrencePatch) Apply(s *RecurrenceSpec) bool {
	changed := false
	if p.Frequency != nil && *p.Frequency != s.Frequency {
		s.Frequency = *p.Frequency
		changed = true
	}
	if p.Interval != nil && *p.Interval != s.Interval {
		s.Interval = *p.Interval
		changed = true
	}
	if p.DaysOfWeek != nil && *p.DaysOfWeek != s.DaysOfWeek {
		s.DaysOfWeek = *p.DaysOfWeek
		changed = true
	}
	if p.DayOfMonth != nil {
		s.DayOfMonth = p.DayOfMonth
		changed = true
	}
	if p.StartDate != nil && !p.StartDate.Equal(s.StartDate) {
		s.StartDate = *p.StartDate
		changed = true
	}
	if p.EndDate != nil {
		s.EndDate = p.EndDate
		changed = true
	}
	if p.MaxOccurrences != nil {
		s.MaxOccurrences = p.MaxOccurrences
		changed = true
	}
	if p.LeadTimeDays != nil && (s.LeadTimeDays == nil || *p.LeadTimeDays != *s.LeadTimeDays) {
		s.LeadTimeDays = p.LeadTimeDays
		changed = true
	}
	return changed
}

package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldGenerateLeadTimeWindow(t *testing.T) {
	today := date(2025, time.March, 10)

	// Next occurrence lands on March 12, two days out.
	rule := Rule{
		Frequency:       Daily,
		Interval:        2,
		StartDate:       date(2025, time.March, 1),
		LeadTimeDays:    intPtr(3),
		LastGeneratedAt: datePtr(2025, time.March, 10),
	}

	ok, err := ShouldGenerate(rule, 0, today)
	require.NoError(t, err)
	assert.True(t, ok, "due in 2 days with a 3 day window")

	// Five days out misses the window.
	rule.Interval = 5
	ok, err = ShouldGenerate(rule, 0, today)
	require.NoError(t, err)
	assert.False(t, ok, "due in 5 days with a 3 day window")

	// Exactly on the boundary still generates.
	rule.Interval = 3
	ok, err = ShouldGenerate(rule, 0, today)
	require.NoError(t, err)
	assert.True(t, ok, "due in exactly leadTimeDays")

	// One past the boundary does not.
	rule.Interval = 4
	ok, err = ShouldGenerate(rule, 0, today)
	require.NoError(t, err)
	assert.False(t, ok, "due in leadTimeDays+1")
}

func TestShouldGenerateUnsetWindowIsSameDayOnly(t *testing.T) {
	rule := Rule{
		Frequency:       Daily,
		Interval:        2,
		StartDate:       date(2025, time.March, 1),
		LastGeneratedAt: datePtr(2025, time.March, 10),
	}

	ok, err := ShouldGenerate(rule, 0, date(2025, time.March, 10))
	require.NoError(t, err)
	assert.False(t, ok, "due in 2 days with no window")

	ok, err = ShouldGenerate(rule, 0, date(2025, time.March, 12))
	require.NoError(t, err)
	assert.True(t, ok, "due today")
}

func TestShouldGeneratePastDueIsStillDue(t *testing.T) {
	rule := Rule{
		Frequency:    Daily,
		Interval:     1,
		StartDate:    date(2025, time.January, 1),
		LeadTimeDays: intPtr(0),
	}

	ok, err := ShouldGenerate(rule, 0, date(2025, time.February, 1))
	require.NoError(t, err)
	assert.True(t, ok, "a next-due date in the past returns true")
}

func TestShouldGenerateMaxOccurrencesIsAHardStop(t *testing.T) {
	rule := Rule{
		Frequency:      Daily,
		Interval:       1,
		StartDate:      date(2025, time.January, 1),
		LeadTimeDays:   intPtr(30),
		MaxOccurrences: 3,
	}
	today := date(2025, time.January, 2)

	ok, err := ShouldGenerate(rule, 2, today)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ShouldGenerate(rule, 3, today)
	require.NoError(t, err)
	assert.False(t, ok, "cap reached regardless of dates")

	ok, err = ShouldGenerate(rule, 4, today)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShouldGenerateEndDateIsAHardStop(t *testing.T) {
	rule := Rule{
		Frequency:    Daily,
		Interval:     1,
		StartDate:    date(2025, time.January, 1),
		EndDate:      datePtr(2025, time.January, 31),
		LeadTimeDays: intPtr(10),
	}

	exhausted := rule
	exhausted.LastGeneratedAt = datePtr(2025, time.January, 31)
	ok, err := ShouldGenerate(exhausted, 0, date(2025, time.January, 31))
	require.NoError(t, err)
	assert.False(t, ok, "computed occurrence would land past the end date")

	ok, err = ShouldGenerate(rule, 0, date(2025, time.February, 1))
	require.NoError(t, err)
	assert.False(t, ok, "today past the end date")

	ok, err = ShouldGenerate(rule, 0, date(2025, time.January, 15))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShouldGenerateSurfacesInvalidRules(t *testing.T) {
	rule := Rule{Frequency: Weekly, Interval: 1, DayOfMonth: 5, StartDate: date(2025, time.January, 1)}

	_, err := ShouldGenerate(rule, 0, date(2025, time.January, 2))
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestOffsetsMatches(t *testing.T) {
	tests := []struct {
		name    string
		offsets Offsets
		days    int
		want    bool
	}{
		{"same day", Offsets{SameDay: true}, 0, true},
		{"same day only ignores tomorrow", Offsets{SameDay: true}, 1, false},
		{"day before", Offsets{DayBefore: true}, 1, true},
		{"week before", Offsets{WeekBefore: true}, 7, true},
		{"custom offset", Offsets{CustomDays: []int{3, 14}}, 14, true},
		{"custom offset miss", Offsets{CustomDays: []int{3, 14}}, 5, false},
		{"nothing configured", Offsets{}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.offsets.Matches(tc.days))
		})
	}
}

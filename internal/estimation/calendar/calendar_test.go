package calendar

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWorkingDaysInclusive(t *testing.T) {
	malaysia, err := ParseHolidaySet("abmy", 1, []string{"2025-01-29", "2025-01-30", "2025-02-01"})
	require.NoError(t, err)
	none := NewHolidaySet("ABMY", 0)

	tests := []struct {
		name     string
		start    string
		end      string
		holidays HolidaySet
		want     int
	}{
		{name: "single weekday", start: "2025-01-06", end: "2025-01-06", holidays: none, want: 1},
		{name: "single saturday", start: "2025-01-04", end: "2025-01-04", holidays: none, want: 0},
		{name: "single sunday", start: "2025-01-05", end: "2025-01-05", holidays: none, want: 0},
		{name: "end before start", start: "2025-01-10", end: "2025-01-06", holidays: none, want: 0},
		{name: "one full week", start: "2025-01-06", end: "2025-01-12", holidays: none, want: 5},
		{name: "two weeks plus a day", start: "2025-01-06", end: "2025-01-20", holidays: none, want: 11},
		{name: "weekday holidays removed, weekend holiday ignored", start: "2025-01-27", end: "2025-02-02", holidays: malaysia, want: 3},
		{name: "holiday outside range ignored", start: "2025-01-06", end: "2025-01-10", holidays: malaysia, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkingDaysInclusive(date(t, tt.start), date(t, tt.end), tt.holidays)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkingDaysInclusive_MatchesDayByDayCount(t *testing.T) {
	holidays, err := ParseHolidaySet("ABSG", 1, []string{"2025-05-01", "2025-06-07", "2025-08-09", "2025-10-20"})
	require.NoError(t, err)

	start := date(t, "2025-04-28")
	for span := 0; span < 200; span += 7 {
		end := start.AddDate(0, 0, span)
		want := 0
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if IsWorkingDay(d, holidays) {
				want++
			}
		}
		assert.Equal(t, want, WorkingDaysInclusive(start, end, holidays), "span %d", span)
	}
}

func TestNextWorkingDay(t *testing.T) {
	holidays, err := ParseHolidaySet("ABVN", 1, []string{"2025-09-01", "2025-09-02"})
	require.NoError(t, err)

	tests := []struct {
		name string
		from string
		want string
	}{
		{name: "working day is returned as is", from: "2025-09-03", want: "2025-09-03"},
		{name: "saturday rolls to monday", from: "2025-01-04", want: "2025-01-06"},
		{name: "weekend followed by holidays", from: "2025-08-30", want: "2025-09-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextWorkingDay(date(t, tt.from), holidays)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDate(got))
		})
	}
}

func TestNextWorkingDay_Bounded(t *testing.T) {
	start := date(t, "2025-01-01")
	var all []time.Time
	for i := 0; i < 400; i++ {
		all = append(all, start.AddDate(0, 0, i))
	}
	holidays := NewHolidaySet("XX", 1, all...)

	_, err := NextWorkingDay(start, holidays)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoWorkingDay))
}

func TestNthWorkingDay(t *testing.T) {
	none := NewHolidaySet("ABMY", 0)

	got, err := NthWorkingDay(date(t, "2025-01-06"), 5, none)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", FormatDate(got))

	got, err = NthWorkingDay(date(t, "2025-01-04"), 6, none)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-13", FormatDate(got))

	_, err = NthWorkingDay(date(t, "2025-01-06"), 0, none)
	assert.Error(t, err)
}

func TestResolver_MemoizesPerVersion(t *testing.T) {
	v1, err := ParseHolidaySet("ABMY", 1, []string{"2025-01-08"})
	require.NoError(t, err)
	r := NewResolver(v1)

	start, end := date(t, "2025-01-06"), date(t, "2025-01-10")
	assert.Equal(t, 4, r.WorkingDays("abmy", start, end))
	assert.Equal(t, 5, r.WorkingDays("ABSG", start, end), "unknown region has no holidays")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 4, r.WorkingDays("ABMY", start, end))
		}()
	}
	wg.Wait()

	r2, err := NewResolverFromDates(2, map[string][]string{"abmy": {"2025-01-08", "2025-01-09"}})
	require.NoError(t, err)
	assert.Equal(t, 3, r2.WorkingDays("ABMY", start, end))
	assert.Equal(t, 2, r2.Holidays("ABMY").Version)
}

func TestResolver_MemoBounded(t *testing.T) {
	r := NewResolver()
	r.memoLimit = 3

	start := date(t, "2025-01-06")
	for i := 0; i < 10; i++ {
		assert.Equal(t, i/7*5+min(i%7, 4)+1, r.WorkingDays("ABMY", start, start.AddDate(0, 0, i)))
		r.mu.RLock()
		assert.LessOrEqual(t, len(r.cache), 3)
		r.mu.RUnlock()
	}
}

func TestParseHolidaySet_Invalid(t *testing.T) {
	_, err := ParseHolidaySet("ABMY", 1, []string{"31/12/2025"})
	assert.Error(t, err)
}

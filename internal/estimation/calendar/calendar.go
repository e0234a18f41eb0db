// Package calendar counts working days and shifts dates past weekends and
// region holidays.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// maxScanDays bounds NextWorkingDay. A year of holidays plus a weekend always fits.
const maxScanDays = 366 + 7

// defaultMemoLimit caps the Resolver range memo; a full memo is dropped wholesale.
const defaultMemoLimit = 4096

var ErrNoWorkingDay = errors.New("calendar: no working day within scan bound")

// HolidaySet is an immutable, versioned set of holiday dates for one region.
type HolidaySet struct {
	Region  string
	Version int
	dates   map[time.Time]struct{}
}

// NewHolidaySet builds a set from arbitrary instants; only the calendar date is kept.
func NewHolidaySet(region string, version int, dates ...time.Time) HolidaySet {
	set := HolidaySet{
		Region:  strings.ToUpper(strings.TrimSpace(region)),
		Version: version,
		dates:   make(map[time.Time]struct{}, len(dates)),
	}
	for _, d := range dates {
		set.dates[Truncate(d)] = struct{}{}
	}
	return set
}

// ParseHolidaySet builds a set from YYYY-MM-DD strings.
func ParseHolidaySet(region string, version int, dates []string) (HolidaySet, error) {
	parsed := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := time.Parse(DateLayout, strings.TrimSpace(s))
		if err != nil {
			return HolidaySet{}, fmt.Errorf("holiday %q for region %s: %w", s, region, err)
		}
		parsed = append(parsed, d)
	}
	return NewHolidaySet(region, version, parsed...), nil
}

// Contains reports whether t's calendar date is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h.dates[Truncate(t)]
	return ok
}

func (h HolidaySet) Len() int { return len(h.dates) }

// Dates returns the holidays in ascending order.
func (h HolidaySet) Dates() []time.Time {
	out := make([]time.Time, 0, len(h.dates))
	for d := range h.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Truncate drops the clock and location, keeping the calendar date as UTC midnight.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Truncate(t).Format(DateLayout)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkingDay reports whether t is neither a weekend day nor a holiday.
func IsWorkingDay(t time.Time, holidays HolidaySet) bool {
	return !isWeekend(t) && !holidays.Contains(t)
}

// WorkingDaysInclusive counts working days in [start, end]. end before start yields 0.
func WorkingDaysInclusive(start, end time.Time, holidays HolidaySet) int {
	start, end = Truncate(start), Truncate(end)
	if end.Before(start) {
		return 0
	}

	days := int(end.Sub(start).Hours()/24) + 1
	count := (days / 7) * 5
	cursor := start.AddDate(0, 0, (days/7)*7)
	for ; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		if !isWeekend(cursor) {
			count++
		}
	}

	for d := range holidays.dates {
		if !d.Before(start) && !d.After(end) && !isWeekend(d) {
			count--
		}
	}
	return count
}

// NextWorkingDay returns date itself when it is a working day, otherwise the
// first working day after it.
func NextWorkingDay(date time.Time, holidays HolidaySet) (time.Time, error) {
	d := Truncate(date)
	for i := 0; i <= maxScanDays; i++ {
		if IsWorkingDay(d, holidays) {
			return d, nil
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("%w: from %s in region %s", ErrNoWorkingDay, FormatDate(date), holidays.Region)
}

// NthWorkingDay returns the n-th working day counting from start, where start
// itself counts as the first when it is a working day. n must be at least 1.
func NthWorkingDay(start time.Time, n int, holidays HolidaySet) (time.Time, error) {
	if n < 1 {
		return time.Time{}, fmt.Errorf("calendar: n must be >= 1, got %d", n)
	}
	d, err := NextWorkingDay(start, holidays)
	if err != nil {
		return time.Time{}, err
	}
	for remaining := n - 1; remaining > 0; remaining-- {
		d, err = NextWorkingDay(d.AddDate(0, 0, 1), holidays)
		if err != nil {
			return time.Time{}, err
		}
	}
	return d, nil
}

type memoKey struct {
	start, end time.Time
	region     string
	version    int
}

// Resolver holds holiday sets per region and memoizes range counts.
// It is safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	sets      map[string]HolidaySet
	cache     map[memoKey]int
	memoLimit int
}

func NewResolver(sets ...HolidaySet) *Resolver {
	r := &Resolver{
		sets:      make(map[string]HolidaySet, len(sets)),
		cache:     make(map[memoKey]int),
		memoLimit: defaultMemoLimit,
	}
	for _, s := range sets {
		r.sets[s.Region] = s
	}
	return r
}

// NewResolverFromDates parses a region -> YYYY-MM-DD list table.
func NewResolverFromDates(version int, holidays map[string][]string) (*Resolver, error) {
	sets := make([]HolidaySet, 0, len(holidays))
	for region, dates := range holidays {
		set, err := ParseHolidaySet(region, version, dates)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return NewResolver(sets...), nil
}

// Holidays returns the set for region, or an empty set when none is configured.
func (r *Resolver) Holidays(region string) HolidaySet {
	key := strings.ToUpper(strings.TrimSpace(region))
	r.mu.RLock()
	set, ok := r.sets[key]
	r.mu.RUnlock()
	if !ok {
		return NewHolidaySet(key, 0)
	}
	return set
}

// WorkingDays is WorkingDaysInclusive against region's holidays, memoized per
// (start, end, region, holiday set version).
func (r *Resolver) WorkingDays(region string, start, end time.Time) int {
	set := r.Holidays(region)
	key := memoKey{start: Truncate(start), end: Truncate(end), region: set.Region, version: set.Version}

	r.mu.RLock()
	n, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return n
	}

	n = WorkingDaysInclusive(start, end, set)
	r.mu.Lock()
	if len(r.cache) >= r.memoLimit {
		r.cache = make(map[memoKey]int)
	}
	r.cache[key] = n
	r.mu.Unlock()
	return n
}

func (r *Resolver) NextWorkingDay(region string, date time.Time) (time.Time, error) {
	return NextWorkingDay(date, r.Holidays(region))
}

func (r *Resolver) NthWorkingDay(region string, start time.Time, n int) (time.Time, error) {
	return NthWorkingDay(start, n, r.Holidays(region))
}

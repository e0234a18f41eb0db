// Package schedule lays phases out back to back on a regional working-day
// calendar.
package schedule

import (
	"fmt"
	"math"
	"time"

	"estimate-workers/internal/estimation/calendar"
	"estimate-workers/internal/models"
)

// workingDaysPerWeek converts phase duration in weeks to working days.
const workingDaysPerWeek = 5

// Calendar is the subset of the calendar resolver the regenerator needs.
type Calendar interface {
	NextWorkingDay(region string, date time.Time) (time.Time, error)
	NthWorkingDay(region string, start time.Time, n int) (time.Time, error)
	WorkingDays(region string, start, end time.Time) int
}

// Regenerate returns a copy of phases with StartDate/EndDate assigned. The first
// phase starts on the first working day on or after start. Each phase spans
// ceil(duration × 5) working days and the next phase starts on the following
// working day. Phases with no duration occupy a single day. Each dated phase
// records the working days its range covers.
func Regenerate(phases []models.Phase, start time.Time, region string, cal Calendar) ([]models.Phase, error) {
	out := make([]models.Phase, len(phases))
	cursor, err := cal.NextWorkingDay(region, start)
	if err != nil {
		return nil, err
	}

	for i, p := range phases {
		days := int(math.Ceil(p.Duration * workingDaysPerWeek))
		if days < 1 {
			days = 1
		}
		end, err := cal.NthWorkingDay(region, cursor, days)
		if err != nil {
			return nil, fmt.Errorf("phase %s: %w", p.ID, err)
		}

		dated := p.Clone()
		dated.StartDate = calendar.FormatDate(cursor)
		dated.EndDate = calendar.FormatDate(end)
		dated.WorkingDays = cal.WorkingDays(region, cursor, end)
		out[i] = dated

		cursor, err = cal.NextWorkingDay(region, end.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("phase %s: %w", p.ID, err)
		}
	}
	return out, nil
}

// TotalWorkingDays sums the working days of dated phases.
func TotalWorkingDays(phases []models.Phase) int {
	total := 0
	for _, p := range phases {
		total += p.WorkingDays
	}
	return total
}

// Span returns the first start and last end date, or empty strings for no phases.
func Span(phases []models.Phase) (start, end string) {
	if len(phases) == 0 {
		return "", ""
	}
	return phases[0].StartDate, phases[len(phases)-1].EndDate
}

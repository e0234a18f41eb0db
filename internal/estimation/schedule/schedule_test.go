package schedule

import (
	"testing"
	"time"

	"estimate-workers/internal/estimation/calendar"
	"estimate-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestRegenerate_SequentialPhases(t *testing.T) {
	// 2025-03-01 is a Saturday.
	resolver, err := calendar.NewResolverFromDates(1, map[string][]string{
		"ABMY": {"2025-03-31", "2025-04-01"},
	})
	require.NoError(t, err)

	phases := []models.Phase{
		{ID: "prepare", Name: "Prepare", Effort: 10, Duration: 1},
		{ID: "explore", Name: "Explore", Effort: 20, Duration: 3.1},
		{ID: "empty", Name: "Empty"},
	}

	out, err := Regenerate(phases, mustDate(t, "2025-03-01"), "abmy", resolver)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "2025-03-03", out[0].StartDate)
	assert.Equal(t, "2025-03-07", out[0].EndDate)
	assert.Equal(t, 5, out[0].WorkingDays)

	// 16 working days from Mar 10, skipping the Mar 31 and Apr 1 holidays.
	assert.Equal(t, "2025-03-10", out[1].StartDate)
	assert.Equal(t, "2025-04-02", out[1].EndDate)
	assert.Equal(t, 16, out[1].WorkingDays)

	assert.Equal(t, "2025-04-03", out[2].StartDate)
	assert.Equal(t, "2025-04-03", out[2].EndDate)
	assert.Equal(t, 1, out[2].WorkingDays)
	assert.Equal(t, 22, TotalWorkingDays(out))

	assert.Empty(t, phases[0].StartDate)

	start, end := Span(out)
	assert.Equal(t, "2025-03-03", start)
	assert.Equal(t, "2025-04-03", end)
}

func TestRegenerate_Empty(t *testing.T) {
	out, err := Regenerate(nil, mustDate(t, "2025-03-03"), "ABMY", calendar.NewResolver())
	require.NoError(t, err)
	assert.Empty(t, out)

	start, end := Span(out)
	assert.Empty(t, start)
	assert.Empty(t, end)
}

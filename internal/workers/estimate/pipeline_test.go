package estimate_test

import (
	"context"
	"strings"
	"testing"

	"estimate-workers/internal/common/config"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/estimation/formula"
	"estimate-workers/internal/models"
	effort "estimate-workers/internal/workers/estimate/calculate-effort-estimate"
	profile "estimate-workers/internal/workers/estimate/derive-estimate-profile"
	timeline "estimate-workers/internal/workers/estimate/generate-timeline"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the three estimate workers in process order, passing each output on as
// the next input the way the BPMN process maps variables.
func TestEstimatePipeline(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)
	app := &config.Config{
		Calendar: config.CalendarConfig{
			Version:  1,
			Holidays: map[string][]string{"ABMY": {"2025-03-31", "2025-04-01"}},
		},
	}

	profileHandler, err := profile.NewHandler(profile.HandlerOptions{AppConfig: app, Logger: log})
	require.NoError(t, err)
	effortHandler, err := effort.NewHandler(effort.HandlerOptions{AppConfig: app, Logger: log})
	require.NoError(t, err)
	timelineHandler, err := timeline.NewHandler(timeline.HandlerOptions{AppConfig: app, Logger: log})
	require.NoError(t, err)

	derived, err := profileHandler.Execute(ctx, &profile.Input{
		ProjectID: "p-42",
		Chips: []models.Chip{
			{Category: "country", Value: "Malaysia"},
			{Category: "employees", Value: "1,200"},
			{Category: "legal_entities", Value: float64(12)},
		},
		Decision: &models.Decision{ModuleCombo: models.ModuleFullSuite},
	})
	require.NoError(t, err)
	assert.Equal(t, "ABMY", derived.Profile.Region)
	assert.Equal(t, 1.8, derived.ComplexityMultiplier)
	assert.True(t, strings.HasPrefix(derived.AdjustmentReason, "Medium-high complexity"), derived.AdjustmentReason)

	scenario := formula.Inputs{
		CustomForms:   10,
		FitToStandard: 1,
		LegalEntities: 1,
		Countries:     1,
		Languages:     1,
		Profile:       formula.Profile{Name: "std", BaseFT: 100, Basis: 20, SecurityAuth: 10},
		FTE:           1,
		Utilization:   1,
	}
	estimate, err := effortHandler.Execute(ctx, &effort.Input{ProjectID: "p-42", Scenario: &scenario})
	require.NoError(t, err)
	require.Len(t, estimate.Phases, 5)

	scaled, err := timelineHandler.Execute(ctx, &timeline.Input{
		ProjectID:            "p-42",
		Region:               derived.Profile.Region,
		StartDate:            "2025-03-03",
		Phases:               estimate.Phases,
		ComplexityMultiplier: derived.ComplexityMultiplier,
		AdjustmentReason:     derived.AdjustmentReason,
	})
	require.NoError(t, err)
	assert.True(t, scaled.Scaled)
	assert.True(t, scaled.DatesRegenerated)
	require.Len(t, scaled.Phases, len(estimate.Phases))
	assert.Equal(t, "2025-03-03", scaled.StartDate)

	for i, p := range scaled.Phases {
		base := estimate.Phases[i]
		assert.Equal(t, scaledCeil(base.Effort, 1.8), p.Effort, p.ID)
		assert.Equal(t, scaledCeil(base.Duration, 1.8), p.Duration, p.ID)
		assert.Equal(t, base.Effort, p.Metadata[models.MetaOriginalEffort], p.ID)
		require.NotEmpty(t, p.StartDate)
		require.NotEmpty(t, p.EndDate)
		if i > 0 {
			assert.Greater(t, p.StartDate, scaled.Phases[i-1].EndDate, p.ID)
		}
	}
	assert.Equal(t, scaled.Phases[len(scaled.Phases)-1].EndDate, scaled.EndDate)

	// Feeding the scaled state back with the same multiplier must not compound.
	again, err := timelineHandler.Execute(ctx, &timeline.Input{
		ProjectID:            "p-42",
		Region:               derived.Profile.Region,
		StartDate:            "2025-03-03",
		Phases:               scaled.Phases,
		ComplexityMultiplier: derived.ComplexityMultiplier,
		AdjustmentReason:     derived.AdjustmentReason,
	})
	require.NoError(t, err)
	assert.Equal(t, scaled.TotalEffort, again.TotalEffort)
	assert.Equal(t, scaled.EndDate, again.EndDate)
}

func scaledCeil(v, m float64) float64 {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromFloat(m)).Ceil().InexactFloat64()
}

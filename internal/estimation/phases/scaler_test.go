package phases

import (
	"encoding/json"
	"testing"

	"estimate-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baselinePhases() []models.Phase {
	return []models.Phase{
		{ID: "prepare", Name: "Prepare", Effort: 40, Duration: 8, Metadata: map[string]interface{}{"owner": "pmo"}},
		{ID: "explore", Name: "Explore", Effort: 12.5, Duration: 3},
		{ID: "empty", Name: "Empty", Effort: 0, Duration: 0},
	}
}

func TestScale_NoOpAtOrBelowOne(t *testing.T) {
	for _, m := range []float64{1.0, 0.5, 0, -2} {
		in := baselinePhases()
		out, changed := Scale(in, Adjustment{Multiplier: m, Reason: "Standard complexity"})
		assert.False(t, changed)
		assert.Equal(t, baselinePhases(), out)
		assert.NotContains(t, out[0].Metadata, models.MetaOriginalEffort)
	}
}

func TestScale_CeilAndProvenance(t *testing.T) {
	in := baselinePhases()
	reason := "High complexity: 12 legal entities"

	out, changed := Scale(in, Adjustment{Multiplier: 2.6, Reason: reason})
	require.True(t, changed)
	require.Len(t, out, 3)

	assert.Equal(t, 104.0, out[0].Effort)
	assert.Equal(t, 21.0, out[0].Duration)
	assert.Equal(t, 40.0, out[0].Metadata[models.MetaOriginalEffort])
	assert.Equal(t, 8.0, out[0].Metadata[models.MetaOriginalDuration])
	assert.Equal(t, 2.6, out[0].Metadata[models.MetaComplexityMultiplier])
	assert.Equal(t, reason, out[0].Metadata[models.MetaAdjustmentReason])
	assert.Equal(t, "pmo", out[0].Metadata["owner"])

	assert.Equal(t, 33.0, out[1].Effort)
	assert.Equal(t, 8.0, out[1].Duration)

	assert.Equal(t, 0.0, out[2].Effort)
	assert.Equal(t, 0.0, out[2].Duration)

	// input untouched
	assert.Equal(t, 40.0, in[0].Effort)
	assert.NotContains(t, in[0].Metadata, models.MetaOriginalEffort)
}

func TestScale_DoesNotCompound(t *testing.T) {
	first, _ := Scale(baselinePhases(), Adjustment{Multiplier: 2.6, Reason: "r"})
	second, changed := Scale(first, Adjustment{Multiplier: 2.6, Reason: "r"})
	require.True(t, changed)
	assert.Equal(t, first, second)

	lower, _ := Scale(first, Adjustment{Multiplier: 1.3, Reason: "Medium complexity: 7 locations"})
	assert.Equal(t, 52.0, lower[0].Effort)
	assert.Equal(t, 11.0, lower[0].Duration)
	assert.Equal(t, 40.0, lower[0].Metadata[models.MetaOriginalEffort])
}

func TestScale_DropToOneRestoresBaseline(t *testing.T) {
	first, _ := Scale(baselinePhases(), Adjustment{Multiplier: 2.6, Reason: "r"})
	mixed := append(first[:2:2], models.Phase{ID: "run", Name: "Run", Effort: 7, Duration: 2})

	for _, m := range []float64{1.0, 0.8} {
		out, changed := Scale(mixed, Adjustment{Multiplier: m, Reason: "Standard complexity"})
		require.True(t, changed)
		require.Len(t, out, 3)

		assert.Equal(t, 40.0, out[0].Effort)
		assert.Equal(t, 8.0, out[0].Duration)
		assert.NotContains(t, out[0].Metadata, models.MetaComplexityMultiplier)
		assert.NotContains(t, out[0].Metadata, models.MetaOriginalEffort)
		assert.Equal(t, "pmo", out[0].Metadata["owner"])

		assert.Equal(t, 12.5, out[1].Effort)
		assert.Equal(t, 3.0, out[1].Duration)

		// never scaled, left as is
		assert.Equal(t, mixed[2], out[2])
	}

	// input untouched
	assert.Equal(t, 104.0, mixed[0].Effort)
	assert.Equal(t, 2.6, mixed[0].Metadata[models.MetaComplexityMultiplier])
}

func TestScale_BaselineSurvivesJSONRoundTrip(t *testing.T) {
	scaled, _ := Scale(baselinePhases(), Adjustment{Multiplier: 1.8, Reason: "r"})

	raw, err := json.Marshal(scaled)
	require.NoError(t, err)
	var decoded []models.Phase
	require.NoError(t, json.Unmarshal(raw, &decoded))

	effort, duration := Baseline(decoded[0])
	assert.Equal(t, 40.0, effort)
	assert.Equal(t, 8.0, duration)

	again, _ := Scale(decoded, Adjustment{Multiplier: 1.8, Reason: "r"})
	assert.Equal(t, 72.0, again[0].Effort)
	assert.Equal(t, 15.0, again[0].Duration)
}

func TestReset(t *testing.T) {
	scaled, _ := Scale(baselinePhases(), Adjustment{Multiplier: 2.0, Reason: "r"})
	reset := Reset(scaled)
	assert.Equal(t, 40.0, reset[0].Effort)
	assert.Equal(t, 8.0, reset[0].Duration)
	assert.Equal(t, map[string]interface{}{"owner": "pmo"}, reset[0].Metadata)
}

func TestScaleState(t *testing.T) {
	state := ProjectState{ProjectID: "proj-1", Phases: baselinePhases()}

	same, changed := ScaleState(state, Adjustment{Multiplier: 1.0})
	assert.False(t, changed)
	assert.Equal(t, state, same)

	scaled, changed := ScaleState(state, Adjustment{Multiplier: 1.5, Reason: "r"})
	assert.True(t, changed)
	assert.Equal(t, "proj-1", scaled.ProjectID)
	assert.Equal(t, 60.0, scaled.Phases[0].Effort)

	effort, duration := Totals(scaled.Phases)
	assert.Equal(t, 60.0+19.0, effort)
	assert.Equal(t, 12.0+5.0, duration)
}

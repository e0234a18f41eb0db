package formula

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func simpleInputs() Inputs {
	return Inputs{
		CustomForms:   10,
		FitToStandard: 1.0,
		LegalEntities: 1,
		Countries:     1,
		Languages:     1,
		Profile:       Profile{Name: "std", BaseFT: 100, Basis: 20, SecurityAuth: 10},
		FTE:           1,
		Utilization:   1,
		OverlapFactor: 1,
	}
}

func TestCoefficients(t *testing.T) {
	c := DefaultConstants

	items := []ScopeItem{
		{Code: "J58", Coefficient: 0.1, DefaultTier: "A"},
		{Code: "BD9", Coefficient: 0.5, DefaultTier: "D"},
	}
	assert.InDelta(t, 0.2, c.ScopeBreadth(items, 5), 1e-9)
	assert.InDelta(t, 0.0, c.ScopeBreadth([]ScopeItem{{Coefficient: -3}}, 0), 1e-9)

	assert.InDelta(t, 0.1, c.ProcessComplexity(15, 0.8), 1e-9)
	assert.InDelta(t, 0.0, c.ProcessComplexity(4, 1.2), 1e-9)

	assert.InDelta(t, 0.11, c.OrgScale(3, 2, 0), 1e-9)
	assert.InDelta(t, 0.0, c.OrgScale(1, 1, 1), 1e-9)
}

func TestCalculate_PMOConverges(t *testing.T) {
	r, err := DefaultConstants.Calculate(simpleInputs())
	require.NoError(t, err)

	assert.Equal(t, 20.0, r.CapacityPerMonth)
	assert.InDelta(t, 100.0, r.Intermediate.FunctionalEffort, 1e-9)
	assert.InDelta(t, 30.0, r.Intermediate.FixedEffort, 1e-9)
	assert.InDelta(t, 6.5, r.Intermediate.RawDuration, 1e-9)

	assert.Equal(t, 10, r.PMOIterations)
	assert.InDelta(t, 12.99365234375, r.DurationMonths, 1e-9)
	assert.InDelta(t, 129.873046875, r.PMOMD, 1e-9)
	assert.InDelta(t, 259.873046875, r.TotalMD, 1e-9)

	require.Len(t, r.Phases, 5)
	assert.Equal(t, "Realize", r.Phases[2].Name)
	assert.InDelta(t, r.TotalMD*0.5, r.Phases[2].EffortMD, 1e-9)

	var sum float64
	for _, p := range r.Phases {
		sum += p.EffortMD
	}
	assert.InDelta(t, r.TotalMD, sum, 1e-6)
}

func TestCalculate_StopsEarlyWhenStable(t *testing.T) {
	c := DefaultConstants
	c.PMOMonthlyRate = 0
	r, err := c.Calculate(simpleInputs())
	require.NoError(t, err)
	assert.Equal(t, 1, r.PMOIterations)
	assert.InDelta(t, 6.5, r.DurationMonths, 1e-9)
	assert.InDelta(t, 130.0, r.TotalMD, 1e-9)
}

func TestCalculate_NonPositiveCapacity(t *testing.T) {
	for _, mutate := range []func(*Inputs){
		func(in *Inputs) { in.FTE = 0 },
		func(in *Inputs) { in.Utilization = 0 },
		func(in *Inputs) { in.FTE = -1 },
	} {
		in := simpleInputs()
		mutate(&in)
		_, err := DefaultConstants.Calculate(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNonPositiveCapacity))
	}
}

func TestCalculateBatch_SkipsInvalid(t *testing.T) {
	bad := simpleInputs()
	bad.FTE = 0
	inputs := []Inputs{simpleInputs(), bad, simpleInputs()}

	results, skipped, err := DefaultConstants.CalculateBatch(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, skipped)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
	assert.Equal(t, results[0].Result, results[1].Result)
}

func TestCalculateBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := DefaultConstants.CalculateBatch(ctx, []Inputs{simpleInputs()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToPhases(t *testing.T) {
	r, err := DefaultConstants.Calculate(simpleInputs())
	require.NoError(t, err)

	phases := ToPhases(r)
	require.Len(t, phases, 5)
	assert.Equal(t, "prepare", phases[0].ID)
	assert.Equal(t, 26.0, phases[0].Effort)
	assert.Equal(t, 6.0, phases[0].Duration)
	assert.Equal(t, "formula", phases[0].Metadata["source"])
	assert.Equal(t, 1.3, phases[0].Metadata["durationMonths"])
}

func TestPhaseWeightsFromMap(t *testing.T) {
	w := PhaseWeightsFromMap(map[string]float64{"realize": 0.6, "PREPARE": 0.1})
	require.Len(t, w, 5)
	assert.Equal(t, PhaseWeight{Name: "Prepare", Weight: 0.1}, w[0])
	assert.Equal(t, PhaseWeight{Name: "Explore", Weight: 0}, w[1])
	assert.Equal(t, PhaseWeight{Name: "Realize", Weight: 0.6}, w[2])
}

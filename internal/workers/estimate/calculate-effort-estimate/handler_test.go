package calculateeffortestimate

import (
	"context"
	"encoding/json"
	"testing"

	"estimate-workers/internal/common/config"
	stderrors "estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/estimation/formula"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "estimate-process",
		ElementId:          "Activity_CalculateEffort",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func scenario() formula.Inputs {
	return formula.Inputs{
		CustomForms:   10,
		FitToStandard: 1,
		LegalEntities: 1,
		Countries:     1,
		Languages:     1,
		Profile:       formula.Profile{Name: "std", BaseFT: 100, Basis: 20, SecurityAuth: 10},
		FTE:           1,
		Utilization:   1,
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h
}

func TestExecute_SingleScenario(t *testing.T) {
	h := newTestHandler(t)
	sc := scenario()

	out, err := h.Execute(context.Background(), &Input{ProjectID: "p-1", Scenario: &sc})
	require.NoError(t, err)

	require.NotNil(t, out.Estimate)
	assert.InDelta(t, 259.873046875, out.Estimate.TotalMD, 1e-9)
	require.Len(t, out.Phases, 5)

	assert.Equal(t, "prepare", out.Phases[0].ID)
	assert.Equal(t, 26.0, out.Phases[0].Effort)
	assert.Equal(t, 6.0, out.Phases[0].Duration)
	assert.Equal(t, "Realize", out.Phases[2].Name)
	assert.Equal(t, 129.9, out.Phases[2].Effort)
	assert.Equal(t, 29.0, out.Phases[2].Duration)

	assert.InDelta(t, 259.9, out.TotalEffort, 1e-9)
	assert.Equal(t, 59.0, out.TotalDuration)
	assert.Empty(t, out.Scenarios)
}

func TestExecute_Batch(t *testing.T) {
	h := newTestHandler(t)

	bad := scenario()
	bad.FTE = 0
	out, err := h.Execute(context.Background(), &Input{
		ProjectID: "p-1",
		Scenarios: []formula.Inputs{scenario(), bad, scenario()},
	})
	require.NoError(t, err)

	require.Len(t, out.Scenarios, 2)
	assert.Equal(t, 0, out.Scenarios[0].Index)
	assert.Equal(t, 2, out.Scenarios[1].Index)
	assert.Equal(t, []int{1}, out.SkippedScenarios)
	assert.Empty(t, out.Phases)
}

func TestExecute_Errors(t *testing.T) {
	sc := scenario()
	zero := scenario()
	zero.Utilization = 0

	cfg := DefaultConfig()
	cfg.MaxScenarios = 2

	tests := []struct {
		name  string
		input *Input
	}{
		{name: "neither scenario nor batch", input: &Input{ProjectID: "p-1"}},
		{name: "both scenario and batch", input: &Input{ProjectID: "p-1", Scenario: &sc, Scenarios: []formula.Inputs{sc}}},
		{name: "non-positive capacity", input: &Input{ProjectID: "p-1", Scenario: &zero}},
		{name: "batch over limit", input: &Input{ProjectID: "p-1", Scenarios: []formula.Inputs{sc, sc, sc}}},
	}

	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t), CustomConfig: cfg})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			stdErr, ok := stderrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, stderrors.ErrCodeInputValidationFailed, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestParseInput(t *testing.T) {
	h := newTestHandler(t)

	job := createMockJob(1, map[string]interface{}{
		"projectId": "p-1",
		"scenario": map[string]interface{}{
			"selectedL3Items": []map[string]interface{}{{"l3Code": "J58", "coefficient": 0.1, "defaultTier": "A"}},
			"profile":         map[string]interface{}{"name": "std", "baseFt": 100},
			"fte":             2,
			"utilization":     0.8,
		},
	})
	input, err := h.parseInput(job)
	require.NoError(t, err)
	require.NotNil(t, input.Scenario)
	assert.Equal(t, 2.0, input.Scenario.FTE)
	assert.Equal(t, "J58", input.Scenario.SelectedItems[0].Code)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{
		"projectId": "p-1",
		"scenario":  map[string]interface{}{"fte": 1},
	}))
	require.Error(t, err)
	stdErr, ok := stderrors.AsStandardError(err)
	require.True(t, ok)
	assert.Contains(t, stdErr.Details, "scenario.profile")
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	app := &config.Config{
		Workers: map[string]config.WorkerConfig{
			WorkerName: {Enabled: false, MaxJobsActive: 3, Timeout: 5000},
		},
		Estimation: config.EstimationConfig{
			PMOMonthlyRate: 12,
			PhaseWeights:   map[string]float64{"prepare": 0.2, "realize": 0.8},
		},
	}

	cfg := createConfigFromAppConfig(app, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxJobsActive)
	assert.Equal(t, 12.0, cfg.Constants.PMOMonthlyRate)
	assert.Equal(t, formula.DefaultConstants.WorkingDaysPerMonth, cfg.Constants.WorkingDaysPerMonth)
	require.Len(t, cfg.Constants.Phases, 5)
	assert.Equal(t, 0.2, cfg.Constants.Phases[0].Weight)
	assert.Equal(t, 0.0, cfg.Constants.Phases[1].Weight)
	require.NoError(t, cfg.Validate())
}

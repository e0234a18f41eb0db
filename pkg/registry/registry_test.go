package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	reg := Builtin()
	require.NoError(t, reg.Validate())
	require.Len(t, reg.Activities, 5)

	costing, ok := reg.Find("calculate-project-costing")
	require.True(t, ok)
	assert.Equal(t, "costing.project.calculate", costing.TaskType)
	assert.Equal(t, DomainCosting, costing.Domain)
	assert.Contains(t, costing.BPMNCodes(), "RATE_NOT_FOUND")
	assert.Contains(t, costing.BPMNCodes(), "AUTHORIZATION_DENIED")
	assert.Equal(t, 3, costing.MaxRetries)
	assert.Equal(t, "object", costing.InputSchema["type"])

	// several transient codes share ENGINE_UNAVAILABLE
	assert.Len(t, costing.BPMNCodes(), 7)
	assert.Greater(t, len(costing.Errors), len(costing.BPMNCodes()))

	profile, ok := reg.Find("derive-estimate-profile")
	require.True(t, ok)
	assert.Equal(t, DomainEstimate, profile.Domain)
	assert.Equal(t, int64(15000), profile.TimeoutMs)
}

func TestBuiltin_ErrorRetryability(t *testing.T) {
	timeline, ok := Builtin().Find("generate-timeline")
	require.True(t, ok)

	byCode := make(map[string]ActivityError)
	for _, e := range timeline.Errors {
		byCode[e.Code] = e
	}
	assert.False(t, byCode["INPUT_VALIDATION_FAILED"].Retryable)
	assert.Zero(t, byCode["INPUT_VALIDATION_FAILED"].Retries)

	signal := byCode["SIGNAL_PUBLISH_FAILED"]
	assert.True(t, signal.Retryable)
	assert.Equal(t, 3, signal.Retries)
	assert.Equal(t, "ENGINE_UNAVAILABLE", signal.BPMNCode)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, SaveRegistry(Builtin(), path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	assert.Len(t, loaded.Activities, 5)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{name: "empty", reg: ActivityRegistry{}, wantErr: "no activities"},
		{
			name: "duplicate id",
			reg: ActivityRegistry{Activities: []Activity{
				{ID: "a", DisplayName: "A", TaskType: "t1", Domain: DomainEstimate, TimeoutMs: 1000},
				{ID: "a", DisplayName: "A", TaskType: "t2", Domain: DomainEstimate, TimeoutMs: 1000},
			}},
			wantErr: "duplicate activity ID",
		},
		{
			name: "duplicate task type",
			reg: ActivityRegistry{Activities: []Activity{
				{ID: "a", DisplayName: "A", TaskType: "t1", Domain: DomainEstimate, TimeoutMs: 1000},
				{ID: "b", DisplayName: "B", TaskType: "t1", Domain: DomainEstimate, TimeoutMs: 1000},
			}},
			wantErr: "duplicate task type",
		},
		{
			name:    "unknown domain",
			reg:     ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", TaskType: "t", Domain: "billing", TimeoutMs: 1000}}},
			wantErr: "unknown domain",
		},
		{
			name:    "missing timeout",
			reg:     ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", TaskType: "t", Domain: DomainCosting}}},
			wantErr: "timeoutMs",
		},
		{
			name: "error without bpmn code",
			reg: ActivityRegistry{Activities: []Activity{{
				ID: "a", DisplayName: "A", TaskType: "t", Domain: DomainCosting, TimeoutMs: 1000,
				Errors: []ActivityError{{Code: "RATE_NOT_FOUND"}},
			}}},
			wantErr: "bpmnCode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

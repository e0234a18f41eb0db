package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    port: 5432
    database: cockpit
    user: cockpit
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
auth:
  keycloak:
    url: http://localhost:8180
    realm: cockpit
workers:
  calculate-project-costing:
    enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, 0.43, cfg.Costing.RealizationRate)
	assert.Equal(t, 0.35, cfg.Costing.InternalCostRatio)
	assert.Equal(t, 8.0, cfg.Costing.HoursPerDay)
	assert.Equal(t, "MYR", cfg.Costing.Currency)
	assert.Equal(t, 10, cfg.Estimation.MaxPMOIterations)
	assert.InDelta(t, 0.50, cfg.Estimation.PhaseWeights["realize"], 1e-9)
	assert.Equal(t, "requirement_chips", cfg.Database.Elasticsearch.ChipIndex)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, 10, cfg.Database.Redis.PoolSize)
	assert.Equal(t, 5000, cfg.Database.Redis.DialTimeout)
	assert.Equal(t, 3000, cfg.Database.Redis.ReadTimeout)
	assert.Equal(t, 0, cfg.Database.Redis.MinIdleConns)
	assert.Equal(t, 15*time.Minute, GetDuration(cfg.RateCatalog.CacheTTL))

	wc := GetWorkerConfig(cfg, "calculate-project-costing")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 30000, wc.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{
			name: "realization rate out of range",
			extra: `
costing:
  realization_rate: 1.4
`,
			wantErr: "costing.realization_rate",
		},
		{
			name: "bad holiday date",
			extra: `
calendar:
  holidays:
    ABMY: ["2025-13-01"]
`,
			wantErr: "invalid date",
		},
		{
			name: "sns enabled without topic",
			extra: `
integrations:
  aws:
    sns:
      enabled: true
`,
			wantErr: "schedule_regen_topic_arn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCHEDULE_REGEN_TOPIC_ARN", "")
			_, err := LoadFromFile(writeConfig(t, baseYAML+tt.extra))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_RegionRealizationOverride(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML+`
costing:
  region_realization_rates:
    absg: 0.5
`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Costing.RegionRealization["absg"])
}

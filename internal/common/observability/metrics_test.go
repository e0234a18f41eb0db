package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordAndShutdown(t *testing.T) {
	obs, err := New("estimate-workers-test")
	require.NoError(t, err)

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "calculate-project-costing", "completed")
	obs.RecordJobDuration(ctx, "calculate-project-costing", 120*time.Millisecond, "completed")

	assert.NoError(t, obs.Shutdown(ctx))
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	ctx := context.Background()

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "generate-timeline", "failed")
		obs.RecordJobDuration(ctx, "generate-timeline", time.Second, "failed")
	})
	assert.NoError(t, obs.Shutdown(ctx))
}

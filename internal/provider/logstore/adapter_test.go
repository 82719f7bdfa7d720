package logstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/pipecheck/internal/domain"
)

func TestPipelineLogsKnownKey(t *testing.T) {
	log := NewAdapter().PipelineLogs("PROJ-PLAN2")

	assert.Equal(t, "PROJ-PLAN2", log.PipelineKey)
	assert.Equal(t, "Project Beta - Testing Pipeline", log.PipelineName)
	assert.Equal(t, 2, log.TotalRuns)
	require.Len(t, log.Runs, 2)

	failed := log.Runs[0]
	assert.Equal(t, domain.RunFailed, failed.Status)
	assert.Len(t, failed.Errors, 2)
	assert.Equal(t, "test", failed.Errors[0].Step)
}

func TestPipelineLogsUnknownKey(t *testing.T) {
	log := NewAdapter().PipelineLogs("PROJ-NOPE")

	assert.Equal(t, "PROJ-NOPE", log.PipelineKey)
	assert.Equal(t, "Unknown Pipeline (PROJ-NOPE)", log.PipelineName)
	assert.Zero(t, log.TotalRuns)
	assert.NotNil(t, log.Runs)
	assert.Empty(t, log.Runs)
}

func TestRunsOrderedNewestFirst(t *testing.T) {
	for _, key := range []string{"PROJ-PLAN1", "PROJ-PLAN2", "PROJ-PLAN3"} {
		log := NewAdapter().PipelineLogs(key)
		for i := 1; i < len(log.Runs); i++ {
			assert.Greater(t, log.Runs[i-1].BuildNumber, log.Runs[i].BuildNumber,
				"runs for %s must be newest first", key)
		}
	}
}

func TestInProgressRunHasNoCompletion(t *testing.T) {
	log := NewAdapter().PipelineLogs("PROJ-PLAN3")
	running := log.Runs[0]
	assert.Equal(t, domain.RunInProgress, running.Status)
	assert.Nil(t, running.CompletedAt)
	assert.Zero(t, running.DurationSeconds)
}

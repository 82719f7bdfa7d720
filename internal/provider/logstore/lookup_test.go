package logstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/pipecheck/internal/domain"
)

func TestResolveKey(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   string
	}{
		{
			name:   "direct key wins over later fields",
			record: map[string]any{"key": "PROJ-A", "id": "PROJ-B"},
			want:   "PROJ-A",
		},
		{
			name:   "nested planKey object is unwrapped",
			record: map[string]any{"planKey": map[string]any{"key": "PROJ-C"}},
			want:   "PROJ-C",
		},
		{
			name:   "snake case fallback",
			record: map[string]any{"pipeline_key": "PROJ-D"},
			want:   "PROJ-D",
		},
		{
			name:   "id as last resort",
			record: map[string]any{"id": "PROJ-E"},
			want:   "PROJ-E",
		},
		{
			name:   "non-string candidate stops the search",
			record: map[string]any{"key": 42, "id": "PROJ-F"},
			want:   "",
		},
		{
			name:   "nested object without key field",
			record: map[string]any{"planKey": map[string]any{"name": "x"}},
			want:   "",
		},
		{
			name:   "empty record",
			record: map[string]any{},
			want:   "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveKey(tc.record))
		})
	}
}

func TestAllLogsPreservesOrder(t *testing.T) {
	pipelines := []domain.PipelineDescriptor{
		{Key: "PROJ-PLAN3"},
		{Key: "PROJ-PLAN1"},
	}
	logs := AllLogs(NewAdapter(), pipelines)
	require.Len(t, logs, 2)
	assert.Equal(t, "PROJ-PLAN3", logs[0].PipelineKey)
	assert.Equal(t, "PROJ-PLAN1", logs[1].PipelineKey)
}

func TestAllLogsPlaceholderForMissingKey(t *testing.T) {
	logs := AllLogs(NewAdapter(), []domain.PipelineDescriptor{{}})
	require.Len(t, logs, 1)

	placeholder := logs[0]
	assert.Equal(t, domain.UnknownKey, placeholder.PipelineKey)
	assert.Equal(t, "Unknown Pipeline", placeholder.PipelineName)
	assert.Empty(t, placeholder.Runs)
	assert.Equal(t, "No valid pipeline key found in pipeline data", placeholder.Diagnostic)
}

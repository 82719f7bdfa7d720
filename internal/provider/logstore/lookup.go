package logstore

import "github.com/waabox/pipecheck/internal/domain"

// keyFields are the candidate identifier fields of a raw record, checked in
// priority order.
var keyFields = []string{"key", "planKey", "pipeline_key", "id"}

// ResolveKey extracts a pipeline key from a loosely-shaped record. A
// candidate field holding a nested keyed object (planKey: {key: ...}) is
// unwrapped one level. Returns "" when no identifier can be resolved.
func ResolveKey(record map[string]any) string {
	for _, field := range keyFields {
		value, ok := record[field]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			if key, ok := v["key"].(string); ok {
				return key
			}
			return ""
		case string:
			return v
		}
		return ""
	}
	return ""
}

// AllLogs maps each pipeline descriptor to its execution log, preserving
// input order. Descriptors without a resolvable key yield a placeholder log
// with an explicit diagnostic; lookup never fails for malformed entries.
func AllLogs(logs domain.LogProvider, pipelines []domain.PipelineDescriptor) []domain.PipelineLog {
	out := make([]domain.PipelineLog, 0, len(pipelines))
	for _, p := range pipelines {
		key := p.Key
		if key == "" {
			key = ResolveKey(map[string]any{
				"planKey": map[string]any{"key": p.Original.PlanKey.Key},
				"id":      p.Original.Key,
			})
		}
		if key == "" {
			out = append(out, domain.PipelineLog{
				PipelineKey:  domain.UnknownKey,
				PipelineName: "Unknown Pipeline",
				TotalRuns:    0,
				Runs:         []domain.RunRecord{},
				Diagnostic:   "No valid pipeline key found in pipeline data",
			})
			continue
		}
		out = append(out, logs.PipelineLogs(key))
	}
	return out
}

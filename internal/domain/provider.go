package domain

import "context"

// PlanProvider is the port interface for the CI plan data source.
// The domain does not know whether plans come from a live server or the
// fixed mock fixtures.
type PlanProvider interface {
	ListPlans() (PlanListing, error)
	PlanResults(key string) (ResultListing, error)
}

// LogProvider serves execution logs per pipeline. Unknown keys yield an
// empty placeholder log, never an error.
type LogProvider interface {
	PipelineLogs(key string) PipelineLog
}

// Completer is the external AI completion capability.
type Completer interface {
	// GenerateText returns a free-form text completion.
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// GenerateJSON demands a JSON-only completion matching schemaHint and
	// returns the parsed object.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt, schemaHint string) (map[string]any, error)
}

// AssistantRunner is implemented by completers that can also drive a
// configured assistant. Callers type-assert for it and fall back to the
// plain Completer methods when absent.
type AssistantRunner interface {
	RunAssistant(ctx context.Context, assistantID, systemPrompt, userPrompt string) (string, error)
}

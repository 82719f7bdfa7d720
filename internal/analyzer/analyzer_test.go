package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/pipecheck/internal/domain"
)

// fakeCompleter returns canned JSON objects or a fixed error.
type fakeCompleter struct {
	response map[string]any
	err      error
	calls    int
}

func (f *fakeCompleter) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeCompleter) GenerateJSON(ctx context.Context, system, user, schemaHint string) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

// fakeAssistant also satisfies domain.AssistantRunner.
type fakeAssistant struct {
	fakeCompleter
	reply string
	runs  int
}

func (f *fakeAssistant) RunAssistant(ctx context.Context, assistantID, system, user string) (string, error) {
	f.runs++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func validResponse() map[string]any {
	return map[string]any{
		"pipelineKey": "PROJ-OTHER",
		"summary":     "Pipeline shows excellent health.",
		"topErrors": []any{
			map[string]any{"message": "flaky test", "count": float64(2)},
			"bare string error",
			map[string]any{"count": float64(3)},
		},
		"recommendations": []any{"Stabilize tests", 42, "Pin dependencies"},
	}
}

func testLog() domain.PipelineLog {
	return domain.PipelineLog{
		PipelineKey:  "PROJ-PLAN1",
		PipelineName: "Project Alpha",
		Runs:         []domain.RunRecord{{Status: domain.RunSuccess, DurationSeconds: 100}},
	}
}

func TestAnalyzeUsesAIResponse(t *testing.T) {
	ai := &fakeCompleter{response: validResponse()}
	analysis := New(ai, "").Analyze(context.Background(), testLog())

	assert.Equal(t, domain.SourceAI, analysis.Source)
	assert.Equal(t, "Pipeline shows excellent health.", analysis.Summary)
	// key is forced to match the input log, not the AI's claim
	assert.Equal(t, "PROJ-PLAN1", analysis.PipelineKey)
	assert.Equal(t, 1, ai.calls)
}

func TestAnalyzeCoercesLooseErrorEntries(t *testing.T) {
	analysis := New(&fakeCompleter{response: validResponse()}, "").Analyze(context.Background(), testLog())

	assert.Equal(t, []domain.ErrorCount{
		{Message: "flaky test", Count: 2},
		{Message: "bare string error", Count: 1},
		{Message: "Unknown error", Count: 3},
	}, analysis.TopErrors)
	assert.Equal(t, []string{"Stabilize tests", "Pin dependencies"}, analysis.Recommendations)
}

func TestAnalyzeFallsBackOnAIError(t *testing.T) {
	ai := &fakeCompleter{err: errors.New("boom")}
	analysis := New(ai, "").Analyze(context.Background(), testLog())

	assert.Equal(t, domain.SourceHeuristic, analysis.Source)
	assert.Equal(t, "boom", analysis.FallbackReason)
	assert.Equal(t, "PROJ-PLAN1", analysis.PipelineKey)
	assert.NotEmpty(t, analysis.Summary)
	assert.NotNil(t, analysis.TopErrors)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeFallsBackOnMissingKeys(t *testing.T) {
	ai := &fakeCompleter{response: map[string]any{"summary": "partial"}}
	analysis := New(ai, "").Analyze(context.Background(), testLog())

	assert.Equal(t, domain.SourceHeuristic, analysis.Source)
	assert.Contains(t, analysis.FallbackReason, "missing required keys")
	assert.Contains(t, analysis.FallbackReason, "topErrors")
}

func TestAnalyzeWithoutAI(t *testing.T) {
	analysis := New(nil, "").Analyze(context.Background(), testLog())
	assert.Equal(t, domain.SourceHeuristic, analysis.Source)
	assert.Equal(t, "no AI capability configured", analysis.FallbackReason)
}

func TestAnalyzePrefersAssistantWhenConfigured(t *testing.T) {
	ai := &fakeAssistant{reply: "```json\n{\"pipelineKey\":\"x\",\"summary\":\"good\",\"topErrors\":[],\"recommendations\":[]}\n```"}
	analysis := New(ai, "asst_42").Analyze(context.Background(), testLog())

	assert.Equal(t, domain.SourceAssistant, analysis.Source)
	assert.Equal(t, "good", analysis.Summary)
	assert.Equal(t, 1, ai.runs)
	assert.Zero(t, ai.calls)
}

func TestAnalyzeSkipsAssistantWithoutID(t *testing.T) {
	ai := &fakeAssistant{fakeCompleter: fakeCompleter{response: validResponse()}}
	analysis := New(ai, "").Analyze(context.Background(), testLog())

	assert.Equal(t, domain.SourceAI, analysis.Source)
	assert.Zero(t, ai.runs)
	assert.Equal(t, 1, ai.calls)
}

func TestAnalyzeAllOneAnalysisPerLog(t *testing.T) {
	logs := []domain.PipelineLog{
		{PipelineKey: "PROJ-B"},
		{PipelineKey: "PROJ-A"},
		{PipelineKey: "PROJ-C"},
	}
	analyses := New(nil, "").AnalyzeAll(context.Background(), logs)

	require.Len(t, analyses, 3)
	for i, log := range logs {
		assert.Equal(t, log.PipelineKey, analyses[i].PipelineKey)
	}
}

func TestAnalyzeAllEmptyInput(t *testing.T) {
	analyses := New(nil, "").AnalyzeAll(context.Background(), nil)
	assert.NotNil(t, analyses)
	assert.Empty(t, analyses)
}

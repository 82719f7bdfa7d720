// Package analyzer produces structured per-pipeline analyses, preferring the
// AI completion capability and falling back to deterministic heuristics.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/waabox/pipecheck/internal/azure"
	"github.com/waabox/pipecheck/internal/domain"
)

const systemPrompt = `You are a senior CI/CD engineer with 10+ years of experience analyzing Bamboo pipeline logs.
Your expertise includes identifying failure patterns, performance bottlenecks, and providing actionable recommendations
for improving pipeline reliability and efficiency.

Analyze the provided pipeline log data and provide insights that would help a development team optimize their CI/CD process.`

const schemaHint = `{
  "pipelineKey": "string - the pipeline identifier",
  "summary": "string - concise 2-3 sentence overview of pipeline health and key findings",
  "topErrors": [
    {
      "message": "string - clear description of the error or issue",
      "count": "integer - number of times this error occurred"
    }
  ],
  "recommendations": [
    "string - specific actionable recommendation for improvement"
  ]
}`

// Analyzer turns pipeline logs into analyses. The completer is injected;
// pass nil to run heuristics only. When assistantID is set and the completer
// can drive assistants, the assistant path is preferred.
type Analyzer struct {
	ai          domain.Completer
	assistantID string
}

// New creates an Analyzer.
func New(ai domain.Completer, assistantID string) *Analyzer {
	return &Analyzer{ai: ai, assistantID: assistantID}
}

// Analyze produces the analysis for one pipeline's logs. The AI path is
// tried first; any AI, parse, or validation failure switches to the
// heuristic path, recorded on the returned analysis as its provenance.
// The result's pipeline key always matches the input log.
func (a *Analyzer) Analyze(ctx context.Context, log domain.PipelineLog) domain.PipelineAnalysis {
	if a.ai == nil {
		analysis := Heuristic(log)
		analysis.FallbackReason = "no AI capability configured"
		return analysis
	}

	analysis, err := a.aiAnalyze(ctx, log)
	if err != nil {
		slog.Debug("AI analysis failed, falling back to heuristic analysis",
			"pipeline", log.PipelineKey, "error", err)
		fallback := Heuristic(log)
		fallback.FallbackReason = err.Error()
		return fallback
	}
	return analysis
}

// AnalyzeAll analyzes a batch of logs, one analysis per input log in input
// order. One pipeline failing never aborts the batch: a panic during a
// single analysis degrades to a placeholder entry for that pipeline.
func (a *Analyzer) AnalyzeAll(ctx context.Context, logs []domain.PipelineLog) []domain.PipelineAnalysis {
	analyses := make([]domain.PipelineAnalysis, 0, len(logs))
	for _, log := range logs {
		analyses = append(analyses, a.analyzeSafe(ctx, log))
	}
	return analyses
}

func (a *Analyzer) analyzeSafe(ctx context.Context, log domain.PipelineLog) (analysis domain.PipelineAnalysis) {
	key := log.PipelineKey
	if key == "" {
		key = domain.UnknownKey
	}
	defer func() {
		if r := recover(); r != nil {
			analysis = domain.PipelineAnalysis{
				PipelineKey:     key,
				Summary:         fmt.Sprintf("Analysis failed for %s: %v", key, r),
				TopErrors:       []domain.ErrorCount{},
				Recommendations: []string{"Manual investigation required due to analysis error"},
				Source:          domain.SourcePlaceholder,
				FallbackReason:  fmt.Sprintf("%v", r),
			}
		}
	}()
	return a.Analyze(ctx, log)
}

func (a *Analyzer) aiAnalyze(ctx context.Context, log domain.PipelineLog) (domain.PipelineAnalysis, error) {
	payload, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return domain.PipelineAnalysis{}, fmt.Errorf("encoding log payload: %w", err)
	}

	userPrompt := fmt.Sprintf(`Analyze the following Bamboo pipeline logs for %s (%s):

%s

Please provide a comprehensive analysis focusing on:
1. Overall pipeline health and performance trends
2. Error patterns and their frequency
3. Specific actionable recommendations for improvement
4. Any performance or reliability concerns

Consider the success/failure rates, error types, duration patterns, and any recurring issues.`,
		log.PipelineName, log.PipelineKey, payload)

	source := domain.SourceAI
	var response map[string]any
	if runner, ok := a.ai.(domain.AssistantRunner); ok && a.assistantID != "" {
		source = domain.SourceAssistant
		prompt := fmt.Sprintf("%s\n\nPlease respond with valid JSON in this exact format:\n%s", userPrompt, schemaHint)
		text, err := runner.RunAssistant(ctx, a.assistantID, systemPrompt, prompt)
		if err != nil {
			return domain.PipelineAnalysis{}, err
		}
		response, err = azure.EnsureJSON(text)
		if err != nil {
			return domain.PipelineAnalysis{}, err
		}
	} else {
		response, err = a.ai.GenerateJSON(ctx, systemPrompt, userPrompt, schemaHint)
		if err != nil {
			return domain.PipelineAnalysis{}, err
		}
	}

	analysis, err := fromResponse(response, log.PipelineKey)
	if err != nil {
		return domain.PipelineAnalysis{}, err
	}
	analysis.Source = source
	return analysis, nil
}

// fromResponse validates and coerces the AI JSON object into an analysis.
// All four schema keys must be present; topErrors and recommendations
// degrade to empty lists on type mismatches, and bare-string error entries
// are normalized to {message, count: 1}.
func fromResponse(response map[string]any, pipelineKey string) (domain.PipelineAnalysis, error) {
	var missing []string
	for _, key := range []string{"pipelineKey", "summary", "topErrors", "recommendations"} {
		if _, ok := response[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.PipelineAnalysis{}, &domain.ValidationError{Missing: missing}
	}

	summary, _ := response["summary"].(string)

	topErrors := []domain.ErrorCount{}
	if entries, ok := response["topErrors"].([]any); ok {
		for _, raw := range entries {
			switch entry := raw.(type) {
			case string:
				topErrors = append(topErrors, domain.ErrorCount{Message: entry, Count: 1})
			case map[string]any:
				ec := domain.ErrorCount{Message: "Unknown error", Count: 1}
				if msg, ok := entry["message"].(string); ok {
					ec.Message = msg
				}
				if count, ok := entry["count"].(float64); ok {
					ec.Count = int(count)
				}
				topErrors = append(topErrors, ec)
			}
		}
	}

	recommendations := []string{}
	if entries, ok := response["recommendations"].([]any); ok {
		for _, raw := range entries {
			if rec, ok := raw.(string); ok {
				recommendations = append(recommendations, rec)
			}
		}
	}

	return domain.PipelineAnalysis{
		PipelineKey:     pipelineKey,
		Summary:         summary,
		TopErrors:       topErrors,
		Recommendations: recommendations,
	}, nil
}

package logstore

import (
	"math"

	"github.com/waabox/pipecheck/internal/domain"
)

// ErrorDetail is one error occurrence with its run context.
type ErrorDetail struct {
	RunID       string `json:"runId"`
	BuildNumber int    `json:"buildNumber"`
	Step        string `json:"step"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
}

// ErrorSummary is the failure digest of one pipeline's log.
type ErrorSummary struct {
	PipelineKey  string        `json:"pipelineKey"`
	PipelineName string        `json:"pipelineName"`
	TotalRuns    int           `json:"totalRuns"`
	FailedRuns   int           `json:"failedRuns"`
	SuccessRate  float64       `json:"successRate"`
	TotalErrors  int           `json:"totalErrors"`
	ErrorDetails []ErrorDetail `json:"errorDetails"`
}

// Summarize extracts failure statistics from a pipeline log. Only FAILED
// runs contribute errors. Success rate is a percentage rounded to one
// decimal, 0.0 when the log has no runs.
func Summarize(log domain.PipelineLog) ErrorSummary {
	totalRuns := len(log.Runs)
	failedRuns := 0
	totalErrors := 0
	details := []ErrorDetail{}

	for _, run := range log.Runs {
		if run.Status != domain.RunFailed {
			continue
		}
		failedRuns++
		totalErrors += len(run.Errors)
		for _, e := range run.Errors {
			details = append(details, ErrorDetail{
				RunID:       run.RunID,
				BuildNumber: run.BuildNumber,
				Step:        e.Step,
				Message:     e.Message,
				Timestamp:   run.StartedAt,
			})
		}
	}

	successRate := 0.0
	if totalRuns > 0 {
		successRate = math.Round(float64(totalRuns-failedRuns)/float64(totalRuns)*1000) / 10
	}

	return ErrorSummary{
		PipelineKey:  log.PipelineKey,
		PipelineName: log.PipelineName,
		TotalRuns:    totalRuns,
		FailedRuns:   failedRuns,
		SuccessRate:  successRate,
		TotalErrors:  totalErrors,
		ErrorDetails: details,
	}
}

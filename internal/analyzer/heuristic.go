package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/waabox/pipecheck/internal/domain"
)

const (
	topErrorLimit       = 5
	recommendationLimit = 5
	longBuildSeconds    = 1800
)

// Heuristic computes a deterministic rule-based analysis of a pipeline log,
// covering the full AI output shape: summary, ranked top errors, and up to
// five recommendations.
func Heuristic(log domain.PipelineLog) domain.PipelineAnalysis {
	key := log.PipelineKey
	if key == "" {
		key = domain.UnknownKey
	}
	name := log.PipelineName
	if name == "" {
		name = "Unknown Pipeline"
	}

	if len(log.Runs) == 0 {
		return domain.PipelineAnalysis{
			PipelineKey:     key,
			Summary:         fmt.Sprintf("No execution data available for %s", name),
			TopErrors:       []domain.ErrorCount{},
			Recommendations: []string{"Configure pipeline to capture execution logs"},
			Source:          domain.SourceHeuristic,
		}
	}

	totalRuns := len(log.Runs)
	successfulRuns := 0
	failedRuns := 0
	inProgressRuns := 0
	var allErrors []string
	totalDuration := 0
	completedRuns := 0

	for _, run := range log.Runs {
		switch run.Status {
		case domain.RunSuccess:
			successfulRuns++
		case domain.RunFailed:
			failedRuns++
		case domain.RunInProgress:
			inProgressRuns++
		}
		for _, e := range run.Errors {
			allErrors = append(allErrors, e.Message)
		}
		if run.DurationSeconds > 0 {
			totalDuration += run.DurationSeconds
			completedRuns++
		}
	}

	successRate := float64(successfulRuns) / float64(totalRuns) * 100
	avgDuration := 0.0
	if completedRuns > 0 {
		avgDuration = float64(totalDuration) / float64(completedRuns)
	}

	topErrors := countErrors(allErrors)

	summaryParts := []string{
		fmt.Sprintf("Pipeline shows %s health with %.1f%% success rate (%d/%d runs)",
			healthTier(successRate), successRate, successfulRuns, totalRuns),
	}
	if avgDuration > 0 {
		summaryParts = append(summaryParts,
			fmt.Sprintf("Average execution time is %.0f minutes", math.Floor(avgDuration/60)))
	}
	if failedRuns > 0 {
		summaryParts = append(summaryParts,
			fmt.Sprintf("%d recent failures requiring attention", failedRuns))
	}
	summary := strings.Join(summaryParts, ". ") + "."

	recommendations := recommend(ruleInput{
		successRate:    successRate,
		hasTopErrors:   len(topErrors) > 0,
		avgDuration:    avgDuration,
		failedRuns:     failedRuns,
		successfulRuns: successfulRuns,
		inProgressRuns: inProgressRuns,
		errorText:      strings.ToLower(strings.Join(allErrors, " ")),
	})

	return domain.PipelineAnalysis{
		PipelineKey:     key,
		Summary:         summary,
		TopErrors:       topErrors,
		Recommendations: recommendations,
		Source:          domain.SourceHeuristic,
	}
}

// healthTier buckets the success rate into the fixed health vocabulary used
// across the summaries and the execution rollup.
func healthTier(successRate float64) string {
	switch {
	case successRate >= 90:
		return "excellent"
	case successRate >= 75:
		return "good"
	case successRate >= 50:
		return "concerning"
	default:
		return "poor"
	}
}

// countErrors returns the top five error messages by frequency. Ties keep
// first-seen order, so counting is stable across identical inputs.
func countErrors(messages []string) []domain.ErrorCount {
	counts := make(map[string]int)
	var order []string
	for _, msg := range messages {
		if counts[msg] == 0 {
			order = append(order, msg)
		}
		counts[msg]++
	}

	top := make([]domain.ErrorCount, 0, len(order))
	for _, msg := range order {
		top = append(top, domain.ErrorCount{Message: msg, Count: counts[msg]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topErrorLimit {
		top = top[:topErrorLimit]
	}
	return top
}

type ruleInput struct {
	successRate    float64
	hasTopErrors   bool
	avgDuration    float64
	failedRuns     int
	successfulRuns int
	inProgressRuns int
	errorText      string
}

// recommend applies the fixed rule set in order and caps the result at five
// entries. When no rule fires, a generic monitoring recommendation is
// emitted so the list is never empty.
func recommend(in ruleInput) []string {
	var recs []string

	if in.successRate < 75 {
		recs = append(recs, "Investigate recurring failures to improve pipeline stability")
	}
	if in.hasTopErrors {
		recs = append(recs, "Address top error patterns to reduce failure rate")
	}
	if in.avgDuration > longBuildSeconds {
		recs = append(recs, "Consider optimizing build steps to reduce execution time")
	}
	if in.failedRuns > in.successfulRuns {
		recs = append(recs, "Pipeline requires immediate attention due to high failure rate")
	}
	if in.inProgressRuns > 0 {
		recs = append(recs, "Monitor currently running builds for potential issues")
	}
	if strings.Contains(in.errorText, "timeout") {
		recs = append(recs, "Review timeout configurations and resource allocation")
	}
	if strings.Contains(in.errorText, "test") && strings.Contains(in.errorText, "failed") {
		recs = append(recs, "Focus on test stability and test environment configuration")
	}
	if strings.Contains(in.errorText, "connection") || strings.Contains(in.errorText, "network") {
		recs = append(recs, "Investigate network connectivity and service dependencies")
	}

	if len(recs) == 0 {
		if in.successRate >= 90 {
			recs = append(recs, "Pipeline performing well, continue monitoring")
		} else {
			recs = append(recs, "Monitor pipeline trends and investigate any performance degradation")
		}
	}
	if len(recs) > recommendationLimit {
		recs = recs[:recommendationLimit]
	}
	return recs
}

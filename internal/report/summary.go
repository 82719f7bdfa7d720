package report

import (
	"fmt"

	"github.com/waabox/pipecheck/internal/domain"
)

// DailySummary condenses the fleet state into one status line suitable for
// a standup note or chat message.
func DailySummary(analyses []domain.PipelineAnalysis, logs []domain.PipelineLog) string {
	stats := computeStatistics(sortedAnalyses(analyses), sortedLogs(logs))
	bugs := extractBugs(sortedAnalyses(analyses), sortedLogs(logs))

	successRate := float64(stats.CompletedRuns-stats.ErrorsTotal) / float64(max(stats.CompletedRuns, 1)) * 100
	highSeverity := 0
	for _, bug := range bugs {
		if bug.Severity == domain.SeverityHigh {
			highSeverity++
		}
	}

	var status string
	switch {
	case successRate >= 90 && highSeverity == 0:
		status = "🟢 All systems healthy"
	case successRate >= 75 && highSeverity <= 1:
		status = "🟡 Minor issues detected"
	default:
		status = "🔴 Issues require attention"
	}

	return fmt.Sprintf("%s | %d pipelines, %d runs, %.0f%% success rate, %d critical issues",
		status, stats.PipelinesTotal, stats.RunsTotal, successRate, highSeverity)
}

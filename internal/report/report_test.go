package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/pipecheck/internal/analyzer"
	"github.com/waabox/pipecheck/internal/domain"
	"github.com/waabox/pipecheck/internal/provider/logstore"
)

// fixtureData analyzes the canned logs heuristically, giving the aggregator
// realistic inputs.
func fixtureData(t *testing.T) ([]domain.PipelineAnalysis, []domain.PipelineLog) {
	t.Helper()
	store := logstore.NewAdapter()
	var logs []domain.PipelineLog
	var analyses []domain.PipelineAnalysis
	for _, key := range []string{"PROJ-PLAN1", "PROJ-PLAN2", "PROJ-PLAN3"} {
		log := store.PipelineLogs(key)
		logs = append(logs, log)
		analyses = append(analyses, analyzer.Heuristic(log))
	}
	return analyses, logs
}

func TestComputeStatisticsFromFixtures(t *testing.T) {
	analyses, logs := fixtureData(t)
	stats := computeStatistics(analyses, logs)

	assert.Equal(t, 3, stats.PipelinesTotal)
	assert.Equal(t, 8, stats.RunsTotal)
	assert.Equal(t, 4, stats.ErrorsTotal)
	// the in-progress run has zero duration and is excluded
	assert.Equal(t, 7, stats.CompletedRuns)
	assert.Equal(t, 471, stats.AvgDurationSeconds)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := computeStatistics(nil, nil)
	assert.Zero(t, stats.RunsTotal)
	assert.Zero(t, stats.AvgDurationSeconds)
}

func TestExtractBugsRankedBySeverityThenFrequency(t *testing.T) {
	analyses, logs := fixtureData(t)
	bugs := extractBugs(sortedAnalyses(analyses), sortedLogs(logs))

	require.Len(t, bugs, 4)
	for i := 1; i < len(bugs); i++ {
		prev, cur := bugs[i-1], bugs[i]
		if prev.Severity.Rank() == cur.Severity.Rank() {
			assert.GreaterOrEqual(t, prev.Frequency, cur.Frequency)
		} else {
			assert.Greater(t, prev.Severity.Rank(), cur.Severity.Rank())
		}
	}

	// the database timeout and the 503 are high, the assertion is medium
	assert.Equal(t, domain.SeverityHigh, bugs[0].Severity)
	assert.Equal(t, "PROJ-PLAN3", bugs[0].PipelineKey)
	assert.Equal(t, domain.SeverityLow, bugs[3].Severity)
}

func TestExtractBugsAttachesRunContext(t *testing.T) {
	analyses, logs := fixtureData(t)
	bugs := extractBugs(sortedAnalyses(analyses), sortedLogs(logs))

	for _, bug := range bugs {
		assert.NotEqual(t, "Unknown", bug.LastSeen, "bug %q should carry its run timestamp", bug.ErrorMessage)
		assert.NotEqual(t, "Unknown", bug.AffectedStep)
	}
}

func TestExtractBugsWithoutMatchingLog(t *testing.T) {
	analyses := []domain.PipelineAnalysis{{
		PipelineKey: "PROJ-GHOST",
		TopErrors:   []domain.ErrorCount{{Message: "phantom failure", Count: 2}},
	}}
	bugs := extractBugs(analyses, nil)

	require.Len(t, bugs, 1)
	assert.Equal(t, "Unknown Pipeline", bugs[0].PipelineName)
	assert.Equal(t, "Unknown", bugs[0].LastSeen)
	assert.Equal(t, "Unknown", bugs[0].AffectedStep)
	assert.Equal(t, domain.SeverityMedium, bugs[0].Severity)
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		message   string
		frequency int
		want      domain.Severity
	}{
		{"Database connection timeout after 30 seconds", 1, domain.SeverityHigh},
		{"HTTP 503 Service Unavailable", 1, domain.SeverityHigh},
		{"anything at all", 3, domain.SeverityHigh},
		{"Test failed: assertion error in validation", 1, domain.SeverityMedium},
		{"some flaky thing", 2, domain.SeverityMedium},
		{"minor formatting issue", 1, domain.SeverityLow},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classifySeverity(tc.message, tc.frequency), tc.message)
	}
}

func TestAggregateUsesFallbackWithoutAI(t *testing.T) {
	analyses, logs := fixtureData(t)
	rep := New(nil, "").Aggregate(context.Background(), analyses, logs)

	assert.Equal(t, 4, rep.Stats.ErrorsTotal)
	assert.Len(t, rep.BugsSummary, 4)
	assert.True(t, strings.HasPrefix(rep.Markdown, "# CI/CD Pipeline Report"))
	assert.True(t, strings.HasSuffix(rep.Markdown, "\n"))
}

func TestAggregateIsOrderInsensitive(t *testing.T) {
	analyses, logs := fixtureData(t)
	forward := New(nil, "").Aggregate(context.Background(), analyses, logs)

	for i, j := 0, len(analyses)-1; i < j; i, j = i+1, j-1 {
		analyses[i], analyses[j] = analyses[j], analyses[i]
		logs[i], logs[j] = logs[j], logs[i]
	}
	reversed := New(nil, "").Aggregate(context.Background(), analyses, logs)

	assert.Equal(t, forward.Stats, reversed.Stats)
	assert.Equal(t, forward.BugsSummary, reversed.BugsSummary)
}

func TestFallbackReportStructure(t *testing.T) {
	analyses, logs := fixtureData(t)
	stats := computeStatistics(sortedAnalyses(analyses), sortedLogs(logs))
	bugs := extractBugs(sortedAnalyses(analyses), sortedLogs(logs))
	md := fallbackReport(stats, bugs, sortedAnalyses(analyses))

	assert.Contains(t, md, "## Executive Summary")
	assert.Contains(t, md, "| Total Pipelines | 3 |")
	assert.Contains(t, md, "| Total Runs | 8 |")
	assert.Contains(t, md, "## Critical Issues")
	assert.Contains(t, md, "## Recommendations")
	assert.Contains(t, md, "### ✅ PROJ-PLAN1")
	assert.Contains(t, md, "*Report generated automatically by Pipeline Assistant*")
}

func TestFallbackReportNoIssues(t *testing.T) {
	md := fallbackReport(domain.FleetStatistics{}, nil, nil)
	assert.Contains(t, md, "No critical issues detected. ✅")
	assert.Contains(t, md, "Continue monitoring pipeline performance and maintain current practices.")
}

func TestDedupeRecommendations(t *testing.T) {
	analyses := []domain.PipelineAnalysis{
		{Recommendations: []string{"a", "b", "a"}},
		{Recommendations: []string{"b", "c", "d", "e", "f", "g"}},
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, dedupeRecommendations(analyses))
}

func TestDailySummary(t *testing.T) {
	analyses, logs := fixtureData(t)
	line := DailySummary(analyses, logs)

	assert.Contains(t, line, "🔴 Issues require attention")
	assert.Contains(t, line, "3 pipelines, 8 runs")
	assert.Contains(t, line, "2 critical issues")
}

func TestDailySummaryHealthyFleet(t *testing.T) {
	logs := []domain.PipelineLog{{
		PipelineKey: "PROJ-A",
		Runs: []domain.RunRecord{
			{Status: domain.RunSuccess, DurationSeconds: 100},
			{Status: domain.RunSuccess, DurationSeconds: 100},
		},
	}}
	analyses := []domain.PipelineAnalysis{{PipelineKey: "PROJ-A"}}
	line := DailySummary(analyses, logs)
	assert.Contains(t, line, "🟢 All systems healthy")
	assert.Contains(t, line, "100% success rate")
}

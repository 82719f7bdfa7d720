package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/waabox/pipecheck/internal/domain"
)

const reportSystemPrompt = `You are an experienced DevOps manager creating executive reports for engineering leadership.
Your reports are clear, actionable, and focus on business impact. You highlight both successes and areas needing attention.

Create professional Markdown reports that executives and engineering managers can quickly understand and act upon.`

// aiReport renders the narrative via the AI capability: a dedicated
// reporting assistant when configured, the general text path otherwise.
// The trailing-newline guarantee is applied exactly once, on whichever path
// produced the text.
func (r *Reporter) aiReport(ctx context.Context, stats domain.FleetStatistics, bugs []domain.BugEntry, analyses []domain.PipelineAnalysis) (string, error) {
	if r.ai == nil {
		return "", errors.New("no AI capability configured")
	}

	userPrompt := fmt.Sprintf(`Create a comprehensive CI/CD Pipeline Report based on this data:

%s

Structure the report with these sections:
1. **Executive Summary** - High-level health and key findings
2. **Pipeline Performance Overview** - Statistics and trends
3. **Critical Issues** - Top bugs and failures requiring attention
4. **Recommendations** - Actionable next steps prioritized by impact
5. **Individual Pipeline Status** - Brief status for each pipeline

Use professional tone suitable for engineering leadership. Include specific metrics and make recommendations actionable with clear priorities.`,
		dataDigest(stats, bugs, analyses))

	var markdown string
	var err error
	if runner, ok := r.ai.(domain.AssistantRunner); ok && r.reportingAssistantID != "" {
		markdown, err = runner.RunAssistant(ctx, r.reportingAssistantID, reportSystemPrompt, userPrompt)
		if err != nil {
			slog.Debug("reporting assistant failed, trying general text path", "error", err)
			markdown, err = r.ai.GenerateText(ctx, reportSystemPrompt, userPrompt)
		}
	} else {
		markdown, err = r.ai.GenerateText(ctx, reportSystemPrompt, userPrompt)
	}
	if err != nil {
		return "", err
	}
	return ensureTrailingNewline(markdown), nil
}

// dataDigest builds the structured summary handed to the AI: the stats
// block, the top five bugs, and each pipeline's summary with its leading
// recommendations.
func dataDigest(stats domain.FleetStatistics, bugs []domain.BugEntry, analyses []domain.PipelineAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, `
PIPELINE STATISTICS:
- Total Pipelines: %d
- Total Runs Analyzed: %d
- Average Run Duration: %d seconds (%d minutes)
- Total Errors Found: %d
- Completed Runs: %d

CRITICAL ISSUES (%d total):
`, stats.PipelinesTotal, stats.RunsTotal, stats.AvgDurationSeconds, stats.AvgDurationSeconds/60,
		stats.ErrorsTotal, stats.CompletedRuns, len(bugs))

	for i, bug := range bugs {
		if i >= bugLimit {
			break
		}
		fmt.Fprintf(&b, "- %s: %s (Pipeline: %s, Frequency: %d)\n",
			strings.ToUpper(string(bug.Severity)), bug.ErrorMessage, bug.PipelineKey, bug.Frequency)
	}

	b.WriteString("\nPIPELINE ANALYSIS SUMMARIES:\n")
	for _, analysis := range analyses {
		key := analysis.PipelineKey
		if key == "" {
			key = domain.UnknownKey
		}
		summary := analysis.Summary
		if summary == "" {
			summary = "No summary available"
		}
		fmt.Fprintf(&b, "\n%s:\n  Summary: %s\n", key, summary)
		if len(analysis.Recommendations) > 0 {
			leading := analysis.Recommendations
			if len(leading) > 2 {
				leading = leading[:2]
			}
			fmt.Fprintf(&b, "  Key Recommendations: %s\n", strings.Join(leading, "; "))
		}
	}
	return b.String()
}

func ensureTrailingNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}

var severityIcons = map[domain.Severity]string{
	domain.SeverityHigh:   "🔴",
	domain.SeverityMedium: "🟡",
	domain.SeverityLow:    "🟢",
}

// fallbackReport renders the fixed markdown template deterministically from
// the aggregated data. It always starts with a heading, always contains a
// metrics table, and ends with a trailing newline.
func fallbackReport(stats domain.FleetStatistics, bugs []domain.BugEntry, analyses []domain.PipelineAnalysis) string {
	avgMinutes := stats.AvgDurationSeconds / 60
	successRate := float64(stats.CompletedRuns-stats.ErrorsTotal) / float64(max(stats.CompletedRuns, 1)) * 100

	var b strings.Builder
	fmt.Fprintf(&b, `# CI/CD Pipeline Report
*Generated on %s*

## Executive Summary

Analysis of **%d pipelines** with **%d total runs** shows:
- Average execution time: **%d minutes**
- Total errors detected: **%d**
- Success rate: **%.1f%%**

## Pipeline Performance Overview

| Metric | Value |
|--------|--------|
| Total Pipelines | %d |
| Total Runs | %d |
| Average Duration | %ds (%dm) |
| Total Errors | %d |
| Completed Runs | %d |

## Critical Issues

`, time.Now().Format("2006-01-02 15:04:05"),
		stats.PipelinesTotal, stats.RunsTotal, avgMinutes, stats.ErrorsTotal, successRate,
		stats.PipelinesTotal, stats.RunsTotal, stats.AvgDurationSeconds, avgMinutes,
		stats.ErrorsTotal, stats.CompletedRuns)

	if len(bugs) > 0 {
		fmt.Fprintf(&b, "Found **%d critical issues** requiring attention:\n\n", len(bugs))
		for i, bug := range bugs {
			if i >= bugLimit {
				break
			}
			icon, ok := severityIcons[bug.Severity]
			if !ok {
				icon = "⚪"
			}
			fmt.Fprintf(&b, "%d. %s **%s**: %s\n", i+1, icon, bug.PipelineKey, bug.ErrorMessage)
			fmt.Fprintf(&b, "   - Frequency: %d occurrences\n", bug.Frequency)
			fmt.Fprintf(&b, "   - Severity: %s\n\n", titleCase(string(bug.Severity)))
		}
	} else {
		b.WriteString("No critical issues detected. ✅\n\n")
	}

	b.WriteString("## Recommendations\n\n")
	recs := dedupeRecommendations(analyses)
	if len(recs) > 0 {
		for i, rec := range recs {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	} else {
		b.WriteString("Continue monitoring pipeline performance and maintain current practices.\n")
	}

	b.WriteString("\n## Individual Pipeline Status\n\n")
	for _, analysis := range analyses {
		key := analysis.PipelineKey
		if key == "" {
			key = domain.UnknownKey
		}
		summary := analysis.Summary
		if summary == "" {
			summary = "No summary available"
		}
		fmt.Fprintf(&b, "### %s %s\n%s\n\n", statusIcon(summary), key, summary)
	}

	b.WriteString("---\n*Report generated automatically by Pipeline Assistant*\n")
	return b.String()
}

// dedupeRecommendations pools recommendations from all analyses, keeping
// first-seen order, capped at five.
func dedupeRecommendations(analyses []domain.PipelineAnalysis) []string {
	seen := make(map[string]bool)
	var recs []string
	for _, analysis := range analyses {
		for _, rec := range analysis.Recommendations {
			if seen[rec] {
				continue
			}
			seen[rec] = true
			recs = append(recs, rec)
		}
	}
	if len(recs) > recommendationCap {
		recs = recs[:recommendationCap]
	}
	return recs
}

const recommendationCap = 5

// statusIcon chooses the per-pipeline icon from summary keywords.
func statusIcon(summary string) string {
	lower := strings.ToLower(summary)
	switch {
	case strings.Contains(lower, "excellent") || strings.Contains(lower, "good"):
		return "✅"
	case strings.Contains(lower, "concerning") || strings.Contains(lower, "poor"):
		return "⚠️"
	default:
		return "ℹ️"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Package report aggregates pipeline analyses into fleet statistics, a
// ranked bug summary, and a markdown narrative.
package report

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/waabox/pipecheck/internal/domain"
)

const bugLimit = 5

// Reporter renders fleet reports. The completer is injected; pass nil to
// always use the deterministic template. When reportingAssistantID is set
// and the completer can drive assistants, the dedicated reporting assistant
// is preferred over the general text path.
type Reporter struct {
	ai                   domain.Completer
	reportingAssistantID string
}

// New creates a Reporter.
func New(ai domain.Completer, reportingAssistantID string) *Reporter {
	return &Reporter{ai: ai, reportingAssistantID: reportingAssistantID}
}

// Aggregate computes fleet statistics and the bug summary, then renders the
// markdown narrative, via AI when possible and the fixed template otherwise.
// Inputs are re-sorted by pipeline key so the output is deterministic
// regardless of input order. Statistics always come from the logs, never
// from the analyses.
func (r *Reporter) Aggregate(ctx context.Context, analyses []domain.PipelineAnalysis, logs []domain.PipelineLog) domain.Report {
	analyses = sortedAnalyses(analyses)
	logs = sortedLogs(logs)

	stats := computeStatistics(analyses, logs)
	bugs := extractBugs(analyses, logs)

	markdown, err := r.aiReport(ctx, stats, bugs, analyses)
	if err != nil {
		slog.Debug("AI report generation failed, using fallback template", "error", err)
		markdown = fallbackReport(stats, bugs, analyses)
	}

	return domain.Report{
		Stats:       stats,
		BugsSummary: bugs,
		Markdown:    markdown,
	}
}

func sortedAnalyses(in []domain.PipelineAnalysis) []domain.PipelineAnalysis {
	out := make([]domain.PipelineAnalysis, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PipelineKey < out[j].PipelineKey
	})
	return out
}

func sortedLogs(in []domain.PipelineLog) []domain.PipelineLog {
	out := make([]domain.PipelineLog, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PipelineKey < out[j].PipelineKey
	})
	return out
}

// computeStatistics counts runs and errors from the logs. Only runs with a
// strictly positive duration count as completed and contribute to the
// average, which rounds to the nearest whole second.
func computeStatistics(analyses []domain.PipelineAnalysis, logs []domain.PipelineLog) domain.FleetStatistics {
	stats := domain.FleetStatistics{PipelinesTotal: len(analyses)}

	totalDuration := 0
	for _, log := range logs {
		stats.RunsTotal += len(log.Runs)
		for _, run := range log.Runs {
			stats.ErrorsTotal += len(run.Errors)
			if run.DurationSeconds > 0 {
				totalDuration += run.DurationSeconds
				stats.CompletedRuns++
			}
		}
	}
	if stats.CompletedRuns > 0 {
		stats.AvgDurationSeconds = int(math.Round(float64(totalDuration) / float64(stats.CompletedRuns)))
	}
	return stats
}

// extractBugs flattens every analysis's top errors into ranked bug entries,
// attaching the context of each error's most recent occurrence. Entries are
// sorted by severity rank, then frequency, both descending.
func extractBugs(analyses []domain.PipelineAnalysis, logs []domain.PipelineLog) []domain.BugEntry {
	logsByKey := make(map[string]domain.PipelineLog, len(logs))
	for _, log := range logs {
		logsByKey[log.PipelineKey] = log
	}

	bugs := []domain.BugEntry{}
	for _, analysis := range analyses {
		key := analysis.PipelineKey
		if key == "" {
			key = domain.UnknownKey
		}
		log := logsByKey[key]
		name := log.PipelineName
		if name == "" {
			name = "Unknown Pipeline"
		}

		for _, e := range analysis.TopErrors {
			msg := e.Message
			if msg == "" {
				msg = "Unknown error"
			}
			count := e.Count
			if count == 0 {
				count = 1
			}

			entry := domain.BugEntry{
				PipelineKey:  key,
				PipelineName: name,
				ErrorMessage: msg,
				Frequency:    count,
				Severity:     classifySeverity(msg, count),
				LastSeen:     "Unknown",
				AffectedStep: "Unknown",
			}
			if run, step, found := findRecentErrorRun(log, msg); found {
				entry.LastSeen = run.StartedAt
				entry.AffectedStep = step
			}
			bugs = append(bugs, entry)
		}
	}

	sort.SliceStable(bugs, func(i, j int) bool {
		if bugs[i].Severity.Rank() != bugs[j].Severity.Rank() {
			return bugs[i].Severity.Rank() > bugs[j].Severity.Rank()
		}
		return bugs[i].Frequency > bugs[j].Frequency
	})
	return bugs
}

var highSeverityKeywords = []string{
	"timeout", "connection", "database", "service unavailable",
	"out of memory", "disk space", "network", "authentication failed",
}

var mediumSeverityKeywords = []string{
	"test failed", "assertion", "compilation error", "build failed",
	"dependency", "configuration",
}

// classifySeverity is a pure function of message content and frequency.
func classifySeverity(message string, frequency int) domain.Severity {
	lower := strings.ToLower(message)
	if frequency >= 3 || containsAny(lower, highSeverityKeywords) {
		return domain.SeverityHigh
	}
	if frequency >= 2 || containsAny(lower, mediumSeverityKeywords) {
		return domain.SeverityMedium
	}
	return domain.SeverityLow
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// findRecentErrorRun scans the runs for the first one carrying the given
// error message, along with the failing step. Runs are assumed to be
// ordered newest first, so the first hit is the most recent occurrence.
func findRecentErrorRun(log domain.PipelineLog, message string) (domain.RunRecord, string, bool) {
	for _, run := range log.Runs {
		for _, e := range run.Errors {
			if e.Message == message {
				step := e.Step
				if step == "" {
					step = "Unknown"
				}
				return run, step, true
			}
		}
	}
	return domain.RunRecord{}, "", false
}

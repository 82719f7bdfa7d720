package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/waabox/pipecheck/internal/analyzer"
	"github.com/waabox/pipecheck/internal/domain"
	"github.com/waabox/pipecheck/internal/normalize"
	"github.com/waabox/pipecheck/internal/provider"
	"github.com/waabox/pipecheck/internal/provider/logstore"
	"github.com/waabox/pipecheck/internal/report"
)

// Orchestrator drives the four-stage workflow: fetch plans, fetch logs,
// analyze, report. Every run produces a complete WorkflowResult envelope,
// success or not.
type Orchestrator struct {
	source   provider.DataSource
	analyzer *analyzer.Analyzer
	reporter *report.Reporter
	logger   *slog.Logger

	now func() time.Time
}

// New wires an orchestrator from its collaborators. A nil logger disables
// stage logging.
func New(source provider.DataSource, an *analyzer.Analyzer, rep *report.Reporter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		source:   source,
		analyzer: an,
		reporter: rep,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the full workflow for one question and returns the traced
// result envelope. Failures in the analysis and reporting stages degrade
// internally; only a plan-fetch failure aborts the workflow.
func (o *Orchestrator) Run(ctx context.Context, question string) (result domain.WorkflowResult) {
	start := o.now()
	runID := uuid.NewString()
	o.logger.Info("workflow started", "runId", runID, "question", question)

	result = domain.WorkflowResult{
		WorkflowInfo: domain.WorkflowInfo{
			RunID:     runID,
			StartTime: start.UTC().Format(time.RFC3339),
			Status:    domain.WorkflowSuccess,
			Version:   domain.WorkflowVersion,
		},
		Inputs:   domain.WorkflowInputs{Question: question},
		Question: question,
	}

	fail := func(stage string, err error) domain.WorkflowResult {
		end := o.now()
		o.logger.Error("workflow failed", "runId", runID, "stage", stage, "error", err)
		result.WorkflowInfo.Status = domain.WorkflowErrored
		result.WorkflowInfo.ErrorMessage = err.Error()
		result.WorkflowInfo.StepsCompleted = 0
		result.WorkflowInfo.EndTime = end.UTC().Format(time.RFC3339)
		result.WorkflowInfo.ExecutionTimeSeconds = round2(end.Sub(start).Seconds())
		result.Inputs = domain.WorkflowInputs{Question: question}
		result.Processing = domain.WorkflowProcessing{}
		result.Outputs = domain.WorkflowOutputs{}
		return result
	}

	// Nothing escapes the workflow boundary; a panic in any stage becomes an
	// error-status result.
	defer func() {
		if r := recover(); r != nil {
			result = fail("workflow", fmt.Errorf("%v", r))
		}
	}()

	// Stage 1: fetch and normalize plans.
	o.logger.Info("fetching pipeline plans", "runId", runID)
	listing, err := o.source.Plans.ListPlans()
	if err != nil {
		return fail("plans", err)
	}
	pipelines := normalize.Plans(listing)
	keys := make([]string, 0, len(pipelines))
	for _, p := range pipelines {
		keys = append(keys, p.Key)
	}
	result.Inputs.RawPlanData = &listing
	result.Inputs.NormalizedPlans = pipelines
	result.Processing.Step1Plans = &domain.Step1Plans{
		PipelinesFound: len(pipelines),
		PipelineKeys:   keys,
	}
	result.WorkflowInfo.StepsCompleted = 1
	o.logger.Info("plans normalized", "runId", runID, "pipelines", len(pipelines))

	// Stage 2: fetch execution logs per pipeline.
	logs := logstore.AllLogs(o.source.Logs, pipelines)
	totalRuns := 0
	logsSummary := make([]domain.LogsSummaryEntry, 0, len(logs))
	for _, l := range logs {
		totalRuns += l.TotalRuns
		logsSummary = append(logsSummary, domain.LogsSummaryEntry{
			PipelineKey: l.PipelineKey,
			RunsCount:   l.TotalRuns,
			HasErrors:   hasErrors(l),
		})
	}
	result.Inputs.LogsFetchedCount = len(logs)
	result.Processing.Step2Logs = &domain.Step2Logs{
		LogsRetrieved: len(logs),
		TotalRuns:     totalRuns,
		LogsSummary:   logsSummary,
	}
	result.WorkflowInfo.StepsCompleted = 2
	o.logger.Info("logs retrieved", "runId", runID, "logs", len(logs), "totalRuns", totalRuns)

	// Stage 3: analyze each pipeline.
	analyses := o.analyzer.AnalyzeAll(ctx, logs)
	analysisSummary := make([]domain.AnalysisSummaryEntry, 0, len(analyses))
	for _, a := range analyses {
		analysisSummary = append(analysisSummary, domain.AnalysisSummaryEntry{
			PipelineKey:         a.PipelineKey,
			ErrorCount:          len(a.TopErrors),
			RecommendationCount: len(a.Recommendations),
		})
	}
	result.Processing.Step3Analysis = &domain.Step3Analysis{
		AnalysesCompleted: len(analyses),
		AnalysisSummary:   analysisSummary,
	}
	result.WorkflowInfo.StepsCompleted = 3
	o.logger.Info("analyses completed", "runId", runID, "analyses", len(analyses))

	// Stage 4: aggregate the report.
	rep := o.reporter.Aggregate(ctx, analyses, logs)
	result.Processing.Step4Reporting = &domain.Step4Reporting{
		ReportGenerated: rep.Markdown != "",
		StatsComputed:   true,
		BugsFound:       len(rep.BugsSummary),
		MarkdownLength:  len(rep.Markdown),
	}
	result.WorkflowInfo.StepsCompleted = 4

	end := o.now()
	elapsed := round2(end.Sub(start).Seconds())
	summary := buildExecutionSummary(pipelines, logs, analyses, rep, elapsed)

	result.WorkflowInfo.EndTime = end.UTC().Format(time.RFC3339)
	result.WorkflowInfo.ExecutionTimeSeconds = elapsed
	result.Outputs = domain.WorkflowOutputs{
		Pipelines: pipelines,
		Logs:      logs,
		Analyses:  analyses,
		Report:    &rep,
		Summary:   &summary,
	}
	o.logger.Info("workflow completed", "runId", runID,
		"elapsedSeconds", elapsed, "overallHealth", summary.OverallHealth)
	return result
}

func hasErrors(log domain.PipelineLog) bool {
	for _, run := range log.Runs {
		if len(run.Errors) > 0 {
			return true
		}
	}
	return false
}

// pipelineHealth buckets one analysis as healthy, warning, or critical.
func pipelineHealth(a domain.PipelineAnalysis) string {
	summary := strings.ToLower(a.Summary)
	if strings.Contains(summary, "excellent") || strings.Contains(summary, "good") || len(a.TopErrors) == 0 {
		return "healthy"
	}
	if strings.Contains(summary, "concerning") || len(a.TopErrors) <= 2 {
		return "warning"
	}
	return "critical"
}

func buildExecutionSummary(pipelines []domain.PipelineDescriptor, logs []domain.PipelineLog,
	analyses []domain.PipelineAnalysis, rep domain.Report, elapsed float64) domain.ExecutionSummary {

	var breakdown domain.HealthBreakdown
	categories := domain.HealthCategories{
		HealthyPipelines:  []string{},
		WarningPipelines:  []string{},
		CriticalPipelines: []string{},
	}
	for _, a := range analyses {
		switch pipelineHealth(a) {
		case "healthy":
			breakdown.Healthy++
			categories.HealthyPipelines = append(categories.HealthyPipelines, a.PipelineKey)
		case "warning":
			breakdown.Warning++
			categories.WarningPipelines = append(categories.WarningPipelines, a.PipelineKey)
		default:
			breakdown.Critical++
			categories.CriticalPipelines = append(categories.CriticalPipelines, a.PipelineKey)
		}
	}

	criticalIssues := 0
	for _, bug := range rep.BugsSummary {
		if bug.Severity == domain.SeverityHigh {
			criticalIssues++
		}
	}

	health, emoji := overallHealth(breakdown)

	stats := rep.Stats
	completed := stats.CompletedRuns
	if completed < 1 {
		completed = 1
	}
	successRate := round1(float64(stats.CompletedRuns-stats.ErrorsTotal) / float64(completed) * 100)

	quick := fmt.Sprintf("%s %s - %d pipelines, %d errors, %d critical issues",
		emoji, titleCase(health), len(pipelines), stats.ErrorsTotal, criticalIssues)

	return domain.ExecutionSummary{
		OverallHealth:           health,
		HealthEmoji:             emoji,
		ExecutionTimeSeconds:    elapsed,
		PipelinesAnalyzed:       len(pipelines),
		TotalRunsAnalyzed:       stats.RunsTotal,
		TotalErrorsFound:        stats.ErrorsTotal,
		CriticalIssues:          criticalIssues,
		PipelineHealthBreakdown: breakdown,
		PipelineCategories:      categories,
		PerformanceMetrics: domain.PerformanceMetrics{
			AvgPipelineDurationMinutes: round1(float64(stats.AvgDurationSeconds) / 60),
			SuccessRatePercent:         successRate,
		},
		QuickSummary: quick,
	}
}

func overallHealth(b domain.HealthBreakdown) (string, string) {
	switch {
	case b.Critical == 0 && b.Warning <= 1:
		return "excellent", "🟢"
	case b.Critical == 0:
		return "good", "🟡"
	case b.Critical <= 1:
		return "concerning", "🟠"
	}
	return "critical", "🔴"
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

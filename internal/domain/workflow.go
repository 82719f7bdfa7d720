package domain

// Workflow status values carried in WorkflowInfo.Status.
const (
	WorkflowSuccess = "success"
	WorkflowErrored = "error"
)

// WorkflowVersion identifies the result envelope revision.
const WorkflowVersion = "1.0"

// WorkflowInfo is metadata about one workflow execution.
type WorkflowInfo struct {
	RunID                string  `json:"runId"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	ExecutionTimeSeconds float64 `json:"executionTimeSeconds"`
	Status               string  `json:"status"`
	Version              string  `json:"version"`
	StepsCompleted       int     `json:"stepsCompleted"`
	ErrorMessage         string  `json:"errorMessage,omitempty"`
}

// WorkflowInputs captures everything the workflow consumed, for audit.
// On workflow failure only the question is retained.
type WorkflowInputs struct {
	Question         string               `json:"question"`
	RawPlanData      *PlanListing         `json:"rawPlanData,omitempty"`
	NormalizedPlans  []PipelineDescriptor `json:"normalizedPlans,omitempty"`
	LogsFetchedCount int                  `json:"logsFetchedCount,omitempty"`
}

// LogsSummaryEntry is the per-pipeline digest of stage two.
type LogsSummaryEntry struct {
	PipelineKey string `json:"pipelineKey"`
	RunsCount   int    `json:"runsCount"`
	HasErrors   bool   `json:"hasErrors"`
}

// Step1Plans traces the plan-fetch stage.
type Step1Plans struct {
	PipelinesFound int      `json:"pipelinesFound"`
	PipelineKeys   []string `json:"pipelineKeys"`
}

// Step2Logs traces the log-fetch stage.
type Step2Logs struct {
	LogsRetrieved int                `json:"logsRetrieved"`
	TotalRuns     int                `json:"totalRuns"`
	LogsSummary   []LogsSummaryEntry `json:"logsSummary"`
}

// AnalysisSummaryEntry is the per-pipeline digest of stage three.
type AnalysisSummaryEntry struct {
	PipelineKey         string `json:"pipelineKey"`
	ErrorCount          int    `json:"errorCount"`
	RecommendationCount int    `json:"recommendationCount"`
}

// Step3Analysis traces the analysis stage.
type Step3Analysis struct {
	AnalysesCompleted int                    `json:"analysesCompleted"`
	AnalysisSummary   []AnalysisSummaryEntry `json:"analysisSummary"`
}

// Step4Reporting traces the reporting stage.
type Step4Reporting struct {
	ReportGenerated bool `json:"reportGenerated"`
	StatsComputed   bool `json:"statsComputed"`
	BugsFound       int  `json:"bugsFound"`
	MarkdownLength  int  `json:"markdownLength"`
}

// WorkflowProcessing traces the intermediate result of every stage. All
// sections are nil on workflow failure, so the envelope serializes as {}.
type WorkflowProcessing struct {
	Step1Plans     *Step1Plans     `json:"step1Plans,omitempty"`
	Step2Logs      *Step2Logs      `json:"step2Logs,omitempty"`
	Step3Analysis  *Step3Analysis  `json:"step3Analysis,omitempty"`
	Step4Reporting *Step4Reporting `json:"step4Reporting,omitempty"`
}

// HealthBreakdown counts pipelines per health bucket.
type HealthBreakdown struct {
	Healthy  int `json:"healthy"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

// HealthCategories lists the pipeline keys per health bucket.
type HealthCategories struct {
	HealthyPipelines  []string `json:"healthyPipelines"`
	WarningPipelines  []string `json:"warningPipelines"`
	CriticalPipelines []string `json:"criticalPipelines"`
}

// PerformanceMetrics are the execution-level performance figures.
type PerformanceMetrics struct {
	AvgPipelineDurationMinutes float64 `json:"avgPipelineDurationMinutes"`
	SuccessRatePercent         float64 `json:"successRatePercent"`
}

// ExecutionSummary is the execution-level health rollup.
type ExecutionSummary struct {
	OverallHealth           string             `json:"overallHealth"`
	HealthEmoji             string             `json:"healthEmoji"`
	ExecutionTimeSeconds    float64            `json:"executionTimeSeconds"`
	PipelinesAnalyzed       int                `json:"pipelinesAnalyzed"`
	TotalRunsAnalyzed       int                `json:"totalRunsAnalyzed"`
	TotalErrorsFound        int                `json:"totalErrorsFound"`
	CriticalIssues          int                `json:"criticalIssues"`
	PipelineHealthBreakdown HealthBreakdown    `json:"pipelineHealthBreakdown"`
	PipelineCategories      HealthCategories   `json:"pipelineCategories"`
	PerformanceMetrics      PerformanceMetrics `json:"performanceMetrics"`
	QuickSummary            string             `json:"quickSummary"`
}

// WorkflowOutputs holds the final artifacts of a successful run. All fields
// are nil on workflow failure.
type WorkflowOutputs struct {
	Pipelines []PipelineDescriptor `json:"pipelines,omitempty"`
	Logs      []PipelineLog        `json:"logs,omitempty"`
	Analyses  []PipelineAnalysis   `json:"analyses,omitempty"`
	Report    *Report              `json:"report,omitempty"`
	Summary   *ExecutionSummary    `json:"summary,omitempty"`
}

// WorkflowResult is the top-level envelope returned by one workflow run.
// It exists only for the duration of the invocation and is never persisted.
type WorkflowResult struct {
	WorkflowInfo WorkflowInfo       `json:"workflowInfo"`
	Inputs       WorkflowInputs     `json:"inputs"`
	Processing   WorkflowProcessing `json:"processing"`
	Outputs      WorkflowOutputs    `json:"outputs"`
	Question     string             `json:"question"`
}

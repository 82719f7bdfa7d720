package domain

// RunStatus represents the execution state of a pipeline run or step.
type RunStatus string

const (
	RunSuccess    RunStatus = "SUCCESS"
	RunFailed     RunStatus = "FAILED"
	RunInProgress RunStatus = "IN_PROGRESS"
)

// UnknownKey is used wherever a pipeline identifier cannot be resolved.
const UnknownKey = "UNKNOWN"

// PipelineDescriptor is the canonical, normalized view of one CI plan.
// Descriptors are immutable once created and always listed in ascending
// key order.
type PipelineDescriptor struct {
	Key                     string     `json:"key"`
	Name                    string     `json:"name"`
	Enabled                 bool       `json:"enabled"`
	ShortName               string     `json:"shortName"`
	ProjectKey              string     `json:"projectKey"`
	ProjectName             string     `json:"projectName"`
	Description             string     `json:"description"`
	IsActive                bool       `json:"isActive"`
	IsBuilding              bool       `json:"isBuilding"`
	AverageBuildTimeSeconds int        `json:"averageBuildTimeSeconds"`
	Link                    string     `json:"link"`
	Original                PlanRecord `json:"original"`
}

// RunError is one error captured during a pipeline run.
type RunError struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// StepRecord is one step of a pipeline run.
type StepRecord struct {
	Step            string    `json:"step"`
	Status          RunStatus `json:"status"`
	DurationSeconds int       `json:"durationSeconds"`
	Output          string    `json:"output"`
}

// RunRecord is one execution attempt of a pipeline. CompletedAt is nil and
// DurationSeconds is 0 for runs still in progress; such runs are excluded
// from duration averaging.
type RunRecord struct {
	RunID           string       `json:"runId"`
	BuildNumber     int          `json:"buildNumber"`
	Status          RunStatus    `json:"status"`
	StartedAt       string       `json:"startedAt"`
	CompletedAt     *string      `json:"completedAt"`
	DurationSeconds int          `json:"durationSeconds"`
	TriggeredBy     string       `json:"triggeredBy"`
	Branch          string       `json:"branch"`
	CommitHash      string       `json:"commitHash"`
	Errors          []RunError   `json:"errors"`
	Steps           []StepRecord `json:"steps"`
}

// PipelineLog holds the execution history of one pipeline. Runs are ordered
// newest first. Diagnostic is set on placeholder logs emitted when no
// pipeline key could be resolved.
type PipelineLog struct {
	PipelineKey  string      `json:"pipelineKey"`
	PipelineName string      `json:"pipelineName"`
	TotalRuns    int         `json:"totalRuns"`
	Runs         []RunRecord `json:"runs"`
	Diagnostic   string      `json:"error,omitempty"`
}

// ErrorCount is one recurring error message with its occurrence count.
type ErrorCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// AnalysisSource records which path produced an analysis.
type AnalysisSource string

const (
	SourceAI          AnalysisSource = "ai"
	SourceAssistant   AnalysisSource = "assistant"
	SourceHeuristic   AnalysisSource = "heuristic"
	SourcePlaceholder AnalysisSource = "placeholder"
)

// PipelineAnalysis is the structured analysis of one pipeline's logs.
// TopErrors and Recommendations are never nil. Source and FallbackReason
// are provenance bookkeeping and stay out of the serialized contract.
type PipelineAnalysis struct {
	PipelineKey     string       `json:"pipelineKey"`
	Summary         string       `json:"summary"`
	TopErrors       []ErrorCount `json:"topErrors"`
	Recommendations []string     `json:"recommendations"`

	Source         AnalysisSource `json:"-"`
	FallbackReason string         `json:"-"`
}

// Severity classifies how urgent a bug entry is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort weight of a severity; higher is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// BugEntry is a ranked representation of a recurring error with the context
// of its most recent occurrence.
type BugEntry struct {
	PipelineKey  string   `json:"pipelineKey"`
	PipelineName string   `json:"pipelineName"`
	ErrorMessage string   `json:"errorMessage"`
	Frequency    int      `json:"frequency"`
	Severity     Severity `json:"severity"`
	LastSeen     string   `json:"lastSeen"`
	AffectedStep string   `json:"affectedStep"`
}

// FleetStatistics are fleet-wide counters computed fresh on every workflow
// run, always from the logs rather than from the analyses.
type FleetStatistics struct {
	PipelinesTotal     int `json:"pipelinesTotal"`
	RunsTotal          int `json:"runsTotal"`
	AvgDurationSeconds int `json:"avgDurationSeconds"`
	ErrorsTotal        int `json:"errorsTotal"`
	CompletedRuns      int `json:"completedRuns"`
}

// Report bundles the aggregated statistics, the ranked bug summary, and the
// rendered markdown narrative.
type Report struct {
	Stats       FleetStatistics `json:"stats"`
	BugsSummary []BugEntry      `json:"bugsSummary"`
	Markdown    string          `json:"markdown"`
}

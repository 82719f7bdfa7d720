// Package logstore serves deterministic execution logs per pipeline and the
// lookup and summary helpers built on top of them.
package logstore

import (
	"fmt"

	"github.com/waabox/pipecheck/internal/domain"
)

// Adapter implements domain.LogProvider over the static fixtures.
type Adapter struct{}

var _ domain.LogProvider = (*Adapter)(nil)

// NewAdapter creates a mock log adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// PipelineLogs returns the execution log for the given pipeline key.
// Unknown keys yield an empty log with zero runs and a name marking the
// pipeline as unknown; lookup never fails.
func (a *Adapter) PipelineLogs(key string) domain.PipelineLog {
	if log, ok := pipelineLogs[key]; ok {
		return log
	}
	return domain.PipelineLog{
		PipelineKey:  key,
		PipelineName: fmt.Sprintf("Unknown Pipeline (%s)", key),
		TotalRuns:    0,
		Runs:         []domain.RunRecord{},
	}
}

func completed(ts string) *string { return &ts }

// Fixture logs. Runs are ordered newest first; the bug-context lookup in the
// reporting aggregator depends on that ordering.
var pipelineLogs = map[string]domain.PipelineLog{
	"PROJ-PLAN1": {
		PipelineKey:  "PROJ-PLAN1",
		PipelineName: "Project Alpha - Build and Deploy",
		TotalRuns:    3,
		Runs: []domain.RunRecord{
			{
				RunID:           "run-001",
				BuildNumber:     123,
				Status:          domain.RunSuccess,
				StartedAt:       "2025-09-17T10:15:30Z",
				CompletedAt:     completed("2025-09-17T10:21:55Z"),
				DurationSeconds: 385,
				TriggeredBy:     "admin",
				Branch:          "main",
				CommitHash:      "abc123def456",
				Errors:          []domain.RunError{},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 15, Output: "Successfully checked out main branch"},
					{Step: "build", Status: domain.RunSuccess, DurationSeconds: 240, Output: "Build completed successfully"},
					{Step: "test", Status: domain.RunSuccess, DurationSeconds: 85, Output: "All 3 tests passed"},
					{Step: "deploy", Status: domain.RunSuccess, DurationSeconds: 45, Output: "Deployment to staging completed"},
				},
			},
			{
				RunID:           "run-002",
				BuildNumber:     122,
				Status:          domain.RunSuccess,
				StartedAt:       "2025-09-17T09:30:12Z",
				CompletedAt:     completed("2025-09-17T09:37:48Z"),
				DurationSeconds: 456,
				TriggeredBy:     "developer",
				Branch:          "main",
				CommitHash:      "xyz789abc123",
				Errors:          []domain.RunError{},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 18, Output: "Successfully checked out main branch"},
					{Step: "build", Status: domain.RunSuccess, DurationSeconds: 285, Output: "Build completed successfully"},
					{Step: "test", Status: domain.RunSuccess, DurationSeconds: 98, Output: "All 3 tests passed"},
					{Step: "deploy", Status: domain.RunSuccess, DurationSeconds: 55, Output: "Deployment to staging completed"},
				},
			},
			{
				RunID:           "run-003",
				BuildNumber:     121,
				Status:          domain.RunSuccess,
				StartedAt:       "2025-09-16T16:45:20Z",
				CompletedAt:     completed("2025-09-16T16:52:35Z"),
				DurationSeconds: 435,
				TriggeredBy:     "scheduler",
				Branch:          "main",
				CommitHash:      "def456ghi789",
				Errors:          []domain.RunError{},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 12, Output: "Successfully checked out main branch"},
					{Step: "build", Status: domain.RunSuccess, DurationSeconds: 265, Output: "Build completed successfully"},
					{Step: "test", Status: domain.RunSuccess, DurationSeconds: 105, Output: "All 3 tests passed"},
					{Step: "deploy", Status: domain.RunSuccess, DurationSeconds: 53, Output: "Deployment to staging completed"},
				},
			},
		},
	},
	"PROJ-PLAN2": {
		PipelineKey:  "PROJ-PLAN2",
		PipelineName: "Project Beta - Testing Pipeline",
		TotalRuns:    2,
		Runs: []domain.RunRecord{
			{
				RunID:           "run-087",
				BuildNumber:     87,
				Status:          domain.RunFailed,
				StartedAt:       "2025-09-16T14:20:15Z",
				CompletedAt:     completed("2025-09-16T14:22:40Z"),
				DurationSeconds: 145,
				TriggeredBy:     "developer",
				Branch:          "feature/new-tests",
				CommitHash:      "def456ghi789",
				Errors: []domain.RunError{
					{Step: "test", Message: "Test 'test_user_validation' failed: AssertionError: Expected 'valid' but got 'invalid'"},
					{Step: "test", Message: "1 out of 3 tests failed"},
				},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 10, Output: "Successfully checked out feature/new-tests branch"},
					{Step: "build", Status: domain.RunSuccess, DurationSeconds: 95, Output: "Build completed successfully"},
					{Step: "test", Status: domain.RunFailed, DurationSeconds: 40, Output: "Test execution failed: 2 passed, 1 failed"},
				},
			},
			{
				RunID:           "run-086",
				BuildNumber:     86,
				Status:          domain.RunSuccess,
				StartedAt:       "2025-09-16T13:15:45Z",
				CompletedAt:     completed("2025-09-16T13:18:50Z"),
				DurationSeconds: 185,
				TriggeredBy:     "developer",
				Branch:          "main",
				CommitHash:      "ghi789jkl012",
				Errors:          []domain.RunError{},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 8, Output: "Successfully checked out main branch"},
					{Step: "build", Status: domain.RunSuccess, DurationSeconds: 120, Output: "Build completed successfully"},
					{Step: "test", Status: domain.RunSuccess, DurationSeconds: 57, Output: "All 3 tests passed"},
				},
			},
		},
	},
	"PROJ-PLAN3": {
		PipelineKey:  "PROJ-PLAN3",
		PipelineName: "Project Gamma - Integration Tests",
		TotalRuns:    3,
		Runs: []domain.RunRecord{
			{
				RunID:       "run-201",
				BuildNumber: 201,
				Status:      domain.RunInProgress,
				StartedAt:   "2025-09-17T11:45:30Z",
				TriggeredBy: "scheduler",
				Branch:      "main",
				CommitHash:  "ghi789jkl012",
				Errors:      []domain.RunError{},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 15, Output: "Successfully checked out main branch"},
					{Step: "build", Status: domain.RunInProgress, Output: "Build in progress..."},
				},
			},
			{
				RunID:           "run-200",
				BuildNumber:     200,
				Status:          domain.RunFailed,
				StartedAt:       "2025-09-17T08:30:20Z",
				CompletedAt:     completed("2025-09-17T08:44:15Z"),
				DurationSeconds: 835,
				TriggeredBy:     "developer",
				Branch:          "develop",
				CommitHash:      "jkl012mno345",
				Errors: []domain.RunError{
					{Step: "integration-test", Message: "Database connection timeout: Unable to connect to test database after 30 seconds"},
					{Step: "integration-test", Message: "Service 'user-service' failed health check: HTTP 503 Service Unavailable"},
				},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 12, Output: "Successfully checked out develop branch"},
					{Step: "build", Status: domain.RunSuccess, DurationSeconds: 320, Output: "Build completed successfully"},
					{Step: "unit-test", Status: domain.RunSuccess, DurationSeconds: 180, Output: "All 25 unit tests passed"},
					{Step: "integration-test", Status: domain.RunFailed, DurationSeconds: 323, Output: "Integration tests failed: 7 passed, 5 failed"},
				},
			},
			{
				RunID:           "run-199",
				BuildNumber:     199,
				Status:          domain.RunSuccess,
				StartedAt:       "2025-09-16T20:15:10Z",
				CompletedAt:     completed("2025-09-16T20:29:25Z"),
				DurationSeconds: 855,
				TriggeredBy:     "scheduler",
				Branch:          "main",
				CommitHash:      "mno345pqr678",
				Errors:          []domain.RunError{},
				Steps: []domain.StepRecord{
					{Step: "checkout", Status: domain.RunSuccess, DurationSeconds: 10, Output: "Successfully checked out main branch"},
					{Step: "build", Status: domain.RunSuccess, DurationSeconds: 345, Output: "Build completed successfully"},
					{Step: "unit-test", Status: domain.RunSuccess, DurationSeconds: 195, Output: "All 25 unit tests passed"},
					{Step: "integration-test", Status: domain.RunSuccess, DurationSeconds: 305, Output: "All 12 integration tests passed"},
				},
			},
		},
	},
}

// Package bamboo serves Bamboo-shaped plan listings and build results from
// fixed fixtures, so analysis runs are deterministic and need no server.
package bamboo

import "github.com/waabox/pipecheck/internal/domain"

// Adapter implements domain.PlanProvider over the static fixtures.
type Adapter struct{}

var _ domain.PlanProvider = (*Adapter)(nil)

// NewAdapter creates a mock Bamboo adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

const baseURL = "https://bamboo.company.com/rest/api/latest"

// ListPlans returns the plan listing with three predefined plans:
// PROJ-PLAN1 (enabled, building green), PROJ-PLAN2 (disabled, last build
// failed), PROJ-PLAN3 (enabled, build in progress).
func (a *Adapter) ListPlans() (domain.PlanListing, error) {
	return domain.PlanListing{
		Plans: domain.PlanCollection{
			Counted: domain.Counted{Size: 3, MaxResult: 25},
			Plan: []domain.PlanRecord{
				{
					ShortName:                 "PLAN1",
					ShortKey:                  "PLAN1",
					Type:                      "chain",
					Enabled:                   true,
					Link:                      domain.Link{Href: baseURL + "/plan/PROJ-PLAN1", Rel: "self"},
					Key:                       "PROJ-PLAN1",
					Name:                      "Project Alpha - Build and Deploy",
					PlanKey:                   domain.KeyRef{Key: "PROJ-PLAN1"},
					ProjectKey:                "PROJ",
					ProjectName:               "Project Alpha",
					Description:               "Main build and deployment pipeline for Project Alpha",
					IsActive:                  true,
					IsBuilding:                false,
					AverageBuildTimeInSeconds: 420,
					Actions:                   domain.Counted{Size: 2, MaxResult: 2},
					Stages:                    domain.Counted{Size: 3, MaxResult: 3},
					Branches:                  domain.Counted{Size: 1, MaxResult: 25},
					VariableContext:           domain.Counted{Size: 5, MaxResult: 25},
				},
				{
					ShortName:                 "PLAN2",
					ShortKey:                  "PLAN2",
					Type:                      "chain",
					Enabled:                   false,
					Link:                      domain.Link{Href: baseURL + "/plan/PROJ-PLAN2", Rel: "self"},
					Key:                       "PROJ-PLAN2",
					Name:                      "Project Beta - Testing Pipeline",
					PlanKey:                   domain.KeyRef{Key: "PROJ-PLAN2"},
					ProjectKey:                "PROJ",
					ProjectName:               "Project Beta",
					Description:               "Automated testing pipeline for Project Beta components",
					IsActive:                  false,
					IsBuilding:                false,
					AverageBuildTimeInSeconds: 180,
					Actions:                   domain.Counted{Size: 1, MaxResult: 1},
					Stages:                    domain.Counted{Size: 2, MaxResult: 2},
					Branches:                  domain.Counted{Size: 1, MaxResult: 25},
					VariableContext:           domain.Counted{Size: 3, MaxResult: 25},
				},
				{
					ShortName:                 "PLAN3",
					ShortKey:                  "PLAN3",
					Type:                      "chain",
					Enabled:                   true,
					Link:                      domain.Link{Href: baseURL + "/plan/PROJ-PLAN3", Rel: "self"},
					Key:                       "PROJ-PLAN3",
					Name:                      "Project Gamma - Integration Tests",
					PlanKey:                   domain.KeyRef{Key: "PROJ-PLAN3"},
					ProjectKey:                "PROJ",
					ProjectName:               "Project Gamma",
					Description:               "End-to-end integration testing for Project Gamma services",
					IsActive:                  true,
					IsBuilding:                true,
					AverageBuildTimeInSeconds: 840,
					Actions:                   domain.Counted{Size: 3, MaxResult: 3},
					Stages:                    domain.Counted{Size: 4, MaxResult: 4},
					Branches:                  domain.Counted{Size: 2, MaxResult: 25},
					VariableContext:           domain.Counted{Size: 8, MaxResult: 25},
				},
			},
		},
		Expand: "plans.plan",
		Link:   domain.Link{Href: baseURL + "/plan", Rel: "self"},
	}, nil
}

// PlanResults returns the latest build results for the given plan key.
// Unknown keys yield an empty result set, never an error.
func (a *Adapter) PlanResults(key string) (domain.ResultListing, error) {
	if result, ok := planResults[key]; ok {
		return domain.ResultListing{
			Results: domain.ResultCollection{
				Counted: domain.Counted{Size: 1, MaxResult: 25},
				Result:  []domain.BuildResult{result},
			},
		}, nil
	}
	return domain.ResultListing{
		Results: domain.ResultCollection{Result: []domain.BuildResult{}},
	}, nil
}

const resultExpand = "changes,metadata,plan,vcs,artifacts,comments,labels,jiraIssues,stages"

var planResults = map[string]domain.BuildResult{
	"PROJ-PLAN1": {
		Expand: resultExpand,
		Link:   domain.Link{Href: baseURL + "/result/PROJ-PLAN1-123", Rel: "self"},
		Plan: domain.PlanRef{
			ShortName: "PLAN1", ShortKey: "PLAN1", Type: "chain", Enabled: true,
			Link: domain.Link{Href: baseURL + "/plan/PROJ-PLAN1", Rel: "self"},
			Key:  "PROJ-PLAN1", Name: "Project Alpha - Build and Deploy",
		},
		PlanName:                 "Project Alpha - Build and Deploy",
		ProjectName:              "Project Alpha",
		BuildResultKey:           "PROJ-PLAN1-123",
		LifeCycleState:           "Finished",
		ID:                       123,
		BuildNumber:              123,
		State:                    "Successful",
		BuildState:               "Successful",
		Number:                   123,
		BuildRelativeTime:        "2 hours ago",
		BuildTestSummary:         "3 passed",
		SuccessfulTestCount:      3,
		Finished:                 true,
		Successful:               true,
		BuildReason:              "Manual run by admin",
		ReasonSummary:            "Manual run by admin",
		BuildDurationInSeconds:   385,
		BuildDuration:            385000,
		BuildDurationDescription: "6 minutes",
		VCSRevisionKey:           "abc123def456",
		Key:                      "PROJ-PLAN1-123",
	},
	"PROJ-PLAN2": {
		Expand: resultExpand,
		Link:   domain.Link{Href: baseURL + "/result/PROJ-PLAN2-87", Rel: "self"},
		Plan: domain.PlanRef{
			ShortName: "PLAN2", ShortKey: "PLAN2", Type: "chain", Enabled: false,
			Link: domain.Link{Href: baseURL + "/plan/PROJ-PLAN2", Rel: "self"},
			Key:  "PROJ-PLAN2", Name: "Project Beta - Testing Pipeline",
		},
		PlanName:                 "Project Beta - Testing Pipeline",
		ProjectName:              "Project Beta",
		BuildResultKey:           "PROJ-PLAN2-87",
		LifeCycleState:           "Finished",
		ID:                       87,
		BuildNumber:              87,
		State:                    "Failed",
		BuildState:               "Failed",
		Number:                   87,
		BuildRelativeTime:        "1 day ago",
		BuildTestSummary:         "2 passed, 1 failed",
		SuccessfulTestCount:      2,
		FailedTestCount:          1,
		Restartable:              true,
		Finished:                 true,
		BuildReason:              "Code has been updated by developer",
		ReasonSummary:            "Code has been updated by developer",
		BuildDurationInSeconds:   145,
		BuildDuration:            145000,
		BuildDurationDescription: "2 minutes",
		VCSRevisionKey:           "def456ghi789",
		Key:                      "PROJ-PLAN2-87",
	},
	"PROJ-PLAN3": {
		Expand: resultExpand,
		Link:   domain.Link{Href: baseURL + "/result/PROJ-PLAN3-201", Rel: "self"},
		Plan: domain.PlanRef{
			ShortName: "PLAN3", ShortKey: "PLAN3", Type: "chain", Enabled: true,
			Link: domain.Link{Href: baseURL + "/plan/PROJ-PLAN3", Rel: "self"},
			Key:  "PROJ-PLAN3", Name: "Project Gamma - Integration Tests",
		},
		PlanName:                 "Project Gamma - Integration Tests",
		ProjectName:              "Project Gamma",
		BuildResultKey:           "PROJ-PLAN3-201",
		LifeCycleState:           "InProgress",
		ID:                       201,
		BuildNumber:              201,
		State:                    "Unknown",
		BuildState:               "Unknown",
		Number:                   201,
		BuildRelativeTime:        "5 minutes ago",
		BuildTestSummary:         "Running...",
		BuildReason:              "Scheduled trigger",
		ReasonSummary:            "Scheduled trigger",
		BuildDurationDescription: "Currently running",
		VCSRevisionKey:           "ghi789jkl012",
		Key:                      "PROJ-PLAN3-201",
	},
}

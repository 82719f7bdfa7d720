package analyzer

import (
	"sort"
	"strings"

	"github.com/waabox/pipecheck/internal/domain"
)

// CommonIssue is one error pattern seen across multiple pipelines.
type CommonIssue struct {
	Issue             string `json:"issue"`
	AffectedPipelines int    `json:"affectedPipelines"`
}

// FleetSummary is a cross-pipeline rollup of shared issues and advice.
type FleetSummary struct {
	TotalPipelines       int           `json:"totalPipelines"`
	OverallHealth        string        `json:"overallHealth"`
	CommonIssues         []CommonIssue `json:"commonIssues"`
	FleetRecommendations []string      `json:"fleetRecommendations"`
}

var healthyKeywords = []string{"excellent", "good", "performing well", "consistent success"}

var unhealthyKeywords = []string{"poor", "concerning", "failures", "requires attention"}

// Fleet rolls up a set of analyses: errors and recommendations shared by
// more than one pipeline, plus a coarse overall health from summary keyword
// scoring.
func Fleet(analyses []domain.PipelineAnalysis) FleetSummary {
	if len(analyses) == 0 {
		return FleetSummary{
			OverallHealth:        "unknown",
			CommonIssues:         []CommonIssue{},
			FleetRecommendations: []string{},
		}
	}

	var allErrors []string
	var allRecommendations []string
	for _, analysis := range analyses {
		for _, e := range analysis.TopErrors {
			allErrors = append(allErrors, e.Message)
		}
		allRecommendations = append(allRecommendations, analysis.Recommendations...)
	}

	commonIssues := []CommonIssue{}
	for _, ec := range countOccurrences(allErrors) {
		if ec.count > 1 && len(commonIssues) < 3 {
			commonIssues = append(commonIssues, CommonIssue{Issue: ec.value, AffectedPipelines: ec.count})
		}
	}

	fleetRecs := []string{}
	for _, rc := range countOccurrences(allRecommendations) {
		if rc.count > 1 && len(fleetRecs) < 3 {
			fleetRecs = append(fleetRecs, rc.value)
		}
	}

	score := 0
	for _, analysis := range analyses {
		summary := strings.ToLower(analysis.Summary)
		if containsAnyOf(summary, healthyKeywords) {
			score++
		} else if containsAnyOf(summary, unhealthyKeywords) {
			score--
		}
	}

	health := "mixed"
	if float64(score) > float64(len(analyses))*0.5 {
		health = "good"
	} else if float64(score) < -float64(len(analyses))*0.3 {
		health = "concerning"
	}

	return FleetSummary{
		TotalPipelines:       len(analyses),
		OverallHealth:        health,
		CommonIssues:         commonIssues,
		FleetRecommendations: fleetRecs,
	}
}

type occurrence struct {
	value string
	count int
}

// countOccurrences counts values and orders them by count descending,
// first-seen order breaking ties.
func countOccurrences(values []string) []occurrence {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]occurrence, 0, len(order))
	for _, v := range order {
		out = append(out, occurrence{value: v, count: counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	return out
}

func containsAnyOf(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

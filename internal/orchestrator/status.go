package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/waabox/pipecheck/internal/domain"
)

// ComponentStatus reports readiness of the orchestrator's collaborators.
type ComponentStatus struct {
	Components map[string]bool `json:"components"`
	Ready      bool            `json:"ready"`
	Version    string          `json:"version"`
	Timestamp  string          `json:"timestamp"`
}

// Status probes the wiring without running the workflow.
func (o *Orchestrator) Status() ComponentStatus {
	components := map[string]bool{
		"planProvider": o.source.Plans != nil,
		"logProvider":  o.source.Logs != nil,
		"analyzer":     o.analyzer != nil,
		"reporter":     o.reporter != nil,
	}
	ready := true
	for _, ok := range components {
		if !ok {
			ready = false
			break
		}
	}
	return ComponentStatus{
		Components: components,
		Ready:      ready,
		Version:    domain.WorkflowVersion,
		Timestamp:  o.now().UTC().Format(time.RFC3339),
	}
}

// QuickHealthCheck runs the full workflow and condenses the outcome into a
// single status line.
func (o *Orchestrator) QuickHealthCheck(ctx context.Context) (line string) {
	defer func() {
		if r := recover(); r != nil {
			line = fmt.Sprintf("🔴 System error - %v", r)
		}
	}()
	result := o.Run(ctx, "quick health check")
	if result.WorkflowInfo.Status != domain.WorkflowSuccess {
		return fmt.Sprintf("⚠️ Issues detected - %s", result.WorkflowInfo.ErrorMessage)
	}
	return fmt.Sprintf("✅ Healthy - %d pipelines analyzed successfully",
		result.Outputs.Summary.PipelinesAnalyzed)
}

// Package normalize converts raw plan listings into canonical pipeline
// descriptors at the ingestion boundary.
package normalize

import (
	"sort"

	"github.com/waabox/pipecheck/internal/domain"
)

// Plans converts a raw plan listing into a deterministically ordered list of
// pipeline descriptors, sorted ascending by key. Missing fields degrade to
// defaults; normalization never fails. The untouched source record rides
// along on every descriptor for audit.
func Plans(raw domain.PlanListing) []domain.PipelineDescriptor {
	plans := raw.Plans.Plan
	normalized := make([]domain.PipelineDescriptor, 0, len(plans))
	for _, plan := range plans {
		normalized = append(normalized, descriptor(plan))
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Key < normalized[j].Key
	})
	return normalized
}

func descriptor(plan domain.PlanRecord) domain.PipelineDescriptor {
	key := plan.Key
	if key == "" {
		key = domain.UnknownKey
	}
	name := plan.Name
	if name == "" {
		name = "Unknown Plan"
	}
	return domain.PipelineDescriptor{
		Key:                     key,
		Name:                    name,
		Enabled:                 plan.Enabled,
		ShortName:               plan.ShortName,
		ProjectKey:              plan.ProjectKey,
		ProjectName:             plan.ProjectName,
		Description:             plan.Description,
		IsActive:                plan.IsActive,
		IsBuilding:              plan.IsBuilding,
		AverageBuildTimeSeconds: plan.AverageBuildTimeInSeconds,
		Link:                    plan.Link.Href,
		Original:                plan,
	}
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/pipecheck/internal/domain"
	"github.com/waabox/pipecheck/internal/provider/bamboo"
)

func listing(plans ...domain.PlanRecord) domain.PlanListing {
	return domain.PlanListing{Plans: domain.PlanCollection{Plan: plans}}
}

func TestPlansSortsByKey(t *testing.T) {
	out := Plans(listing(
		domain.PlanRecord{Key: "PROJ-C", Name: "C"},
		domain.PlanRecord{Key: "PROJ-A", Name: "A"},
		domain.PlanRecord{Key: "PROJ-B", Name: "B"},
	))
	require.Len(t, out, 3)
	assert.Equal(t, "PROJ-A", out[0].Key)
	assert.Equal(t, "PROJ-B", out[1].Key)
	assert.Equal(t, "PROJ-C", out[2].Key)
}

func TestPlansDefaultsMissingFields(t *testing.T) {
	out := Plans(listing(domain.PlanRecord{}))
	require.Len(t, out, 1)
	assert.Equal(t, domain.UnknownKey, out[0].Key)
	assert.Equal(t, "Unknown Plan", out[0].Name)
}

func TestPlansRetainsOriginalRecord(t *testing.T) {
	plan := domain.PlanRecord{
		Key:                       "PROJ-A",
		Name:                      "Alpha",
		AverageBuildTimeInSeconds: 420,
		Link:                      domain.Link{Href: "https://example.com/plan/PROJ-A"},
	}
	out := Plans(listing(plan))
	require.Len(t, out, 1)
	assert.Equal(t, plan, out[0].Original)
	assert.Equal(t, 420, out[0].AverageBuildTimeSeconds)
	assert.Equal(t, "https://example.com/plan/PROJ-A", out[0].Link)
}

func TestPlansEmptyListing(t *testing.T) {
	out := Plans(domain.PlanListing{})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestPlansIsIdempotentOnFixtures(t *testing.T) {
	raw, err := bamboo.NewAdapter().ListPlans()
	require.NoError(t, err)

	first := Plans(raw)
	second := Plans(raw)
	assert.Equal(t, first, second)

	keys := make([]string, 0, len(first))
	for _, p := range first {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"PROJ-PLAN1", "PROJ-PLAN2", "PROJ-PLAN3"}, keys)
}

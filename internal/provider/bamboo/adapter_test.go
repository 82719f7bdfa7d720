package bamboo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPlans(t *testing.T) {
	listing, err := NewAdapter().ListPlans()
	require.NoError(t, err)

	assert.Equal(t, 3, listing.Plans.Size)
	require.Len(t, listing.Plans.Plan, 3)

	keys := make([]string, 0, 3)
	for _, plan := range listing.Plans.Plan {
		keys = append(keys, plan.Key)
		assert.Equal(t, plan.Key, plan.PlanKey.Key)
		assert.Equal(t, "chain", plan.Type)
		assert.NotEmpty(t, plan.Link.Href)
	}
	assert.Equal(t, []string{"PROJ-PLAN1", "PROJ-PLAN2", "PROJ-PLAN3"}, keys)

	assert.True(t, listing.Plans.Plan[0].Enabled)
	assert.False(t, listing.Plans.Plan[1].Enabled)
	assert.True(t, listing.Plans.Plan[2].IsBuilding)
}

func TestPlanResults(t *testing.T) {
	a := NewAdapter()

	results, err := a.PlanResults("PROJ-PLAN2")
	require.NoError(t, err)
	require.Len(t, results.Results.Result, 1)
	r := results.Results.Result[0]
	assert.Equal(t, "PROJ-PLAN2-87", r.BuildResultKey)
	assert.Equal(t, "Failed", r.State)
	assert.Equal(t, 145, r.BuildDurationInSeconds)
	assert.False(t, r.Successful)
}

func TestPlanResultsUnknownKey(t *testing.T) {
	results, err := NewAdapter().PlanResults("PROJ-NOPE")
	require.NoError(t, err)
	assert.Empty(t, results.Results.Result)
}

package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/dealdesk/backend/src/models"
)

func TestCalculateCommission_NoAgents(t *testing.T) {
	result := CalculateCommission(100, nil, nil)

	assert.Equal(t, 100.0, result.AgencyAmount)
	assert.Empty(t, result.Agents)
}

func TestCalculateCommission_OneAgentPerRole(t *testing.T) {
	result := CalculateCommission(200, []string{"a1"}, []string{"a2"})

	assert.Equal(t, 100.0, result.AgencyAmount)
	require.Len(t, result.Agents, 2)
	assert.Equal(t, models.CommissionAgent{AgentID: "a1", Role: models.RoleListing, Amount: 50}, result.Agents[0])
	assert.Equal(t, models.CommissionAgent{AgentID: "a2", Role: models.RoleSelling, Amount: 50}, result.Agents[1])
}

func TestCalculateCommission_SameAgentBothRoles(t *testing.T) {
	result := CalculateCommission(100, []string{"a1"}, []string{"a1"})

	assert.Equal(t, 50.0, result.AgencyAmount)
	require.Len(t, result.Agents, 2)
	assert.Equal(t, models.CommissionAgent{AgentID: "a1", Role: models.RoleListing, Amount: 25}, result.Agents[0])
	assert.Equal(t, models.CommissionAgent{AgentID: "a1", Role: models.RoleSelling, Amount: 25}, result.Agents[1])
}

func TestCalculateCommission_SingleAgentSingleRole(t *testing.T) {
	result := CalculateCommission(80, []string{"a1"}, nil)

	assert.Equal(t, 40.0, result.AgencyAmount)
	require.Len(t, result.Agents, 1)
	assert.Equal(t, models.CommissionAgent{AgentID: "a1", Role: models.RoleListing, Amount: 40}, result.Agents[0])
}

func TestCalculateCommission_DistinctAgentsSplitEvenly(t *testing.T) {
	result := CalculateCommission(400, []string{"a1", "a2"}, []string{"a3", "a4"})

	assert.Equal(t, 200.0, result.AgencyAmount)
	require.Len(t, result.Agents, 4)
	for _, agent := range result.Agents {
		assert.Equal(t, 50.0, agent.Amount)
	}
}

func TestCalculateCommission_DuplicateWithinOneList(t *testing.T) {
	// Duplicate role assignments each earn a share.
	result := CalculateCommission(90, []string{"a1", "a1", "a2"}, nil)

	assert.Equal(t, 45.0, result.AgencyAmount)
	require.Len(t, result.Agents, 3)
	var a1Total float64
	for _, agent := range result.Agents {
		assert.Equal(t, 15.0, agent.Amount)
		assert.Equal(t, models.RoleListing, agent.Role)
		if agent.AgentID == "a1" {
			a1Total += agent.Amount
		}
	}
	assert.Equal(t, 30.0, a1Total)
}

func TestCalculateCommission_MoneyConservation(t *testing.T) {
	tests := []struct {
		name     string
		totalFee float64
		listing  []string
		selling  []string
	}{
		{"zero fee", 0, []string{"a1"}, []string{"a2"}},
		{"no agents", 123.45, nil, nil},
		{"three-way split", 100, []string{"a1"}, []string{"a2", "a3"}},
		{"seven occurrences", 999.99, []string{"a1", "a2", "a3", "a4"}, []string{"a5", "a1", "a2"}},
		{"fraction-heavy fee", 0.03, []string{"a1", "a2", "a3"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateCommission(tt.totalFee, tt.listing, tt.selling)
			sum := result.AgencyAmount
			for _, agent := range result.Agents {
				sum += agent.Amount
			}
			assert.InDelta(t, tt.totalFee, sum, 1e-9)
		})
	}
}

func TestCalculateCommission_ListingEntriesBeforeSelling(t *testing.T) {
	result := CalculateCommission(100, []string{"a1", "a2"}, []string{"a3"})

	require.Len(t, result.Agents, 3)
	assert.Equal(t, models.RoleListing, result.Agents[0].Role)
	assert.Equal(t, models.RoleListing, result.Agents[1].Role)
	assert.Equal(t, models.RoleSelling, result.Agents[2].Role)
}

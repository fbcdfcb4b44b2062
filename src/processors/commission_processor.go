package processors

import (
	"github.com/username/dealdesk/backend/src/models"
)

// CalculateCommission splits totalFee between the agency and the agents
// on the transaction. With no agents the agency keeps the whole fee.
// Otherwise the agency keeps half and the other half is divided evenly
// across role occurrences: every slot in the listing and selling lists
// earns one share, so an agent on both sides earns two shares and a
// duplicate entry within one list earns a share per occurrence.
//
// Division is plain float64 division; rounding for display is left to
// the presentation layer. For any non-negative fee the agency amount
// plus the agent amounts sums back to totalFee.
func CalculateCommission(totalFee float64, listingAgentIDs, sellingAgentIDs []string) models.CommissionBreakdown {
	distinct := make(map[string]struct{}, len(listingAgentIDs)+len(sellingAgentIDs))
	for _, id := range listingAgentIDs {
		distinct[id] = struct{}{}
	}
	for _, id := range sellingAgentIDs {
		distinct[id] = struct{}{}
	}

	if len(distinct) == 0 {
		return models.CommissionBreakdown{
			AgencyAmount: totalFee,
			Agents:       []models.CommissionAgent{},
		}
	}

	agencyAmount := totalFee / 2
	agentPool := totalFee - agencyAmount
	occurrences := len(listingAgentIDs) + len(sellingAgentIDs)
	share := agentPool / float64(occurrences)

	agents := make([]models.CommissionAgent, 0, occurrences)
	for _, id := range listingAgentIDs {
		agents = append(agents, models.CommissionAgent{AgentID: id, Role: models.RoleListing, Amount: share})
	}
	for _, id := range sellingAgentIDs {
		agents = append(agents, models.CommissionAgent{AgentID: id, Role: models.RoleSelling, Amount: share})
	}

	return models.CommissionBreakdown{
		AgencyAmount: agencyAmount,
		Agents:       agents,
	}
}

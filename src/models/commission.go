package models

import "time"

// CommissionAgent is one role occurrence's share of the agent pool. An
// agent appearing in both role lists gets two entries, one per role.
type CommissionAgent struct {
	AgentID string    `json:"agentId"`
	Role    AgentRole `json:"role"`
	Amount  float64   `json:"amount"`
}

// Commission is the one-time agency/agent fee split computed when a
// transaction reaches completed. Invariant:
// AgencyAmount + sum of agent amounts == the transaction's total fee.
type Commission struct {
	ID            string            `json:"id"`
	TransactionID string            `json:"transactionId"`
	AgencyAmount  float64           `json:"agencyAmount"`
	Agents        []CommissionAgent `json:"agents"`
	CreatedAt     time.Time         `json:"created"`
}

// CommissionBreakdown is the pure calculator output, before persistence.
type CommissionBreakdown struct {
	AgencyAmount float64
	Agents       []CommissionAgent
}

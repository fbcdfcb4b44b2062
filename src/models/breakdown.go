package models

// BreakdownAgent is a commission agent entry joined with directory
// contact fields. The contact fields stay empty when the agent no longer
// resolves in the directory.
type BreakdownAgent struct {
	AgentID string    `json:"agentId"`
	Role    AgentRole `json:"role"`
	Amount  float64   `json:"amount"`
	Name    string    `json:"name,omitempty"`
	Surname string    `json:"surname,omitempty"`
	Email   string    `json:"email,omitempty"`
}

// BreakdownCommission is the zero-or-one commission attached to a
// completed transaction in the financial breakdown report.
type BreakdownCommission struct {
	ID           string           `json:"id"`
	AgencyAmount float64          `json:"agencyAmount"`
	Agents       []BreakdownAgent `json:"agents"`
}

// FinancialBreakdownItem is one completed transaction in the report.
// Commission is nil when the transaction has no stored commission record.
type FinancialBreakdownItem struct {
	TransactionID string               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	TotalFee      float64              `json:"total_fee"`
	Commission    *BreakdownCommission `json:"commission"`
}

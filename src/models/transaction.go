package models

import "time"

// Stage is one of the four ordered phases of a transaction's life.
type Stage string

const (
	StageAgreement    Stage = "agreement"
	StageEarnestMoney Stage = "earnest_money"
	StageTitleDeed    Stage = "title_deed"
	StageCompleted    Stage = "completed"
)

// StageOrder maps each known stage to its position in the lifecycle.
// Unknown stages are absent from the map.
var StageOrder = map[Stage]int{
	StageAgreement:    0,
	StageEarnestMoney: 1,
	StageTitleDeed:    2,
	StageCompleted:    3,
}

// IsValidStage reports whether s names one of the four lifecycle stages.
func IsValidStage(s Stage) bool {
	_, ok := StageOrder[s]
	return ok
}

// Transaction is a single real-estate sale tracked through the lifecycle.
// TotalFee is fixed at creation; the stage fields are mutated only by
// ChangeStage and the agent lists only by AddAgent.
type Transaction struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsActive      bool      `json:"isActive"`
	IsDeleted     bool      `json:"isDeleted"`
	Stage         Stage     `json:"stage"`
	PreviousStage Stage     `json:"previousStage,omitempty"` // empty until the first transition
	TotalFee      float64   `json:"total_fee"`
	ListingAgents []string  `json:"listing_agents"`
	SellingAgents []string  `json:"selling_agents"`
	CreatedAt     time.Time `json:"created"`
	UpdatedAt     time.Time `json:"updated"`

	TransactionHistory []HistoryEntry `json:"transactionHistory"`
}

package services

import (
	"github.com/username/dealdesk/backend/src/models"
)

// TransactionStore is the record-store surface the lifecycle orchestrator
// drives. Implemented by storage.TransactionStore.
type TransactionStore interface {
	Create(tx *models.Transaction) error
	FindByID(id string) (*models.Transaction, error)
	FindAll() ([]models.Transaction, error)
	FindCompleted() ([]models.Transaction, error)
	ChangeStage(id string, stage, previousStage models.Stage) error
	AppendHistory(id string, entry models.HistoryEntry) error
	AddAgent(id, agentID string, role models.AgentRole) error
	FindHistoryByID(id string) ([]models.HistoryEntry, error)
}

// AgentStore is the agent directory surface: contact lookups and the
// additive vesting counter.
type AgentStore interface {
	Create(agent *models.Agent) error
	FindByID(id string) (*models.Agent, error)
	FindAll() ([]models.Agent, error)
	AddTotalVesting(id string, amount float64) (*models.Agent, error)
}

type CommissionStore interface {
	Create(commission *models.Commission) error
	FindByTransactionID(transactionID string) (*models.Commission, error)
}

// TransactionService drives the transaction lifecycle and the reporting
// reads built on top of it.
type TransactionService interface {
	Create(tx *models.Transaction) (*models.Transaction, error)
	FindAll() ([]models.Transaction, error)
	FindByID(id string) (*models.Transaction, error)
	ChangeStage(id string, target models.Stage) (*models.Transaction, error)
	AddAgent(id, agentID string, role models.AgentRole) (*models.Transaction, error)
	FinancialBreakdown() ([]models.FinancialBreakdownItem, error)
	FindTransactionHistoryByID(id string) ([]models.HistoryEntry, error)
}

type AgentService interface {
	Create(agent *models.Agent) (*models.Agent, error)
	FindAll() ([]models.Agent, error)
	FindByID(id string) (*models.Agent, error)
}

// EmailService notifies agents of their commission share when a
// transaction completes.
type EmailService interface {
	SendCommissionStatement(toEmail, agentName, transactionName string, role models.AgentRole, amount float64) error
}

// PDFService renders the reporting exports.
type PDFService interface {
	GenerateFinancialBreakdownPDF(items []models.FinancialBreakdownItem) ([]byte, error)
	GenerateTransactionHistoryPDF(transactionID, transactionName string, history []models.HistoryEntry) ([]byte, error)
}

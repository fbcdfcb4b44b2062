package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/dealdesk/backend/src/models"
)

// CommissionStore persists the one-time fee split computed at completion.
type CommissionStore struct {
	db *sql.DB
}

func NewCommissionStore(db *sql.DB) *CommissionStore {
	return &CommissionStore{db: db}
}

func (s *CommissionStore) Create(commission *models.Commission) error {
	if commission.ID == "" {
		commission.ID = uuid.NewString()
	}
	commission.CreatedAt = time.Now().UTC()

	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin commission insert: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.Exec(`
	INSERT INTO commissions (id, transaction_id, agency_amount, created_at)
	VALUES (?, ?, ?, ?)`,
		commission.ID, commission.TransactionID, commission.AgencyAmount, commission.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert commission: %w", err)
	}

	for _, agent := range commission.Agents {
		if _, err := dbTx.Exec(`
		INSERT INTO commission_agents (commission_id, agent_id, role, amount)
		VALUES (?, ?, ?, ?)`,
			commission.ID, agent.AgentID, string(agent.Role), agent.Amount); err != nil {
			return fmt.Errorf("failed to insert commission agent: %w", err)
		}
	}

	return dbTx.Commit()
}

// FindByTransactionID returns (nil, nil) when the transaction has no
// stored commission.
func (s *CommissionStore) FindByTransactionID(transactionID string) (*models.Commission, error) {
	row := s.db.QueryRow(`
	SELECT id, transaction_id, agency_amount, created_at
	FROM commissions
	WHERE transaction_id = ?
	ORDER BY created_at DESC
	LIMIT 1`, transactionID)

	var commission models.Commission
	err := row.Scan(&commission.ID, &commission.TransactionID, &commission.AgencyAmount, &commission.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query commission: %w", err)
	}

	rows, err := s.db.Query(`
	SELECT agent_id, role, amount
	FROM commission_agents
	WHERE commission_id = ?
	ORDER BY id ASC`, commission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commission agents: %w", err)
	}
	defer rows.Close()

	commission.Agents = []models.CommissionAgent{}
	for rows.Next() {
		var agent models.CommissionAgent
		var role string
		if err := rows.Scan(&agent.AgentID, &role, &agent.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan commission agent: %w", err)
		}
		agent.Role = models.AgentRole(role)
		commission.Agents = append(commission.Agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &commission, nil
}

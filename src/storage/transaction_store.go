package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/dealdesk/backend/src/models"
)

// TransactionStore persists transactions, their ordered agent-role lists
// and their append-only history.
type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create inserts the transaction and its initial agent lists. A missing
// ID is generated; CreatedAt/UpdatedAt are stamped here.
func (s *TransactionStore) Create(tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction insert: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.Exec(`
	INSERT INTO transactions (id, name, description, is_active, is_deleted, stage, previous_stage, total_fee, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Name, tx.Description, tx.IsActive, tx.IsDeleted, string(tx.Stage), string(tx.PreviousStage), tx.TotalFee, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for _, agentID := range tx.ListingAgents {
		if _, err := dbTx.Exec(`INSERT INTO transaction_agents (transaction_id, agent_id, role) VALUES (?, ?, ?)`,
			tx.ID, agentID, string(models.RoleListing)); err != nil {
			return fmt.Errorf("failed to insert listing agent: %w", err)
		}
	}
	for _, agentID := range tx.SellingAgents {
		if _, err := dbTx.Exec(`INSERT INTO transaction_agents (transaction_id, agent_id, role) VALUES (?, ?, ?)`,
			tx.ID, agentID, string(models.RoleSelling)); err != nil {
			return fmt.Errorf("failed to insert selling agent: %w", err)
		}
	}

	return dbTx.Commit()
}

// FindByID loads one transaction with its agent lists and full history.
// Returns (nil, nil) when no such transaction exists.
func (s *TransactionStore) FindByID(id string) (*models.Transaction, error) {
	row := s.db.QueryRow(`
	SELECT id, name, description, is_active, is_deleted, stage, previous_stage, total_fee, created_at, updated_at
	FROM transactions
	WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := s.loadAgents(tx); err != nil {
		return nil, err
	}
	history, err := s.FindHistoryByID(id)
	if err != nil {
		return nil, err
	}
	tx.TransactionHistory = history
	return tx, nil
}

// FindAll returns every transaction with agent lists but without history.
func (s *TransactionStore) FindAll() ([]models.Transaction, error) {
	return s.queryTransactions(`
	SELECT id, name, description, is_active, is_deleted, stage, previous_stage, total_fee, created_at, updated_at
	FROM transactions
	ORDER BY created_at DESC, id DESC`)
}

// FindCompleted returns the completed transactions, the read side of the
// financial breakdown report.
func (s *TransactionStore) FindCompleted() ([]models.Transaction, error) {
	return s.queryTransactions(`
	SELECT id, name, description, is_active, is_deleted, stage, previous_stage, total_fee, created_at, updated_at
	FROM transactions
	WHERE stage = 'completed'
	ORDER BY created_at DESC, id DESC`)
}

// ChangeStage writes the new stage and records the stage it replaced.
// Returns sql.ErrNoRows when the transaction does not exist.
func (s *TransactionStore) ChangeStage(id string, stage, previousStage models.Stage) error {
	res, err := s.db.Exec(`
	UPDATE transactions
	SET stage = ?, previous_stage = ?, updated_at = ?
	WHERE id = ?`, string(stage), string(previousStage), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AppendHistory appends one immutable entry. Entries are only ever
// inserted; ordering is the autoincrement rowid.
func (s *TransactionStore) AppendHistory(id string, entry models.HistoryEntry) error {
	payload := entry.Payload
	if payload == nil {
		payload = json.RawMessage("{}")
	}
	_, err := s.db.Exec(`
	INSERT INTO transaction_history (transaction_id, type, payload, created_at)
	VALUES (?, ?, ?, ?)`, id, string(entry.Type), string(payload), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// AddAgent appends one role occurrence. Duplicates are accepted; the
// commission split counts occurrences, not distinct agents.
func (s *TransactionStore) AddAgent(id, agentID string, role models.AgentRole) error {
	var exists string
	if err := s.db.QueryRow(`SELECT id FROM transactions WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO transaction_agents (transaction_id, agent_id, role) VALUES (?, ?, ?)`,
		id, agentID, string(role))
	if err != nil {
		return fmt.Errorf("failed to add agent to transaction: %w", err)
	}
	return nil
}

// FindHistoryByID returns the history entries in append order.
func (s *TransactionStore) FindHistoryByID(id string) ([]models.HistoryEntry, error) {
	rows, err := s.db.Query(`
	SELECT type, payload, created_at
	FROM transaction_history
	WHERE transaction_id = ?
	ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction history: %w", err)
	}
	defer rows.Close()

	var history []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		var entryType, payload string
		if err := rows.Scan(&entryType, &payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Type = models.HistoryEntryType(entryType)
		entry.Payload = json.RawMessage(payload)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *TransactionStore) queryTransactions(query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range transactions {
		if err := s.loadAgents(&transactions[i]); err != nil {
			return nil, err
		}
	}
	return transactions, nil
}

func (s *TransactionStore) loadAgents(tx *models.Transaction) error {
	rows, err := s.db.Query(`
	SELECT agent_id, role
	FROM transaction_agents
	WHERE transaction_id = ?
	ORDER BY id ASC`, tx.ID)
	if err != nil {
		return fmt.Errorf("failed to query transaction agents: %w", err)
	}
	defer rows.Close()

	tx.ListingAgents = []string{}
	tx.SellingAgents = []string{}
	for rows.Next() {
		var agentID, role string
		if err := rows.Scan(&agentID, &role); err != nil {
			return fmt.Errorf("failed to scan transaction agent: %w", err)
		}
		switch models.AgentRole(role) {
		case models.RoleListing:
			tx.ListingAgents = append(tx.ListingAgents, agentID)
		case models.RoleSelling:
			tx.SellingAgents = append(tx.SellingAgents, agentID)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	var stage, previousStage string
	err := row.Scan(&tx.ID, &tx.Name, &tx.Description, &tx.IsActive, &tx.IsDeleted,
		&stage, &previousStage, &tx.TotalFee, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tx.Stage = models.Stage(stage)
	tx.PreviousStage = models.Stage(previousStage)
	return &tx, nil
}

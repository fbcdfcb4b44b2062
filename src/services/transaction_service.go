package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/dealdesk/backend/src/logger"
	"github.com/username/dealdesk/backend/src/models"
	"github.com/username/dealdesk/backend/src/processors"
)

const breakdownCacheKey = "res_financial_breakdown"

type transactionServiceImpl struct {
	transactionStore TransactionStore
	commissionStore  CommissionStore
	agentStore       AgentStore
	emailService     EmailService // nil disables statement emails
	reportCache      *cache.Cache
}

func NewTransactionService(
	transactionStore TransactionStore,
	commissionStore CommissionStore,
	agentStore AgentStore,
	emailService EmailService,
	reportCache *cache.Cache,
) TransactionService {
	return &transactionServiceImpl{
		transactionStore: transactionStore,
		commissionStore:  commissionStore,
		agentStore:       agentStore,
		emailService:     emailService,
		reportCache:      reportCache,
	}
}

func (s *transactionServiceImpl) Create(tx *models.Transaction) (*models.Transaction, error) {
	if err := s.transactionStore.Create(tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return s.transactionStore.FindByID(tx.ID)
}

func (s *transactionServiceImpl) FindAll() ([]models.Transaction, error) {
	return s.transactionStore.FindAll()
}

func (s *transactionServiceImpl) FindByID(id string) (*models.Transaction, error) {
	return s.transactionStore.FindByID(id)
}

func (s *transactionServiceImpl) FindTransactionHistoryByID(id string) ([]models.HistoryEntry, error) {
	tx, err := s.transactionStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	return tx.TransactionHistory, nil
}

// ChangeStage moves the transaction to target and records the change.
// Reaching completed additionally computes and persists the commission
// split, writes the enriched audit entry and credits agent vesting.
//
// The steps after the stage write are not one atomic unit: a failure
// there surfaces to the caller but does not roll the stage back.
func (s *transactionServiceImpl) ChangeStage(id string, target models.Stage) (*models.Transaction, error) {
	tx, err := s.transactionStore.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", id, err)
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}

	if !processors.IsLegalTransition(target, tx.Stage) {
		return nil, &InvalidTransitionError{From: tx.Stage, To: target}
	}

	if err := s.transactionStore.ChangeStage(id, target, tx.Stage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to persist stage change: %w", err)
	}

	fromLabel := string(tx.Stage)
	if fromLabel == "" {
		fromLabel = "initial"
	}
	entry, err := models.NewHistoryEntry(models.HistoryChangeStage, models.ChangeStagePayload{
		Details: fmt.Sprintf("Transitioned from %s to %s at %s", fromLabel, target, time.Now().UTC().Format(time.RFC3339)),
	})
	if err != nil {
		return nil, err
	}
	if err := s.transactionStore.AppendHistory(id, entry); err != nil {
		return nil, fmt.Errorf("stage updated but history append failed: %w", err)
	}

	if target == models.StageCompleted {
		if err := s.completeTransaction(tx); err != nil {
			return nil, err
		}
	}

	updated, err := s.transactionStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrTransactionNotFound
	}
	return updated, nil
}

// completeTransaction runs the completion side effects: commission
// persistence, the enriched audit entry, vesting credits and statement
// emails. tx carries the agent lists as loaded before the stage write.
func (s *transactionServiceImpl) completeTransaction(tx *models.Transaction) error {
	breakdown := processors.CalculateCommission(tx.TotalFee, tx.ListingAgents, tx.SellingAgents)

	commission := &models.Commission{
		TransactionID: tx.ID,
		AgencyAmount:  breakdown.AgencyAmount,
		Agents:        breakdown.Agents,
	}
	if err := s.commissionStore.Create(commission); err != nil {
		return fmt.Errorf("failed to persist commission for transaction %s: %w", tx.ID, err)
	}

	// Agents that no longer resolve in the directory are left out of the
	// audit payload, not out of the vesting credits below.
	agentsData := make([]models.AgentSharePayload, 0, len(breakdown.Agents))
	for _, share := range breakdown.Agents {
		agent, err := s.agentStore.FindByID(share.AgentID)
		if err != nil {
			return fmt.Errorf("failed to resolve agent %s: %w", share.AgentID, err)
		}
		if agent == nil {
			logger.L.Warn("Commission agent not found in directory, omitting from history payload",
				"transactionID", tx.ID, "agentID", share.AgentID)
			continue
		}
		agentsData = append(agentsData, models.AgentSharePayload{
			ID:      agent.ID,
			Name:    agent.Name,
			Surname: agent.Surname,
			Email:   agent.Email,
			Phone:   agent.Phone,
			Amount:  share.Amount,
			Role:    string(share.Role),
		})
	}

	entry, err := models.NewHistoryEntry(models.HistoryCommissionCalculation, models.CommissionCalculationPayload{
		Details:      fmt.Sprintf("Commission calculated for %s at %s", models.StageCompleted, time.Now().UTC().Format(time.RFC3339)),
		AgencyAmount: breakdown.AgencyAmount,
		Agents:       agentsData,
	})
	if err != nil {
		return err
	}
	if err := s.transactionStore.AppendHistory(tx.ID, entry); err != nil {
		return fmt.Errorf("commission persisted but history append failed: %w", err)
	}

	// Credits are independent per occurrence; one failure must not stop
	// the rest.
	for _, share := range breakdown.Agents {
		updated, err := s.agentStore.AddTotalVesting(share.AgentID, share.Amount)
		if err != nil {
			logger.L.Error("Failed to credit agent vesting",
				"transactionID", tx.ID, "agentID", share.AgentID, "amount", share.Amount, "error", err)
			continue
		}
		if updated == nil {
			logger.L.Warn("Vesting credit skipped, agent not found",
				"transactionID", tx.ID, "agentID", share.AgentID, "amount", share.Amount)
		}
	}

	if s.emailService != nil {
		for _, agent := range agentsData {
			if err := s.emailService.SendCommissionStatement(agent.Email, agent.Name, tx.Name,
				models.AgentRole(agent.Role), agent.Amount); err != nil {
				logger.L.Error("Failed to send commission statement email",
					"transactionID", tx.ID, "agentID", agent.ID, "error", err)
			}
		}
	}

	if s.reportCache != nil {
		s.reportCache.Delete(breakdownCacheKey)
	}
	return nil
}

// AddAgent appends a role occurrence to the transaction. Duplicates are
// accepted by contract; the occurrence-based split pays each one.
func (s *transactionServiceImpl) AddAgent(id, agentID string, role models.AgentRole) (*models.Transaction, error) {
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	if err := s.transactionStore.AddAgent(id, agentID, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to add agent to transaction: %w", err)
	}

	entryType := models.HistoryAddListingAgent
	if role == models.RoleSelling {
		entryType = models.HistoryAddSellingAgent
	}
	entry, err := models.NewHistoryEntry(entryType, models.NotePayload{
		Details: fmt.Sprintf("Agent %s added as %s agent", agentID, role),
	})
	if err != nil {
		return nil, err
	}
	if err := s.transactionStore.AppendHistory(id, entry); err != nil {
		return nil, fmt.Errorf("agent added but history append failed: %w", err)
	}

	updated, err := s.transactionStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrTransactionNotFound
	}
	return updated, nil
}

// FinancialBreakdown joins completed transactions with their commissions
// and each commission agent with directory contact fields. The join is
// three explicit reads, cached until the next completion.
func (s *transactionServiceImpl) FinancialBreakdown() ([]models.FinancialBreakdownItem, error) {
	if s.reportCache != nil {
		if cached, found := s.reportCache.Get(breakdownCacheKey); found {
			if items, ok := cached.([]models.FinancialBreakdownItem); ok {
				return items, nil
			}
		}
	}

	completed, err := s.transactionStore.FindCompleted()
	if err != nil {
		return nil, fmt.Errorf("failed to load completed transactions: %w", err)
	}

	items := make([]models.FinancialBreakdownItem, 0, len(completed))
	for _, tx := range completed {
		item := models.FinancialBreakdownItem{
			TransactionID: tx.ID,
			Name:          tx.Name,
			Description:   tx.Description,
			TotalFee:      tx.TotalFee,
		}

		commission, err := s.commissionStore.FindByTransactionID(tx.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load commission for transaction %s: %w", tx.ID, err)
		}
		if commission != nil {
			breakdownCommission := &models.BreakdownCommission{
				ID:           commission.ID,
				AgencyAmount: commission.AgencyAmount,
				Agents:       []models.BreakdownAgent{},
			}
			for _, share := range commission.Agents {
				breakdownAgent := models.BreakdownAgent{
					AgentID: share.AgentID,
					Role:    share.Role,
					Amount:  share.Amount,
				}
				agent, err := s.agentStore.FindByID(share.AgentID)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve agent %s: %w", share.AgentID, err)
				}
				if agent != nil {
					breakdownAgent.Name = agent.Name
					breakdownAgent.Surname = agent.Surname
					breakdownAgent.Email = agent.Email
				}
				breakdownCommission.Agents = append(breakdownCommission.Agents, breakdownAgent)
			}
			item.Commission = breakdownCommission
		}

		items = append(items, item)
	}

	if s.reportCache != nil {
		s.reportCache.Set(breakdownCacheKey, items, cache.DefaultExpiration)
	}
	return items, nil
}

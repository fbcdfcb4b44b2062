package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/username/dealdesk/backend/src/logger"
	"github.com/username/dealdesk/backend/src/models"
	"github.com/username/dealdesk/backend/src/security/validation"
	"github.com/username/dealdesk/backend/src/services"
	"github.com/username/dealdesk/backend/src/utils"
)

type TransactionHandler struct {
	transactionService services.TransactionService
	pdfService         services.PDFService
}

func NewTransactionHandler(transactionService services.TransactionService, pdfService services.PDFService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		pdfService:         pdfService,
	}
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		TotalFee      float64  `json:"total_fee"`
		ListingAgents []string `json:"listing_agents"`
		SellingAgents []string `json:"selling_agents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		utils.SendJSONError(w, "Transaction name is required", http.StatusBadRequest)
		return
	}
	if payload.TotalFee < 0 {
		utils.SendJSONError(w, "Total fee cannot be negative", http.StatusBadRequest)
		return
	}

	tx := &models.Transaction{
		Name:          validation.StripUnprintable(payload.Name),
		Description:   validation.StripUnprintable(payload.Description),
		IsActive:      true,
		TotalFee:      payload.TotalFee,
		ListingAgents: payload.ListingAgents,
		SellingAgents: payload.SellingAgents,
	}

	created, err := h.transactionService.Create(tx)
	if err != nil {
		logger.L.Error("Failed to create transaction", "error", err)
		utils.SendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	transactions, err := h.transactionService.FindAll()
	if err != nil {
		utils.SendJSONError(w, "Failed to load transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

func (h *TransactionHandler) HandleChangeStage(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload struct {
		TransactionID string `json:"transaction_id"`
		Stage         string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.TransactionID == "" || payload.Stage == "" {
		utils.SendJSONError(w, "transaction_id and stage are required", http.StatusBadRequest)
		return
	}
	if !models.IsValidStage(models.Stage(payload.Stage)) {
		utils.SendJSONError(w, fmt.Sprintf("Unknown stage: %s", payload.Stage), http.StatusBadRequest)
		return
	}

	updated, err := h.transactionService.ChangeStage(payload.TransactionID, models.Stage(payload.Stage))
	if err != nil {
		var invalidTransition *services.InvalidTransitionError
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
		case errors.As(err, &invalidTransition):
			utils.SendJSONError(w, invalidTransition.Error(), http.StatusBadRequest)
		default:
			logger.L.Error("Failed to change transaction stage",
				"transactionID", payload.TransactionID, "stage", payload.Stage, "error", err)
			utils.SendJSONError(w, "Failed to change transaction stage", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *TransactionHandler) HandleAddAgent(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload struct {
		TransactionID string `json:"transaction_id"`
		AgentID       string `json:"agent_id"`
		Role          string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.TransactionID == "" || payload.AgentID == "" {
		utils.SendJSONError(w, "transaction_id and agent_id are required", http.StatusBadRequest)
		return
	}

	updated, err := h.transactionService.AddAgent(payload.TransactionID, payload.AgentID, models.AgentRole(payload.Role))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
		case errors.Is(err, services.ErrInvalidRole):
			utils.SendJSONError(w, fmt.Sprintf("Invalid agent role: %s", payload.Role), http.StatusBadRequest)
		default:
			logger.L.Error("Failed to add agent to transaction",
				"transactionID", payload.TransactionID, "agentID", payload.AgentID, "error", err)
			utils.SendJSONError(w, "Failed to add agent to transaction", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *TransactionHandler) HandleFinancialBreakdown(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	items, err := h.transactionService.FinancialBreakdown()
	if err != nil {
		utils.SendJSONError(w, "Failed to build financial breakdown", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.FinancialBreakdownItem{}
	}

	if etag, err := utils.GenerateETag(items); err == nil {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *TransactionHandler) HandleFinancialBreakdownPDF(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	items, err := h.transactionService.FinancialBreakdown()
	if err != nil {
		utils.SendJSONError(w, "Failed to build financial breakdown", http.StatusInternalServerError)
		return
	}

	pdfBytes, err := h.pdfService.GenerateFinancialBreakdownPDF(items)
	if err != nil {
		logger.L.Error("Failed to render financial breakdown PDF", "error", err)
		utils.SendJSONError(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("financial-breakdown-%s.pdf", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(pdfBytes)
}

func (h *TransactionHandler) HandleGetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")

	history, err := h.transactionService.FindTransactionHistoryByID(id)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to load transaction history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

func (h *TransactionHandler) HandleGetTransactionHistoryPDF(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")

	tx, err := h.transactionService.FindByID(id)
	if err != nil {
		utils.SendJSONError(w, "Failed to load transaction", http.StatusInternalServerError)
		return
	}
	if tx == nil {
		utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
		return
	}

	pdfBytes, err := h.pdfService.GenerateTransactionHistoryPDF(tx.ID, tx.Name, tx.TransactionHistory)
	if err != nil {
		logger.L.Error("Failed to render transaction history PDF", "transactionID", id, "error", err)
		utils.SendJSONError(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("transaction-history-%s-%s.pdf", id, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(pdfBytes)
}

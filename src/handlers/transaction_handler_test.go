package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/dealdesk/backend/src/logger"
	"github.com/username/dealdesk/backend/src/models"
	"github.com/username/dealdesk/backend/src/services"
)

type fakeTransactionService struct {
	changeStageCalls int
	tx               *models.Transaction
}

func (f *fakeTransactionService) Create(tx *models.Transaction) (*models.Transaction, error) {
	return tx, nil
}

func (f *fakeTransactionService) FindAll() ([]models.Transaction, error) {
	return []models.Transaction{}, nil
}

func (f *fakeTransactionService) FindByID(id string) (*models.Transaction, error) {
	return f.tx, nil
}

func (f *fakeTransactionService) ChangeStage(id string, target models.Stage) (*models.Transaction, error) {
	f.changeStageCalls++
	return f.tx, nil
}

func (f *fakeTransactionService) AddAgent(id, agentID string, role models.AgentRole) (*models.Transaction, error) {
	return f.tx, nil
}

func (f *fakeTransactionService) FinancialBreakdown() ([]models.FinancialBreakdownItem, error) {
	return []models.FinancialBreakdownItem{}, nil
}

func (f *fakeTransactionService) FindTransactionHistoryByID(id string) ([]models.HistoryEntry, error) {
	return []models.HistoryEntry{}, nil
}

func authedRequest(method, path string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), userIDContextKey, int64(1))
	return req.WithContext(ctx)
}

func TestHandleChangeStage_UnknownStageRejectedBeforeService(t *testing.T) {
	logger.InitLogger("error")
	fake := &fakeTransactionService{}
	h := NewTransactionHandler(fake, services.NewPDFService())

	body, err := json.Marshal(map[string]string{"transaction_id": "tx1", "stage": "escrow"})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.HandleChangeStage(rec, authedRequest(http.MethodPut, "/api/transactions/changeStage", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, fake.changeStageCalls, "an unrecognized stage name never reaches the service")
}

func TestHandleChangeStage_KnownStageReachesService(t *testing.T) {
	logger.InitLogger("error")
	fake := &fakeTransactionService{tx: &models.Transaction{ID: "tx1", Stage: models.StageEarnestMoney}}
	h := NewTransactionHandler(fake, services.NewPDFService())

	body, err := json.Marshal(map[string]string{"transaction_id": "tx1", "stage": "earnest_money"})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.HandleChangeStage(rec, authedRequest(http.MethodPut, "/api/transactions/changeStage", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fake.changeStageCalls)
}

func TestTransactionHandlers_RequireAuthContext(t *testing.T) {
	logger.InitLogger("error")
	h := NewTransactionHandler(&fakeTransactionService{}, services.NewPDFService())

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/all", nil)
	rec := httptest.NewRecorder()
	h.HandleGetTransactions(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/transactions/financialBreakdown", nil)
	rec = httptest.NewRecorder()
	h.HandleFinancialBreakdown(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

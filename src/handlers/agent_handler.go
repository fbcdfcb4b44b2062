package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/dealdesk/backend/src/logger"
	"github.com/username/dealdesk/backend/src/models"
	"github.com/username/dealdesk/backend/src/security/validation"
	"github.com/username/dealdesk/backend/src/services"
	"github.com/username/dealdesk/backend/src/utils"
)

type AgentHandler struct {
	agentService services.AgentService
}

func NewAgentHandler(agentService services.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

func (h *AgentHandler) HandleCreateAgent(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name      string                 `json:"name"`
		Surname   string                 `json:"surname"`
		Email     string                 `json:"email"`
		Phone     string                 `json:"phone"`
		Reference *models.AgentReference `json:"reference,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		utils.SendJSONError(w, "Agent name is required", http.StatusBadRequest)
		return
	}

	agent := &models.Agent{
		Name:      validation.StripUnprintable(payload.Name),
		Surname:   validation.StripUnprintable(payload.Surname),
		Email:     payload.Email,
		Phone:     payload.Phone,
		Reference: payload.Reference,
		IsActive:  true,
	}

	created, err := h.agentService.Create(agent)
	if err != nil {
		logger.L.Error("Failed to create agent", "error", err)
		utils.SendJSONError(w, "Failed to create agent", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *AgentHandler) HandleGetAgents(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	agents, err := h.agentService.FindAll()
	if err != nil {
		utils.SendJSONError(w, "Failed to load agents", http.StatusInternalServerError)
		return
	}
	if agents == nil {
		agents = []models.Agent{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agents)
}

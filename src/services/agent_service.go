package services

import (
	"fmt"

	"github.com/username/dealdesk/backend/src/models"
)

type agentServiceImpl struct {
	agentStore AgentStore
}

func NewAgentService(agentStore AgentStore) AgentService {
	return &agentServiceImpl{agentStore: agentStore}
}

func (s *agentServiceImpl) Create(agent *models.Agent) (*models.Agent, error) {
	if err := s.agentStore.Create(agent); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return s.agentStore.FindByID(agent.ID)
}

func (s *agentServiceImpl) FindAll() ([]models.Agent, error) {
	return s.agentStore.FindAll()
}

func (s *agentServiceImpl) FindByID(id string) (*models.Agent, error) {
	agent, err := s.agentStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrAgentNotFound
	}
	return agent, nil
}

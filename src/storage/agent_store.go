package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/dealdesk/backend/src/models"
)

// AgentStore is the agent directory: contact lookups plus the additive
// vesting counter update.
type AgentStore struct {
	db *sql.DB
}

func NewAgentStore(db *sql.DB) *AgentStore {
	return &AgentStore{db: db}
}

func (s *AgentStore) Create(agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	var refName, refSurname, refCompany sql.NullString
	if agent.Reference != nil {
		refName = sql.NullString{String: agent.Reference.Name, Valid: true}
		refSurname = sql.NullString{String: agent.Reference.Surname, Valid: true}
		refCompany = sql.NullString{String: agent.Reference.Company, Valid: true}
	}

	_, err := s.db.Exec(`
	INSERT INTO agents (id, name, surname, reference_name, reference_surname, reference_company,
		email, phone, is_active, is_deleted, total_vesting, job_started_at, job_ended_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		agent.ID, agent.Name, agent.Surname, refName, refSurname, refCompany,
		agent.Email, agent.Phone, agent.IsActive, agent.IsDeleted, agent.TotalVesting,
		agent.JobStartedAt, agent.JobEndedAt, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert agent: %w", err)
	}
	return nil
}

// FindByID returns (nil, nil) when the agent does not exist.
func (s *AgentStore) FindByID(id string) (*models.Agent, error) {
	row := s.db.QueryRow(`
	SELECT id, name, surname, reference_name, reference_surname, reference_company,
		email, phone, is_active, is_deleted, total_vesting, job_started_at, job_ended_at, created_at, updated_at
	FROM agents
	WHERE id = ?`, id)

	agent, err := scanAgent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

func (s *AgentStore) FindAll() ([]models.Agent, error) {
	rows, err := s.db.Query(`
	SELECT id, name, surname, reference_name, reference_surname, reference_company,
		email, phone, is_active, is_deleted, total_vesting, job_started_at, job_ended_at, created_at, updated_at
	FROM agents
	ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// AddTotalVesting atomically increments the agent's vesting counter and
// returns the updated record, or (nil, nil) when the agent is missing.
func (s *AgentStore) AddTotalVesting(id string, amount float64) (*models.Agent, error) {
	res, err := s.db.Exec(`
	UPDATE agents
	SET total_vesting = total_vesting + ?, updated_at = ?
	WHERE id = ?`, amount, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to add total vesting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.FindByID(id)
}

func scanAgent(row rowScanner) (*models.Agent, error) {
	var agent models.Agent
	var refName, refSurname, refCompany sql.NullString
	var jobStartedAt, jobEndedAt sql.NullTime
	err := row.Scan(&agent.ID, &agent.Name, &agent.Surname, &refName, &refSurname, &refCompany,
		&agent.Email, &agent.Phone, &agent.IsActive, &agent.IsDeleted, &agent.TotalVesting,
		&jobStartedAt, &jobEndedAt, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if refName.Valid || refSurname.Valid || refCompany.Valid {
		agent.Reference = &models.AgentReference{
			Name:    refName.String,
			Surname: refSurname.String,
			Company: refCompany.String,
		}
	}
	if jobStartedAt.Valid {
		agent.JobStartedAt = &jobStartedAt.Time
	}
	if jobEndedAt.Valid {
		agent.JobEndedAt = &jobEndedAt.Time
	}
	return &agent, nil
}

package models

import "time"

// AgentRole marks whether an agent worked the listing or the selling side.
type AgentRole string

const (
	RoleListing AgentRole = "listing"
	RoleSelling AgentRole = "selling"
)

// IsValidRole reports whether r is a known agent role.
func IsValidRole(r AgentRole) bool {
	return r == RoleListing || r == RoleSelling
}

// AgentReference is the optional referral contact stored on an agent.
type AgentReference struct {
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
	Company string `json:"company,omitempty"`
}

// Agent is a directory record. TotalVesting is the cumulative commission
// credited across all completed transactions; it only ever grows.
type Agent struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Surname      string          `json:"surname"`
	Reference    *AgentReference `json:"reference,omitempty"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	IsActive     bool            `json:"isActive"`
	IsDeleted    bool            `json:"isDeleted"`
	TotalVesting float64         `json:"total_vesting"`
	JobStartedAt *time.Time      `json:"job_started_at,omitempty"`
	JobEndedAt   *time.Time      `json:"job_ended_at,omitempty"`
	CreatedAt    time.Time       `json:"created"`
	UpdatedAt    time.Time       `json:"updated"`
}

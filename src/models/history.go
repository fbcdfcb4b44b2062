package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// HistoryEntryType discriminates the payload shape of a history entry.
type HistoryEntryType string

const (
	HistoryChangeStage           HistoryEntryType = "ChangeStage"
	HistoryAddListingAgent       HistoryEntryType = "AddListingAgent"
	HistoryAddSellingAgent       HistoryEntryType = "AddSellingAgent"
	HistoryCommissionCalculation HistoryEntryType = "CommissionCalculation"
	HistoryUpdate                HistoryEntryType = "Update"
)

// HistoryEntry is one immutable audit record appended to a transaction.
// Entries are never updated, reordered or removed; the sequence is the
// source of truth for what happened when.
type HistoryEntry struct {
	Type      HistoryEntryType `json:"type"`
	Payload   json.RawMessage  `json:"payload"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ChangeStagePayload describes a stage transition in free text.
type ChangeStagePayload struct {
	Details string `json:"details"`
}

// AgentSharePayload is one enriched per-agent line of a commission entry.
type AgentSharePayload struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Surname string  `json:"surname"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Amount  float64 `json:"amount"`
	Role    string  `json:"role"`
}

// CommissionCalculationPayload carries the agency amount and the enriched
// per-agent breakdown recorded when a transaction completes.
type CommissionCalculationPayload struct {
	Details      string              `json:"details"`
	AgencyAmount float64             `json:"agencyAmount"`
	Agents       []AgentSharePayload `json:"agents"`
}

// NotePayload is the optional free-text payload of AddListingAgent,
// AddSellingAgent and Update entries.
type NotePayload struct {
	Details string `json:"details,omitempty"`
}

// NewHistoryEntry marshals payload and stamps the entry with now.
func NewHistoryEntry(entryType HistoryEntryType, payload any) (HistoryEntry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("failed to marshal %s payload: %w", entryType, err)
	}
	return HistoryEntry{
		Type:      entryType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DecodePayload returns the typed payload for the entry. The switch is
// exhaustive over HistoryEntryType so renderers handle every shape.
func (e HistoryEntry) DecodePayload() (any, error) {
	switch e.Type {
	case HistoryChangeStage:
		var p ChangeStagePayload
		err := json.Unmarshal(e.Payload, &p)
		return p, err
	case HistoryCommissionCalculation:
		var p CommissionCalculationPayload
		err := json.Unmarshal(e.Payload, &p)
		return p, err
	case HistoryAddListingAgent, HistoryAddSellingAgent, HistoryUpdate:
		var p NotePayload
		err := json.Unmarshal(e.Payload, &p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown history entry type %q", e.Type)
	}
}

package services

import (
	"errors"
	"fmt"

	"github.com/username/dealdesk/backend/src/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAgentNotFound       = errors.New("agent not found")
	ErrInvalidRole         = errors.New("invalid agent role")
)

// InvalidTransitionError reports an illegal stage change. From is empty
// for a transaction that never had a stage.
type InvalidTransitionError struct {
	From models.Stage
	To   models.Stage
}

func (e *InvalidTransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "initial"
	}
	return fmt.Sprintf("invalid stage transition from %s to %s", from, e.To)
}

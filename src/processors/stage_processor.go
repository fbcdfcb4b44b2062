package processors

import (
	"github.com/username/dealdesk/backend/src/models"
)

// IsLegalTransition decides whether a transaction may move from current
// to target. It is the single authority consulted before any stage write.
//
// Rules:
//   - current == "" means the transaction has never had a stage; only the
//     forward table applies.
//   - moving to an earlier stage is always legal.
//   - moving to the same stage is never legal.
//   - forward moves follow the per-stage table, not plain numeric order.
//   - any unrecognized stage name makes the transition illegal.
func IsLegalTransition(target, current models.Stage) bool {
	if current == "" {
		return isLegalForward(target, current)
	}

	currentOrder, currentKnown := models.StageOrder[current]
	targetOrder, targetKnown := models.StageOrder[target]
	if !currentKnown || !targetKnown {
		return false
	}

	if targetOrder == currentOrder {
		return false
	}

	// Backward moves carry no restrictions.
	if targetOrder < currentOrder {
		return true
	}

	return isLegalForward(target, current)
}

func isLegalForward(target, current models.Stage) bool {
	switch target {
	case models.StageAgreement:
		// Only reachable from the initial, stage-less state.
		return current == ""
	case models.StageEarnestMoney:
		return current == models.StageAgreement || current == ""
	case models.StageTitleDeed:
		return current == models.StageEarnestMoney
	case models.StageCompleted:
		return current == models.StageTitleDeed
	default:
		return false
	}
}

package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/dealdesk/backend/src/models"
)

func TestIsLegalTransition_ForwardTable(t *testing.T) {
	tests := []struct {
		name    string
		target  models.Stage
		current models.Stage
		want    bool
	}{
		{"new transaction to agreement", models.StageAgreement, "", true},
		{"new transaction to earnest_money", models.StageEarnestMoney, "", true},
		{"new transaction to title_deed", models.StageTitleDeed, "", false},
		{"new transaction to completed", models.StageCompleted, "", false},
		{"agreement to earnest_money", models.StageEarnestMoney, models.StageAgreement, true},
		{"agreement to title_deed skips a stage", models.StageTitleDeed, models.StageAgreement, false},
		{"agreement to completed skips stages", models.StageCompleted, models.StageAgreement, false},
		{"earnest_money to title_deed", models.StageTitleDeed, models.StageEarnestMoney, true},
		{"earnest_money to completed skips a stage", models.StageCompleted, models.StageEarnestMoney, false},
		{"title_deed to completed", models.StageCompleted, models.StageTitleDeed, true},
		{"agreement only from initial state", models.StageAgreement, models.StageEarnestMoney, true}, // backward
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLegalTransition(tt.target, tt.current))
		})
	}
}

func TestIsLegalTransition_SameStageAlwaysIllegal(t *testing.T) {
	for stage := range models.StageOrder {
		assert.False(t, IsLegalTransition(stage, stage), "same-stage transition must be illegal for %s", stage)
	}
}

func TestIsLegalTransition_BackwardAlwaysLegal(t *testing.T) {
	stages := []models.Stage{models.StageAgreement, models.StageEarnestMoney, models.StageTitleDeed, models.StageCompleted}
	for i, from := range stages {
		for j, to := range stages {
			if j < i {
				assert.True(t, IsLegalTransition(to, from), "backward %s -> %s must be legal", from, to)
			}
		}
	}
}

func TestIsLegalTransition_UnknownStages(t *testing.T) {
	assert.False(t, IsLegalTransition("escrow", models.StageAgreement))
	assert.False(t, IsLegalTransition(models.StageEarnestMoney, "escrow"))
	assert.False(t, IsLegalTransition("", models.StageAgreement))
}

func TestIsLegalTransition_CompletedIsTerminal(t *testing.T) {
	// Nothing forward of completed exists; only backward moves leave it.
	assert.False(t, IsLegalTransition(models.StageCompleted, models.StageCompleted))
	assert.True(t, IsLegalTransition(models.StageTitleDeed, models.StageCompleted))
	assert.True(t, IsLegalTransition(models.StageAgreement, models.StageCompleted))
}

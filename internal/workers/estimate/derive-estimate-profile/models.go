package deriveestimateprofile

import "estimate-workers/internal/models"

// Chip source values reported in Output.ChipSource.
const (
	ChipSourceVariables = "variables"
	ChipSourceIndex     = "elasticsearch"
	ChipSourceNone      = "none"
)

type Input struct {
	ProjectID string           `json:"projectId"`
	Chips     []models.Chip    `json:"chips"`
	Decision  *models.Decision `json:"decision,omitempty"`
}

type Output struct {
	ProjectID            string               `json:"projectId"`
	Profile              models.ClientProfile `json:"profile"`
	ComplexityMultiplier float64              `json:"complexityMultiplier"`
	AdjustmentReason     string               `json:"adjustmentReason"`
	ComplexitySignals    []string             `json:"complexitySignals,omitempty"`
	Packages             []string             `json:"packages"`
	ChipConflicts        []string             `json:"chipConflicts,omitempty"`
	ChipSource           string               `json:"chipSource"`
	ChipCount            int                  `json:"chipCount"`
}

package calculateeffortestimate

import (
	"estimate-workers/internal/estimation/formula"
	"estimate-workers/internal/models"
)

// Input carries either one scenario or a batch of scenarios.
type Input struct {
	ProjectID string           `json:"projectId"`
	Scenario  *formula.Inputs  `json:"scenario,omitempty"`
	Scenarios []formula.Inputs `json:"scenarios,omitempty"`
}

type Output struct {
	ProjectID     string          `json:"projectId"`
	Estimate      *formula.Result `json:"estimate,omitempty"`
	Phases        []models.Phase  `json:"phases,omitempty"`
	TotalEffort   float64         `json:"totalEffort"`
	TotalDuration float64         `json:"totalDuration"`

	Scenarios        []formula.BatchResult `json:"scenarioResults,omitempty"`
	SkippedScenarios []int                 `json:"skippedScenarios,omitempty"`
}

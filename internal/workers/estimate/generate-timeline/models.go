package generatetimeline

import "estimate-workers/internal/models"

// Input is the caller-owned timeline state plus the adjustment to apply.
type Input struct {
	ProjectID            string         `json:"projectId"`
	Region               string         `json:"region,omitempty"`
	StartDate            string         `json:"startDate,omitempty"`
	Phases               []models.Phase `json:"phases"`
	ComplexityMultiplier float64        `json:"complexityMultiplier"`
	AdjustmentReason     string         `json:"adjustmentReason,omitempty"`
	// RegenerateDates lays out dates even when the multiplier leaves phases unscaled.
	RegenerateDates bool `json:"regenerateDates,omitempty"`
}

type Output struct {
	ProjectID        string         `json:"projectId"`
	Region           string         `json:"region"`
	Phases           []models.Phase `json:"phases"`
	Scaled           bool           `json:"scaled"`
	DatesRegenerated bool           `json:"datesRegenerated"`
	TotalEffort      float64        `json:"totalEffort"`
	TotalDuration    float64        `json:"totalDuration"`
	WorkingDays      int            `json:"workingDays,omitempty"`
	StartDate        string         `json:"timelineStart,omitempty"`
	EndDate          string         `json:"timelineEnd,omitempty"`
	SignalMessageID  string         `json:"signalMessageId,omitempty"`
}

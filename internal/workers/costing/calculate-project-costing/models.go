package calculateprojectcosting

import (
	"estimate-workers/internal/estimation/costing"
	"estimate-workers/internal/models"

	"github.com/shopspring/decimal"
)

// Input deliberately has no visibility field: the level is derived from the
// identity behind AccessToken.
type Input struct {
	ProjectID          string                `json:"projectId"`
	AccessToken        string                `json:"accessToken"`
	Version            int                   `json:"versionNumber,omitempty"`
	Lines              []models.ResourceLine `json:"resourceLines"`
	SubcontractorCost  decimal.Decimal       `json:"subcontractorCost"`
	OutOfPocketExpense decimal.Decimal       `json:"outOfPocketExpense"`
	IncludeBreakdown   bool                  `json:"includeBreakdown"`
	ForceRefreshRates  bool                  `json:"forceRefreshRates"`
}

type Output struct {
	costing.Response
}

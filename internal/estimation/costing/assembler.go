package costing

import (
	"time"

	"estimate-workers/internal/estimation/visibility"
	"estimate-workers/internal/models"

	"github.com/shopspring/decimal"
)

// Response is the caller-facing costing result.
type Response struct {
	Success   bool           `json:"success"`
	Costing   CostingView    `json:"costing"`
	Breakdown *BreakdownView `json:"breakdown,omitempty"`
}

// CostingView holds the fields a visibility level may see. A nil field is one
// the caller is not authorized for; values are never altered.
type CostingView struct {
	ProjectID       string           `json:"projectId"`
	VersionNumber   int              `json:"versionNumber"`
	Currency        string           `json:"currency"`
	CalculatedAt    time.Time        `json:"calculatedAt"`
	VisibilityLevel visibility.Level `json:"visibilityLevel"`

	GSR *decimal.Decimal `json:"gsr,omitempty"`
	NSR *decimal.Decimal `json:"nsr,omitempty"`

	RealizationRate    *decimal.Decimal `json:"realizationRate,omitempty"`
	InternalCost       *decimal.Decimal `json:"internalCost,omitempty"`
	SubcontractorCost  *decimal.Decimal `json:"subcontractorCost,omitempty"`
	OutOfPocketExpense *decimal.Decimal `json:"outOfPocketExpense,omitempty"`
	TotalCost          *decimal.Decimal `json:"totalCost,omitempty"`
	GrossMargin        *decimal.Decimal `json:"grossMargin,omitempty"`
	MarginPercentage   *decimal.Decimal `json:"marginPercentage,omitempty"`
}

type BreakdownView struct {
	ByRegion      []BreakdownEntryView `json:"byRegion"`
	ByDesignation []BreakdownEntryView `json:"byDesignation"`
}

type BreakdownEntryView struct {
	Key          string           `json:"key"`
	Mandays      *decimal.Decimal `json:"mandays,omitempty"`
	GSR          *decimal.Decimal `json:"gsr,omitempty"`
	NSR          *decimal.Decimal `json:"nsr,omitempty"`
	InternalCost *decimal.Decimal `json:"internalCost,omitempty"`
}

// Assemble builds the response for level from a complete summary. Public
// callers get identifiers only and no breakdown.
func Assemble(s models.CostingSummary, level visibility.Level, includeBreakdown bool) Response {
	view := CostingView{
		ProjectID:       s.ProjectID,
		VersionNumber:   s.Version,
		Currency:        s.Currency,
		CalculatedAt:    s.CalculatedAt,
		VisibilityLevel: level,
	}

	if level.Includes(visibility.PresalesAndFinance) {
		view.GSR = ptr(s.GSR)
		view.NSR = ptr(s.NSR)
	}
	if level.Includes(visibility.FinanceOnly) {
		view.RealizationRate = ptr(s.RealizationRate)
		view.InternalCost = ptr(s.InternalCost)
		view.SubcontractorCost = ptr(s.SubcontractorCost)
		view.OutOfPocketExpense = ptr(s.OutOfPocketExpense)
		view.TotalCost = ptr(s.TotalCost)
		view.GrossMargin = ptr(s.GrossMargin)
		view.MarginPercentage = ptr(s.MarginPercentage)
	}

	resp := Response{Success: true, Costing: view}
	if includeBreakdown && level.Includes(visibility.PresalesAndFinance) {
		resp.Breakdown = &BreakdownView{
			ByRegion:      breakdownEntries(s.ByRegion, level),
			ByDesignation: breakdownEntries(s.ByDesignation, level),
		}
	}
	return resp
}

func breakdownEntries(entries []models.BreakdownEntry, level visibility.Level) []BreakdownEntryView {
	out := make([]BreakdownEntryView, 0, len(entries))
	for _, e := range entries {
		v := BreakdownEntryView{
			Key:     e.Key,
			Mandays: ptr(e.Mandays),
			GSR:     ptr(e.GSR),
			NSR:     ptr(e.NSR),
		}
		if level.Includes(visibility.FinanceOnly) {
			v.InternalCost = ptr(e.InternalCost)
		}
		out = append(out, v)
	}
	return out
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResourceLine is one role designation in a region with an assigned number of working days.
type ResourceLine struct {
	Region      string  `json:"region"`
	Designation string  `json:"designation"`
	Mandays     float64 `json:"mandays"`
}

// LineCost is the fully computed seven-layer result for one resource line.
type LineCost struct {
	Region          string          `json:"region"`
	Designation     string          `json:"designation"`
	Mandays         decimal.Decimal `json:"mandays"`
	HourlyRate      decimal.Decimal `json:"hourlyRate"`
	DailyRate       decimal.Decimal `json:"dailyRate"`
	GSR             decimal.Decimal `json:"gsr"`
	RealizationRate decimal.Decimal `json:"realizationRate"`
	NSR             decimal.Decimal `json:"nsr"`
	InternalCost    decimal.Decimal `json:"internalCost"`
}

// BreakdownEntry aggregates line costs sharing a region or a designation.
type BreakdownEntry struct {
	Key          string          `json:"key"`
	Mandays      decimal.Decimal `json:"mandays"`
	GSR          decimal.Decimal `json:"gsr"`
	NSR          decimal.Decimal `json:"nsr"`
	InternalCost decimal.Decimal `json:"internalCost"`
}

// CostingSummary is the complete financial artifact. It is always computed in full;
// redaction happens only when a response is assembled.
type CostingSummary struct {
	ID                 string           `json:"id"`
	ProjectID          string           `json:"projectId"`
	Version            int              `json:"version"`
	Currency           string           `json:"currency"`
	CalculatedAt       time.Time        `json:"calculatedAt"`
	TotalMandays       decimal.Decimal  `json:"totalMandays"`
	GSR                decimal.Decimal  `json:"gsr"`
	NSR                decimal.Decimal  `json:"nsr"`
	RealizationRate    decimal.Decimal  `json:"realizationRate"`
	InternalCost       decimal.Decimal  `json:"internalCost"`
	SubcontractorCost  decimal.Decimal  `json:"subcontractorCost"`
	OutOfPocketExpense decimal.Decimal  `json:"outOfPocketExpense"`
	TotalCost          decimal.Decimal  `json:"totalCost"`
	GrossMargin        decimal.Decimal  `json:"grossMargin"`
	MarginPercentage   decimal.Decimal  `json:"marginPercentage"`
	Lines              []LineCost       `json:"lines"`
	ByRegion           []BreakdownEntry `json:"byRegion"`
	ByDesignation      []BreakdownEntry `json:"byDesignation"`
}

// RateCard is one rate catalog row.
type RateCard struct {
	Region      string          `json:"region"`
	Designation string          `json:"designation"`
	HourlyRate  decimal.Decimal `json:"hourlyRate"`
	Currency    string          `json:"currency"`
}

// Package costing computes the seven-layer cost model for a set of resource
// lines and assembles tier-redacted responses from it.
package costing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateTable resolves an hourly rate and the currency it is priced in. ok is
// false when no card exists; an empty currency means the costing currency.
type RateTable interface {
	Lookup(region, designation string) (rate decimal.Decimal, currency string, ok bool)
}

// RateMap is an in-memory RateTable keyed by upper-cased region and designation.
type RateMap map[string]models.RateCard

func rateKey(region, designation string) string {
	return strings.ToUpper(strings.TrimSpace(region)) + "|" + strings.ToUpper(strings.TrimSpace(designation))
}

// NewRateMap indexes rate cards.
func NewRateMap(cards []models.RateCard) RateMap {
	m := make(RateMap, len(cards))
	for _, c := range cards {
		m[rateKey(c.Region, c.Designation)] = c
	}
	return m
}

func (m RateMap) Lookup(region, designation string) (decimal.Decimal, string, bool) {
	c, ok := m[rateKey(region, designation)]
	return c.HourlyRate, strings.ToUpper(strings.TrimSpace(c.Currency)), ok
}

// Settings are the costing constants.
type Settings struct {
	Currency          string
	HoursPerDay       decimal.Decimal
	RealizationRate   decimal.Decimal
	InternalCostRatio decimal.Decimal
	// RegionRealization overrides RealizationRate per upper-cased region.
	RegionRealization map[string]decimal.Decimal
}

// DefaultSettings: 8 hour days, 43% realization, internal cost at 35% of GSR.
var DefaultSettings = Settings{
	Currency:          "MYR",
	HoursPerDay:       decimal.NewFromInt(8),
	RealizationRate:   decimal.RequireFromString("0.43"),
	InternalCostRatio: decimal.RequireFromString("0.35"),
}

// SettingsFromFloats builds Settings from configuration values.
func SettingsFromFloats(currency string, hoursPerDay, rr, internalRatio float64, regionRR map[string]float64) Settings {
	s := Settings{
		Currency:          currency,
		HoursPerDay:       decimal.NewFromFloat(hoursPerDay),
		RealizationRate:   decimal.NewFromFloat(rr),
		InternalCostRatio: decimal.NewFromFloat(internalRatio),
	}
	if len(regionRR) > 0 {
		s.RegionRealization = make(map[string]decimal.Decimal, len(regionRR))
		for region, v := range regionRR {
			s.RegionRealization[strings.ToUpper(strings.TrimSpace(region))] = decimal.NewFromFloat(v)
		}
	}
	return s
}

// RealizationFor returns the realization rate applying to region.
func (s Settings) RealizationFor(region string) decimal.Decimal {
	if rr, ok := s.RegionRealization[strings.ToUpper(strings.TrimSpace(region))]; ok {
		return rr
	}
	return s.RealizationRate
}

// Request is one costing calculation.
type Request struct {
	ProjectID          string
	Version            int
	Lines              []models.ResourceLine
	SubcontractorCost  decimal.Decimal
	OutOfPocketExpense decimal.Decimal
}

// Calculator runs the seven layers. The summary is always complete; redaction
// belongs to Assemble.
type Calculator struct {
	settings Settings
	now      func() time.Time
	newID    func() string
}

func NewCalculator(settings Settings) *Calculator {
	return &Calculator{
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
}

const cents int32 = 2

// Calculate prices every line, then aggregates. Money is rounded to cents per
// line and totals are summed from the rounded lines, so the invariants
// totalCost = internal + subcontractor + OOP and grossMargin = NSR - totalCost
// hold exactly.
func (c *Calculator) Calculate(ctx context.Context, rates RateTable, req Request) (models.CostingSummary, error) {
	if err := validateRequest(req); err != nil {
		return models.CostingSummary{}, err
	}

	lines := make([]models.LineCost, 0, len(req.Lines))
	for _, line := range req.Lines {
		if err := ctx.Err(); err != nil {
			return models.CostingSummary{}, err
		}
		lc, err := c.priceLine(rates, line)
		if err != nil {
			return models.CostingSummary{}, err
		}
		lines = append(lines, lc)
	}

	summary := models.CostingSummary{
		ID:                 c.newID(),
		ProjectID:          req.ProjectID,
		Version:            req.Version,
		Currency:           c.settings.Currency,
		CalculatedAt:       c.now(),
		SubcontractorCost:  req.SubcontractorCost.Round(cents),
		OutOfPocketExpense: req.OutOfPocketExpense.Round(cents),
		Lines:              lines,
	}

	for _, l := range lines {
		summary.TotalMandays = summary.TotalMandays.Add(l.Mandays)
		summary.GSR = summary.GSR.Add(l.GSR)
		summary.NSR = summary.NSR.Add(l.NSR)
		summary.InternalCost = summary.InternalCost.Add(l.InternalCost)
	}

	summary.TotalCost = summary.InternalCost.Add(summary.SubcontractorCost).Add(summary.OutOfPocketExpense)
	summary.GrossMargin = summary.NSR.Sub(summary.TotalCost)
	if !summary.NSR.IsZero() {
		summary.MarginPercentage = summary.GrossMargin.Div(summary.NSR).Mul(decimal.NewFromInt(100)).Round(cents)
	}
	if summary.GSR.IsZero() {
		summary.RealizationRate = c.settings.RealizationRate
	} else {
		summary.RealizationRate = summary.NSR.Div(summary.GSR).Round(4)
	}

	summary.ByRegion = aggregate(lines, func(l models.LineCost) string { return l.Region })
	summary.ByDesignation = aggregate(lines, func(l models.LineCost) string { return l.Designation })
	return summary, nil
}

func (c *Calculator) priceLine(rates RateTable, line models.ResourceLine) (models.LineCost, error) {
	hourly, currency, ok := rates.Lookup(line.Region, line.Designation)
	if !ok {
		return models.LineCost{}, errors.NewRateNotFoundError(line.Region, line.Designation)
	}
	if currency != "" && !strings.EqualFold(currency, c.settings.Currency) {
		return models.LineCost{}, errors.NewRateCurrencyMismatchError(line.Region, line.Designation, currency, c.settings.Currency)
	}

	mandays := decimal.NewFromFloat(line.Mandays)
	daily := hourly.Mul(c.settings.HoursPerDay)
	gsr := daily.Mul(mandays).Round(cents)
	rr := c.settings.RealizationFor(line.Region)

	return models.LineCost{
		Region:          line.Region,
		Designation:     line.Designation,
		Mandays:         mandays,
		HourlyRate:      hourly,
		DailyRate:       daily.Round(cents),
		GSR:             gsr,
		RealizationRate: rr,
		NSR:             gsr.Mul(rr).Round(cents),
		InternalCost:    gsr.Mul(c.settings.InternalCostRatio).Round(cents),
	}, nil
}

func validateRequest(req Request) error {
	var problems []string
	if strings.TrimSpace(req.ProjectID) == "" {
		problems = append(problems, "projectId is required")
	}
	for i, l := range req.Lines {
		if strings.TrimSpace(l.Region) == "" || strings.TrimSpace(l.Designation) == "" {
			problems = append(problems, fmt.Sprintf("resources[%d]: region and designation are required", i))
		}
		if l.Mandays < 0 {
			problems = append(problems, fmt.Sprintf("resources[%d].mandays must not be negative", i))
		}
	}
	if req.SubcontractorCost.IsNegative() {
		problems = append(problems, "subcontractorCost must not be negative")
	}
	if req.OutOfPocketExpense.IsNegative() {
		problems = append(problems, "outOfPocketExpense must not be negative")
	}
	if len(problems) > 0 {
		return errors.NewInputValidationError(strings.Join(problems, "; "))
	}
	return nil
}

func aggregate(lines []models.LineCost, key func(models.LineCost) string) []models.BreakdownEntry {
	index := make(map[string]int)
	var out []models.BreakdownEntry
	for _, l := range lines {
		k := key(l)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.BreakdownEntry{Key: k})
		}
		e := &out[i]
		e.Mandays = e.Mandays.Add(l.Mandays)
		e.GSR = e.GSR.Add(l.GSR)
		e.NSR = e.NSR.Add(l.NSR)
		e.InternalCost = e.InternalCost.Add(l.InternalCost)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

// Package formula computes a baseline SAP Activate effort and duration estimate
// from scope, process and organisational factors.
package formula

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"estimate-workers/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrNonPositiveCapacity is returned when fte × working days × utilization is not positive.
var ErrNonPositiveCapacity = errors.New("capacity must be positive")

// tierExcluded marks scope items that do not count toward scope breadth.
const tierExcluded = "D"

const weeksPerMonth = 52.0 / 12.0

// ScopeItem is a selected L3 scope item.
type ScopeItem struct {
	Code        string  `json:"l3Code"`
	Coefficient float64 `json:"coefficient"`
	DefaultTier string  `json:"defaultTier"`
}

// Profile carries the base functional/technical effort and fixed effort in person-days.
type Profile struct {
	Name         string  `json:"name"`
	BaseFT       float64 `json:"baseFt"`
	Basis        float64 `json:"basis"`
	SecurityAuth float64 `json:"securityAuth"`
}

// Inputs is one estimate scenario.
type Inputs struct {
	SelectedItems []ScopeItem `json:"selectedL3Items"`
	Integrations  int         `json:"integrations"`
	CustomForms   int         `json:"customForms"`
	FitToStandard float64     `json:"fitToStandard"`
	LegalEntities int         `json:"legalEntities"`
	Countries     int         `json:"countries"`
	Languages     int         `json:"languages"`
	Profile       Profile     `json:"profile"`
	FTE           float64     `json:"fte"`
	Utilization   float64     `json:"utilization"`
	OverlapFactor float64     `json:"overlapFactor"`
}

type PhaseWeight struct {
	Name   string
	Weight float64
}

// Constants parameterise the formula.
type Constants struct {
	IntegrationFactor       float64
	ExtraFormFactor         float64
	FitGapFactor            float64
	EntityFactor            float64
	CountryFactor           float64
	LanguageFactor          float64
	BaselineForms           int
	PMOMonthlyRate          float64
	WorkingDaysPerMonth     float64
	MaxPMOIterations        int
	PMOConvergenceThreshold float64
	Phases                  []PhaseWeight
}

// DefaultConstants are the SAP Activate defaults.
var DefaultConstants = Constants{
	IntegrationFactor:       0.02,
	ExtraFormFactor:         0.01,
	FitGapFactor:            0.25,
	EntityFactor:            0.03,
	CountryFactor:           0.05,
	LanguageFactor:          0.02,
	BaselineForms:           10,
	PMOMonthlyRate:          10,
	WorkingDaysPerMonth:     20,
	MaxPMOIterations:        10,
	PMOConvergenceThreshold: 0.01,
	Phases: []PhaseWeight{
		{Name: "Prepare", Weight: 0.10},
		{Name: "Explore", Weight: 0.15},
		{Name: "Realize", Weight: 0.50},
		{Name: "Deploy", Weight: 0.15},
		{Name: "Run", Weight: 0.10},
	},
}

// PhaseWeightsFromMap orders a name -> weight table by the default phase sequence.
// Names are matched case-insensitively; missing phases get weight 0.
func PhaseWeightsFromMap(weights map[string]float64) []PhaseWeight {
	out := make([]PhaseWeight, 0, len(DefaultConstants.Phases))
	for _, p := range DefaultConstants.Phases {
		var w float64
		for name, v := range weights {
			if strings.EqualFold(name, p.Name) {
				w = v
			}
		}
		out = append(out, PhaseWeight{Name: p.Name, Weight: w})
	}
	return out
}

type PhaseBreakdown struct {
	Name           string  `json:"phaseName"`
	EffortMD       float64 `json:"effortMd"`
	DurationMonths float64 `json:"durationMonths"`
}

type Coefficients struct {
	ScopeBreadth      float64 `json:"sb"`
	ProcessComplexity float64 `json:"pc"`
	OrgScale          float64 `json:"os"`
}

type Intermediate struct {
	FunctionalEffort float64 `json:"eFt"`
	FixedEffort      float64 `json:"eFixed"`
	RawDuration      float64 `json:"dRaw"`
}

type Result struct {
	TotalMD          float64          `json:"totalMd"`
	DurationMonths   float64          `json:"durationMonths"`
	PMOMD            float64          `json:"pmoMd"`
	PMOIterations    int              `json:"pmoIterations"`
	Phases           []PhaseBreakdown `json:"phases"`
	CapacityPerMonth float64          `json:"capacityPerMonth"`
	Coefficients     Coefficients     `json:"coefficients"`
	Intermediate     Intermediate     `json:"intermediateValues"`
}

// ScopeBreadth sums coefficients of items outside tier D plus the integration factor. Floors at 0.
func (c Constants) ScopeBreadth(items []ScopeItem, integrations int) float64 {
	var sum float64
	for _, item := range items {
		if item.DefaultTier != tierExcluded {
			sum += item.Coefficient
		}
	}
	return math.Max(0, sum+float64(integrations)*c.IntegrationFactor)
}

// ProcessComplexity weighs custom forms beyond the baseline and the fit-to-standard gap.
func (c Constants) ProcessComplexity(customForms int, fitToStandard float64) float64 {
	extraForms := customForms - c.BaselineForms
	if extraForms < 0 {
		extraForms = 0
	}
	fitGap := math.Max(0, 1-fitToStandard)
	return math.Max(0, float64(extraForms)*c.ExtraFormFactor+fitGap*c.FitGapFactor)
}

// OrgScale weighs each legal entity, country and language beyond the first.
func (c Constants) OrgScale(entities, countries, languages int) float64 {
	beyondFirst := func(n int) float64 { return math.Max(0, float64(n-1)) }
	return math.Max(0,
		beyondFirst(entities)*c.EntityFactor+
			beyondFirst(countries)*c.CountryFactor+
			beyondFirst(languages)*c.LanguageFactor)
}

// Calculate runs one scenario. Duration and PMO effort are solved by fixed-point
// iteration since PMO effort depends on duration.
func (c Constants) Calculate(in Inputs) (Result, error) {
	sb := c.ScopeBreadth(in.SelectedItems, in.Integrations)
	pc := c.ProcessComplexity(in.CustomForms, in.FitToStandard)
	os := c.OrgScale(in.LegalEntities, in.Countries, in.Languages)

	eFT := in.Profile.BaseFT * (1 + sb) * (1 + pc) * (1 + os)
	eFixed := in.Profile.Basis + in.Profile.SecurityAuth

	capacity := in.FTE * c.WorkingDaysPerMonth * in.Utilization
	if capacity <= 0 {
		return Result{}, fmt.Errorf("%w: fte=%v utilization=%v", ErrNonPositiveCapacity, in.FTE, in.Utilization)
	}

	d := ((eFT + eFixed) / capacity) * in.OverlapFactor
	var pmo float64
	iterations := 0
	for i := 0; i < c.MaxPMOIterations; i++ {
		iterations = i + 1
		prev := d
		pmo = d * c.PMOMonthlyRate
		d = ((eFT + eFixed + pmo) / capacity) * in.OverlapFactor
		if math.Abs(d-prev) < c.PMOConvergenceThreshold {
			break
		}
	}

	total := eFT + eFixed + pmo

	return Result{
		TotalMD:          total,
		DurationMonths:   d,
		PMOMD:            pmo,
		PMOIterations:    iterations,
		Phases:           c.distribute(total, d),
		CapacityPerMonth: capacity,
		Coefficients:     Coefficients{ScopeBreadth: sb, ProcessComplexity: pc, OrgScale: os},
		Intermediate: Intermediate{
			FunctionalEffort: eFT,
			FixedEffort:      eFixed,
			RawDuration:      (eFT + eFixed) / capacity,
		},
	}, nil
}

func (c Constants) distribute(totalMD, durationMonths float64) []PhaseBreakdown {
	out := make([]PhaseBreakdown, 0, len(c.Phases))
	for _, p := range c.Phases {
		out = append(out, PhaseBreakdown{
			Name:           p.Name,
			EffortMD:       totalMD * p.Weight,
			DurationMonths: durationMonths * p.Weight,
		})
	}
	return out
}

// BatchResult pairs a scenario index with its result.
type BatchResult struct {
	Index  int    `json:"index"`
	Result Result `json:"result"`
}

// CalculateBatch evaluates scenarios concurrently and returns the valid ones in
// input order. Scenarios with non-positive capacity are skipped and their indexes
// returned separately.
func (c Constants) CalculateBatch(ctx context.Context, inputs []Inputs) ([]BatchResult, []int, error) {
	results := make([]*Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.Calculate(inputs[i])
			if err != nil {
				return nil
			}
			results[i] = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		out     []BatchResult
		skipped []int
	)
	for i, r := range results {
		if r == nil {
			skipped = append(skipped, i)
			continue
		}
		out = append(out, BatchResult{Index: i, Result: *r})
	}
	return out, skipped, nil
}

// ToPhases converts a result into baseline timeline phases. Effort is rounded to
// one decimal place and duration is converted to whole weeks, rounding up.
func ToPhases(r Result) []models.Phase {
	out := make([]models.Phase, 0, len(r.Phases))
	for _, p := range r.Phases {
		weeks := decimal.NewFromFloat(p.DurationMonths * weeksPerMonth).Ceil()
		out = append(out, models.Phase{
			ID:       strings.ToLower(p.Name),
			Name:     p.Name,
			Effort:   decimal.NewFromFloat(p.EffortMD).Round(1).InexactFloat64(),
			Duration: weeks.InexactFloat64(),
			Metadata: map[string]interface{}{
				"source":         "formula",
				"durationMonths": decimal.NewFromFloat(p.DurationMonths).Round(2).InexactFloat64(),
			},
		})
	}
	return out
}

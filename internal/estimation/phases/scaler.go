// Package phases applies complexity multipliers to phase effort and duration.
package phases

import (
	"encoding/json"
	"strconv"

	"estimate-workers/internal/models"

	"github.com/shopspring/decimal"
)

// Adjustment is the multiplier and its justification.
type Adjustment struct {
	Multiplier float64 `json:"multiplier"`
	Reason     string  `json:"reason"`
}

// ProjectState is the caller-owned timeline state passed into and returned from scaling.
// Nothing in this package retains it.
type ProjectState struct {
	ProjectID string         `json:"projectId"`
	Region    string         `json:"region,omitempty"`
	StartDate string         `json:"startDate,omitempty"`
	Phases    []models.Phase `json:"phases"`
}

// Scale returns a scaled copy of phases and true. Each phase is scaled from
// its baseline: the originalEffort/originalDuration metadata when present, else
// its current figures, so repeated calls never compound. A multiplier of at
// most 1.0 restores previously scaled phases to their baseline; when none
// carry provenance it returns phases itself and false. The input is not modified.
func Scale(phases []models.Phase, adj Adjustment) ([]models.Phase, bool) {
	if adj.Multiplier <= 1.0 {
		return unscale(phases)
	}

	m := decimal.NewFromFloat(adj.Multiplier)
	out := make([]models.Phase, len(phases))
	for i, p := range phases {
		effort, duration := Baseline(p)

		scaled := p.Clone()
		if scaled.Metadata == nil {
			scaled.Metadata = make(map[string]interface{}, 4)
		}
		scaled.Effort = ceilMul(effort, m)
		scaled.Duration = ceilMul(duration, m)
		scaled.Metadata[models.MetaComplexityMultiplier] = adj.Multiplier
		scaled.Metadata[models.MetaOriginalEffort] = effort
		scaled.Metadata[models.MetaOriginalDuration] = duration
		scaled.Metadata[models.MetaAdjustmentReason] = adj.Reason
		out[i] = scaled
	}
	return out, true
}

// ScaleState scales the phases held by state and returns the updated state.
func ScaleState(state ProjectState, adj Adjustment) (ProjectState, bool) {
	scaled, changed := Scale(state.Phases, adj)
	if !changed {
		return state, false
	}
	state.Phases = scaled
	return state, true
}

// Baseline returns the pre-adjustment effort and duration of p.
func Baseline(p models.Phase) (effort, duration float64) {
	effort, duration = p.Effort, p.Duration
	if v, ok := metaNumber(p.Metadata, models.MetaOriginalEffort); ok {
		effort = v
	}
	if v, ok := metaNumber(p.Metadata, models.MetaOriginalDuration); ok {
		duration = v
	}
	return effort, duration
}

// Reset restores every phase to its baseline and drops scaling provenance.
func Reset(phases []models.Phase) []models.Phase {
	out := make([]models.Phase, len(phases))
	for i, p := range phases {
		r := p.Clone()
		r.Effort, r.Duration = Baseline(p)
		for _, k := range []string{
			models.MetaComplexityMultiplier,
			models.MetaOriginalEffort,
			models.MetaOriginalDuration,
			models.MetaAdjustmentReason,
		} {
			delete(r.Metadata, k)
		}
		out[i] = r
	}
	return out
}

// unscale resets the phases that carry provenance and leaves the rest as they are.
func unscale(phases []models.Phase) ([]models.Phase, bool) {
	changed := false
	out := make([]models.Phase, len(phases))
	for i, p := range phases {
		if !hasProvenance(p) {
			out[i] = p
			continue
		}
		out[i] = Reset([]models.Phase{p})[0]
		changed = true
	}
	if !changed {
		return phases, false
	}
	return out, true
}

func hasProvenance(p models.Phase) bool {
	_, effort := p.Metadata[models.MetaOriginalEffort]
	_, duration := p.Metadata[models.MetaOriginalDuration]
	return effort || duration
}

// Totals sums effort and duration across phases.
func Totals(phases []models.Phase) (effort, duration float64) {
	e, d := decimal.Zero, decimal.Zero
	for _, p := range phases {
		e = e.Add(decimal.NewFromFloat(p.Effort))
		d = d.Add(decimal.NewFromFloat(p.Duration))
	}
	return e.InexactFloat64(), d.InexactFloat64()
}

func ceilMul(v float64, m decimal.Decimal) float64 {
	return decimal.NewFromFloat(v).Mul(m).Ceil().InexactFloat64()
}

func metaNumber(meta map[string]interface{}, key string) (float64, bool) {
	raw, ok := meta[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

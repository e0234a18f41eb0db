// Package complexity derives a project complexity multiplier from requirement chips.
package complexity

import (
	"fmt"
	"sort"
	"strings"

	"estimate-workers/internal/models"

	"github.com/shopspring/decimal"
)

// Rules holds the thresholds and weights used by Extract.
type Rules struct {
	EntityHigh, EntityMedium float64
	UserHigh, UserMedium     float64
	IntegrationThreshold     float64
	DataVolumeRecords        float64
	BaseMultiplier           map[models.ComplexityTier]decimal.Decimal
	MultiCountryWeight       decimal.Decimal
	DataVolumeWeight         decimal.Decimal
	ComplianceWeight         decimal.Decimal
	IntegrationWeight        decimal.Decimal
	Cap                      decimal.Decimal
}

// DefaultRules are the production thresholds.
var DefaultRules = Rules{
	EntityHigh:           10,
	EntityMedium:         5,
	UserHigh:             1000,
	UserMedium:           500,
	IntegrationThreshold: 5,
	DataVolumeRecords:    1_000_000,
	BaseMultiplier: map[models.ComplexityTier]decimal.Decimal{
		models.ComplexityLow:    decimal.NewFromInt(1),
		models.ComplexityMedium: decimal.RequireFromString("1.3"),
		models.ComplexityHigh:   decimal.RequireFromString("1.8"),
	},
	MultiCountryWeight: decimal.RequireFromString("0.3"),
	DataVolumeWeight:   decimal.RequireFromString("0.3"),
	ComplianceWeight:   decimal.RequireFromString("0.2"),
	IntegrationWeight:  decimal.RequireFromString("0.2"),
	Cap:                decimal.NewFromInt(3),
}

// Counts are the last-seen counter values per category. Zero means absent.
type Counts struct {
	LegalEntities float64 `json:"legalEntities"`
	Locations     float64 `json:"locations"`
	Users         float64 `json:"users"`
	Countries     int     `json:"countries"`
	Integrations  int     `json:"integrations"`
}

// Result is the extractor output.
type Result struct {
	Multiplier float64               `json:"multiplier"`
	Reason     string                `json:"reason"`
	Tier       models.ComplexityTier `json:"tier"`
	Signals    []string              `json:"signals,omitempty"`
	Counts     Counts                `json:"counts"`
	// Conflicts names single-valued categories that appeared with differing values.
	// The last value was used.
	Conflicts []string `json:"conflicts,omitempty"`
}

var highVolumeWords = []string{"very high", "high", "large", "massive", "huge"}

// Extract applies DefaultRules.
func Extract(chips []models.Chip) Result {
	return DefaultRules.Extract(chips)
}

// Extract scans chips once. For legal_entities, locations and users/employees the
// last parsable chip wins.
func (r Rules) Extract(chips []models.Chip) Result {
	var (
		counts          Counts
		countries       = map[string]struct{}{}
		countriesCount  float64
		integrationHits int
		integrationsNum float64
		highVolume      bool
		compliance      bool
	)

	for _, chip := range chips {
		switch chip.NormalizedCategory() {
		case models.ChipLegalEntities:
			if n, ok := chip.Number(); ok {
				counts.LegalEntities = n
			}
		case models.ChipLocations:
			if n, ok := chip.Number(); ok {
				counts.Locations = n
			}
		case models.ChipUsers, models.ChipEmployees:
			if n, ok := chip.Number(); ok {
				counts.Users = n
			}
		case models.ChipCountry:
			if v := strings.ToLower(chip.Text()); v != "" {
				countries[v] = struct{}{}
			}
		case models.ChipCountries:
			if n, ok := chip.Number(); ok {
				countriesCount = n
			}
		case models.ChipIntegration:
			integrationHits++
		case models.ChipIntegrations:
			if n, ok := chip.Number(); ok {
				integrationsNum = n
			}
		case models.ChipCompliance:
			compliance = true
		case models.ChipDataVolume:
			if r.isHighVolume(chip) {
				highVolume = true
			}
		}
	}

	counts.Countries = len(countries)
	if int(countriesCount) > counts.Countries {
		counts.Countries = int(countriesCount)
	}
	counts.Integrations = integrationHits
	if int(integrationsNum) > counts.Integrations {
		counts.Integrations = int(integrationsNum)
	}

	tier, signals := r.classify(counts)
	multiplier := r.BaseMultiplier[tier]

	if counts.Countries > 1 {
		multiplier = multiplier.Add(r.MultiCountryWeight)
		signals = append(signals, fmt.Sprintf("multi-country rollout (%d countries)", counts.Countries))
	}
	if highVolume {
		multiplier = multiplier.Add(r.DataVolumeWeight)
		signals = append(signals, "high data volume")
	}
	if compliance {
		multiplier = multiplier.Add(r.ComplianceWeight)
		signals = append(signals, "regulatory compliance requirements")
	}
	if float64(counts.Integrations) > r.IntegrationThreshold {
		multiplier = multiplier.Add(r.IntegrationWeight)
		signals = append(signals, fmt.Sprintf("%d integrations", counts.Integrations))
	}

	if multiplier.GreaterThan(r.Cap) {
		multiplier = r.Cap
	}
	if multiplier.LessThan(decimal.NewFromInt(1)) {
		multiplier = decimal.NewFromInt(1)
	}
	m := multiplier.Round(2).InexactFloat64()

	return Result{
		Multiplier: m,
		Reason:     Reason(m, signals),
		Tier:       tier,
		Signals:    signals,
		Counts:     counts,
		Conflicts:  Conflicts(chips),
	}
}

func (r Rules) classify(c Counts) (models.ComplexityTier, []string) {
	tier := models.ComplexityLow
	var signals []string

	raise := func(t models.ComplexityTier) {
		if t.Rank() > tier.Rank() {
			tier = t
		}
	}

	for _, org := range []struct {
		n     float64
		label string
	}{
		{c.LegalEntities, "legal entities"},
		{c.Locations, "locations"},
	} {
		switch {
		case org.n > r.EntityHigh:
			raise(models.ComplexityHigh)
			signals = append(signals, fmt.Sprintf("%s %s", formatCount(org.n), org.label))
		case org.n > r.EntityMedium:
			raise(models.ComplexityMedium)
			signals = append(signals, fmt.Sprintf("%s %s", formatCount(org.n), org.label))
		}
	}

	switch {
	case c.Users > r.UserHigh:
		raise(models.ComplexityHigh)
		signals = append(signals, fmt.Sprintf("%s users", formatCount(c.Users)))
	case c.Users > r.UserMedium:
		raise(models.ComplexityMedium)
		signals = append(signals, fmt.Sprintf("%s users", formatCount(c.Users)))
	}

	return tier, signals
}

func (r Rules) isHighVolume(chip models.Chip) bool {
	if n, ok := chip.Number(); ok {
		return n >= r.DataVolumeRecords
	}
	text := strings.ToLower(chip.Text())
	for _, w := range highVolumeWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Reason renders the banded justification for a multiplier.
func Reason(multiplier float64, signals []string) string {
	var band string
	switch {
	case multiplier >= 2.5:
		band = "High complexity"
	case multiplier >= 1.8:
		band = "Medium-high complexity"
	case multiplier >= 1.3:
		band = "Medium complexity"
	case multiplier > 1.0:
		band = "Low complexity increase"
	default:
		return "Standard complexity"
	}
	if len(signals) == 0 {
		return fmt.Sprintf("%s: multiplier %.2f", band, multiplier)
	}
	return fmt.Sprintf("%s: %s", band, strings.Join(signals, ", "))
}

// singleValued lists categories where a repeat with a different value is a conflict.
var singleValued = map[string]bool{
	models.ChipEmployees:     true,
	models.ChipUsers:         true,
	models.ChipRevenue:       true,
	models.ChipIndustry:      true,
	models.ChipLegalEntities: true,
	models.ChipLocations:     true,
	models.ChipCountries:     true,
	models.ChipIntegrations:  true,
	models.ChipDataVolume:    true,
}

// Conflicts returns the sorted single-valued categories whose chips disagree.
func Conflicts(chips []models.Chip) []string {
	seen := map[string]string{}
	conflicted := map[string]struct{}{}
	for _, chip := range chips {
		cat := chip.NormalizedCategory()
		if !singleValued[cat] {
			continue
		}
		v := strings.ToLower(chip.Text())
		if prev, ok := seen[cat]; ok && prev != v {
			conflicted[cat] = struct{}{}
		}
		seen[cat] = v
	}
	if len(conflicted) == 0 {
		return nil
	}
	out := make([]string, 0, len(conflicted))
	for c := range conflicted {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func formatCount(n float64) string {
	return decimal.NewFromFloat(n).String()
}

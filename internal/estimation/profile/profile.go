// Package profile derives a client profile from requirement chips and maps
// scoping decisions onto delivery packages.
package profile

import (
	"strings"

	"estimate-workers/internal/estimation/complexity"
	"estimate-workers/internal/models"
)

// Profile defaults applied before any chip is read.
const (
	DefaultRegion    = "ABMY"
	DefaultIndustry  = "manufacturing"
	DefaultEmployees = 500
	DefaultRevenue   = 100_000_000
)

// Company size thresholds on employee count.
const (
	largeEmployeesAbove = 1000
	smallEmployeesBelow = 200
)

// regionByCountry maps lower-cased country names to region codes.
var regionByCountry = map[string]string{
	"malaysia":  "ABMY",
	"singapore": "ABSG",
	"vietnam":   "ABVN",
	"viet nam":  "ABVN",
}

// RegionForCountry returns the region code for a country name.
func RegionForCountry(country string) (string, bool) {
	region, ok := regionByCountry[strings.ToLower(strings.TrimSpace(country))]
	return region, ok
}

// Derivation is the full conversion output: the profile plus the complexity detail behind it.
type Derivation struct {
	Profile    models.ClientProfile `json:"profile"`
	Complexity complexity.Result    `json:"complexity"`
}

// ExtractProfile derives a profile using the default complexity rules.
func ExtractProfile(chips []models.Chip) models.ClientProfile {
	return Derive(chips, complexity.DefaultRules).Profile
}

// Derive starts from defaults and overwrites fields from chips in order, so a
// later chip of the same category replaces an earlier one. Unparsable numbers
// and unknown countries leave the prior value in place.
func Derive(chips []models.Chip, rules complexity.Rules) Derivation {
	p := models.ClientProfile{
		Region:    DefaultRegion,
		Industry:  DefaultIndustry,
		Employees: DefaultEmployees,
		Revenue:   DefaultRevenue,
	}

	for _, chip := range chips {
		switch chip.NormalizedCategory() {
		case models.ChipCountry:
			if region, ok := RegionForCountry(chip.Text()); ok {
				p.Region = region
			}
		case models.ChipEmployees:
			if n, ok := chip.Number(); ok && n >= 0 {
				p.Employees = n
			}
		case models.ChipRevenue:
			if n, ok := chip.Number(); ok && n >= 0 {
				p.Revenue = n
			}
		case models.ChipIndustry:
			if v := strings.ToLower(chip.Text()); v != "" {
				p.Industry = v
			}
		}
	}

	p.CompanySize = SizeFor(p.Employees)

	result := rules.Extract(chips)
	p.Complexity = result.Tier
	p.ComplexityMultiplier = result.Multiplier

	return Derivation{Profile: p, Complexity: result}
}

// SizeFor classifies an employee count.
func SizeFor(employees float64) models.SizeTier {
	switch {
	case employees > largeEmployeesAbove:
		return models.SizeLarge
	case employees < smallEmployeesBelow:
		return models.SizeSmall
	default:
		return models.SizeMedium
	}
}

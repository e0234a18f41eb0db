package profile

import (
	"errors"
	"fmt"
	"sort"

	"estimate-workers/internal/models"
)

// Package identifiers.
const (
	PackageFinanceBaseline = "Finance_1"
	PackageFinanceCore     = "Finance_3"
	PackageHCM             = "HCM_1"
	PackageSCM             = "SCM_1"
	PackageDataMigration   = "DataMigration_1"
	PackageIntegration     = "Integration_1"
	PackageCompliance      = "Compliance_1"
)

var (
	ErrUnknownModuleCombo = errors.New("unknown module combination")
	ErrUnknownBankingPath = errors.New("unknown banking path")
	ErrUnknownSSOMode     = errors.New("unknown sso mode")
)

// modulePackages covers every models.ModuleCombo.
var modulePackages = map[models.ModuleCombo][]string{
	models.ModuleFinanceOnly: {PackageFinanceCore},
	models.ModuleFinanceHR:   {PackageFinanceCore, PackageHCM},
	models.ModuleFinanceSCM:  {PackageFinanceCore, PackageSCM},
	models.ModuleFullSuite:   {PackageFinanceCore, PackageHCM, PackageSCM},
}

// bankingPackages covers every models.BankingPath.
var bankingPackages = map[models.BankingPath][]string{
	models.BankingManualUpload: nil,
	models.BankingHostToHost:   {PackageDataMigration},
	models.BankingMultiBank:    {PackageDataMigration},
}

// ssoPackages covers every models.SSOMode.
var ssoPackages = map[models.SSOMode][]string{
	models.SSODayOne:   {PackageIntegration},
	models.SSOPhased:   nil,
	models.SSODeferred: nil,
}

// ValidateDecision rejects values outside the closed enumerations. Empty fields are allowed.
func ValidateDecision(d models.Decision) error {
	var errs []error
	if d.ModuleCombo != "" {
		if _, ok := modulePackages[d.ModuleCombo]; !ok {
			errs = append(errs, fmt.Errorf("decision.moduleCombo %q: %w", d.ModuleCombo, ErrUnknownModuleCombo))
		}
	}
	if d.BankingPath != "" {
		if _, ok := bankingPackages[d.BankingPath]; !ok {
			errs = append(errs, fmt.Errorf("decision.bankingPath %q: %w", d.BankingPath, ErrUnknownBankingPath))
		}
	}
	if d.SSOMode != "" {
		if _, ok := ssoPackages[d.SSOMode]; !ok {
			errs = append(errs, fmt.Errorf("decision.ssoMode %q: %w", d.SSOMode, ErrUnknownSSOMode))
		}
	}
	return errors.Join(errs...)
}

// MapPackages returns the de-duplicated package set for a decision and chip set,
// sorted for stable output. Callers must treat it as a set.
func MapPackages(d models.Decision, chips []models.Chip) ([]string, error) {
	if err := ValidateDecision(d); err != nil {
		return nil, err
	}

	set := map[string]struct{}{PackageFinanceBaseline: {}}
	add := func(ids ...string) {
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}

	add(modulePackages[d.ModuleCombo]...)
	add(bankingPackages[d.BankingPath]...)
	add(ssoPackages[d.SSOMode]...)

	for _, chip := range chips {
		switch chip.NormalizedCategory() {
		case models.ChipIntegration:
			add(PackageIntegration)
		case models.ChipCompliance:
			add(PackageCompliance)
		}
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

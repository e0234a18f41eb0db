package profile

import (
	"errors"
	"testing"

	"estimate-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chip(category string, value interface{}) models.Chip {
	return models.Chip{Category: category, Value: value}
}

func TestExtractProfile(t *testing.T) {
	tests := []struct {
		name     string
		chips    []models.Chip
		validate func(t *testing.T, p models.ClientProfile)
	}{
		{
			name:  "defaults without chips",
			chips: nil,
			validate: func(t *testing.T, p models.ClientProfile) {
				assert.Equal(t, "ABMY", p.Region)
				assert.Equal(t, "manufacturing", p.Industry)
				assert.Equal(t, models.SizeMedium, p.CompanySize)
				assert.Equal(t, 500.0, p.Employees)
				assert.Equal(t, 100_000_000.0, p.Revenue)
				assert.Equal(t, models.ComplexityLow, p.Complexity)
				assert.Equal(t, 1.0, p.ComplexityMultiplier)
			},
		},
		{
			name:  "malaysia large high",
			chips: []models.Chip{chip("country", "Malaysia"), chip("employees", 1200.0), chip("legal_entities", 12.0)},
			validate: func(t *testing.T, p models.ClientProfile) {
				assert.Equal(t, "ABMY", p.Region)
				assert.Equal(t, models.SizeLarge, p.CompanySize)
				assert.Equal(t, models.ComplexityHigh, p.Complexity)
				assert.Equal(t, 1.8, p.ComplexityMultiplier)
			},
		},
		{
			name:  "string numerics and case-insensitive country",
			chips: []models.Chip{chip("country", " SINGAPORE "), chip("employees", "150"), chip("revenue", "25,000,000"), chip("industry", "Retail")},
			validate: func(t *testing.T, p models.ClientProfile) {
				assert.Equal(t, "ABSG", p.Region)
				assert.Equal(t, models.SizeSmall, p.CompanySize)
				assert.Equal(t, 25_000_000.0, p.Revenue)
				assert.Equal(t, "retail", p.Industry)
			},
		},
		{
			name:  "unknown country and unparsable number keep prior values",
			chips: []models.Chip{chip("country", "Vietnam"), chip("country", "Atlantis"), chip("employees", "lots")},
			validate: func(t *testing.T, p models.ClientProfile) {
				assert.Equal(t, "ABVN", p.Region)
				assert.Equal(t, 500.0, p.Employees)
			},
		},
		{
			name:  "last employees chip wins",
			chips: []models.Chip{chip("employees", 5000.0), chip("employees", 300.0)},
			validate: func(t *testing.T, p models.ClientProfile) {
				assert.Equal(t, 300.0, p.Employees)
				assert.Equal(t, models.SizeMedium, p.CompanySize)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, ExtractProfile(tt.chips))
		})
	}
}

func TestSizeFor_Boundaries(t *testing.T) {
	assert.Equal(t, models.SizeMedium, SizeFor(1000))
	assert.Equal(t, models.SizeLarge, SizeFor(1001))
	assert.Equal(t, models.SizeMedium, SizeFor(200))
	assert.Equal(t, models.SizeSmall, SizeFor(199))
}

func TestMapPackages(t *testing.T) {
	tests := []struct {
		name     string
		decision models.Decision
		chips    []models.Chip
		want     []string
	}{
		{
			name: "baseline only",
			want: []string{"Finance_1"},
		},
		{
			name:     "full suite",
			decision: models.Decision{ModuleCombo: models.ModuleFullSuite},
			chips:    []models.Chip{chip("country", "Malaysia"), chip("employees", 1200.0), chip("legal_entities", 12.0)},
			want:     []string{"Finance_1", "Finance_3", "HCM_1", "SCM_1"},
		},
		{
			name:     "finance and hr",
			decision: models.Decision{ModuleCombo: models.ModuleFinanceHR},
			want:     []string{"Finance_1", "Finance_3", "HCM_1"},
		},
		{
			name:     "finance and scm",
			decision: models.Decision{ModuleCombo: models.ModuleFinanceSCM},
			want:     []string{"Finance_1", "Finance_3", "SCM_1"},
		},
		{
			name:     "host to host banking and day one sso",
			decision: models.Decision{ModuleCombo: models.ModuleFinanceOnly, BankingPath: models.BankingHostToHost, SSOMode: models.SSODayOne},
			want:     []string{"DataMigration_1", "Finance_1", "Finance_3", "Integration_1"},
		},
		{
			name:     "manual upload and deferred sso add nothing",
			decision: models.Decision{BankingPath: models.BankingManualUpload, SSOMode: models.SSODeferred},
			want:     []string{"Finance_1"},
		},
		{
			name:     "chip flags deduplicate with decision",
			decision: models.Decision{BankingPath: models.BankingMultiBank, SSOMode: models.SSODayOne},
			chips:    []models.Chip{chip("integration", "Salesforce"), chip("integration", "Ariba"), chip("compliance", "SOX")},
			want:     []string{"Compliance_1", "DataMigration_1", "Finance_1", "Integration_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapPackages(tt.decision, tt.chips)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestMapPackages_UnknownValuesRejected(t *testing.T) {
	_, err := MapPackages(models.Decision{ModuleCombo: "finance_crm", SSOMode: "eventually"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownModuleCombo))
	assert.True(t, errors.Is(err, ErrUnknownSSOMode))
	assert.False(t, errors.Is(err, ErrUnknownBankingPath))
}

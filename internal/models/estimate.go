package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Chip categories the engine reads. Other categories pass through untouched.
const (
	ChipCountry       = "country"
	ChipCountries     = "countries"
	ChipEmployees     = "employees"
	ChipUsers         = "users"
	ChipRevenue       = "revenue"
	ChipIndustry      = "industry"
	ChipLegalEntities = "legal_entities"
	ChipLocations     = "locations"
	ChipIntegration   = "integration"
	ChipIntegrations  = "integrations"
	ChipCompliance    = "compliance"
	ChipDataVolume    = "data_volume"
)

// Chip is an extracted requirement fact. Value is a string or a number as decoded from JSON.
type Chip struct {
	Category string      `json:"category"`
	Value    interface{} `json:"value"`
}

// Text returns the value as a trimmed string.
func (c Chip) Text() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Number parses the value as a number. Strings may carry thousands separators.
func (c Chip) Number() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// NormalizedCategory lower-cases and trims the category tag.
func (c Chip) NormalizedCategory() string {
	return strings.ToLower(strings.TrimSpace(c.Category))
}

type ModuleCombo string

const (
	ModuleFinanceOnly ModuleCombo = "finance_only"
	ModuleFinanceHR   ModuleCombo = "finance_hr"
	ModuleFinanceSCM  ModuleCombo = "finance_scm"
	ModuleFullSuite   ModuleCombo = "full_suite"
)

// ModuleCombos lists every accepted module combination.
var ModuleCombos = []ModuleCombo{ModuleFinanceOnly, ModuleFinanceHR, ModuleFinanceSCM, ModuleFullSuite}

type BankingPath string

const (
	BankingManualUpload BankingPath = "manual_upload"
	BankingHostToHost   BankingPath = "host_to_host"
	BankingMultiBank    BankingPath = "multi_bank"
)

var BankingPaths = []BankingPath{BankingManualUpload, BankingHostToHost, BankingMultiBank}

type SSOMode string

const (
	SSODayOne   SSOMode = "day_one"
	SSOPhased   SSOMode = "phased"
	SSODeferred SSOMode = "deferred"
)

var SSOModes = []SSOMode{SSODayOne, SSOPhased, SSODeferred}

// Decision is the optional scoping record supplied once per estimate.
type Decision struct {
	ModuleCombo  ModuleCombo `json:"moduleCombo,omitempty"`
	BankingPath  BankingPath `json:"bankingPath,omitempty"`
	SSOMode      SSOMode     `json:"ssoMode,omitempty"`
	TargetPrice  *float64    `json:"targetPrice,omitempty"`
	TargetMargin *float64    `json:"targetMargin,omitempty"`
}

type SizeTier string

const (
	SizeSmall  SizeTier = "small"
	SizeMedium SizeTier = "medium"
	SizeLarge  SizeTier = "large"
)

type ComplexityTier string

const (
	ComplexityLow    ComplexityTier = "low"
	ComplexityMedium ComplexityTier = "medium"
	ComplexityHigh   ComplexityTier = "high"
)

// Rank orders tiers so the highest can be picked.
func (t ComplexityTier) Rank() int {
	switch t {
	case ComplexityHigh:
		return 2
	case ComplexityMedium:
		return 1
	default:
		return 0
	}
}

// ClientProfile is derived in full from chips on every run.
type ClientProfile struct {
	Region               string         `json:"region"`
	Industry             string         `json:"industry"`
	CompanySize          SizeTier       `json:"companySize"`
	Employees            float64        `json:"employees"`
	Revenue              float64        `json:"revenue"`
	Complexity           ComplexityTier `json:"complexity"`
	ComplexityMultiplier float64        `json:"complexityMultiplier"`
}

// Phase metadata keys written by the scaler.
const (
	MetaComplexityMultiplier = "complexityMultiplier"
	MetaOriginalEffort       = "originalEffort"
	MetaOriginalDuration     = "originalDuration"
	MetaAdjustmentReason     = "adjustmentReason"
)

// Phase is a schedulable unit of delivery work. Effort is in person-days, duration in weeks.
// Dates are YYYY-MM-DD and are owned by the schedule step.
type Phase struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Effort    float64                `json:"effort"`
	Duration  float64                `json:"duration"`
	StartDate string                 `json:"startDate,omitempty"`
	EndDate   string                 `json:"endDate,omitempty"`
	// WorkingDays counts StartDate..EndDate inclusive on the region calendar.
	WorkingDays int                    `json:"workingDays,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Clone returns a copy whose metadata map is independent of p's.
func (p Phase) Clone() Phase {
	out := p
	if p.Metadata != nil {
		out.Metadata = make(map[string]interface{}, len(p.Metadata))
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

package deriveestimateprofile

import (
	"context"

	"estimate-workers/internal/common/chips"
	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/common/metrics"
	"estimate-workers/internal/estimation/complexity"
	"estimate-workers/internal/estimation/profile"
	"estimate-workers/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	chips  chips.Source
	rules  complexity.Rules
}

type ServiceDependencies struct {
	Logger logger.Logger
	// Chips may be nil; jobs without chips then derive from defaults.
	Chips chips.Source
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		chips:  deps.Chips,
		rules:  complexity.DefaultRules,
	}
}

// Execute derives the profile, multiplier and package set. The profile is
// rebuilt from scratch on every call.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	chipSet, source, err := s.resolveChips(ctx, input)
	if err != nil {
		return nil, err
	}

	var decision models.Decision
	if input.Decision != nil {
		decision = *input.Decision
	}
	packages, err := profile.MapPackages(decision, chipSet)
	if err != nil {
		return nil, errors.NewInputValidationError(err.Error())
	}

	derivation := profile.Derive(chipSet, s.rules)
	result := derivation.Complexity
	if len(result.Conflicts) > 0 {
		s.logger.Warn("conflicting chip values, last value used", map[string]interface{}{
			"projectId":  input.ProjectID,
			"categories": result.Conflicts,
		})
	}

	metrics.ComplexityMultiplier.Observe(result.Multiplier)

	return &Output{
		ProjectID:            input.ProjectID,
		Profile:              derivation.Profile,
		ComplexityMultiplier: result.Multiplier,
		AdjustmentReason:     result.Reason,
		ComplexitySignals:    result.Signals,
		Packages:             packages,
		ChipConflicts:        result.Conflicts,
		ChipSource:           source,
		ChipCount:            len(chipSet),
	}, nil
}

func (s *Service) resolveChips(ctx context.Context, input *Input) ([]models.Chip, string, error) {
	if input.Chips != nil {
		return input.Chips, ChipSourceVariables, nil
	}
	if s.chips == nil || !s.config.ChipFallback {
		return nil, ChipSourceNone, nil
	}

	loaded, err := s.chips.ChipsForProject(ctx, input.ProjectID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Debug("chips loaded from index", map[string]interface{}{
		"projectId": input.ProjectID,
		"count":     len(loaded),
	})
	return loaded, ChipSourceIndex, nil
}

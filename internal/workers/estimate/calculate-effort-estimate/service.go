package calculateeffortestimate

import (
	"context"
	"errors"
	"fmt"

	stderrors "estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/estimation/formula"
	"estimate-workers/internal/estimation/phases"
)

type Service struct {
	config *Config
	logger logger.Logger
}

type ServiceDependencies struct {
	Logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger}
}

// Execute evaluates the single scenario into baseline phases, or the batch into
// per-scenario results. A batch skips scenarios without positive capacity.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	switch {
	case input.Scenario != nil && len(input.Scenarios) > 0:
		return nil, stderrors.NewInputValidationError("scenario and scenarios are mutually exclusive")
	case input.Scenario != nil:
		return s.single(input.ProjectID, *input.Scenario)
	case len(input.Scenarios) > 0:
		return s.batch(ctx, input.ProjectID, input.Scenarios)
	default:
		return nil, stderrors.NewInputValidationError("one of scenario or scenarios is required")
	}
}

func (s *Service) single(projectID string, in formula.Inputs) (*Output, error) {
	result, err := s.config.Constants.Calculate(withDefaults(in))
	if err != nil {
		if errors.Is(err, formula.ErrNonPositiveCapacity) {
			return nil, stderrors.NewInputValidationError(err.Error())
		}
		return nil, stderrors.NewInternalError(err)
	}

	baseline := formula.ToPhases(result)
	effort, duration := phases.Totals(baseline)
	return &Output{
		ProjectID:     projectID,
		Estimate:      &result,
		Phases:        baseline,
		TotalEffort:   effort,
		TotalDuration: duration,
	}, nil
}

func (s *Service) batch(ctx context.Context, projectID string, scenarios []formula.Inputs) (*Output, error) {
	if len(scenarios) > s.config.MaxScenarios {
		return nil, stderrors.NewInputValidationError(
			fmt.Sprintf("batch of %d scenarios exceeds the limit of %d", len(scenarios), s.config.MaxScenarios))
	}

	prepared := make([]formula.Inputs, len(scenarios))
	for i, sc := range scenarios {
		prepared[i] = withDefaults(sc)
	}

	results, skipped, err := s.config.Constants.CalculateBatch(ctx, prepared)
	if err != nil {
		return nil, stderrors.NewInternalError(err)
	}
	if len(skipped) > 0 {
		s.logger.Warn("skipped scenarios without positive capacity", map[string]interface{}{
			"projectId": projectID,
			"indexes":   skipped,
		})
	}
	return &Output{
		ProjectID:        projectID,
		Scenarios:        results,
		SkippedScenarios: skipped,
	}, nil
}

// withDefaults treats an absent overlap factor as no overlap.
func withDefaults(in formula.Inputs) formula.Inputs {
	if in.OverlapFactor == 0 {
		in.OverlapFactor = 1
	}
	return in
}

package calculateprojectcosting

import (
	"context"
	"fmt"
	"sync"

	"estimate-workers/internal/common/auth"
	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/common/metrics"
	"estimate-workers/internal/common/ratecatalog"
	"estimate-workers/internal/estimation/costing"
	"estimate-workers/internal/estimation/visibility"
	"estimate-workers/internal/models"
)

// ProjectStore is satisfied by *costingstore.Store.
type ProjectStore interface {
	Ownership(ctx context.Context, projectID string) (models.ProjectOwnership, error)
	Save(ctx context.Context, summary models.CostingSummary, calculatedBy string) (models.CostingSummary, error)
}

// RateLoader is satisfied by *ratecatalog.Catalog.
type RateLoader interface {
	Load(ctx context.Context, f ratecatalog.Filter, forceRefresh bool) ([]models.RateCard, error)
}

type Service struct {
	config     *Config
	logger     logger.Logger
	identity   auth.IdentityResolver
	projects   ProjectStore
	rates      RateLoader
	calculator *costing.Calculator
}

type ServiceDependencies struct {
	Logger   logger.Logger
	Identity auth.IdentityResolver
	Projects ProjectStore
	Rates    RateLoader
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:     config,
		logger:     deps.Logger,
		identity:   deps.Identity,
		projects:   deps.Projects,
		rates:      deps.Rates,
		calculator: costing.NewCalculator(config.Settings),
	}
}

// Execute authenticates and authorizes the caller, computes the complete
// summary, persists it and returns the view for the caller's level.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Lines) > s.config.MaxLines {
		return nil, errors.NewInputValidationError(
			fmt.Sprintf("%d resource lines exceed the limit of %d", len(input.Lines), s.config.MaxLines))
	}

	identity, err := s.authorize(ctx, input)
	if err != nil {
		return nil, err
	}
	level := visibility.ForIdentity(identity)

	cards, err := s.rates.Load(ctx, ratecatalog.FilterForLines(input.Lines), input.ForceRefreshRates)
	if err != nil {
		return nil, err
	}

	summary, err := s.calculator.Calculate(ctx, costing.NewRateMap(cards), costing.Request{
		ProjectID:          input.ProjectID,
		Version:            input.Version,
		Lines:              input.Lines,
		SubcontractorCost:  input.SubcontractorCost,
		OutOfPocketExpense: input.OutOfPocketExpense,
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.projects.Save(ctx, summary, identity.UserID)
	if err != nil {
		return nil, err
	}

	metrics.CostingCalculations.WithLabelValues(string(level)).Inc()
	s.logger.Debug("costing summary stored", map[string]interface{}{
		"projectId":       saved.ProjectID,
		"version":         saved.Version,
		"summaryId":       saved.ID,
		"visibilityLevel": level,
	})

	return &Output{Response: costing.Assemble(saved, level, input.IncludeBreakdown)}, nil
}

// authorize resolves the identity and the project owner concurrently. An
// authentication failure wins over any ownership lookup error so that
// unauthenticated callers learn nothing about the project.
func (s *Service) authorize(ctx context.Context, input *Input) (models.Identity, error) {
	var (
		identity  models.Identity
		ownership models.ProjectOwnership
		idErr     error
		ownErr    error
		wg        sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		identity, idErr = s.identity.ResolveIdentity(ctx, input.AccessToken)
	}()
	go func() {
		defer wg.Done()
		ownership, ownErr = s.projects.Ownership(ctx, input.ProjectID)
	}()
	wg.Wait()

	if idErr != nil {
		return models.Identity{}, idErr
	}
	if ownErr != nil {
		return models.Identity{}, ownErr
	}
	if err := visibility.Authorize(identity, ownership); err != nil {
		s.logger.Warn("costing access denied", map[string]interface{}{
			"projectId": input.ProjectID,
			"userId":    identity.UserID,
		})
		return models.Identity{}, err
	}
	return identity, nil
}

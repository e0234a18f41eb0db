package invalidateratecache

import (
	"context"

	"estimate-workers/internal/common/logger"
)

// Invalidator is satisfied by *ratecatalog.Catalog.
type Invalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

type Service struct {
	config  *Config
	logger  logger.Logger
	catalog Invalidator
}

type ServiceDependencies struct {
	Logger  logger.Logger
	Catalog Invalidator
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger, catalog: deps.Catalog}
}

// Execute bumps the rate cache generation. Entries cached under earlier
// generations are never read again and expire on their TTL.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	generation, err := s.catalog.Invalidate(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("rate cache generation bumped", map[string]interface{}{
		"generation":  generation,
		"reason":      input.Reason,
		"requestedBy": input.RequestedBy,
	})
	return &Output{RateCacheInvalidated: true, RateCacheGeneration: generation}, nil
}

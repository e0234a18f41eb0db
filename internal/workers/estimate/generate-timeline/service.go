package generatetimeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"estimate-workers/internal/common/aws"
	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/estimation/calendar"
	"estimate-workers/internal/estimation/phases"
	"estimate-workers/internal/estimation/profile"
	"estimate-workers/internal/estimation/schedule"
	"estimate-workers/internal/models"
)

type Service struct {
	config    *Config
	logger    logger.Logger
	calendar  schedule.Calendar
	publisher aws.SchedulePublisher
	now       func() time.Time
}

type ServiceDependencies struct {
	Logger    logger.Logger
	Calendar  schedule.Calendar
	Publisher aws.SchedulePublisher
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = aws.NoopPublisher{}
	}
	return &Service{
		config:    config,
		logger:    deps.Logger,
		calendar:  deps.Calendar,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Execute scales the phases from their baseline and, when anything changed,
// lays dates out on the region's working-day calendar and announces the new
// schedule. Per-project serialization is left to the process.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	region := strings.ToUpper(strings.TrimSpace(input.Region))
	if region == "" {
		region = profile.DefaultRegion
	}

	adj := phases.Adjustment{Multiplier: input.ComplexityMultiplier, Reason: input.AdjustmentReason}
	scaled, changed := phases.Scale(input.Phases, adj)

	out := &Output{
		ProjectID: input.ProjectID,
		Region:    region,
		Phases:    scaled,
		Scaled:    changed,
	}
	if out.Phases == nil {
		out.Phases = []models.Phase{}
	}

	if changed || input.RegenerateDates {
		if err := s.regenerate(ctx, input, out); err != nil {
			return nil, err
		}
	}

	out.TotalEffort, out.TotalDuration = phases.Totals(out.Phases)
	return out, nil
}

func (s *Service) regenerate(ctx context.Context, input *Input, out *Output) error {
	start := calendar.Truncate(s.now())
	if input.StartDate != "" {
		parsed, err := calendar.ParseDate(input.StartDate)
		if err != nil {
			return errors.NewInputValidationError(fmt.Sprintf("startDate: %v", err))
		}
		start = parsed
	}

	dated, err := schedule.Regenerate(out.Phases, start, out.Region, s.calendar)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("regenerate schedule for %s: %w", input.ProjectID, err))
	}
	out.Phases = dated
	out.DatesRegenerated = true
	out.StartDate, out.EndDate = schedule.Span(dated)
	out.WorkingDays = schedule.TotalWorkingDays(dated)

	messageID, err := s.publisher.PublishScheduleSignal(ctx, aws.ScheduleSignal{
		ProjectID:   input.ProjectID,
		Region:      out.Region,
		Multiplier:  input.ComplexityMultiplier,
		Reason:      input.AdjustmentReason,
		StartDate:   out.StartDate,
		EndDate:     out.EndDate,
		PhaseCount:  len(dated),
		WorkingDays: out.WorkingDays,
	})
	if err != nil {
		return errors.NewSignalPublishFailedError(err)
	}
	out.SignalMessageID = messageID
	return nil
}

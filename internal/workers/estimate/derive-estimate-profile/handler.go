package deriveestimateprofile

import (
	"context"
	"fmt"
	"time"

	"estimate-workers/internal/common/camunda"
	"estimate-workers/internal/common/chips"
	"estimate-workers/internal/common/config"
	"estimate-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "estimate.profile.derive"
	WorkerName = "derive-estimate-profile"
)

type Handler struct {
	config    *Config
	logger    logger.Logger
	service   *Service
	completer *camunda.Completer
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Observer     camunda.JobObserver
	Chips        chips.Source
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:    workerConfig,
		logger:    log,
		service:   NewService(ServiceDependencies{Logger: log, Chips: opts.Chips}, workerConfig),
		completer: camunda.NewCompleter(TaskType, log, opts.Observer),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.completer.Fail(ctx, client, job, err, started)
		return
	}

	output, err := h.service.Execute(ctx, input)
	if err != nil {
		h.completer.Fail(ctx, client, job, err, started)
		return
	}

	h.logger.Info("estimate profile derived", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"projectId":  output.ProjectID,
		"region":     output.Profile.Region,
		"complexity": output.Profile.Complexity,
		"multiplier": output.ComplexityMultiplier,
		"packages":   len(output.Packages),
		"chipSource": output.ChipSource,
	})
	h.completer.Complete(ctx, client, job, output, started)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := camunda.DecodeVariables(job, GetInputSchema(), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute runs the service directly, bypassing job decoding.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"estimate-workers/internal/common/config"
	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobObserver records job outcomes; *observability.Observability satisfies it.
type JobObserver interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// StartWorker opens a job worker for taskType. The handler is wrapped with the
// active-jobs gauge and the duration histogram.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	log *zap.Logger,
) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

func instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler(client, job)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	}
}

func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
	w.worker.AwaitClose()
}

// Completer finishes jobs for one task type and records the outcome.
type Completer struct {
	taskType     string
	errorHandler *errors.ErrorHandler
	observer     JobObserver
	logger       logger.Logger
	retry        *RetryConfig
}

func NewCompleter(taskType string, log logger.Logger, observer JobObserver) *Completer {
	return &Completer{
		taskType:     taskType,
		errorHandler: errors.NewErrorHandler(log),
		observer:     observer,
		logger:       log,
		retry:        DefaultRetryConfig,
	}
}

// Complete sends the complete command with output as the job variables.
func (c *Completer) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, started time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		c.Fail(ctx, client, job, errors.NewInternalError(err), started)
		return
	}

	err = ExecuteWithRetry(ctx, c.retry, "complete-job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
	if err != nil {
		c.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		c.record(ctx, "complete_failed", started)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(c.taskType).Inc()
	c.record(ctx, "completed", started)
}

// Fail hands err to the error handler, which fails or throws the job.
func (c *Completer) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, started time.Time) {
	stdErr := errors.Normalize(err)
	c.errorHandler.HandleJobError(ctx, client, job, stdErr)
	metrics.WorkerJobsFailed.WithLabelValues(c.taskType, string(stdErr.Code)).Inc()
	c.record(ctx, "failed", started)
}

func (c *Completer) record(ctx context.Context, status string, started time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.RecordJobProcessed(ctx, c.taskType, status)
	c.observer.RecordJobDuration(ctx, c.taskType, time.Since(started), status)
}

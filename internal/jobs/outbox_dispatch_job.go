package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OutboxDispatchJob manages the scheduled draining of the outbox.
// Runs every second to perform the side effects committed alongside
// business changes.
type OutboxDispatchJob struct {
	handler commands.DispatchOutboxCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOutboxDispatchJob creates a new job for draining the outbox.
// Uses DispatchOutboxCommandHandler to process pending tasks every second.
func NewOutboxDispatchJob(handler commands.DispatchOutboxCommandHandler, logger *slog.Logger) *OutboxDispatchJob {
	return &OutboxDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "outbox_dispatch_job"),
	}
}

// Start begins the outbox dispatch job to run every second.
func (j *OutboxDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchOutboxCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// Per-task dispatch failures are handled inside the pass;
			// an error here means the outbox itself is unreachable.
			j.logger.ErrorContext(ctx, "Outbox dispatch job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job started (running every second)")
	return nil
}

// Stop stops the outbox dispatch job.
func (j *OutboxDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}

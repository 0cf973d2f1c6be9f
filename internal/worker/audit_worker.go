// Package worker consumes expense lifecycle events and records them in
// the audit trail.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"expensed/internal/amqp"
	"expensed/internal/storage"
)

// AuditWorker persists expense events into the expense_events table so
// every create, update and delete leaves a durable trace.
type AuditWorker struct {
	storage *storage.Repository
}

func NewAuditWorker(storage *storage.Repository) *AuditWorker {
	return &AuditWorker{storage: storage}
}

// HandleEvent processes a single expense event message from AMQP.
// Returning an error nacks the message for redelivery.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	slog.InfoContext(ctx, "Processing expense event",
		"expense_id", msg.ExpenseID,
		"action", msg.Action)

	if err := w.storage.RecordAuditEvent(ctx, msg.ExpenseID, msg.Action, msg.OccurredAt); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	return nil
}

// ReportLoop logs the audit trail size on each tick until the context
// is cancelled. Useful as a cheap liveness signal for the worker.
func (w *AuditWorker) ReportLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			count, err := w.storage.CountAuditEvents(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to count audit events", "error", err)
				continue
			}
			slog.InfoContext(ctx, "Audit trail status", "events", count)
		}
	}
}

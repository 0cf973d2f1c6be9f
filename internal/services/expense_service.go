// Package services orchestrates expense operations across storage and the
// event stream. Mutations persist first; event publishing is best-effort
// and never fails the request.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"expensed/internal/amqp"
	"expensed/internal/core"
	"expensed/internal/storage"
)

// ExpenseService wires the repository to the AMQP event publisher.
// A nil publisher disables events entirely; every operation still works.
type ExpenseService struct {
	storage *storage.Repository
	events  *amqp.Client
}

func NewExpenseService(storage *storage.Repository, events *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage: storage,
		events:  events,
	}
}

// Create persists a validated expense and announces it.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	created, err := s.storage.Create(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publishEvent(ctx, created.ID, amqp.ActionCreated)
	return created, nil
}

// List returns expenses per the validated filter and sort options.
func (s *ExpenseService) List(ctx context.Context, opts core.ListOptions) ([]core.Expense, error) {
	return s.storage.List(ctx, opts)
}

// Get returns one expense or storage.ErrNotFound.
func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	return s.storage.Get(ctx, id)
}

// Update applies a partial update and announces it.
func (s *ExpenseService) Update(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	updated, err := s.storage.Update(ctx, id, patch)
	if err != nil {
		return core.Expense{}, err
	}
	s.publishEvent(ctx, updated.ID, amqp.ActionUpdated)
	return updated, nil
}

// Delete removes an expense and announces it.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, id, amqp.ActionDeleted)
	return nil
}

// SumByCategory returns the per-category spending summary.
func (s *ExpenseService) SumByCategory(ctx context.Context) ([]core.CategoryTotal, error) {
	return s.storage.SumByCategory(ctx)
}

// Ping reports backing-store health for readiness checks.
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

func (s *ExpenseService) publishEvent(ctx context.Context, expenseID, action string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewExpenseEventMessage(expenseID, action)
	if err := s.events.PublishExpenseEvent(ctx, msg); err != nil {
		// The expense is already persisted; losing an audit event is
		// preferable to failing the request.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"expense_id", expenseID,
			"action", action,
			"error", err)
	}
}

// Close closes storage and the event publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}

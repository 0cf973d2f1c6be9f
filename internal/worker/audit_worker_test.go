package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"expensed/internal/amqp"
	"expensed/internal/storage"
)

func newTestWorker(t *testing.T) (*AuditWorker, *storage.Repository) {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "worker_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewAuditWorker(repo), repo
}

func TestHandleEvent(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	msg := amqp.NewExpenseEventMessage("4f9c2b1a-8d35-4c6e-9a70-2f1e5d8c3b40", amqp.ActionCreated)
	if err := w.HandleEvent(ctx, msg); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	count, err := repo.CountAuditEvents(ctx)
	if err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 audit event, got %d", count)
	}
}

func TestHandleEventAccumulates(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	id := "4f9c2b1a-8d35-4c6e-9a70-2f1e5d8c3b40"
	for _, action := range []string{amqp.ActionCreated, amqp.ActionUpdated, amqp.ActionDeleted} {
		if err := w.HandleEvent(ctx, amqp.NewExpenseEventMessage(id, action)); err != nil {
			t.Fatalf("handle %s: %v", action, err)
		}
	}

	count, err := repo.CountAuditEvents(ctx)
	if err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 audit events, got %d", count)
	}
}

func TestReportLoopStopsOnCancel(t *testing.T) {
	w, _ := newTestWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.ReportLoop(ctx, time.Hour)
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("report loop did not stop after cancel")
	}
}

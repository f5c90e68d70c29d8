package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/railyard/shunt/pkg/domain"
	"github.com/railyard/shunt/pkg/ports"
)

type loggingStore struct {
	next   ports.RunStore
	logger *slog.Logger
}

// NewLoggingMiddleware creates a middleware that logs every store operation
// with its duration, at Debug on success and Warn on failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &loggingStore{next: next, logger: logger}
	}
}

func (s *loggingStore) Save(ctx context.Context, record *domain.RunRecord) error {
	started := time.Now()
	err := s.next.Save(ctx, record)
	s.log(ctx, "save", record.RunID, started, err)
	return err
}

func (s *loggingStore) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	started := time.Now()
	record, err := s.next.Load(ctx, runID)
	s.log(ctx, "load", runID, started, err)
	return record, err
}

func (s *loggingStore) Delete(ctx context.Context, runID string) error {
	started := time.Now()
	err := s.next.Delete(ctx, runID)
	s.log(ctx, "delete", runID, started, err)
	return err
}

func (s *loggingStore) List(ctx context.Context) ([]string, error) {
	started := time.Now()
	ids, err := s.next.List(ctx)
	s.log(ctx, "list", "", started, err)
	return ids, err
}

func (s *loggingStore) log(ctx context.Context, op, runID string, started time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(started)}
	if runID != "" {
		attrs = append(attrs, "run_id", runID)
	}
	if err != nil {
		attrs = append(attrs, "err", err)
		s.logger.WarnContext(ctx, "run store operation failed", attrs...)
		return
	}
	s.logger.DebugContext(ctx, "run store operation", attrs...)
}

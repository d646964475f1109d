package store

import (
	"context"
	"log/slog"

	"modelseed/internal/entity"
)

// DryRun assigns synthetic ids and writes nothing.
type DryRun struct {
	logger *slog.Logger
	nextID uint
}

// NewDryRun returns a DryRun store. Ids start after 1000 so they are easy
// to tell apart from real ones.
func NewDryRun(logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRun{logger: logger, nextID: 1000}
}

// Transaction runs fn; there is nothing to commit or roll back.
func (s *DryRun) Transaction(_ context.Context, fn func(w Writer) error) error {
	return fn(s)
}

// Insert logs the row and returns the next synthetic id.
func (s *DryRun) Insert(ctx context.Context, d *entity.Descriptor, row entity.Row) (any, error) {
	if pk, ok := d.PrimaryKey(); ok {
		if v, ok := row[pk.Name]; ok && v != nil {
			s.logger.DebugContext(ctx, "[dry-run] insert", slog.String("entity", d.Name), slog.Any("id", v))
			return v, nil
		}
	}
	s.nextID++
	s.logger.DebugContext(ctx, "[dry-run] insert",
		slog.String("entity", d.Name),
		slog.Any("id", s.nextID),
		slog.Int("fields", len(row)),
	)
	return s.nextID, nil
}

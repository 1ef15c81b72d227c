// Package repository persists the reconciled betting history. Two
// implementations exist: a sqlite-backed store for durable mode and an
// in-memory store for ephemeral mode and tests.
package repository

import (
	"context"

	"github.com/okian/formline/internal/domain/model"
)

// Store holds the full reconciled history. Load returns an empty slice when
// no history exists yet; Replace atomically swaps the stored rows for the
// given set.
type Store interface {
	Load(ctx context.Context) ([]model.LinkedBet, error)
	Replace(ctx context.Context, rows []model.LinkedBet) error
	Count(ctx context.Context) (int, error)
	Close() error
}

package repository

import (
	"context"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// MatchRepository is the match data source. It hands back raw rows untouched;
// derivation and validation belong to the engine.
type MatchRepository interface {
	// ListRaw returns every stored row, newest first.
	ListRaw(ctx context.Context) ([]model.RawRow, error)
	// Create stores one row and returns it as persisted. An empty ID gets a fresh UUID.
	Create(ctx context.Context, row model.RawRow) (model.RawRow, error)
	// InsertBatch stores rows in one round trip and reports how many were new.
	// Rows whose ID already exists are left as they are.
	InsertBatch(ctx context.Context, rows []model.RawRow) (int, error)
}

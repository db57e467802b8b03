package ports

import (
	"context"
	"time"

	"supportscan/internal/domain"
)

// SnapshotRepository defines the interface for storing and retrieving
// indicator snapshots. The backtest engine consumes the ordered sequence this
// port supplies and does not know where the rows come from.
type SnapshotRepository interface {
	// InsertSnapshot saves one snapshot and returns its assigned ID.
	// Inserting a snapshot with an existing (symbol, collected_at) pair is a
	// no-op and returns ErrDuplicateEntry.
	InsertSnapshot(ctx context.Context, snap *domain.Snapshot) (int64, error)
	// FindBySymbol retrieves all snapshots for a symbol ordered by
	// collected_at ascending. Returns an empty slice when none exist.
	FindBySymbol(ctx context.Context, symbol string) ([]*domain.Snapshot, error)
	// ListSymbols returns the distinct symbols present in the store.
	ListSymbols(ctx context.Context) ([]string, error)
	// ListIndicatorNames returns the distinct indicator column names present
	// in the store, in first-seen insertion order.
	ListIndicatorNames(ctx context.Context) ([]string, error)
	// CountBySymbol reports how many snapshots exist for a symbol.
	CountBySymbol(ctx context.Context, symbol string) (int, error)
	// LatestCollectedAt returns the timestamp of the most recent snapshot for
	// a symbol. Returns the zero time and ErrNotFound when none exist.
	LatestCollectedAt(ctx context.Context, symbol string) (time.Time, error)
}

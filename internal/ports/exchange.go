package ports

import (
	"context"
	"time"

	"supportscan/internal/domain"
)

// MarketDataClient defines the read-only exchange surface the snapshot
// collector and the backfill path need. This abstraction decouples snapshot
// building from the specific exchange implementation.
type MarketDataClient interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the current server time from the exchange.
	// Snapshot timestamps anchor session boundaries, so the collector checks
	// the local clock against it.
	GetServerTime(ctx context.Context) (time.Time, error)

	// GetKlines retrieves the most recent klines for the given symbol and
	// interval, oldest first.
	GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error)

	// GetKlinesRange fetches all klines for a symbol/interval between start
	// and end time, paging through the exchange's response limit.
	GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error)
}

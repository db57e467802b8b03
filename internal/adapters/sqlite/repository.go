package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"supportscan/internal/domain"
	"supportscan/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.SnapshotRepository interface using SQLite.
// Snapshots are stored normalized: one row per observation plus one row per
// (observation, indicator) value, so new indicator columns never require a
// schema migration.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/history.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		collected_at TIMESTAMP NOT NULL,
		price REAL NOT NULL,
		low REAL DEFAULT NULL,
		UNIQUE (symbol, collected_at)
	);

	CREATE TABLE IF NOT EXISTS snapshot_indicators (
		snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (snapshot_id, name)
	);
	-- Covers the ordered per-symbol scan the backtest engine performs.
	CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_time ON snapshots (symbol, collected_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// InsertSnapshot saves one snapshot together with its indicator values.
// NaN indicator values are normalized to absent before they reach the store.
// Inserting a duplicate (symbol, collected_at) pair returns ErrDuplicateEntry.
func (r *Repository) InsertSnapshot(ctx context.Context, snap *domain.Snapshot) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var low sql.NullFloat64
	if snap.LowValid {
		low = sql.NullFloat64{Float64: snap.Low, Valid: true}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (symbol, collected_at, price, low) VALUES (?, ?, ?, ?)`,
		snap.Symbol, snap.CollectedAt.UTC(), snap.Price, low)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("snapshot for %s at %s: %w", snap.Symbol, snap.CollectedAt, ports.ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("failed to insert snapshot for %s: %w", snap.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for snapshot %s: %w", snap.Symbol, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_indicators (snapshot_id, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare indicator insert: %w", err)
	}
	defer stmt.Close()

	for name, value := range snap.Indicators {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, name, value); err != nil {
			return 0, fmt.Errorf("failed to insert indicator %q for snapshot %d: %w", name, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot insert: %w", err)
	}
	r.logger.Debug(ctx, "Snapshot inserted", map[string]interface{}{
		"snapshotID": id, "symbol": snap.Symbol, "indicators": len(snap.Indicators),
	})
	return id, nil
}

// FindBySymbol retrieves all snapshots for a symbol ordered by collected_at
// ascending, each with its full indicator map.
func (r *Repository) FindBySymbol(ctx context.Context, symbol string) ([]*domain.Snapshot, error) {
	const query = `
	SELECT s.id, s.symbol, s.collected_at, s.price, s.low, i.name, i.value
	FROM snapshots s
	LEFT JOIN snapshot_indicators i ON i.snapshot_id = s.id
	WHERE s.symbol = ?
	ORDER BY s.collected_at ASC, s.id ASC`

	rows, err := r.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for symbol %s: %w: %w", symbol, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	snapshots := make([]*domain.Snapshot, 0)
	var current *domain.Snapshot
	var currentID int64

	for rows.Next() {
		var (
			id          int64
			sym         string
			collectedAt time.Time
			price       float64
			low         sql.NullFloat64
			name        sql.NullString
			value       sql.NullFloat64
		)
		if err := rows.Scan(&id, &sym, &collectedAt, &price, &low, &name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if current == nil || id != currentID {
			current = &domain.Snapshot{
				Symbol:      sym,
				CollectedAt: collectedAt.UTC(),
				Price:       price,
				Indicators:  make(map[string]float64),
			}
			if low.Valid {
				current.Low = low.Float64
				current.LowValid = true
			}
			currentID = id
			snapshots = append(snapshots, current)
		}
		if name.Valid && value.Valid {
			current.Indicators[name.String] = value.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snapshots, nil
}

// ListSymbols returns the distinct symbols present in the store.
func (r *Repository) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM snapshots ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbol rows: %w", err)
	}
	return symbols, nil
}

// ListIndicatorNames returns the distinct indicator names present in the
// store, in first-seen insertion order so candidate enumeration is stable
// across runs.
func (r *Repository) ListIndicatorNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM snapshot_indicators GROUP BY name ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicator names: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan indicator name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating indicator name rows: %w", err)
	}
	return names, nil
}

// CountBySymbol reports how many snapshots exist for a symbol.
func (r *Repository) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshots WHERE symbol = ?`, symbol).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots for symbol %s: %w", symbol, err)
	}
	return count, nil
}

// LatestCollectedAt returns the timestamp of the most recent snapshot for a symbol.
func (r *Repository) LatestCollectedAt(ctx context.Context, symbol string) (time.Time, error) {
	var collectedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT collected_at FROM snapshots WHERE symbol = ? ORDER BY collected_at DESC LIMIT 1`,
		symbol).Scan(&collectedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("no snapshots for symbol %s: %w", symbol, ports.ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("failed to query latest snapshot for symbol %s: %w", symbol, err)
	}
	return collectedAt.UTC(), nil
}

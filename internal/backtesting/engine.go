package backtesting

import (
	"fmt"
	"time"

	"supportscan/internal/ports"
)

// Config holds the session geometry and filtering parameters for one backtest
// run. Passing it at construction keeps multiple concurrent configurations
// possible without shared global state.
type Config struct {
	// AnchorHour is the local hour-of-day (0-23) that marks a session boundary.
	AnchorHour int
	// UTCOffsetHours shifts snapshot timestamps into the local reference clock.
	UTCOffsetHours int
	// SessionLength is the exact distance two consecutive boundaries must have
	// to form a valid session. Normally 24h.
	SessionLength time.Duration
	// PlausibilityRatio rejects a support value whose distance from the
	// session reference price exceeds this fraction of the reference price.
	// Zero selects the default of 0.5.
	PlausibilityRatio float64
}

// Engine evaluates support-level candidates against fixed-length trading
// sessions. All methods are pure computations over the supplied snapshot
// sequences; the engine holds no per-run state.
type Engine struct {
	cfg    Config
	logger ports.Logger
}

// New creates a backtest engine, validating the configuration.
func New(cfg Config, logger ports.Logger) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for backtest engine")
	}
	if cfg.AnchorHour < 0 || cfg.AnchorHour > 23 {
		return nil, fmt.Errorf("%w: anchor hour %d outside 0-23", ports.ErrConfigurationError, cfg.AnchorHour)
	}
	if cfg.SessionLength <= 0 {
		return nil, fmt.Errorf("%w: session length must be positive, got %s", ports.ErrConfigurationError, cfg.SessionLength)
	}
	if cfg.PlausibilityRatio == 0 {
		cfg.PlausibilityRatio = 0.5
	}
	if cfg.PlausibilityRatio < 0 {
		return nil, fmt.Errorf("%w: plausibility ratio must be positive, got %f", ports.ErrConfigurationError, cfg.PlausibilityRatio)
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Diagnostics counts the per-session anomalies recovered during a run. They
// never abort the run but must stay distinguishable for reporting.
type Diagnostics struct {
	GapDroppedPairs int // Boundary pairs dropped for spacing != session length
	MissingSupport  int // Sessions skipped because the indicator had no start value
	Degenerate      int // Sessions excluded for undefined percentage arithmetic
	Implausible     int // (session, indicator) pairs rejected by the plausibility filter
}

func (d *Diagnostics) add(other Diagnostics) {
	d.GapDroppedPairs += other.GapDroppedPairs
	d.MissingSupport += other.MissingSupport
	d.Degenerate += other.Degenerate
	d.Implausible += other.Implausible
}

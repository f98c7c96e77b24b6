// Package store_facade is the Store Façade (spec §4.6): the single
// entry point a caller opens once per database, behind which every
// public operation runs as begin-transaction -> MAO method ->
// commit-or-rollback, with retry-with-backoff around transient
// mlmderr.Aborted failures and a circuit breaker that trips when
// Aborted failures persist past the retry budget.
package store_facade

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/unclerayray/ml-metadata/internal/clock"
	"github.com/unclerayray/ml-metadata/internal/config"
	"github.com/unclerayray/ml-metadata/internal/dbdriver"
	"github.com/unclerayray/ml-metadata/internal/executor"
	"github.com/unclerayray/ml-metadata/internal/mao"
	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/querycfg"
)

// Facade owns one open database connection and dispatches every public
// call through a fresh Executor/MAO pair scoped to one transaction.
type Facade struct {
	driver  dbdriver.Driver
	catalog *querycfg.Catalog
	clock   clock.Clock
	retry   RetryPolicy
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
	metrics *Metrics
}

// Options configures a Facade beyond the required Connection. Zero
// value is a sane default: 3-attempt exponential backoff, a
// no-op logger, and a freshly registered metrics set.
type Options struct {
	Clock        clock.Clock
	RetryPolicy  *RetryPolicy
	Logger       *zerolog.Logger
	MetricsReg   prometheus.Registerer
	BreakerName  string
}

// Open opens a database connection per conn.Dialect, runs
// InitMetadataSourceIfNotExists, and returns a ready Facade.
func Open(conn config.Connection, opts Options) (*Facade, error) {
	var drv dbdriver.Driver
	var catalog *querycfg.Catalog
	var err error

	switch conn.Dialect {
	case config.SQLite:
		drv, err = dbdriver.OpenSQLite(conn.SQLitePath)
		catalog = querycfg.SQLite()
	case config.MySQL:
		drv, err = dbdriver.OpenMySQL(conn.MySQLDSN)
		catalog = querycfg.MySQL()
	case config.FakeDatabase:
		drv, err = dbdriver.OpenFake()
		catalog = querycfg.SQLite()
	default:
		return nil, mlmderr.InvalidArgumentf("store_facade.Open", "unknown dialect %d", conn.Dialect)
	}
	if err != nil {
		return nil, mlmderr.Internalf("store_facade.Open", "open driver: %v", err)
	}

	f := newFacade(drv, catalog, opts)

	ctx := context.Background()
	if err := f.withTx(ctx, "InitMetadataSourceIfNotExists", func(ctx context.Context, exec *executor.Executor, _ *mao.MAO) (any, error) {
		return nil, exec.InitMetadataSourceIfNotExists(ctx, conn.PinnedSchemaVersion)
	}); err != nil {
		drv.Close()
		return nil, err
	}
	return f, nil
}

func newFacade(drv dbdriver.Driver, catalog *querycfg.Catalog, opts Options) *Facade {
	c := opts.Clock
	if c == nil {
		c = clock.System{}
	}
	retry := DefaultRetryPolicy()
	if opts.RetryPolicy != nil {
		retry = *opts.RetryPolicy
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	reg := opts.MetricsReg
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	name := opts.BreakerName
	if name == "" {
		name = "mlmd-store"
	}

	f := &Facade{
		driver:  drv,
		catalog: catalog,
		clock:   c,
		retry:   retry,
		log:     logger,
		metrics: NewMetrics(reg),
	}
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(retry.MaxAttempts)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !mlmderr.Is(err, mlmderr.Aborted)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("store façade circuit breaker state change")
		},
	})
	return f
}

// Close closes the underlying connection.
func (f *Facade) Close() error {
	return f.driver.Close()
}

// withTx is the generic per-call wrapper every typed method below
// routes through: open a transaction, run fn against a fresh
// Executor/MAO pair, commit on success, roll back on any error, retry
// with backoff on mlmderr.Aborted up to retry.MaxAttempts, and gate
// the whole loop behind a circuit breaker that trips on sustained
// Aborted failures (spec §4.6/§5).
func (f *Facade) withTx(ctx context.Context, op string, fn func(context.Context, *executor.Executor, *mao.MAO) (any, error)) error {
	_, err := f.withTxResult(ctx, op, fn)
	return err
}

func (f *Facade) withTxResult(ctx context.Context, op string, fn func(context.Context, *executor.Executor, *mao.MAO) (any, error)) (any, error) {
	result, err := f.breaker.Execute(func() (any, error) {
		return f.callWithRetry(ctx, op, fn)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Facade) callWithRetry(ctx context.Context, op string, fn func(context.Context, *executor.Executor, *mao.MAO) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt < f.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			f.metrics.RetriesTotal.WithLabelValues(op).Inc()
			f.log.Debug().Str("op", op).Int("attempt", attempt).Msg("retrying transaction after Aborted")
			time.Sleep(f.retry.Backoff(attempt))
		}

		start := time.Now()
		result, err := f.callOnce(ctx, op, fn)
		outcome := "ok"
		if err != nil {
			outcome = string(mlmderr.CodeOf(err))
		}
		f.metrics.CallDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())

		if err == nil {
			f.log.Debug().Str("op", op).Msg("transaction committed")
			return result, nil
		}
		lastErr = err
		if !mlmderr.Is(err, mlmderr.Aborted) {
			f.log.Error().Str("op", op).Err(err).Msg("transaction failed")
			return nil, err
		}
		f.log.Warn().Str("op", op).Err(err).Msg("transaction aborted, will retry if attempts remain")
	}
	return nil, lastErr
}

func (f *Facade) callOnce(ctx context.Context, op string, fn func(context.Context, *executor.Executor, *mao.MAO) (any, error)) (any, error) {
	tx, err := f.driver.Begin(ctx)
	if err != nil {
		return nil, mlmderr.Abortedf(op, "begin transaction: %v", err)
	}

	exec := executor.New(tx, f.catalog, f.driver)
	m := mao.New(exec, f.clock)

	result, err := fn(ctx, exec, m)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			f.log.Error().Str("op", op).Err(rbErr).Msg("rollback failed")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mlmderr.Abortedf(op, "commit: %v", err)
	}
	return result, nil
}

package backend

import (
	"context"
	"fmt"
	"log/slog"

	"payday/internal/amqp"
	"payday/internal/cycle"
	"payday/internal/ledger"
	"payday/internal/ledger/memory"
	"payday/internal/services"
	"payday/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	// dial is swapped in tests to avoid a live broker
	dial func(url, exchange, queue string) (services.Publisher, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
		dial: func(url, exchange, queue string) (services.Publisher, error) {
			return amqp.NewClient(url, exchange, queue)
		},
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		l       ledger.Ledger
		closeFn CleanupFunc
	)
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		l, closeFn = repo, repo.Close
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_name", config.SQLiteDBName)
	case MemoryBackend:
		l = memory.New()
		f.logger.InfoContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional; a broker outage must not keep the tracker down
	var publisher services.Publisher
	if config.AMQPURL != "" {
		p, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			publisher = p
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewExpenseService(l, publisher, cycle.Calculator{End: config.EndRule})

	return &BackendResult{
		Ledger:  l,
		Service: svc,
		Cleanup: func() error {
			err := svc.Close()
			if closeFn != nil {
				if cerr := closeFn(); cerr != nil && err == nil {
					err = cerr
				}
			}
			return err
		},
	}, nil
}

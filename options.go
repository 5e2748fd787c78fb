package scanbytes

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/csvquery/scanbytes/internal/scan"
)

// MaxWorkers is the largest supported worker count.
const MaxWorkers = scan.MaxWorkers

// Option configures Scan, ScanOffsets and Benchmark.
type Option func(*config) error

type config struct {
	workers       int
	blockCapacity int
	maxBlocks     int
	logger        *slog.Logger
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *config) scanConfig() scan.Config {
	return scan.Config{
		Workers:       c.workers,
		BlockCapacity: c.blockCapacity,
		MaxBlocks:     c.maxBlocks,
		Logger:        c.logger,
	}
}

// WithWorkers sets the number of scanning workers. The default is the number
// of logical CPUs.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 || n > MaxWorkers {
			return fmt.Errorf("%w: got %d", ErrInvalidWorkers, n)
		}
		c.workers = n
		return nil
	}
}

// WithBlockCapacity sets how many offsets each block holds (default 4096).
// Workers take the registry lock once per block, so larger blocks mean fewer
// lock acquisitions and more slack memory.
func WithBlockCapacity(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidBlockCapacity, n)
		}
		c.blockCapacity = n
		return nil
	}
}

// WithMaxBlocks bounds the number of blocks a scan may allocate; exceeding it
// fails the scan with ErrMaxBlocksExceeded. Zero, the default, means no bound.
func WithMaxBlocks(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidMaxBlocks, n)
		}
		c.maxBlocks = n
		return nil
	}
}

// WithLogger sets the logger for debug records. nil keeps the discarding
// default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

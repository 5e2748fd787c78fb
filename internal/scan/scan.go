// Package scan runs a detector over a byte buffer in parallel.
//
// The buffer is cut into one contiguous share per worker; every worker walks
// its share left to right and appends matches through its own alloc.Cursor.
// Workers are started fresh for each call and joined before it returns.
package scan

import (
	"io"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/csvquery/scanbytes/internal/alloc"
	"github.com/csvquery/scanbytes/internal/detect"
)

// MaxWorkers is the largest worker count a block's worker id can carry.
const MaxWorkers = math.MaxUint16 + 1

// Config controls a scan.
type Config struct {
	Workers       int // defaults to runtime.NumCPU()
	BlockCapacity int // defaults to alloc.DefaultBlockCapacity
	MaxBlocks     int // zero means unlimited
	Logger        *slog.Logger
}

func (c Config) workers() int {
	n := c.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return min(n, MaxWorkers)
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discard
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Share is the byte range [Start, End) scanned by one worker.
type Share struct {
	Worker uint16
	Start  int
	End    int
}

// Partition splits n bytes into workers disjoint shares of n/workers bytes,
// with the last share absorbing the remainder. Shares are ordered by worker
// id and offset; some may be empty when n < workers.
func Partition(n, workers int) []Share {
	if workers <= 0 {
		workers = 1
	}
	size := n / workers
	shares := make([]Share, workers)
	for i := range shares {
		shares[i] = Share{
			Worker: uint16(i),
			Start:  i * size,
			End:    (i + 1) * size,
		}
	}
	shares[workers-1].End = n
	return shares
}

// Scan runs d over buf and returns the unordered blocks of every worker.
// d is shared by all workers and must tolerate concurrent Match calls.
// Any worker failing aborts the whole scan.
func Scan(buf []byte, d detect.Detector, cfg Config) ([]*alloc.Block, error) {
	log := cfg.logger()
	start := time.Now()

	reg := alloc.NewRegistry(
		alloc.WithBlockCapacity(cfg.BlockCapacity),
		alloc.WithMaxBlocks(cfg.MaxBlocks),
	)
	shares := Partition(len(buf), cfg.workers())

	log.Debug("scan started", "bytes", len(buf), "workers", len(shares))

	var g errgroup.Group
	for _, sh := range shares {
		g.Go(func() error {
			return scanShare(buf, d, reg, sh)
		})
	}
	if err := g.Wait(); err != nil {
		log.Debug("scan failed", "error", err)
		return nil, err
	}

	blocks := reg.Drain()
	log.Debug("scan finished",
		"bytes", len(buf),
		"workers", len(shares),
		"blocks", len(blocks),
		"elapsed", time.Since(start),
	)
	return blocks, nil
}

func scanShare(buf []byte, d detect.Detector, reg *alloc.Registry, sh Share) error {
	cur, err := reg.Cursor(sh.Worker)
	if err != nil {
		return err
	}
	for i := sh.Start; i < sh.End; i++ {
		if d.Match(buf[i]) {
			if err := cur.Append(uint64(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

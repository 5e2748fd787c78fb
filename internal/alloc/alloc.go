// Package alloc is a concurrent, ordered, append-only store for match offsets.
//
// It has two tiers. A Registry owns every Block ever created and is the only
// place a lock is taken. Each worker appends through its own Cursor, which
// writes into the worker's current Block without synchronisation and asks the
// Registry for a fresh Block only when the current one is full.
//
// Blocks are never moved, shrunk or freed while a scan runs. Once all workers
// have stopped, Drain hands the whole collection to the caller for merging.
package alloc

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultBlockCapacity is the number of offsets a Block holds (one page worth
// of elements).
const DefaultBlockCapacity = 4 * 1024

// ErrMaxBlocksExceeded is returned when a Registry with a block limit runs out.
var ErrMaxBlocksExceeded = errors.New("alloc: max blocks exceeded")

// Block is a fixed-capacity run of offsets recorded by one worker, in
// strictly increasing order.
type Block struct {
	Worker  uint16
	Offsets []uint64
}

// Less orders blocks by worker, then by first offset. Empty blocks sort after
// non-empty blocks of the same worker.
func (b *Block) Less(o *Block) bool {
	if b.Worker != o.Worker {
		return b.Worker < o.Worker
	}
	if len(b.Offsets) == 0 || len(o.Offsets) == 0 {
		return len(b.Offsets) != 0 && len(o.Offsets) == 0
	}
	return b.Offsets[0] < o.Offsets[0]
}

// Registry is the shared collection of all blocks of a scan.
type Registry struct {
	capacity  int
	maxBlocks int

	mu     sync.Mutex
	blocks []*Block
}

// Option configures a Registry.
type Option func(*Registry)

// WithBlockCapacity sets the number of offsets per block. Values below 1 are
// ignored.
func WithBlockCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithMaxBlocks caps the number of blocks the registry hands out. Zero means
// no cap.
func WithMaxBlocks(n int) Option {
	return func(r *Registry) {
		if n >= 0 {
			r.maxBlocks = n
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{capacity: DefaultBlockCapacity}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BlockCapacity returns the number of offsets per block.
func (r *Registry) BlockCapacity() int {
	return r.capacity
}

// reserve creates a block for worker and takes ownership of it.
func (r *Registry) reserve(worker uint16) (*Block, error) {
	b := &Block{Worker: worker, Offsets: make([]uint64, 0, r.capacity)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxBlocks > 0 && len(r.blocks) >= r.maxBlocks {
		return nil, fmt.Errorf("%w: limit %d, worker %d", ErrMaxBlocksExceeded, r.maxBlocks, worker)
	}
	r.blocks = append(r.blocks, b)
	return b, nil
}

// Drain returns every block and leaves the registry empty. It must only be
// called after all cursors have stopped appending.
func (r *Registry) Drain() []*Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	blocks := r.blocks
	r.blocks = nil
	return blocks
}

// Cursor is one worker's handle to its current block. It must not be shared
// between goroutines.
type Cursor struct {
	reg    *Registry
	block  *Block
	worker uint16
}

// Cursor creates a cursor for worker along with its first block.
func (r *Registry) Cursor(worker uint16) (*Cursor, error) {
	b, err := r.reserve(worker)
	if err != nil {
		return nil, err
	}
	return &Cursor{reg: r, block: b, worker: worker}, nil
}

// Worker returns the id the cursor appends under.
func (c *Cursor) Worker() uint16 {
	return c.worker
}

// Append records off. Offsets must be appended in increasing order. When the
// current block fills up the cursor moves to a new one and never returns.
func (c *Cursor) Append(off uint64) error {
	b := c.block
	b.Offsets = append(b.Offsets, off)
	if len(b.Offsets) < cap(b.Offsets) {
		return nil
	}

	next, err := c.reg.reserve(c.worker)
	if err != nil {
		return err
	}
	c.block = next
	return nil
}

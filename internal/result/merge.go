// Package result turns the blocks produced by a scan into one ordered offset
// stream and moves that stream in and out of binary form.
package result

import (
	"iter"
	"slices"

	"github.com/csvquery/scanbytes/internal/alloc"
)

// Sort orders blocks by (worker, first offset). After Sort, concatenating the
// blocks yields every offset in ascending order.
func Sort(blocks []*alloc.Block) {
	slices.SortFunc(blocks, func(a, b *alloc.Block) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}

// All iterates the offsets of sorted blocks in order.
func All(blocks []*alloc.Block) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for _, b := range blocks {
			for _, off := range b.Offsets {
				if !yield(off) {
					return
				}
			}
		}
	}
}

// Count returns the number of offsets held by blocks.
func Count(blocks []*alloc.Block) int {
	n := 0
	for _, b := range blocks {
		n += len(b.Offsets)
	}
	return n
}

// Merge sorts blocks and concatenates their offsets into one slice.
func Merge(blocks []*alloc.Block) []uint64 {
	Sort(blocks)
	return slices.AppendSeq(make([]uint64, 0, Count(blocks)), All(blocks))
}

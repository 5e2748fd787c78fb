package scanbytes

import (
	"errors"

	"github.com/csvquery/scanbytes/internal/alloc"
	"github.com/csvquery/scanbytes/internal/jit"
	"github.com/csvquery/scanbytes/internal/result"
)

// Usage errors, reported before any scanning work starts.
var (
	// ErrEmptySeparators is returned when the separator set is empty.
	ErrEmptySeparators = errors.New("separator set must not be empty")

	// ErrDuplicateSeparator is returned when a byte appears twice in the separator set.
	ErrDuplicateSeparator = errors.New("separator set contains a duplicate byte")

	// ErrUnknownBackend is returned for Unknown or unrecognised backends.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrInvalidWorkers is returned when the worker count is outside 1..MaxWorkers.
	ErrInvalidWorkers = errors.New("workers must be between 1 and 65536")

	// ErrInvalidBlockCapacity is returned when the block capacity is not positive.
	ErrInvalidBlockCapacity = errors.New("block capacity must be greater than 0")

	// ErrInvalidMaxBlocks is returned when the block limit is negative.
	ErrInvalidMaxBlocks = errors.New("max blocks must not be negative")

	// ErrUnknownCodec is returned for codec names ParseCodec does not know.
	ErrUnknownCodec = result.ErrUnknownCodec
)

// Capability errors, reported while the detector is built.
var (
	// ErrCompiledUnsupported is returned when Compiled is requested on a host
	// that cannot run generated code.
	ErrCompiledUnsupported = jit.ErrUnsupported

	// ErrCodeTooLarge is returned when the separator set is too large for the
	// Compiled backend; Bitmap handles any set.
	ErrCodeTooLarge = jit.ErrCodeTooLarge
)

// Resource errors.
var (
	// ErrExecMemory is returned when the executable page for Compiled cannot
	// be mapped or protected.
	ErrExecMemory = jit.ErrExecMemory

	// ErrMaxBlocksExceeded is returned when a scan needs more blocks than
	// WithMaxBlocks allows.
	ErrMaxBlocksExceeded = alloc.ErrMaxBlocksExceeded
)

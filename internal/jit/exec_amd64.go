//go:build !noasm && (linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package jit

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Host is the architecture routines are generated for on this platform.
var Host = &AMD64

// Supported reports whether routines can be executed on this host.
func Supported() bool {
	return true
}

// callRoutine jumps into the routine at entry with c in DIL and converts the
// returned ZF into a bool.
//
//go:noescape
func callRoutine(entry uintptr, c byte) bool

// Routine is a generated function mapped read+exec in its own page(s).
// Call is safe for concurrent use; Release is not and must happen once,
// after the last Call.
type Routine struct {
	mem   []byte
	entry uintptr
}

// Load copies code into a fresh page, flips it to read+exec and returns the
// callable routine. On failure nothing stays mapped.
func Load(code []byte) (*Routine, error) {
	if len(code) == 0 {
		return nil, ErrNoTargets
	}

	page := os.Getpagesize()
	size := (len(code) + page - 1) / page * page

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: map %d bytes: %w", ErrExecMemory, size, err)
	}

	copy(mem, code)

	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, fmt.Errorf("%w: protect: %w", ErrExecMemory, err)
	}

	return &Routine{
		mem:   mem,
		entry: uintptr(unsafe.Pointer(&mem[0])),
	}, nil
}

// Compile assembles targets for the host and loads the result.
func Compile(targets []byte) (*Routine, error) {
	code, err := Host.Assemble(targets)
	if err != nil {
		return nil, err
	}
	return Load(code)
}

// Call runs the routine for c.
func (r *Routine) Call(c byte) bool {
	return callRoutine(r.entry, c)
}

// Release unmaps the routine. Calling it twice is a no-op.
func (r *Routine) Release() error {
	if r.mem == nil {
		return nil
	}
	mem := r.mem
	r.mem = nil
	r.entry = 0
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("%w: unmap: %w", ErrExecMemory, err)
	}
	return nil
}

//go:build !amd64 || noasm || !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package jit

// Host is nil: there is no native target on this platform.
var Host *Architecture

// Supported reports whether routines can be executed on this host.
func Supported() bool {
	return false
}

// Routine is never constructed on this platform.
type Routine struct{}

// Load always fails with ErrUnsupported.
func Load(code []byte) (*Routine, error) {
	return nil, ErrUnsupported
}

// Compile always fails with ErrUnsupported.
func Compile(targets []byte) (*Routine, error) {
	return nil, ErrUnsupported
}

// Call always reports no match.
func (r *Routine) Call(c byte) bool {
	return false
}

// Release is a no-op.
func (r *Routine) Release() error {
	return nil
}

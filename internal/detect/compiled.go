package detect

import "github.com/csvquery/scanbytes/internal/jit"

// Compiled runs a native compare chain generated for the separator set.
type Compiled struct {
	routine *jit.Routine
}

// NewCompiled generates and loads the routine for seps. It fails with
// jit.ErrUnsupported off amd64 unix, jit.ErrCodeTooLarge when seps exceeds
// jit.Host.MaxTargets(), and jit.ErrExecMemory when the page cannot be set up.
func NewCompiled(seps []byte) (*Compiled, error) {
	r, err := jit.Compile(seps)
	if err != nil {
		return nil, err
	}
	return &Compiled{routine: r}, nil
}

func (d *Compiled) Match(c byte) bool { return d.routine.Call(c) }

// Close unmaps the routine.
func (d *Compiled) Close() error { return d.routine.Release() }

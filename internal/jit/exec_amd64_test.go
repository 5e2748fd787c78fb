//go:build !noasm && (linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package jit

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMatchesMembership(t *testing.T) {
	sets := [][]byte{
		{'\n'},
		{',', '\n'},
		{0x00},
		{0xff, 0x00, 0x80},
		[]byte(";|:\t \"'"),
	}

	for _, set := range sets {
		r, err := Compile(set)
		require.NoError(t, err)

		for c := 0; c < 256; c++ {
			want := bytes.IndexByte(set, byte(c)) >= 0
			assert.Equal(t, want, r.Call(byte(c)), "set %q byte %#x", set, c)
		}
		require.NoError(t, r.Release())
	}
}

func TestCompileMaxTargets(t *testing.T) {
	set := make([]byte, Host.MaxTargets())
	for i := range set {
		set[i] = byte(200 + i)
	}

	r, err := Compile(set)
	require.NoError(t, err)
	defer r.Release()

	for c := 0; c < 256; c++ {
		assert.Equal(t, c >= 200 && c < 200+len(set), r.Call(byte(c)), "byte %#x", c)
	}
}

func TestCompileTooLarge(t *testing.T) {
	set := make([]byte, Host.MaxTargets()+1)
	for i := range set {
		set[i] = byte(i)
	}

	r, err := Compile(set)
	assert.ErrorIs(t, err, ErrCodeTooLarge)
	assert.Nil(t, r)
}

func TestRoutineConcurrentCalls(t *testing.T) {
	r, err := Compile([]byte{'\t', '\n'})
	require.NoError(t, err)
	defer r.Release()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10000; i++ {
				c := byte(i)
				if got := r.Call(c); got != (c == '\t' || c == '\n') {
					t.Errorf("byte %#x: got %v", c, got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestReleaseTwice(t *testing.T) {
	r, err := Compile([]byte{'x'})
	require.NoError(t, err)
	require.NoError(t, r.Release())
	assert.NoError(t, r.Release())
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(nil)
	assert.ErrorIs(t, err, ErrNoTargets)
}

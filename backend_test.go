package scanbytes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvquery/scanbytes/internal/jit"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name string
		want Backend
	}{
		{"auto", Auto},
		{"Auto", Auto},
		{"JIT", Compiled},
		{"compiled", Compiled},
		{"Fallback", Bitmap},
		{"bitmap", Bitmap},
		{"LF", LineBreaks},
		{"csv", CSV},
		{"TSV", TSV},
		{"Space", Spaces},
		{"Punct", Punct},
		{" csv ", CSV},
		{"unknown", Unknown},
		{"avx2", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBackend(tt.name), tt.name)
	}

	for _, b := range Backends() {
		assert.Equal(t, b, ParseBackend(b.String()))
	}
	assert.Equal(t, "Backend(42)", Backend(42).String())
}

func TestAutoDetection(t *testing.T) {
	tests := []struct {
		seps []byte
		want Backend
	}{
		{[]byte{'\n'}, LineBreaks},
		{[]byte{'\n', ','}, CSV},
		{[]byte{',', '\n'}, CSV},
		{[]byte{'\n', '\t'}, TSV},
		{[]byte{'\t', '\n'}, TSV},
		{[]byte{','}, Generic()},
		{[]byte{' '}, Generic()},
		{[]byte{',', '\t'}, Generic()},
		{[]byte{'\n', ',', '\t'}, Generic()},
	}
	for _, tt := range tests {
		got, err := Resolve(Auto, tt.seps)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q", tt.seps)

		got, err = Detect(tt.seps)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q", tt.seps)
	}
}

func TestAutoLargeSetUsesBitmap(t *testing.T) {
	seps := make([]byte, 64)
	for i := range seps {
		seps[i] = byte(i + 32)
	}
	got, err := Resolve(Auto, seps)
	require.NoError(t, err)
	assert.Equal(t, Bitmap, got)
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve(Auto, nil)
	assert.ErrorIs(t, err, ErrEmptySeparators)

	_, err = Resolve(Bitmap, []byte{})
	assert.ErrorIs(t, err, ErrEmptySeparators)

	_, err = Resolve(Auto, []byte{',', '\n', ','})
	assert.ErrorIs(t, err, ErrDuplicateSeparator)

	_, err = Resolve(Unknown, []byte{'\n'})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Resolve(Backend(200), []byte{'\n'})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Detect(nil)
	assert.ErrorIs(t, err, ErrEmptySeparators)
}

func TestResolveHonoursExplicitBackends(t *testing.T) {
	for _, b := range []Backend{Bitmap, LineBreaks, CSV, TSV, Spaces, Punct} {
		got, err := Resolve(b, []byte{'x'})
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	got, err := Resolve(Compiled, []byte{'\n'})
	if jit.Supported() {
		require.NoError(t, err)
		assert.Equal(t, Compiled, got)
		assert.Equal(t, Compiled, Generic())
	} else {
		assert.ErrorIs(t, err, ErrCompiledUnsupported)
		assert.Equal(t, Bitmap, Generic())
	}
}

func TestGenericForLargeSets(t *testing.T) {
	large := make([]byte, 21)
	for i := range large {
		large[i] = 'a' + byte(i)
	}
	assert.Equal(t, Bitmap, GenericFor(large))
	assert.Equal(t, Generic(), GenericFor([]byte{';'}))

	got, err := Resolve(Auto, large)
	require.NoError(t, err)
	assert.Equal(t, Bitmap, got)
}

func TestNewDetectorAgreesWithMembership(t *testing.T) {
	generic := []byte{';', '|', 0x00, 0xff}
	tests := []struct {
		backend Backend
		seps    []byte
	}{
		{Bitmap, generic},
		{Auto, generic},
		{LineBreaks, []byte{'\n'}},
		{CSV, []byte{',', '\n'}},
		{TSV, []byte{'\t', '\n'}},
		{Spaces, []byte{' '}},
	}
	if jit.Supported() {
		tests = append(tests, struct {
			backend Backend
			seps    []byte
		}{Compiled, generic})
	}

	for _, tt := range tests {
		t.Run(tt.backend.String(), func(t *testing.T) {
			d, err := NewDetector(tt.backend, tt.seps)
			require.NoError(t, err)
			defer d.Close()

			for c := 0; c < 256; c++ {
				want := false
				for _, s := range tt.seps {
					want = want || s == byte(c)
				}
				require.Equal(t, want, d.Match(byte(c)), "byte %#x", c)
			}
		})
	}
}

func TestNewDetectorCompiledTooLarge(t *testing.T) {
	if !jit.Supported() {
		t.Skip("code generation not supported on this platform")
	}
	seps := make([]byte, jit.Host.MaxTargets()+1)
	for i := range seps {
		seps[i] = byte(i)
	}
	d, err := NewDetector(Compiled, seps)
	assert.ErrorIs(t, err, ErrCodeTooLarge)
	assert.Nil(t, d)
}

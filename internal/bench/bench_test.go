package bench

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvquery/scanbytes/internal/alloc"
	"github.com/csvquery/scanbytes/internal/detect"
	"github.com/csvquery/scanbytes/internal/scan"
)

func TestRun(t *testing.T) {
	buf := bytes.Repeat([]byte("a,b\n"), 1000)
	samples, err := Run(buf, detect.CSV(), 5, scan.Config{Workers: 2})
	require.NoError(t, err)
	require.Len(t, samples, 5)
	for _, s := range samples {
		assert.Positive(t, s)
	}

	samples, err = Run(buf, detect.CSV(), 0, scan.Config{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestRunPropagatesScanError(t *testing.T) {
	buf := bytes.Repeat([]byte{'\n'}, 100)
	samples, err := Run(buf, detect.LineBreaks(), 3, scan.Config{Workers: 1, BlockCapacity: 1, MaxBlocks: 2})
	assert.ErrorIs(t, err, alloc.ErrMaxBlocksExceeded)
	assert.Empty(t, samples)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]time.Duration{
		2 * time.Microsecond,
		4 * time.Microsecond,
		4 * time.Microsecond,
		4 * time.Microsecond,
		5 * time.Microsecond,
		5 * time.Microsecond,
		7 * time.Microsecond,
		9 * time.Microsecond,
	})
	assert.Equal(t, 8, s.Attempts)
	assert.Equal(t, 5*time.Microsecond, s.Mean)
	assert.Equal(t, 2*time.Microsecond, s.StdDev)
	assert.Equal(t, "5.0 (std=2.0) us", s.String())

	same := Summarize([]time.Duration{time.Millisecond, time.Millisecond})
	assert.Equal(t, time.Millisecond, same.Mean)
	assert.Zero(t, same.StdDev)

	assert.Equal(t, Summary{}, Summarize(nil))
}

package scanbytes

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/csvquery/scanbytes/internal/alloc"
	"github.com/csvquery/scanbytes/internal/bench"
	"github.com/csvquery/scanbytes/internal/detect"
	"github.com/csvquery/scanbytes/internal/result"
	"github.com/csvquery/scanbytes/internal/scan"
)

// Block is a run of ascending offsets recorded by one worker.
type Block = alloc.Block

// Detector reports whether a byte is a separator.
type Detector = detect.Detector

// Codec selects the framing of a dump.
type Codec = result.Codec

// Codecs accepted by Dump and ReadOffsets.
const (
	CodecNone = result.CodecNone
	CodecLZ4  = result.CodecLZ4
	CodecZstd = result.CodecZstd
)

// ParseCodec resolves a codec name ("none", "lz4", "zstd").
func ParseCodec(name string) (Codec, error) {
	return result.ParseCodec(name)
}

// Scan finds every byte of buf that belongs to seps and returns the blocks
// produced by the workers, in no particular order. Use Sort or Merge to put
// them in offset order. buf is only read.
func Scan(buf, seps []byte, b Backend, opts ...Option) (blocks []*Block, err error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	d, err := NewDetector(b, seps)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := d.Close(); cerr != nil {
			blocks, err = nil, errors.Join(err, fmt.Errorf("close detector: %w", cerr))
		}
	}()

	return scan.Scan(buf, d, cfg.scanConfig())
}

// ScanOffsets is Scan followed by Merge.
func ScanOffsets(buf, seps []byte, b Backend, opts ...Option) ([]uint64, error) {
	blocks, err := Scan(buf, seps, b, opts...)
	if err != nil {
		return nil, err
	}
	return Merge(blocks), nil
}

// Sort puts blocks in global offset order: by worker, then by first offset.
func Sort(blocks []*Block) {
	result.Sort(blocks)
}

// Merge sorts blocks and returns all their offsets in ascending order.
func Merge(blocks []*Block) []uint64 {
	return result.Merge(blocks)
}

// Dump sorts blocks and writes their offsets to w as native-endian 64-bit
// words, compressed with codec. It returns the number of offsets written.
func Dump(w io.Writer, blocks []*Block, codec Codec) (int, error) {
	result.Sort(blocks)
	return result.Dump(w, blocks, codec)
}

// ReadOffsets decodes a stream written by Dump.
func ReadOffsets(r io.Reader, codec Codec) ([]uint64, error) {
	return result.ReadOffsets(r, codec)
}

// Benchmark scans buf attempts times with one detector built for b and seps
// and returns the duration of each attempt. Scan output is discarded.
func Benchmark(b Backend, buf, seps []byte, attempts int, opts ...Option) (samples []time.Duration, err error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	d, err := NewDetector(b, seps)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := d.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close detector: %w", cerr))
		}
	}()

	return bench.Run(buf, d, attempts, cfg.scanConfig())
}

// Summary is the mean and standard deviation of benchmark samples.
type Summary = bench.Summary

// Summarize aggregates benchmark samples.
func Summarize(samples []time.Duration) Summary {
	return bench.Summarize(samples)
}

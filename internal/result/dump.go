package result

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/csvquery/scanbytes/internal/alloc"
)

// OffsetSize is the width in bytes of one dumped offset.
const OffsetSize = 8

var (
	// ErrUnknownCodec is returned for codec names ParseCodec does not know.
	ErrUnknownCodec = errors.New("result: unknown codec")

	// ErrTruncated is returned when a dump does not hold a whole number of offsets.
	ErrTruncated = errors.New("result: truncated offset stream")
)

// Codec selects how a dump is framed on the wire.
type Codec uint8

const (
	// CodecNone writes offsets verbatim in native byte order.
	CodecNone Codec = iota
	// CodecLZ4 wraps the raw stream in an LZ4 frame.
	CodecLZ4
	// CodecZstd wraps the raw stream in a zstd frame.
	CodecZstd
)

var codecNames = [...]string{
	CodecNone: "none",
	CodecLZ4:  "lz4",
	CodecZstd: "zstd",
}

func (c Codec) String() string {
	if int(c) < len(codecNames) {
		return codecNames[c]
	}
	return fmt.Sprintf("Codec(%d)", uint8(c))
}

// ParseCodec resolves a codec name, case-insensitively. The empty string is
// CodecNone.
func ParseCodec(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CodecNone, nil
	}
	for i, n := range codecNames {
		if n == name {
			return Codec(i), nil
		}
	}
	return CodecNone, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Dump writes the offsets of sorted blocks to w as fixed-width native-endian
// words, with no framing beyond what codec adds. It returns the number of
// offsets written.
func Dump(w io.Writer, blocks []*alloc.Block, codec Codec) (int, error) {
	dst, finish, err := wrapWriter(w, codec)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, b := range blocks {
		if len(b.Offsets) == 0 {
			continue
		}
		raw := unsafe.Slice((*byte)(unsafe.Pointer(&b.Offsets[0])), len(b.Offsets)*OffsetSize)
		if _, err := dst.Write(raw); err != nil {
			return n, fmt.Errorf("write offsets: %w", err)
		}
		n += len(b.Offsets)
	}

	if err := finish(); err != nil {
		return n, fmt.Errorf("finish %s stream: %w", codec, err)
	}
	return n, nil
}

func wrapWriter(w io.Writer, codec Codec) (io.Writer, func() error, error) {
	switch codec {
	case CodecNone:
		return w, func() error { return nil }, nil
	case CodecLZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.BlockSizeOption(lz4.Block64Kb)); err != nil {
			return nil, nil, fmt.Errorf("configure lz4: %w", err)
		}
		return lw, lw.Close, nil
	case CodecZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, nil, fmt.Errorf("configure zstd: %w", err)
		}
		return zw, zw.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCodec, codec)
	}
}

// ReadOffsets decodes a stream produced by Dump with the same codec.
func ReadOffsets(r io.Reader, codec Codec) ([]uint64, error) {
	var src io.Reader
	switch codec {
	case CodecNone:
		src = r
	case CodecLZ4:
		src = lz4.NewReader(r)
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		src = zr
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, codec)
	}

	br := bufio.NewReaderSize(src, 64*1024)
	var (
		out []uint64
		buf [OffsetSize]byte
	)
	for {
		n, err := io.ReadFull(br, buf[:])
		switch {
		case err == io.EOF:
			return out, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return out, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, n)
		case err != nil:
			return out, fmt.Errorf("read offsets: %w", err)
		}
		out = append(out, binary.NativeEndian.Uint64(buf[:]))
	}
}

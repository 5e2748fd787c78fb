package result

import (
	"bytes"
	"encoding/binary"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvquery/scanbytes/internal/alloc"
)

func shuffledBlocks() []*alloc.Block {
	return []*alloc.Block{
		{Worker: 2, Offsets: []uint64{90, 95}},
		{Worker: 0, Offsets: []uint64{7, 8}},
		{Worker: 1, Offsets: nil},
		{Worker: 0, Offsets: []uint64{1, 3, 5}},
		{Worker: 1, Offsets: []uint64{50}},
		{Worker: 2, Offsets: []uint64{60, 70}},
	}
}

func TestMerge(t *testing.T) {
	got := Merge(shuffledBlocks())
	assert.Equal(t, []uint64{1, 3, 5, 7, 8, 50, 60, 70, 90, 95}, got)
}

func TestSortKeepsEmptyBlocksLast(t *testing.T) {
	blocks := shuffledBlocks()
	Sort(blocks)
	assert.Equal(t, uint16(1), blocks[3].Worker)
	assert.Empty(t, blocks[3].Offsets)
}

func TestAllStopsEarly(t *testing.T) {
	blocks := shuffledBlocks()
	Sort(blocks)

	var got []uint64
	for off := range All(blocks) {
		got = append(got, off)
		if len(got) == 4 {
			break
		}
	}
	assert.Equal(t, []uint64{1, 3, 5, 7}, got)
	assert.Equal(t, 10, Count(blocks))
}

func TestDumpRawIsNativeEndianWords(t *testing.T) {
	blocks := shuffledBlocks()
	Sort(blocks)

	var buf bytes.Buffer
	n, err := Dump(&buf, blocks, CodecNone)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	require.Equal(t, 10*OffsetSize, buf.Len())

	raw := buf.Bytes()
	want := slices.Collect(All(blocks))
	for i, off := range want {
		assert.Equal(t, off, binary.NativeEndian.Uint64(raw[i*OffsetSize:]))
	}
}

func TestDumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := Dump(&buf, []*alloc.Block{{Worker: 0}}, CodecNone)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, buf.Len())
}

func TestDumpCompressed(t *testing.T) {
	blocks := []*alloc.Block{{Worker: 0}}
	for i := uint64(0); i < 50_000; i++ {
		blocks[0].Offsets = append(blocks[0].Offsets, i*13)
	}

	for _, codec := range []Codec{CodecNone, CodecLZ4, CodecZstd} {
		t.Run(codec.String(), func(t *testing.T) {
			var buf bytes.Buffer
			_, err := Dump(&buf, blocks, codec)
			require.NoError(t, err)
			if codec != CodecNone {
				assert.Less(t, buf.Len(), 50_000*OffsetSize)
			}

			got, err := ReadOffsets(&buf, codec)
			require.NoError(t, err)
			assert.Equal(t, blocks[0].Offsets, got)
		})
	}
}

func TestReadOffsetsTruncated(t *testing.T) {
	got, err := ReadOffsets(bytes.NewReader(make([]byte, 19)), CodecNone)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Len(t, got, 2)
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		in   string
		want Codec
		err  bool
	}{
		{"", CodecNone, false},
		{"none", CodecNone, false},
		{"LZ4", CodecLZ4, false},
		{" zstd ", CodecZstd, false},
		{"gzip", CodecNone, true},
	}
	for _, tt := range tests {
		got, err := ParseCodec(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnknownCodec, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "Codec(9)", Codec(9).String())
}

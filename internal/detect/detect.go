// Package detect provides the byte predicates a scan runs over every byte of
// its input.
//
// A Detector is built once per scan and then shared read-only by all
// workers, so Match must be free of side effects. Close releases whatever the
// constructor acquired and must be called exactly once, after the last Match.
package detect

// Detector reports whether a byte is a separator.
type Detector interface {
	Match(c byte) bool
	Close() error
}

// Bitmap tests membership in a 256-bit presence table.
type Bitmap struct {
	bits [256 / 64]uint64
}

// NewBitmap builds the presence table for seps.
func NewBitmap(seps []byte) *Bitmap {
	d := &Bitmap{}
	for _, c := range seps {
		d.bits[c>>6] |= 1 << (c & 63)
	}
	return d
}

func (d *Bitmap) Match(c byte) bool {
	return d.bits[c>>6]&(1<<(c&63)) != 0
}

func (d *Bitmap) Close() error { return nil }

// SingleChar matches exactly one byte.
type SingleChar struct {
	target byte
}

// NewSingleChar returns a detector for target.
func NewSingleChar(target byte) *SingleChar {
	return &SingleChar{target: target}
}

func (d *SingleChar) Match(c byte) bool { return c == d.target }

func (d *SingleChar) Close() error { return nil }

// TwoChar matches one of two bytes. first is tested first, so it should be
// the more frequent of the two.
type TwoChar struct {
	first, second byte
}

// NewTwoChar returns a detector for first and second.
func NewTwoChar(first, second byte) *TwoChar {
	return &TwoChar{first: first, second: second}
}

func (d *TwoChar) Match(c byte) bool { return c == d.first || c == d.second }

func (d *TwoChar) Close() error { return nil }

// Fixed detectors for the recognised separator sets.
func LineBreaks() *SingleChar { return NewSingleChar('\n') }
func Spaces() *SingleChar     { return NewSingleChar(' ') }
func CSV() *TwoChar           { return NewTwoChar(',', '\n') }
func TSV() *TwoChar           { return NewTwoChar('\t', '\n') }

// Punct matches printable ASCII punctuation: ! through /, : through @,
// [ through ` and { through ~. It ignores the caller's separator set.
type Punct struct{}

func (Punct) Match(c byte) bool {
	return (c >= 33 && c < 48) ||
		(c >= 58 && c < 65) ||
		(c >= 91 && c < 97) ||
		(c >= 123 && c < 127)
}

func (Punct) Close() error { return nil }

package scanbytes

import (
	"fmt"
	"strings"

	"github.com/csvquery/scanbytes/internal/detect"
	"github.com/csvquery/scanbytes/internal/jit"
)

// Backend selects a detector strategy.
type Backend uint8

const (
	Unknown    Backend = iota // not a usable backend
	Auto                      // pick from the separator set
	Compiled                  // generated native compare chain
	Bitmap                    // 256-bit presence table
	LineBreaks                // '\n' only
	CSV                       // ',' and '\n'
	TSV                       // '\t' and '\n'
	Spaces                    // ' ' only
	Punct                     // ASCII punctuation class
)

var backendNames = [...]string{
	Unknown:    "unknown",
	Auto:       "auto",
	Compiled:   "jit",
	Bitmap:     "fallback",
	LineBreaks: "lf",
	CSV:        "csv",
	TSV:        "tsv",
	Spaces:     "space",
	Punct:      "punct",
}

var backendsByName = map[string]Backend{
	"compiled": Compiled,
	"bitmap":   Bitmap,
}

func init() {
	for b, name := range backendNames {
		if Backend(b) != Unknown {
			backendsByName[name] = Backend(b)
		}
	}
}

// String returns the canonical backend name.
func (b Backend) String() string {
	if int(b) < len(backendNames) {
		return backendNames[b]
	}
	return fmt.Sprintf("Backend(%d)", uint8(b))
}

// Backends lists every usable backend, Auto first.
func Backends() []Backend {
	return []Backend{Auto, Compiled, Bitmap, LineBreaks, CSV, TSV, Spaces, Punct}
}

// ParseBackend resolves a backend name case-insensitively. Names it does not
// recognise yield Unknown.
func ParseBackend(name string) Backend {
	if b, ok := backendsByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return b
	}
	return Unknown
}

// Generic returns the backend Auto falls back to for sets with no fast path:
// Compiled where the host can run generated code, Bitmap otherwise.
func Generic() Backend {
	if jit.Supported() {
		return Compiled
	}
	return Bitmap
}

// GenericFor is Generic narrowed to sets the code generator can hold: a set
// too large to compile gets Bitmap.
func GenericFor(seps []byte) Backend {
	if jit.Supported() && len(seps) <= jit.Host.MaxTargets() {
		return Compiled
	}
	return Bitmap
}

// Detect picks the backend Auto resolves to for seps.
func Detect(seps []byte) (Backend, error) {
	if err := validateSeparators(seps); err != nil {
		return Unknown, err
	}
	return detectBackend(seps), nil
}

func detectBackend(seps []byte) Backend {
	switch len(seps) {
	case 1:
		if seps[0] == '\n' {
			return LineBreaks
		}
	case 2:
		a, b := seps[0], seps[1]
		switch {
		case pairIs(a, b, '\n', ','):
			return CSV
		case pairIs(a, b, '\n', '\t'):
			return TSV
		}
	}
	return GenericFor(seps)
}

func pairIs(a, b, x, y byte) bool {
	return (a == x && b == y) || (a == y && b == x)
}

func validateSeparators(seps []byte) error {
	if len(seps) == 0 {
		return ErrEmptySeparators
	}
	var seen [256 / 64]uint64
	for _, c := range seps {
		bit := uint64(1) << (c & 63)
		if seen[c>>6]&bit != 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateSeparator, c)
		}
		seen[c>>6] |= bit
	}
	return nil
}

// Resolve validates seps and turns b into a concrete backend. Auto is
// resolved from the content of seps; every other backend is honoured as is,
// except that Compiled fails with ErrCompiledUnsupported on hosts that cannot
// run generated code.
func Resolve(b Backend, seps []byte) (Backend, error) {
	if err := validateSeparators(seps); err != nil {
		return Unknown, err
	}

	switch b {
	case Auto:
		return detectBackend(seps), nil
	case Compiled:
		if !jit.Supported() {
			return Unknown, ErrCompiledUnsupported
		}
		return b, nil
	case Bitmap, LineBreaks, CSV, TSV, Spaces, Punct:
		return b, nil
	default:
		return Unknown, fmt.Errorf("%w: %s", ErrUnknownBackend, b)
	}
}

// NewDetector resolves b and builds its detector for seps. The caller owns
// the detector and must Close it.
func NewDetector(b Backend, seps []byte) (detect.Detector, error) {
	b, err := Resolve(b, seps)
	if err != nil {
		return nil, err
	}

	switch b {
	case Compiled:
		d, err := detect.NewCompiled(seps)
		if err != nil {
			return nil, fmt.Errorf("build %s detector: %w", b, err)
		}
		return d, nil
	case Bitmap:
		return detect.NewBitmap(seps), nil
	case LineBreaks:
		return detect.LineBreaks(), nil
	case CSV:
		return detect.CSV(), nil
	case TSV:
		return detect.TSV(), nil
	case Spaces:
		return detect.Spaces(), nil
	case Punct:
		return detect.Punct{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, b)
	}
}

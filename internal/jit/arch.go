package jit

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnsupported is returned when native code cannot be executed on this host.
	ErrUnsupported = errors.New("jit: code generation is not supported on this platform")

	// ErrCodeTooLarge is returned when the routine would not fit a short branch displacement.
	ErrCodeTooLarge = errors.New("jit: generated code exceeds short branch range")

	// ErrNoTargets is returned when a routine is requested for an empty target set.
	ErrNoTargets = errors.New("jit: no target bytes")

	// ErrExecMemory is returned when the executable page cannot be mapped, protected or released.
	ErrExecMemory = errors.New("jit: executable memory")
)

// maxCodeSize bounds the whole routine so every branch displacement fits a signed byte.
const maxCodeSize = math.MaxInt8

// Piece is a fixed instruction template.
type Piece []byte

// PatchablePiece is an instruction template with one byte filled in at
// generation time.
type PatchablePiece struct {
	Code   Piece
	Offset int // index of the patched byte within Code
}

// Architecture describes the instruction templates a routine is stitched from.
type Architecture struct {
	Name     string
	Prologue Piece
	Compare  PatchablePiece // patched with the target byte
	Branch   PatchablePiece // patched with the displacement to the epilogue
	Epilogue Piece
}

// AMD64 emits System V style code: the byte under test arrives in DIL and the
// routine returns with the outcome in ZF.
var AMD64 = Architecture{
	Name:     "amd64",
	Prologue: Piece{0xf3, 0x0f, 0x1e, 0xfa}, // endbr64
	Compare: PatchablePiece{
		Code:   Piece{0x40, 0x80, 0xff, 0x00}, // cmpb $imm8, %dil
		Offset: 3,
	},
	Branch: PatchablePiece{
		Code:   Piece{0x74, 0x00}, // je rel8
		Offset: 1,
	},
	Epilogue: Piece{0xc3}, // ret
}

// Size returns the routine length in bytes for n targets.
func (a Architecture) Size(n int) int {
	if n <= 0 {
		return len(a.Prologue) + len(a.Epilogue)
	}
	pair := len(a.Compare.Code) + len(a.Branch.Code)
	return len(a.Prologue) + n*pair - len(a.Branch.Code) + len(a.Epilogue)
}

// MaxTargets is the largest target set whose routine stays within short
// branch range.
func (a Architecture) MaxTargets() int {
	pair := len(a.Compare.Code) + len(a.Branch.Code)
	return (maxCodeSize - len(a.Prologue) - len(a.Epilogue) + len(a.Branch.Code)) / pair
}

// Assemble emits the compare chain for targets. Every branch is patched to
// the shared epilogue; the last compare has no branch and falls through.
func (a Architecture) Assemble(targets []byte) ([]byte, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	size := a.Size(len(targets))
	if size > maxCodeSize {
		return nil, fmt.Errorf("%w: %d targets need %d bytes, limit is %d (at most %d targets)",
			ErrCodeTooLarge, len(targets), size, maxCodeSize, a.MaxTargets())
	}
	epilogue := size - len(a.Epilogue)

	code := make([]byte, 0, size)
	code = append(code, a.Prologue...)

	last := len(targets) - 1
	for i, t := range targets {
		at := len(code)
		code = append(code, a.Compare.Code...)
		code[at+a.Compare.Offset] = t

		if i == last {
			break
		}

		at = len(code)
		code = append(code, a.Branch.Code...)
		// rel8 is measured from the end of the branch instruction
		code[at+a.Branch.Offset] = byte(int8(epilogue - len(code)))
	}

	code = append(code, a.Epilogue...)
	return code, nil
}

// Package jit generates and runs tiny native routines that report whether a
// byte belongs to a fixed set of values.
//
// A routine for targets t0..tN is a linear chain of compare/branch pairs that
// all land on one shared epilogue:
//
//	prologue
//	cmp  $t0, %dil
//	je   epilogue
//	cmp  $t1, %dil
//	je   epilogue
//	...
//	cmp  $tN, %dil
//	epilogue:
//	ret
//
// The outcome travels in the zero flag. A taken branch reaches the epilogue
// with ZF set, and falling off the final compare carries that compare's ZF, so
// exactly one compare decides what the caller sees.
//
// Generation ([Architecture.Assemble]) is plain byte shuffling and works on any
// platform. Execution ([Load], [Routine.Call]) is only available on amd64 unix
// hosts; elsewhere [Supported] reports false and [Load] returns [ErrUnsupported].
//
// The executable page follows a strict lifecycle:
//
//	allocate (RW) -> populate -> protect (RX) -> call many times -> release
package jit

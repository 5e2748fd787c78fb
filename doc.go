// Package scanbytes finds every occurrence of a small set of separator bytes
// in a large buffer and reports their offsets in ascending order.
//
// It is a preprocessing step for splitting line, CSV or TSV data into chunks
// that can be processed independently. The buffer is scanned by one worker
// per CPU; each worker tests bytes with a shared Detector chosen by Backend
// and records matches into its own blocks, which are merged at the end.
//
// Basic usage:
//
//	offsets, err := scanbytes.ScanOffsets(data, []byte{',', '\n'}, scanbytes.Auto)
//	if err != nil {
//		return err
//	}
//
// Backends:
//
//   - Auto picks LineBreaks, CSV or TSV for the sets {\n}, {\n ,} and
//     {\n \t}, and the generic backend (Generic) for anything else.
//   - Compiled generates a native compare chain at run time (amd64 unix only).
//   - Bitmap tests a 256-bit presence table and works everywhere.
//   - LineBreaks, CSV, TSV, Spaces and Punct are fixed-class detectors that
//     ignore the separator set.
package scanbytes

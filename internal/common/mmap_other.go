//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package common

import (
	"io"
	"os"
)

// MmapFile reads the whole file into memory; there is no mapping on this platform.
func MmapFile(f *os.File) ([]byte, error) {
	return io.ReadAll(f)
}

// MunmapFile is a no-op for ReadAll-backed data.
func MunmapFile(data []byte) error {
	return nil
}

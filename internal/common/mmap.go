// Package common holds helpers shared by the commands: mapping input files
// into memory read-only.
package common

import (
	"fmt"
	"os"
)

// MappedFile is a read-only view of a whole file.
type MappedFile struct {
	data []byte
}

// Open maps path into memory.
func Open(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := MmapFile(f)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}
	return &MappedFile{data: data}, nil
}

// Bytes returns the mapped contents. They must not be modified and are
// invalid after Close.
func (m *MappedFile) Bytes() []byte {
	return m.data
}

// Len returns the file size in bytes.
func (m *MappedFile) Len() int {
	return len(m.data)
}

// Close unmaps the file.
func (m *MappedFile) Close() error {
	data := m.data
	m.data = nil
	return MunmapFile(data)
}

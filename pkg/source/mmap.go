// Package source provides byte-span inputs for the codec: memory-mapped
// files and CSV documents that pack row by row.
package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Span is a read-only memory-mapped view of a file. The mapped bytes can be
// handed to an Unpacker directly, with no copy of the file contents.
type Span struct {
	data []byte
	size int64
}

// OpenSpan memory-maps path read-only. An empty file yields a zero-length
// span with no mapping behind it.
func OpenSpan(path string) (*Span, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stating %s: %w", path, err)
	}
	size := stat.Size()
	if size == 0 {
		return &Span{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("memory-mapping %s: %w", path, err)
	}

	return &Span{data: data, size: size}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (s *Span) Bytes() []byte {
	return s.data
}

// Len returns the size of the span in bytes.
func (s *Span) Len() int64 {
	return s.size
}

// Close unmaps the span. The bytes returned by Bytes must not be used
// afterwards.
func (s *Span) Close() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	return unix.Munmap(data)
}

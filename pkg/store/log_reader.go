package store

import (
	"bufio"
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"

	"github.com/brokkr-io/brokkr/pkg/msgpack"
)

// LogReader provides sequential access to record frames in a log file.
type LogReader struct {
	file   *os.File
	reader *bufio.Reader
	offset int64
	config LogReaderConfig
}

// NewLogReader creates a new log reader for the specified file.
func NewLogReader(config LogReaderConfig) (*LogReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, 0); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &LogReader{
		file:   file,
		reader: bufio.NewReader(file),
		offset: config.StartOffset,
		config: config,
	}, nil
}

// ReadNext reads the next record frame from the current offset. io.EOF
// signals a clean end of log; a frame cut short mid-payload or failing its
// CRC surfaces as ErrCorruption.
func (r *LogReader) ReadNext() (*Record, error) {
	header := make([]byte, frameHeaderSize)
	n, err := io.ReadFull(r.reader, header)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, ErrCorruption
		}
		return nil, err
	}
	r.offset += int64(n)

	crc := binary.LittleEndian.Uint32(header[0:4])
	payloadLen := int(binary.LittleEndian.Uint32(header[4:8]))

	payload := make([]byte, payloadLen)
	n, err = io.ReadFull(r.reader, payload)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrCorruption
		}
		return nil, err
	}
	r.offset += int64(n)

	if crc32.ChecksumIEEE(payload) != crc {
		return nil, ErrCorruption
	}

	rec, err := msgpack.Unpack[Record](payload)
	if err != nil {
		return nil, ErrCorruption
	}
	return &rec, nil
}

// ReadAt reads the record frame at a specific offset. The file is reopened
// so writes since this reader was created are visible.
func (r *LogReader) ReadAt(offset int64) (*Record, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if offset >= stat.Size() {
		return nil, ErrCorruption
	}

	data := make([]byte, stat.Size()-offset)
	if _, err := file.ReadAt(data, offset); err != nil {
		return nil, err
	}

	rec, _, err := DecodeFrame(data)
	return rec, err
}

// Seek sets the read offset.
func (r *LogReader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, 0); err != nil {
		return err
	}

	r.reader = bufio.NewReader(r.file) // Recreate reader to clear buffer
	r.offset = offset
	return nil
}

// Offset returns the current read offset.
func (r *LogReader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator over record frames.
func (r *LogReader) Iterator() RecordIterator {
	return &logRecordIterator{reader: r}
}

// Close closes the log reader.
func (r *LogReader) Close() error {
	return r.file.Close()
}

type logRecordIterator struct {
	reader *LogReader
	record *Record
	err    error
}

func (it *logRecordIterator) Next() bool {
	it.record, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *logRecordIterator) Record() *Record {
	return it.record
}

func (it *logRecordIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *logRecordIterator) Close() error {
	// The underlying reader is owned by the caller.
	return nil
}

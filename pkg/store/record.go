package store

import (
	"encoding/binary"
	"hash/crc32"
	"time"

	"github.com/brokkr-io/brokkr/pkg/msgpack"
)

// frameHeaderSize is CRC32(4) + PayloadLen(4).
const frameHeaderSize = 8

// Record is a key-value entry persisted to the log. The on-disk payload is
// the record's msgpack encoding, framed with a CRC and length header.
type Record struct {
	Key       []byte
	Value     []byte
	Timestamp uint64 // Unix timestamp in nanoseconds
}

// NewRecord creates a record stamped with the current time.
func NewRecord(key, value []byte) *Record {
	return &Record{
		Key:       key,
		Value:     value,
		Timestamp: uint64(time.Now().UnixNano()),
	}
}

// Pack forwards the record's members to the codec; the same declaration
// serves both encoding and decoding.
func (r *Record) Pack(c msgpack.Codec) {
	c.Process(&r.Key, &r.Value, &r.Timestamp)
}

// Tombstone reports whether the record marks a deletion (empty value).
func (r *Record) Tombstone() bool {
	return len(r.Value) == 0
}

// EncodeFrame serializes a record into its on-disk frame:
//
//	[CRC32(4, LE)][PayloadLen(4, LE)][msgpack payload]
//
// The CRC covers the payload only.
func EncodeFrame(r *Record) ([]byte, error) {
	payload, err := msgpack.Pack(r)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(payload))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(payload)))
	copy(buf[frameHeaderSize:], payload)
	return buf, nil
}

// DecodeFrame parses one frame from the start of data, returning the record
// and the total frame size. A short buffer, CRC mismatch or undecodable
// payload surfaces as ErrCorruption.
func DecodeFrame(data []byte) (*Record, int, error) {
	if len(data) < frameHeaderSize {
		return nil, 0, ErrCorruption
	}

	crc := binary.LittleEndian.Uint32(data[0:4])
	payloadLen := int(binary.LittleEndian.Uint32(data[4:8]))
	total := frameHeaderSize + payloadLen
	if len(data) < total {
		return nil, 0, ErrCorruption
	}

	payload := data[frameHeaderSize:total]
	if crc32.ChecksumIEEE(payload) != crc {
		return nil, 0, ErrCorruption
	}

	rec, err := msgpack.Unpack[Record](payload)
	if err != nil {
		return nil, 0, ErrCorruption
	}
	return &rec, total, nil
}

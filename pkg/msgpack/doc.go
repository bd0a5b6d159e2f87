// Package msgpack implements a compact MessagePack-compatible binary codec.
//
// The codec serializes sequences of typed values into a contiguous byte
// buffer and reconstructs them again, always choosing the minimal wire
// representation for each value. The encoding interoperates with any
// standard MessagePack decoder for the supported subset of types: nil,
// booleans, integers up to 64 bits, IEEE-754 floats, strings, raw binary,
// arrays, maps, time points and nested user aggregates. Extension types are
// not implemented.
//
// # Packing and unpacking
//
// A Packer accumulates encoded bytes; an Unpacker walks a borrowed byte
// span with a read cursor:
//
//	packer := msgpack.NewPacker()
//	packer.Process(uint8(7), "seven", []byte{7})
//	if err := packer.Err(); err != nil {
//		return err
//	}
//	data := packer.Bytes()
//
//	var n uint8
//	var s string
//	var b []byte
//	unpacker := msgpack.NewUnpacker(data)
//	unpacker.Process(&n, &s, &b)
//	if err := unpacker.Err(); err != nil {
//		return err
//	}
//
// # Aggregates
//
// A user-defined type participates by implementing Packable: a single Pack
// method that forwards each member, in declaration order, to the codec it
// is handed. Packer and Unpacker both satisfy Codec, so the one method
// serves both directions:
//
//	type Point struct {
//		X, Y int32
//	}
//
//	func (p *Point) Pack(c msgpack.Codec) {
//		c.Process(&p.X, &p.Y)
//	}
//
//	data, err := msgpack.Pack(&Point{3, 4})
//	point, err := msgpack.Unpack[Point](data)
//
// A nested aggregate is encoded into its own buffer first and embedded in
// the parent stream as a length-prefixed binary payload. This envelope is
// part of the wire contract; data written by previous releases depends on
// it.
//
// # Error handling
//
// Each Packer and Unpacker owns one sticky error slot. The first failure
// stops all further encoding or decoding on that instance; values processed
// before the failure point are left as-is. Errors are plain values, never
// panics: ErrOutOfRange, ErrIntegerOverflow, ErrDataNotMatchType and
// ErrBadArraySize on the decode side, ErrLengthOverflow on the encode side.
//
// # Concurrency
//
// Instances are cheap, stack-scoped and single-use per buffer. They carry
// no internal synchronization; use one instance per goroutine.
package msgpack

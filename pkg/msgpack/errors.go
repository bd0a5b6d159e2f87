package msgpack

import "errors"

// UnpackError is the error category for deserialization failures.
type UnpackError struct {
	Message string
}

func (e *UnpackError) Error() string {
	return e.Message
}

// PackError is the error category for serialization failures.
type PackError struct {
	Message string
}

func (e *PackError) Error() string {
	return e.Message
}

// Unpacker errors. Once set on an Unpacker instance the error is sticky:
// every further decode operation on that instance is a no-op.
var (
	ErrOutOfRange       = &UnpackError{"out of range data-access during deserialization"}
	ErrIntegerOverflow  = &UnpackError{"data overflows specified integer type"}
	ErrDataNotMatchType = &UnpackError{"data does not match type of object"}
	ErrBadArraySize     = &UnpackError{"data has a different size than specified fixed-size array"}
)

// Packer errors.
var (
	ErrLengthOverflow = &PackError{"length of map, array, string or binary data exceeding 2^32 -1 elements"}
)

// ErrUnsupportedType reports a value whose type matches none of the codec's
// classifications. Values arrive through an interface, so the mismatch can
// only surface at run time.
var ErrUnsupportedType = errors.New("msgpack: unsupported type")

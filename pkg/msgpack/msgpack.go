package msgpack

// Codec is the abstraction shared by Packer and Unpacker. An aggregate's
// Pack method forwards each member, in a fixed declared order, to Process;
// because both directions satisfy Codec, one declaration serves both pack
// and unpack.
type Codec interface {
	Process(values ...any)
}

// Packable is implemented by user aggregates. Pack must forward the
// aggregate's members as pointers, e.g.
//
//	func (r *Record) Pack(c msgpack.Codec) {
//		c.Process(&r.Key, &r.Value, &r.Timestamp)
//	}
//
// Implement Pack on a pointer receiver so decoding can mutate the members.
type Packable interface {
	Pack(c Codec)
}

// Pack encodes one aggregate and returns the serialized bytes. On failure
// the bytes written before the failure point are still returned alongside
// the error.
func Pack(v Packable) ([]byte, error) {
	p := NewPacker()
	v.Pack(p)
	return p.Bytes(), p.Err()
}

// Unpack decodes data into a fresh instance of T. The type parameter is the
// aggregate value type; its pointer must implement Packable:
//
//	rec, err := msgpack.Unpack[Record](data)
//
// A failed decode returns the partially-filled value together with the
// sticky error; members decoded before the failure point keep their values.
func Unpack[T any, PT interface {
	*T
	Packable
}](data []byte) (T, error) {
	var value T
	u := NewUnpacker(data)
	PT(&value).Pack(u)
	return value, u.Err()
}

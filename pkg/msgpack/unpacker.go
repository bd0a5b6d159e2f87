package msgpack

import (
	"math"
	"reflect"
	"time"
)

// Unpacker consumes a borrowed byte span and reconstructs typed values,
// validating format bytes and lengths. The cursor never advances past the
// end of the span; any attempted read beyond it surfaces as ErrOutOfRange.
// An Unpacker is not safe for concurrent use.
type Unpacker struct {
	data []byte
	pos  int
	err  error
}

// NewUnpacker returns an Unpacker reading from data. The span is borrowed,
// not copied; it must stay alive for the lifetime of the instance.
func NewUnpacker(data []byte) *Unpacker {
	return &Unpacker{data: data}
}

// SetData rebinds the Unpacker to a new span, resetting the cursor and the
// error slot.
func (u *Unpacker) SetData(data []byte) {
	u.data = data
	u.pos = 0
	u.err = nil
}

// Process decodes into each destination in argument order. Destinations are
// pointers to the target values. The first failure sets the sticky error
// and turns every further call into a no-op; destinations decoded before
// the failure keep their values.
func (u *Unpacker) Process(dests ...any) {
	for _, d := range dests {
		u.unpack(d)
	}
}

// Err returns the sticky error, if any.
func (u *Unpacker) Err() error {
	return u.err
}

func (u *Unpacker) peek() (byte, bool) {
	if u.pos >= len(u.data) {
		u.err = ErrOutOfRange
		return 0, false
	}
	return u.data[u.pos], true
}

func (u *Unpacker) readByte() (byte, bool) {
	b, ok := u.peek()
	if ok {
		u.pos++
	}
	return b, ok
}

// read returns the next n bytes of the span without copying.
func (u *Unpacker) read(n int) ([]byte, bool) {
	if n < 0 || len(u.data)-u.pos < n {
		u.err = ErrOutOfRange
		return nil, false
	}
	b := u.data[u.pos : u.pos+n]
	u.pos += n
	return b, true
}

func (u *Unpacker) unpack(v any) {
	if u.err != nil {
		return
	}
	switch x := v.(type) {
	case nil:
		// Null destination: consume the tag, produce nothing.
		u.readByte()
	case *bool:
		// Lenient by wire contract: anything but the false tag is true.
		if b, ok := u.readByte(); ok {
			*x = b != tagFalse
		}
	case *int:
		if n, ok := u.unpackInt(8); ok {
			*x = int(n)
		}
	case *int8:
		if n, ok := u.unpackInt(1); ok {
			*x = int8(n)
		}
	case *int16:
		if n, ok := u.unpackInt(2); ok {
			*x = int16(n)
		}
	case *int32:
		if n, ok := u.unpackInt(4); ok {
			*x = int32(n)
		}
	case *int64:
		if n, ok := u.unpackInt(8); ok {
			*x = int64(n)
		}
	case *uint:
		if n, ok := u.unpackInt(8); ok {
			*x = uint(n)
		}
	case *uint8:
		if n, ok := u.unpackInt(1); ok {
			*x = uint8(n)
		}
	case *uint16:
		if n, ok := u.unpackInt(2); ok {
			*x = uint16(n)
		}
	case *uint32:
		if n, ok := u.unpackInt(4); ok {
			*x = uint32(n)
		}
	case *uint64:
		if n, ok := u.unpackInt(8); ok {
			*x = n
		}
	case *float32:
		if f, ok := u.unpackFloat(); ok {
			*x = float32(f)
		}
	case *float64:
		if f, ok := u.unpackFloat(); ok {
			*x = f
		}
	case *string:
		if b, ok := u.unpackRaw(); ok {
			*x = string(b)
		}
	case *[]byte:
		if b, ok := u.unpackRaw(); ok {
			*x = append((*x)[:0], b...)
		}
	case *time.Time:
		if n, ok := u.unpackInt(8); ok {
			*x = time.Unix(0, int64(n))
		}
	case Packable:
		u.unpackAggregate(x)
	default:
		u.unpackReflect(reflect.ValueOf(v))
	}
}

// unpackReflect decodes into pointer destinations of named scalar types and
// arbitrary slice/array/map shapes.
func (u *Unpacker) unpackReflect(rv reflect.Value) {
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		u.err = ErrUnsupportedType
		return
	}
	elem := rv.Elem()
	t := elem.Type()

	switch classifyType(t) {
	case kindBool:
		if b, ok := u.readByte(); ok {
			elem.SetBool(b != tagFalse)
		}
	case kindInt:
		size := int(t.Size())
		if n, ok := u.unpackInt(size); ok {
			shift := uint(64 - 8*size)
			elem.SetInt(int64(n<<shift) >> shift)
		}
	case kindUint:
		size := int(t.Size())
		if n, ok := u.unpackInt(size); ok {
			if size < 8 {
				n &= 1<<(8*size) - 1
			}
			elem.SetUint(n)
		}
	case kindFloat:
		if f, ok := u.unpackFloat(); ok {
			if t.Size() == 4 {
				f = float64(float32(f))
			}
			elem.SetFloat(f)
		}
	case kindString:
		if b, ok := u.unpackRaw(); ok {
			elem.SetString(string(b))
		}
	case kindBinary:
		if b, ok := u.unpackRaw(); ok {
			elem.SetBytes(append([]byte(nil), b...))
		}
	case kindTime:
		if n, ok := u.unpackInt(8); ok {
			elem.Set(reflect.ValueOf(time.Unix(0, int64(n))))
		}
	case kindArray:
		u.unpackSequence(elem)
	case kindMap:
		u.unpackMap(elem)
	case kindAggregate:
		if pk, ok := rv.Interface().(Packable); ok {
			u.unpackAggregate(pk)
			return
		}
		u.err = ErrUnsupportedType
	default:
		u.err = ErrUnsupportedType
	}
}

// unpackInt decodes an integer whose encoded width must not exceed the
// destination width (in bytes). The tag is consumed before the overflow
// check; the payload is only consumed when the width fits.
func (u *Unpacker) unpackInt(destWidth int) (uint64, bool) {
	b, ok := u.readByte()
	if !ok {
		return 0, false
	}

	var nbytes int
	switch b {
	case tagInt64, tagUint64:
		nbytes = 8
	case tagInt32, tagUint32:
		nbytes = 4
	case tagInt16, tagUint16:
		nbytes = 2
	case tagInt8, tagUint8:
		nbytes = 1
	default:
		if b&0x80 == 0 || b&0xe0 == 0xe0 {
			return uint64(b), true
		}
		u.err = ErrDataNotMatchType
		return 0, false
	}

	if destWidth < nbytes {
		u.err = ErrIntegerOverflow
		return 0, false
	}

	payload, ok := u.read(nbytes)
	if !ok {
		return 0, false
	}
	var v uint64
	for _, c := range payload {
		v = v<<8 | uint64(c)
	}
	return v, true
}

// unpackFloat decodes a float32/float64 payload, or falls back to the
// 64-bit integer rule for values the Packer stored in integral form.
func (u *Unpacker) unpackFloat() (float64, bool) {
	b, ok := u.peek()
	if !ok {
		return 0, false
	}

	switch b {
	case tagFloat32:
		u.pos++
		payload, ok := u.read(4)
		if !ok {
			return 0, false
		}
		var bits uint32
		for _, c := range payload {
			bits = bits<<8 | uint32(c)
		}
		return float64(float32FromBits(bits)), true
	case tagFloat64:
		u.pos++
		payload, ok := u.read(8)
		if !ok {
			return 0, false
		}
		var bits uint64
		for _, c := range payload {
			bits = bits<<8 | uint64(c)
		}
		return float64FromBits(bits), true
	default:
		n, ok := u.unpackInt(8)
		if !ok {
			return 0, false
		}
		return float64(int64(n)), true
	}
}

// float64FromBits recomposes mantissa*2^(exponent-bias) from the IEEE-754
// bit fields, the mantissa built as 1 + sum of bit_i * 2^-i. An all-ones
// exponent decodes to NaN or an infinity; an all-zeros exponent marks a
// subnormal, whose mantissa has no implied leading bit.
func float64FromBits(bits uint64) float64 {
	exponent := int(bits>>52&0x7ff) - 1023
	mantissa := 1.0
	switch exponent {
	case 1024:
		if bits&(1<<52-1) != 0 {
			return math.NaN()
		}
		if bits>>63 == 1 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case -1023:
		mantissa = 0
		exponent = -1022
	}
	for i := uint(52); i > 0; i-- {
		if bits>>(i-1)&1 == 1 {
			mantissa += 1.0 / float64(uint64(1)<<(53-i))
		}
	}
	if bits>>63 == 1 {
		mantissa = -mantissa
	}
	return math.Ldexp(mantissa, exponent)
}

func float32FromBits(bits uint32) float32 {
	exponent := int(bits>>23&0xff) - 127
	mantissa := 1.0
	switch exponent {
	case 128:
		if bits&(1<<23-1) != 0 {
			return float32(math.NaN())
		}
		if bits>>31 == 1 {
			return float32(math.Inf(-1))
		}
		return float32(math.Inf(1))
	case -127:
		mantissa = 0
		exponent = -126
	}
	for i := uint(23); i > 0; i-- {
		if bits>>(i-1)&1 == 1 {
			mantissa += 1.0 / float64(uint32(1)<<(24-i))
		}
	}
	if bits>>31 == 1 {
		mantissa = -mantissa
	}
	return float32(math.Ldexp(mantissa, exponent))
}

// unpackRaw decodes a string/binary payload and returns it as a sub-slice
// of the span (no copy).
func (u *Unpacker) unpackRaw() ([]byte, bool) {
	b, ok := u.readByte()
	if !ok {
		return nil, false
	}

	var lenBytes int
	switch b {
	case tagStr32, tagBin32:
		lenBytes = 4
	case tagStr16, tagBin16:
		lenBytes = 2
	case tagStr8, tagBin8:
		lenBytes = 1
	default:
		if b < fixstrLow || b > fixstrHigh {
			u.err = ErrDataNotMatchType
			return nil, false
		}
	}

	size := int(b & fixstrLenMask)
	if lenBytes > 0 {
		payload, ok := u.read(lenBytes)
		if !ok {
			return nil, false
		}
		var n uint32
		for _, c := range payload {
			n = n<<8 | uint32(c)
		}
		size = int(n)
	}

	return u.read(size)
}

// unpackContainerCount decodes an array/map element count.
func (u *Unpacker) unpackContainerCount() (int, bool) {
	b, ok := u.readByte()
	if !ok {
		return 0, false
	}

	var lenBytes int
	switch b {
	case tagArray32, tagMap32:
		lenBytes = 4
	case tagArray16, tagMap16:
		lenBytes = 2
	default:
		if b < fixmapLow || b > fixarrayHigh {
			u.err = ErrDataNotMatchType
			return 0, false
		}
		return int(b & fixCountMask), true
	}

	payload, ok := u.read(lenBytes)
	if !ok {
		return 0, false
	}
	var n uint32
	for _, c := range payload {
		n = n<<8 | uint32(c)
	}
	// Every element occupies at least one byte, so a count beyond the
	// remaining input cannot be satisfied. Checking here keeps a hostile
	// header from driving element preallocation.
	if int(n) > len(u.data)-u.pos {
		u.err = ErrOutOfRange
		return 0, false
	}
	return int(n), true
}

// unpackSequence decodes into a slice (appending) or a fixed-size array
// (assigning by index; the decoded count must equal the array length).
func (u *Unpacker) unpackSequence(elem reflect.Value) {
	count, ok := u.unpackContainerCount()
	if !ok {
		return
	}

	if elem.Kind() == reflect.Array {
		if elem.Len() != count {
			u.err = ErrBadArraySize
			return
		}
		for i := 0; i < count && u.err == nil; i++ {
			u.unpack(elem.Index(i).Addr().Interface())
		}
		return
	}

	elemType := elem.Type().Elem()
	for i := 0; i < count && u.err == nil; i++ {
		ev := reflect.New(elemType)
		u.unpack(ev.Interface())
		if u.err != nil {
			return
		}
		elem.Set(reflect.Append(elem, ev.Elem()))
	}
}

func (u *Unpacker) unpackMap(elem reflect.Value) {
	count, ok := u.unpackContainerCount()
	if !ok {
		return
	}

	t := elem.Type()
	if elem.IsNil() {
		elem.Set(reflect.MakeMapWithSize(t, count))
	}
	for i := 0; i < count; i++ {
		kv := reflect.New(t.Key())
		vv := reflect.New(t.Elem())
		u.unpack(kv.Interface())
		u.unpack(vv.Interface())
		if u.err != nil {
			return
		}
		elem.SetMapIndex(kv.Elem(), vv.Elem())
	}
}

// unpackAggregate decodes the length-prefixed binary envelope produced for
// nested aggregates, then lets the aggregate visit its members through a
// nested Unpacker. The nested error propagates to this instance.
func (u *Unpacker) unpackAggregate(v Packable) {
	payload, ok := u.unpackRaw()
	if !ok {
		return
	}
	nested := NewUnpacker(payload)
	v.Pack(nested)
	if nested.err != nil {
		u.err = nested.err
	}
}

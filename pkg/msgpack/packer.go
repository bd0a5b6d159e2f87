package msgpack

import (
	"math"
	"reflect"
	"sort"
	"time"
)

const maxInt64Float = float64(1 << 63)

// Packer serializes a sequence of typed values into a contiguous byte
// buffer, choosing the minimal representation for each value. A Packer is
// transient and single-use per buffer; it is not safe for concurrent use.
type Packer struct {
	buf []byte
	err error
}

// NewPacker returns an empty Packer.
func NewPacker() *Packer {
	return &Packer{}
}

// Process appends the encoding of each value to the internal buffer in
// argument order. The first failure sets the sticky error and turns every
// further call into a no-op; bytes written before the failure remain in the
// buffer. Aggregate members are expected as pointers so that the same Pack
// method serves both the Packer and the Unpacker.
func (p *Packer) Process(values ...any) {
	for _, v := range values {
		p.pack(v)
	}
}

// Bytes returns the accumulated buffer. The slice is owned by the Packer
// and is invalidated by Clear.
func (p *Packer) Bytes() []byte {
	return p.buf
}

// Err returns the sticky error, if any.
func (p *Packer) Err() error {
	return p.err
}

// Clear resets both the buffer and the error slot so the instance can be
// reused.
func (p *Packer) Clear() {
	p.buf = p.buf[:0]
	p.err = nil
}

func (p *Packer) pack(v any) {
	if p.err != nil {
		return
	}
	switch x := v.(type) {
	case nil:
		p.buf = append(p.buf, tagNil)
	case bool:
		p.packBool(x)
	case int:
		p.packInt(uint64(x), true)
	case int8:
		p.packInt(uint64(uint8(x)), true)
	case int16:
		p.packInt(uint64(uint16(x)), true)
	case int32:
		p.packInt(uint64(uint32(x)), true)
	case int64:
		p.packInt(uint64(x), true)
	case uint:
		p.packInt(uint64(x), false)
	case uint8:
		p.packInt(uint64(x), false)
	case uint16:
		p.packInt(uint64(x), false)
	case uint32:
		p.packInt(uint64(x), false)
	case uint64:
		p.packInt(x, false)
	case float32:
		p.packFloat32(x)
	case float64:
		p.packFloat64(x)
	case string:
		p.packString(x)
	case []byte:
		p.packBinary(x)
	case time.Time:
		p.packTime(x)
	case Packable:
		p.packAggregate(x)
	default:
		p.packReflect(reflect.ValueOf(v))
	}
}

// packReflect handles pointers (aggregates forward their members by
// pointer), named scalar types, and arbitrary slice/array/map shapes.
func (p *Packer) packReflect(rv reflect.Value) {
	if k := rv.Kind(); k == reflect.Pointer || k == reflect.Interface {
		if rv.IsNil() {
			p.buf = append(p.buf, tagNil)
			return
		}
		p.pack(rv.Elem().Interface())
		return
	}

	t := rv.Type()
	switch classifyType(t) {
	case kindBool:
		p.packBool(rv.Bool())
	case kindInt:
		u := uint64(rv.Int())
		if size := t.Size(); size < 8 {
			u &= 1<<(8*size) - 1
		}
		p.packInt(u, true)
	case kindUint:
		p.packInt(rv.Uint(), false)
	case kindFloat:
		if t.Size() == 4 {
			p.packFloat32(float32(rv.Float()))
		} else {
			p.packFloat64(rv.Float())
		}
	case kindString:
		p.packString(rv.String())
	case kindBinary:
		p.packBinary(rv.Bytes())
	case kindArray:
		p.packSequence(rv)
	case kindMap:
		p.packMap(rv)
	case kindTime:
		p.packTime(rv.Interface().(time.Time))
	case kindAggregate:
		// The Pack method lives on the pointer receiver; take an
		// addressable copy to reach it.
		pv := reflect.New(t)
		pv.Elem().Set(rv)
		p.packAggregate(pv.Interface().(Packable))
	default:
		p.err = ErrUnsupportedType
	}
}

func (p *Packer) packBool(v bool) {
	if v {
		p.buf = append(p.buf, tagTrue)
	} else {
		p.buf = append(p.buf, tagFalse)
	}
}

// packInt encodes the unsigned representation of an integer at its source
// width. Values fitting the positive or negative fixint ranges are emitted
// as a single raw byte; otherwise the minimal 1/2/4/8-byte width is chosen
// and tagged with the signedness of the source type.
func (p *Packer) packInt(u uint64, signed bool) {
	nbytes := 1
	for i := 8; i > 1; i-- {
		if byte(u>>(8*(i-1))) != 0 {
			nbytes = i
			break
		}
	}

	var tag byte
	switch {
	case nbytes > 4:
		nbytes = 8
		tag = pickTag(signed, tagInt64, tagUint64)
	case nbytes > 2:
		nbytes = 4
		tag = pickTag(signed, tagInt32, tagUint32)
	case nbytes > 1:
		nbytes = 2
		tag = pickTag(signed, tagInt16, tagUint16)
	default:
		b := byte(u)
		if b&0x80 == 0 || b&0xe0 == 0xe0 {
			p.buf = append(p.buf, b)
			return
		}
		tag = pickTag(signed, tagInt8, tagUint8)
	}

	p.buf = append(p.buf, tag)
	for i := nbytes; i > 0; i-- {
		p.buf = append(p.buf, byte(u>>(8*(i-1))))
	}
}

func pickTag(signed bool, s, u byte) byte {
	if signed {
		return s
	}
	return u
}

// packFloat64 prefers the integer encoding when the value has no fractional
// part and fits a signed 64-bit integer; decoders accept either form.
func (p *Packer) packFloat64(f float64) {
	if i := math.Trunc(f); i == f && i >= -maxInt64Float && i < maxInt64Float {
		p.packInt(uint64(int64(i)), true)
		return
	}
	bits := buildFloatBits(f, 52, 11, 1023)
	p.buf = append(p.buf, tagFloat64)
	for i := 8; i > 0; i-- {
		p.buf = append(p.buf, byte(bits>>(8*(i-1))))
	}
}

func (p *Packer) packFloat32(f float32) {
	f64 := float64(f)
	if i := math.Trunc(f64); i == f64 && i >= -maxInt64Float && i < maxInt64Float {
		p.packInt(uint64(int64(i)), true)
		return
	}
	bits := buildFloatBits(f64, 23, 8, 127)
	p.buf = append(p.buf, tagFloat32)
	for i := 4; i > 0; i-- {
		p.buf = append(p.buf, byte(bits>>(8*(i-1))))
	}
}

// buildFloatBits assembles an IEEE-754 bit pattern from sign, biased
// exponent and a mantissa built bit-by-bit from repeated doubling. NaN and
// the infinities take their canonical all-ones-exponent patterns; values
// whose exponent underflows the target width are encoded subnormal, without
// the implied leading bit.
func buildFloatBits(f float64, significand, exponentBits uint, bias int) uint64 {
	var signBit uint64
	if math.Signbit(f) {
		signBit = 1 << (significand + exponentBits)
	}
	expMask := uint64(1)<<exponentBits - 1

	if math.IsNaN(f) {
		return expMask<<significand | 1<<(significand-1)
	}
	if math.IsInf(f, 0) {
		return signBit | expMask<<significand
	}

	exponent := math.Ilogb(f)
	if exponent+bias >= int(expMask) {
		// Magnitude beyond the target width rounds to infinity.
		return signBit | expMask<<significand
	}

	implied := math.Abs(f)/math.Ldexp(1, exponent) - 1.0
	if exponent+bias <= 0 {
		implied = math.Abs(f) / math.Ldexp(1, 1-bias)
		exponent = -bias
	}

	bits := signBit
	for i := significand; i > 0; i-- {
		implied *= 2
		integral, frac := math.Modf(implied)
		implied = frac
		if integral == 1 {
			bits |= 1 << (i - 1)
		}
	}

	bits |= uint64(exponent+bias) << significand
	return bits
}

func (p *Packer) packString(s string) {
	if len(s) < fixstrMaxLen {
		p.buf = append(p.buf, fixstrMask|byte(len(s)))
		p.buf = append(p.buf, s...)
		return
	}
	if !p.packBytesHeader(len(s), tagStr8) {
		return
	}
	p.buf = append(p.buf, s...)
}

func (p *Packer) packBinary(b []byte) {
	if !p.packBytesHeader(len(b), tagBin8) {
		return
	}
	p.buf = append(p.buf, b...)
}

// packBytesHeader emits the str/bin tag with minimal length-field width.
// The brackets are strict less-than: a length of exactly 255 takes the
// 16-bit form, 65535 the 32-bit form. Part of the wire contract.
func (p *Packer) packBytesHeader(n int, tag8 byte) bool {
	switch {
	case n < math.MaxUint8:
		p.buf = append(p.buf, tag8, byte(n))
	case n < math.MaxUint16:
		p.buf = append(p.buf, tag8+1, byte(n>>8), byte(n))
	case uint64(n) < math.MaxUint32:
		p.buf = append(p.buf, tag8+2, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		p.err = ErrLengthOverflow
		return false
	}
	return true
}

// packContainerHeader emits a fixarray/fixmap byte for small counts, or the
// 16/32-bit tagged form otherwise.
func (p *Packer) packContainerHeader(n int, fixMask, tag16 byte) bool {
	switch {
	case n < fixContainerMax:
		p.buf = append(p.buf, fixMask|byte(n))
	case n < math.MaxUint16:
		p.buf = append(p.buf, tag16, byte(n>>8), byte(n))
	case uint64(n) < math.MaxUint32:
		p.buf = append(p.buf, tag16+1, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		p.err = ErrLengthOverflow
		return false
	}
	return true
}

func (p *Packer) packSequence(rv reflect.Value) {
	n := rv.Len()
	if !p.packContainerHeader(n, fixarrayMask, tagArray16) {
		return
	}
	for i := 0; i < n && p.err == nil; i++ {
		p.pack(rv.Index(i).Interface())
	}
}

func (p *Packer) packMap(rv reflect.Value) {
	if !p.packContainerHeader(rv.Len(), fixmapMask, tagMap16) {
		return
	}
	keys := rv.MapKeys()
	sortMapKeys(keys)
	for _, key := range keys {
		p.pack(key.Interface())
		p.pack(rv.MapIndex(key).Interface())
		if p.err != nil {
			return
		}
	}
}

// sortMapKeys orders keys of comparable scalar kinds so map encoding is
// deterministic.
func sortMapKeys(keys []reflect.Value) {
	if len(keys) < 2 {
		return
	}
	switch keys[0].Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	case reflect.Float32, reflect.Float64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Float() < keys[j].Float() })
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	}
}

// packTime encodes a time point as its nanosecond tick count since the Unix
// epoch, using the integer rule.
func (p *Packer) packTime(t time.Time) {
	p.packInt(uint64(t.UnixNano()), true)
}

// packAggregate encodes a user aggregate into a fresh nested Packer and
// embeds the result as a length-prefixed binary payload. The envelope is
// part of the wire contract for nested aggregates.
func (p *Packer) packAggregate(v Packable) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		p.buf = append(p.buf, tagNil)
		return
	}
	nested := NewPacker()
	v.Pack(nested)
	if nested.err != nil {
		p.err = nested.err
		return
	}
	p.packBinary(nested.buf)
}

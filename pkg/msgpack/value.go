package msgpack

import (
	"fmt"
	"strconv"
)

// UnpackValue decodes a single complete value from data without a typed
// destination, classifying the leading tag byte against the format ranges.
// It returns nil, bool, int64, uint64, float64, string, []byte, []any or
// map[string]any. Map keys are rendered as strings so the result can feed a
// JSON encoder directly. Trailing bytes after the value are an error.
func UnpackValue(data []byte) (any, error) {
	u := NewUnpacker(data)
	v := u.anyValue()
	if err := u.Err(); err != nil {
		return nil, err
	}
	if u.pos != len(data) {
		return nil, ErrDataNotMatchType
	}
	return v, nil
}

func (u *Unpacker) anyValue() any {
	if u.err != nil {
		return nil
	}
	b, ok := u.peek()
	if !ok {
		return nil
	}

	switch {
	case b <= posFixintMax:
		u.pos++
		return int64(b)
	case b >= negFixintMin:
		u.pos++
		return int64(int8(b))
	case b >= fixmapLow && b <= fixmapHigh:
		return u.anyMap()
	case b >= fixarrayLow && b <= fixarrayHigh:
		return u.anyArray()
	case b >= fixstrLow && b <= fixstrHigh:
		return u.anyString()
	}

	switch b {
	case tagNil:
		u.pos++
		return nil
	case tagFalse:
		u.pos++
		return false
	case tagTrue:
		u.pos++
		return true
	case tagStr8, tagStr16, tagStr32:
		return u.anyString()
	case tagBin8, tagBin16, tagBin32:
		raw, ok := u.unpackRaw()
		if !ok {
			return nil
		}
		return append([]byte(nil), raw...)
	case tagFloat32, tagFloat64:
		f, _ := u.unpackFloat()
		return f
	case tagUint8, tagUint16, tagUint32, tagUint64:
		n, _ := u.unpackInt(8)
		return n
	case tagInt8, tagInt16, tagInt32, tagInt64:
		n, _ := u.unpackInt(8)
		return int64(n)
	case tagArray16, tagArray32:
		return u.anyArray()
	case tagMap16, tagMap32:
		return u.anyMap()
	default:
		// ext and fixext families are outside the supported subset.
		u.err = ErrDataNotMatchType
		return nil
	}
}

func (u *Unpacker) anyString() any {
	raw, ok := u.unpackRaw()
	if !ok {
		return nil
	}
	return string(raw)
}

func (u *Unpacker) anyArray() any {
	count, ok := u.unpackContainerCount()
	if !ok {
		return nil
	}
	out := make([]any, 0, count)
	for i := 0; i < count; i++ {
		v := u.anyValue()
		if u.err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

func (u *Unpacker) anyMap() any {
	count, ok := u.unpackContainerCount()
	if !ok {
		return nil
	}
	out := make(map[string]any, count)
	for i := 0; i < count; i++ {
		key := u.anyValue()
		val := u.anyValue()
		if u.err != nil {
			return nil
		}
		out[mapKeyString(key)] = val
	}
	return out
}

func mapKeyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	default:
		return fmt.Sprint(k)
	}
}

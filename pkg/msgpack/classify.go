package msgpack

import (
	"reflect"
	"time"
)

// kind is the semantic classification of a value's type. Every type that
// reaches the Packer or Unpacker maps to exactly one kind; the kind selects
// the encode/decode strategy.
type kind int

const (
	kindInvalid kind = iota
	kindBool
	kindInt
	kindUint
	kindFloat
	kindString
	kindBinary
	kindArray
	kindMap
	kindTime
	kindAggregate
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	packableType = reflect.TypeOf((*Packable)(nil)).Elem()
)

// classifyType resolves the encoding strategy for a type. Concrete scalar
// and container kinds win over the aggregate fallback, so a named type with
// a Pack method still encodes as its underlying scalar or container.
func classifyType(t reflect.Type) kind {
	if t == timeType {
		return kindTime
	}
	switch t.Kind() {
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindUint
	case reflect.Float32, reflect.Float64:
		return kindFloat
	case reflect.String:
		return kindString
	case reflect.Slice:
		// Raw byte sequences use the bin family; every other slice is an
		// ordered container.
		if t.Elem().Kind() == reflect.Uint8 {
			return kindBinary
		}
		return kindArray
	case reflect.Array:
		return kindArray
	case reflect.Map:
		return kindMap
	default:
		if t.Implements(packableType) || reflect.PointerTo(t).Implements(packableType) {
			return kindAggregate
		}
		return kindInvalid
	}
}

package msgpack

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func packOne(t *testing.T, v any) []byte {
	t.Helper()
	p := NewPacker()
	p.Process(v)
	if err := p.Err(); err != nil {
		t.Fatalf("Process(%v) failed: %v", v, err)
	}
	return p.Bytes()
}

func TestPackerNil(t *testing.T) {
	if got := packOne(t, nil); !bytes.Equal(got, []byte{0xc0}) {
		t.Errorf("packing nil = % x, want c0", got)
	}
}

func TestPackerBool(t *testing.T) {
	if got := packOne(t, false); !bytes.Equal(got, []byte{0xc2}) {
		t.Errorf("packing false = % x, want c2", got)
	}
	if got := packOne(t, true); !bytes.Equal(got, []byte{0xc3}) {
		t.Errorf("packing true = % x, want c3", got)
	}
}

func TestPackerFixintBoundaries(t *testing.T) {
	testCases := []struct {
		name string
		v    any
		want []byte
	}{
		{"zero", uint8(0), []byte{0x00}},
		{"small positive", uint8(5), []byte{0x05}},
		{"fixint max", uint8(127), []byte{0x7f}},
		{"first tagged uint", uint8(128), []byte{0xcc, 0x80}},
		{"negative fixint min", int8(-32), []byte{0xe0}},
		{"negative fixint max", int8(-1), []byte{0xff}},
		{"first tagged int", int8(-33), []byte{0xd0, 0xdf}},
		{"int16 uses two bytes", int16(-100), []byte{0xd1, 0xff, 0x9c}},
		{"uint16", uint16(0x1234), []byte{0xcd, 0x12, 0x34}},
		{"uint32", uint32(0x12345678), []byte{0xce, 0x12, 0x34, 0x56, 0x78}},
		{"uint64", uint64(0x0102030405060708), []byte{0xcf, 1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := packOne(t, tc.v); !bytes.Equal(got, tc.want) {
				t.Errorf("packing %v = % x, want % x", tc.v, got, tc.want)
			}
		})
	}
}

func TestPackerString(t *testing.T) {
	got := packOne(t, "test")
	want := []byte{0xa0 | 4, 't', 'e', 's', 't'}
	if !bytes.Equal(got, want) {
		t.Errorf("packing \"test\" = % x, want % x", got, want)
	}
}

func TestPackerStringBoundaries(t *testing.T) {
	s31 := strings.Repeat("a", 31)
	got := packOne(t, s31)
	if got[0] != 0xa0|31 {
		t.Errorf("31-byte string tag = %#x, want %#x", got[0], 0xa0|31)
	}
	if len(got) != 32 {
		t.Errorf("31-byte string encoded length = %d, want 32", len(got))
	}

	s32 := strings.Repeat("a", 32)
	got = packOne(t, s32)
	if got[0] != tagStr8 || got[1] != 32 {
		t.Errorf("32-byte string header = % x, want d9 20", got[:2])
	}
}

func TestPackerBinary(t *testing.T) {
	got := packOne(t, []byte{1, 2, 3, 4})
	want := []byte{0xc4, 4, 1, 2, 3, 4}
	if !bytes.Equal(got, want) {
		t.Errorf("packing binary = % x, want % x", got, want)
	}
}

func TestPackerStringArray(t *testing.T) {
	got := packOne(t, []string{"one", "two", "three"})
	want := []byte{
		0x90 | 3,
		0xa0 | 3, 'o', 'n', 'e',
		0xa0 | 3, 't', 'w', 'o',
		0xa0 | 5, 't', 'h', 'r', 'e', 'e',
	}
	if !bytes.Equal(got, want) {
		t.Errorf("packing array = % x, want % x", got, want)
	}
}

func TestPackerFixedArray(t *testing.T) {
	got := packOne(t, [3]string{"one", "two", "three"})
	if got[0] != 0x90|3 {
		t.Errorf("fixed array header = %#x, want %#x", got[0], 0x90|3)
	}
}

func TestPackerContainerBoundaries(t *testing.T) {
	arr15 := make([]uint16, 15)
	got := packOne(t, arr15)
	if got[0] != 0x9f {
		t.Errorf("15-element array header = %#x, want 0x9f", got[0])
	}

	arr16 := make([]uint16, 16)
	got = packOne(t, arr16)
	if got[0] != tagArray16 || got[1] != 0x00 || got[2] != 0x10 {
		t.Errorf("16-element array header = % x, want dc 00 10", got[:3])
	}
}

func TestPackerMap(t *testing.T) {
	got := packOne(t, map[uint8]string{0: "zero", 1: "one"})
	want := []byte{
		0x80 | 2,
		0x00, 0xa0 | 4, 'z', 'e', 'r', 'o',
		0x01, 0xa0 | 3, 'o', 'n', 'e',
	}
	if !bytes.Equal(got, want) {
		t.Errorf("packing map = % x, want % x", got, want)
	}
}

func TestPackerFloats(t *testing.T) {
	got := packOne(t, 1.5)
	want := []byte{0xcb, 0x3f, 0xf8, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("packing 1.5 = % x, want % x", got, want)
	}

	got = packOne(t, float32(2.5))
	want = []byte{0xca, 0x40, 0x20, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("packing float32 2.5 = % x, want % x", got, want)
	}

	// Fractionless floats take the integer shortcut.
	got = packOne(t, float64(5))
	if !bytes.Equal(got, []byte{0x05}) {
		t.Errorf("packing 5.0 = % x, want 05", got)
	}

	got = packOne(t, math.Pi)
	wantBits := math.Float64bits(math.Pi)
	if got[0] != tagFloat64 {
		t.Fatalf("packing pi tag = %#x, want %#x", got[0], tagFloat64)
	}
	var gotBits uint64
	for _, b := range got[1:] {
		gotBits = gotBits<<8 | uint64(b)
	}
	if gotBits != wantBits {
		t.Errorf("pi bit pattern = %#x, want %#x", gotBits, wantBits)
	}
}

func TestPackerNonFiniteFloats(t *testing.T) {
	testCases := []struct {
		name string
		v    any
		want []byte
	}{
		{"+inf float64", math.Inf(1), []byte{0xcb, 0x7f, 0xf0, 0, 0, 0, 0, 0, 0}},
		{"-inf float64", math.Inf(-1), []byte{0xcb, 0xff, 0xf0, 0, 0, 0, 0, 0, 0}},
		{"nan float64", math.NaN(), []byte{0xcb, 0x7f, 0xf8, 0, 0, 0, 0, 0, 0}},
		{"+inf float32", float32(math.Inf(1)), []byte{0xca, 0x7f, 0x80, 0, 0}},
		{"nan float32", float32(math.NaN()), []byte{0xca, 0x7f, 0xc0, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := packOne(t, tc.v)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("packed bits = % x, want % x", got, tc.want)
			}
		})
	}
}

func TestPackerSubnormalFloats(t *testing.T) {
	got := packOne(t, math.SmallestNonzeroFloat64)
	want := []byte{0xcb, 0, 0, 0, 0, 0, 0, 0, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("packing 2^-1074 = % x, want % x", got, want)
	}

	got = packOne(t, float32(math.SmallestNonzeroFloat32))
	want = []byte{0xca, 0, 0, 0, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("packing 2^-149 = % x, want % x", got, want)
	}
}

func TestPackerClearResetsState(t *testing.T) {
	p := NewPacker()
	p.Process(struct{ X int }{1}) // unsupported, sets the error
	if p.Err() == nil {
		t.Fatal("expected error for unclassifiable type")
	}

	p.Clear()
	if p.Err() != nil {
		t.Errorf("Clear did not reset error: %v", p.Err())
	}
	p.Process(true)
	if !bytes.Equal(p.Bytes(), []byte{0xc3}) {
		t.Errorf("buffer after reuse = % x, want c3", p.Bytes())
	}
}

func TestPackerStickyError(t *testing.T) {
	p := NewPacker()
	p.Process(uint8(1))
	p.Process(struct{ X int }{1})
	before := len(p.Bytes())

	p.Process(uint8(2), "more")
	if len(p.Bytes()) != before {
		t.Errorf("packer appended %d bytes after sticky error", len(p.Bytes())-before)
	}
	if p.Err() != ErrUnsupportedType {
		t.Errorf("sticky error = %v, want ErrUnsupportedType", p.Err())
	}
}

func TestPackerArgumentOrder(t *testing.T) {
	p := NewPacker()
	p.Process(uint8(1), "a", true)
	want := []byte{0x01, 0xa0 | 1, 'a', 0xc3}
	if !bytes.Equal(p.Bytes(), want) {
		t.Errorf("multi-value buffer = % x, want % x", p.Bytes(), want)
	}
}

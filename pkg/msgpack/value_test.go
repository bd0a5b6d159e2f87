package msgpack

import (
	"bytes"
	"testing"
)

func TestUnpackValueScalars(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want any
	}{
		{"nil", []byte{0xc0}, nil},
		{"false", []byte{0xc2}, false},
		{"true", []byte{0xc3}, true},
		{"positive fixint", []byte{0x05}, int64(5)},
		{"negative fixint", []byte{0xe0}, int64(-32)},
		{"uint16", []byte{0xcd, 0x12, 0x34}, uint64(0x1234)},
		{"int16", []byte{0xd1, 0xff, 0x9c}, int64(-100)},
		{"fixstr", []byte{0xa4, 't', 'e', 's', 't'}, "test"},
		{"float64", []byte{0xcb, 0x3f, 0xf8, 0, 0, 0, 0, 0, 0}, 1.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := UnpackValue(tc.data)
			if err != nil {
				t.Fatalf("UnpackValue failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("UnpackValue = %v (%T), want %v (%T)", got, got, tc.want, tc.want)
			}
		})
	}
}

func TestUnpackValueBinary(t *testing.T) {
	got, err := UnpackValue([]byte{0xc4, 3, 1, 2, 3})
	if err != nil {
		t.Fatalf("UnpackValue failed: %v", err)
	}
	b, ok := got.([]byte)
	if !ok || !bytes.Equal(b, []byte{1, 2, 3}) {
		t.Errorf("UnpackValue = %v", got)
	}
}

func TestUnpackValueContainers(t *testing.T) {
	data := packOne(t, map[string]bool{"compact": true, "schema": false})
	got, err := UnpackValue(data)
	if err != nil {
		t.Fatalf("UnpackValue failed: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("UnpackValue returned %T, want map", got)
	}
	if m["compact"] != true || m["schema"] != false {
		t.Errorf("decoded map = %v", m)
	}

	data = packOne(t, []string{"a", "b"})
	got, err = UnpackValue(data)
	if err != nil {
		t.Fatalf("UnpackValue failed: %v", err)
	}
	arr, ok := got.([]any)
	if !ok || len(arr) != 2 || arr[0] != "a" || arr[1] != "b" {
		t.Errorf("decoded array = %v", got)
	}
}

func TestUnpackValueIntegerKeys(t *testing.T) {
	data := packOne(t, map[uint8]string{0: "zero", 1: "one"})
	got, err := UnpackValue(data)
	if err != nil {
		t.Fatalf("UnpackValue failed: %v", err)
	}
	m := got.(map[string]any)
	if m["0"] != "zero" || m["1"] != "one" {
		t.Errorf("decoded map = %v", m)
	}
}

func TestUnpackValueRejectsExt(t *testing.T) {
	if _, err := UnpackValue([]byte{0xd4, 0x01, 0x00}); err != ErrDataNotMatchType {
		t.Errorf("error = %v, want ErrDataNotMatchType", err)
	}
}

func TestUnpackValueTruncated(t *testing.T) {
	if _, err := UnpackValue([]byte{0xa5, 'a', 'b'}); err != ErrOutOfRange {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

func TestUnpackValueOversizedContainerCount(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"array32 claiming 2^31 elements", []byte{0xdd, 0x80, 0x00, 0x00, 0x00}},
		{"map32 claiming 2^31 entries", []byte{0xdf, 0x80, 0x00, 0x00, 0x00}},
		{"array16 beyond remaining input", []byte{0xdc, 0xff, 0xff, 0x01}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := UnpackValue(tc.data); err != ErrOutOfRange {
				t.Errorf("error = %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestUnpackValueRejectsTrailingBytes(t *testing.T) {
	if _, err := UnpackValue([]byte{0x01, 0x02}); err != ErrDataNotMatchType {
		t.Errorf("error = %v, want ErrDataNotMatchType", err)
	}
}

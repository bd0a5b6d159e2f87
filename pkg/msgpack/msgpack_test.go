package msgpack

import (
	"bytes"
	"testing"
)

type nestedObject struct {
	NestedValue string
}

func (o *nestedObject) Pack(c Codec) {
	c.Process(&o.NestedValue)
}

type baseObject struct {
	FirstMember  int32
	SecondMember nestedObject
}

func (o *baseObject) Pack(c Codec) {
	c.Process(&o.FirstMember, &o.SecondMember)
}

type mapExample struct {
	Map map[string]bool
}

func (e *mapExample) Pack(c Codec) {
	c.Process(&e.Map)
}

func TestAggregateRoundTrip(t *testing.T) {
	obj := baseObject{
		FirstMember:  12345,
		SecondMember: nestedObject{NestedValue: "NestedObject"},
	}

	data, err := Pack(&obj)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	got, err := Unpack[baseObject](data)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if got.FirstMember != obj.FirstMember {
		t.Errorf("FirstMember = %d, want %d", got.FirstMember, obj.FirstMember)
	}
	if got.SecondMember.NestedValue != obj.SecondMember.NestedValue {
		t.Errorf("NestedValue = %q, want %q", got.SecondMember.NestedValue, obj.SecondMember.NestedValue)
	}
}

func TestNestedAggregateEnvelope(t *testing.T) {
	// A nested aggregate is embedded as a length-prefixed binary payload:
	// one envelope per nesting level.
	obj := baseObject{
		FirstMember:  12345,
		SecondMember: nestedObject{NestedValue: "NestedObject"},
	}
	data, err := Pack(&obj)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	// FirstMember 12345 fits two bytes: int16 tag + big-endian payload.
	if data[0] != tagInt16 || data[1] != 0x30 || data[2] != 0x39 {
		t.Fatalf("first member encoding = % x, want d1 30 39", data[:3])
	}
	// Envelope: bin8 tag, 13-byte payload holding fixstr "NestedObject".
	if data[3] != tagBin8 || data[4] != 13 {
		t.Fatalf("envelope header = % x, want c4 0d", data[3:5])
	}
	if data[5] != 0xa0|12 || string(data[6:18]) != "NestedObject" {
		t.Errorf("envelope payload = % x", data[5:])
	}
	if len(data) != 18 {
		t.Errorf("total length = %d, want 18", len(data))
	}
}

func TestWebsiteExample(t *testing.T) {
	example := mapExample{Map: map[string]bool{"compact": true, "schema": false}}

	data, err := Pack(&example)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	want := []byte{
		0x82,
		0xa7, 'c', 'o', 'm', 'p', 'a', 'c', 't', 0xc3,
		0xa6, 's', 'c', 'h', 'e', 'm', 'a', 0xc2,
	}
	if !bytes.Equal(data, want) {
		t.Errorf("encoded example = % x, want % x", data, want)
	}

	got, err := Unpack[mapExample](data)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if len(got.Map) != 2 || !got.Map["compact"] || got.Map["schema"] {
		t.Errorf("decoded map = %v", got.Map)
	}
}

func TestUnpackTruncatedAggregate(t *testing.T) {
	data := []byte{0x82, 0xa7, 'c', 'o', 'm', 'p', 'a', 'c', 't', 0xc3, 0xa6, 's', 'c'}

	got, err := Unpack[mapExample](data)
	if err != ErrOutOfRange {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
	if len(got.Map) == 2 {
		t.Error("truncated input produced a complete map")
	}
}

func TestPackReturnsPartialBufferOnError(t *testing.T) {
	// The buffer keeps everything written before the failure point.
	p := NewPacker()
	p.Process(uint8(9))
	p.Process(struct{ X int }{})
	if p.Err() == nil {
		t.Fatal("expected error")
	}
	if !bytes.Equal(p.Bytes(), []byte{0x09}) {
		t.Errorf("partial buffer = % x, want 09", p.Bytes())
	}
}

type listHolder struct {
	Items []nestedObject
}

func (h *listHolder) Pack(c Codec) {
	c.Process(&h.Items)
}

func TestAggregateSliceRoundTrip(t *testing.T) {
	h := listHolder{Items: []nestedObject{{"a"}, {"b"}, {"c"}}}

	data, err := Pack(&h)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	got, err := Unpack[listHolder](data)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("decoded %d items, want 3", len(got.Items))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got.Items[i].NestedValue != want {
			t.Errorf("item %d = %q, want %q", i, got.Items[i].NestedValue, want)
		}
	}
}

package tagvalue

import (
	"testing"

	"github.com/cocosip/gpr-codec/gpr/bitstream"
)

func TestScalarRoundTrip(t *testing.T) {
	w := bitstream.NewWriter()
	PutScalar(w, ImageWidth, 1920)
	w.AlignSegment()

	r := bitstream.NewReader(w.Bytes())
	seg := GetSegment(r)
	if seg.Tag != ImageWidth {
		t.Fatalf("tag: got %v, want ImageWidth", seg.Tag)
	}
	if seg.Optional {
		t.Fatal("expected required occurrence")
	}
	if seg.Value != 1920 {
		t.Fatalf("value: got %d, want 1920", seg.Value)
	}
}

func TestOptionalScalarIsNegativeOnWire(t *testing.T) {
	d, ok := Lookup(InverseTransform)
	if !ok {
		t.Fatal("InverseTransform not in catalog")
	}
	if d.WireTag() >= 0 {
		t.Fatalf("expected negative wire tag for optional descriptor, got %d", d.WireTag())
	}
}

func TestLargeChunkRoundTrip(t *testing.T) {
	w := bitstream.NewWriter()
	c := PushChunk(w, LargeCodeblock)
	for i := 0; i < 5; i++ {
		w.PutLong(uint32(i))
	}
	c.Close()

	r := bitstream.NewReader(w.Bytes())
	seg := GetSegment(r)
	if seg.Tag != LargeCodeblock {
		t.Fatalf("tag: got %v, want LargeCodeblock", seg.Tag)
	}
	if !seg.Large {
		t.Fatal("expected large flag set")
	}
	if int(seg.Value) != 5 {
		t.Fatalf("value: got %d, want 5", seg.Value)
	}
	for i := 0; i < 5; i++ {
		if got := r.GetLong(); got != uint32(i) {
			t.Fatalf("payload word %d: got %d, want %d", i, got, i)
		}
	}
}

func TestSkipConsumesUnknownOptionalPayload(t *testing.T) {
	w := bitstream.NewWriter()
	PutScalar(w, ChannelCount, 4)
	// Simulate an unrecognized optional chunk with a 3-segment payload
	// (scenario S5): hand-write a negative, non-catalog tag.
	w.PutLong(uint32(uint16(int16(-999)))<<16 | 3)
	for i := 0; i < 3; i++ {
		w.PutLong(0xDEADBEEF)
	}
	PutScalar(w, ImageWidth, 8)
	w.AlignSegment()

	r := bitstream.NewReader(w.Bytes())
	first := GetSegment(r)
	if first.Tag != ChannelCount {
		t.Fatalf("first tag: got %v, want ChannelCount", first.Tag)
	}

	unknown := GetSegment(r)
	if !unknown.Optional {
		t.Fatal("expected unrecognized tag to be optional")
	}
	if _, ok := Lookup(unknown.Tag); ok {
		t.Fatal("expected tag -999 to be absent from the catalog")
	}
	Skip(r, int(unknown.Value))

	next := GetSegment(r)
	if next.Tag != ImageWidth || next.Value != 8 {
		t.Fatalf("expected to resume at ImageWidth=8, got %v=%d", next.Tag, next.Value)
	}
}

package tagvalue

import (
	"github.com/cocosip/gpr-codec/gpr/bitstream"
	"github.com/cocosip/gpr-codec/gpr/gprerr"
)

// PutScalar writes a required or optional scalar tag-value segment.
func PutScalar(w *bitstream.Writer, t Tag, value uint16) {
	d, ok := Lookup(t)
	if !ok {
		panic("tagvalue: unknown tag in PutScalar")
	}
	w.PutLong(uint32(uint16(d.WireTag()))<<16 | uint32(value))
}

// PushChunk opens a small-or-large chunk tag and returns the guard that
// must be closed once its payload has been written (§4.3, §9 "Size-back-
// patch stack").
func PushChunk(w *bitstream.Writer, t Tag) *bitstream.Chunk {
	d, ok := Lookup(t)
	if !ok {
		panic("tagvalue: unknown tag in PushChunk")
	}
	return w.PushSize(d.WireTag(), d.LargeTag())
}

// Segment is one decoded tag-value occurrence.
type Segment struct {
	Tag      Tag
	Optional bool
	Large    bool
	Value    uint16
}

// GetSegment reads the next raw tag-value segment.
func GetSegment(r *bitstream.Reader) Segment {
	word := r.GetLong()
	wireTag := int16(uint16(word >> 16))
	value := uint16(word)
	tag, optional, large := ParseWireTag(wireTag)
	return Segment{Tag: tag, Optional: optional, Large: large, Value: value}
}

// Skip consumes the value 32-bit segments of an unrecognized optional
// chunk's payload (§4.3: "the decoder must accept and skip any optional
// tag it does not recognize, by consuming value segments").
func Skip(r *bitstream.Reader, segments int) {
	for i := 0; i < segments; i++ {
		r.GetLong()
	}
}

// Require fails with BadSegment if seg's tag is not the expected one, or
// if a required tag arrived marked optional on the wire.
func Require(seg Segment, want Tag) error {
	if seg.Tag != want {
		return gprerr.New(gprerr.KindBadSegment)
	}
	d, ok := Lookup(seg.Tag)
	if !ok || (d.Required && seg.Optional) {
		return gprerr.New(gprerr.KindBadSegment)
	}
	return nil
}

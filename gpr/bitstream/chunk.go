package bitstream

// Chunk is a scoped size-back-patch guard (§9 "Size-back-patch stack"):
// PushSize records the current byte offset and writes a zero placeholder
// word; Close computes the number of 32-bit segments
// written since the push and overwrites the placeholder with the
// corrected (tag, length) pair. Go has no RAII, so Close must be called
// explicitly — callers are expected to pair every PushSize with exactly
// one Close, the same non-deferred discipline go-dicom-codec's
// jpeg2000/codestream/parser.go uses when it closes marker segments it
// has just opened.
type Chunk struct {
	w          *Writer
	offset     int // byte offset of the placeholder word
	tag        int16
	largeTag   int16 // tag value used when promoting to a large chunk
	isLarge    bool
	segmentLen int // filled in by Close
}

// PushSize records the current (aligned) byte offset and writes a
// placeholder 32-bit word for the chunk's tag-value pair. tag must already
// carry any LARGE_CHUNK bit the caller wants reserved; largeTag is the
// value substituted in if the payload turns out to need the 24-bit large
// form (ignored otherwise — pass the same value as tag if the chunk is
// never large).
func (w *Writer) PushSize(tag, largeTag int16) *Chunk {
	c := &Chunk{w: w, offset: w.ByteOffset(), tag: tag, largeTag: largeTag}
	w.PutLong(0) // placeholder, corrected by Close
	return c
}

// Close computes the number of 32-bit segments written since the matching
// PushSize and back-patches the placeholder word with (tag, length). For a
// small chunk, length is a 16-bit segment count and must be <= 65535; if it
// overflows, Close promotes to the large-chunk encoding using largeTag:
// the low 8 bits of the tag carry the high byte of a 24-bit length, and the
// 16-bit value carries the low 16 bits.
func (c *Chunk) Close() {
	end := c.w.ByteOffset()
	segments := (end - c.offset - 4) / 4
	c.segmentLen = segments

	var word uint32
	if segments <= 0xFFFF {
		word = uint32(uint16(c.tag))<<16 | uint32(uint16(segments))
	} else {
		c.isLarge = true
		hi := byte((segments >> 16) & 0xFF)
		lo := uint16(segments & 0xFFFF)
		tag := (uint16(c.largeTag) & 0xFF00) | uint16(hi)
		word = uint32(tag)<<16 | uint32(lo)
	}
	if err := c.w.overwriteAt(c.offset, word); err != nil {
		c.w.fail(err)
	}
}

// SegmentLen returns the number of 32-bit segments the chunk's payload
// occupied, valid only after Close.
func (c *Chunk) SegmentLen() int {
	return c.segmentLen
}

// IsLarge reports whether Close promoted the chunk to the large-chunk
// encoding.
func (c *Chunk) IsLarge() bool {
	return c.isLarge
}

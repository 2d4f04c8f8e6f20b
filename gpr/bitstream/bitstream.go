// Package bitstream implements the VC-5 bit-level reader/writer (§4.1,
// component C1): an accumulator-backed bit stream whose segments are
// always 32 bits, aligned to 4-byte boundaries.
//
// Bit accumulation itself is delegated to github.com/icza/bitio, the same
// way mewkiz/flac and ausocean/av lean on bitio for sample- and
// frame-level bit I/O; the GPR-specific pieces layered on top are the
// 32-bit segment alignment, the sticky error flag (§7), and the
// push/pop size stack (§9, see chunk.go).
package bitstream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/cocosip/gpr-codec/gpr/gprerr"
)

// wordWidth is the width in bits of the bitstream accumulator and of every
// tag-value segment.
const wordWidth = 32

// Writer accumulates bits MSB-first and flushes full 32-bit big-endian
// words to an underlying byte buffer.
type Writer struct {
	buf   *bytes.Buffer
	bio   *bitio.Writer
	bits  uint64 // total bits written, for segment-boundary bookkeeping
	err   error
	stack []int // byte offsets pushed by Chunk guards (see chunk.go)
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	buf := &bytes.Buffer{}
	return &Writer{buf: buf, bio: bitio.NewWriter(buf)}
}

// PutBits writes the low n bits of value, MSB-first, into the accumulator.
func (w *Writer) PutBits(value uint32, n int) {
	if w.err != nil || n <= 0 {
		return
	}
	if err := w.bio.WriteBits(uint64(value), uint8(n)); err != nil {
		w.fail(err)
		return
	}
	w.bits += uint64(n)
}

// PutLong writes a full 32-bit word.
func (w *Writer) PutLong(v uint32) {
	w.PutBits(v, wordWidth)
}

// AlignByte pads with zero bits to the next 8-bit boundary.
func (w *Writer) AlignByte() {
	if pad := int(w.bits % 8); pad != 0 {
		w.PutBits(0, 8-pad)
	}
}

// AlignWord pads with zero bits to the next 32-bit boundary.
func (w *Writer) AlignWord() {
	if pad := int(w.bits % wordWidth); pad != 0 {
		w.PutBits(0, wordWidth-pad)
	}
}

// AlignSegment pads with zero bits so the next write starts at a 4-byte
// offset in the underlying byte stream. Segments are always word-sized in
// this format, so this is equivalent to AlignWord.
func (w *Writer) AlignSegment() {
	w.AlignWord()
}

// ByteOffset returns the current byte offset in the underlying stream.
// Only meaningful when the accumulator is aligned (bits % 8 == 0); callers
// that need mid-segment offsets must AlignSegment first.
func (w *Writer) ByteOffset() int {
	return w.buf.Len()
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = gprerr.Wrap(gprerr.KindBitstreamOverflow, err, "bitstream write")
	}
}

// Bytes returns the accumulated byte stream. AlignSegment should be called
// first if the caller expects a whole number of segments.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// overwriteAt patches 4 bytes at the given byte offset. Used by chunk
// pop-size back-patching; the offset must already be a flushed,
// byte-aligned position (i.e. not inside the in-flight accumulator).
func (w *Writer) overwriteAt(offset int, word uint32) error {
	b := w.buf.Bytes()
	if offset < 0 || offset+4 > len(b) {
		return errors.New("bitstream: back-patch offset out of range")
	}
	b[offset] = byte(word >> 24)
	b[offset+1] = byte(word >> 16)
	b[offset+2] = byte(word >> 8)
	b[offset+3] = byte(word)
	return nil
}

// Reader consumes bits MSB-first from a byte stream. Once the sticky error
// flag is set, every subsequent Get* call returns a zero value (§7:
// "bitstream layer sets a sticky error flag and all subsequent reads
// return zero").
type Reader struct {
	bio  *bitio.Reader
	bits uint64
	err  error
}

// NewReader wraps data for bit-level reading.
func NewReader(data []byte) *Reader {
	return &Reader{bio: bitio.NewReader(bytes.NewReader(data))}
}

// GetBits reads and returns the next n bits, MSB-first. Returns 0 once the
// reader has failed.
func (r *Reader) GetBits(n int) uint32 {
	if r.err != nil || n <= 0 {
		return 0
	}
	v, err := r.bio.ReadBits(uint8(n))
	if err != nil {
		r.fail(err)
		return 0
	}
	r.bits += uint64(n)
	return uint32(v)
}

// GetLong reads a full 32-bit word.
func (r *Reader) GetLong() uint32 {
	return r.GetBits(wordWidth)
}

// AlignByte consumes zero bits up to the next 8-bit boundary.
func (r *Reader) AlignByte() {
	if pad := int(r.bits % 8); pad != 0 {
		r.GetBits(8 - pad)
	}
}

// AlignWord consumes zero bits up to the next 32-bit boundary.
func (r *Reader) AlignWord() {
	if pad := int(r.bits % wordWidth); pad != 0 {
		r.GetBits(wordWidth - pad)
	}
}

// AlignSegment consumes zero bits up to the next 4-byte segment boundary.
func (r *Reader) AlignSegment() {
	r.AlignWord()
}

// Err returns the first error encountered, if any. A read past the end of
// the stream is reported as KindBitstreamUnderflow.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		if errors.Is(err, io.EOF) {
			r.err = gprerr.New(gprerr.KindBitstreamUnderflow)
		} else {
			r.err = gprerr.Wrap(gprerr.KindBitstreamUnderflow, err, "bitstream read")
		}
	}
}

// BytesConsumed reports how many whole bytes have been consumed so far.
func (r *Reader) BytesConsumed() int {
	return int(r.bits / 8)
}

// Package encoder implements the GPR encoder driver (§4.9, component C9):
// Bayer unpack, per-channel three-level forward transform with
// quantization, bitstream header emission, and per-subband LargeCodeblock
// emission. The four channels' transforms run concurrently via
// golang.org/x/sync/errgroup (§5: "may, but is not required to,
// parallelize across channels"); the bitstream itself is written
// single-threaded afterward, in channel order, to preserve byte-order.
package encoder

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cocosip/gpr-codec/gpr/alloc"
	"github.com/cocosip/gpr-codec/gpr/bayer"
	"github.com/cocosip/gpr-codec/gpr/bitstream"
	"github.com/cocosip/gpr-codec/gpr/codebook"
	"github.com/cocosip/gpr-codec/gpr/colorspace"
	"github.com/cocosip/gpr-codec/gpr/dwt"
	"github.com/cocosip/gpr-codec/gpr/quant"
	"github.com/cocosip/gpr-codec/gpr/state"
	"github.com/cocosip/gpr-codec/gpr/tagvalue"
	"github.com/cocosip/gpr-codec/gpr/wavelet"
)

// prescaleTable is §4.9's per-level prescale shift {0, 2, 2}.
var prescaleTable = [3]int{0, 2, 2}

// Params holds one encode call's inputs (§6 "Encoder call").
type Params struct {
	// Image is the packed Bayer buffer.
	Image []byte
	// ImageWidth, ImageHeight are the Bayer image's pixel dimensions.
	ImageWidth, ImageHeight int
	// Pitch is the packed buffer's bytes-per-row.
	Pitch int
	// Format names the packed layout (§4.6).
	Format bayer.Format
	// Preset selects the quantization table (§6, one of the six named
	// presets or a Custom table).
	Preset quant.Preset
	// Allocator is the injected memory allocator (§9). Nil uses
	// alloc.Default.
	Allocator alloc.Allocator
	// Logger receives one debug-level message per encoded channel (its
	// name and dimensions). Nil uses zap.NewNop().
	Logger *zap.Logger
	// Thumbnail requests a 1/16-resolution RGB side-output produced from
	// the deepest LL bands (§6).
	Thumbnail bool
	// ThumbnailGains applies a camera gain triple to the thumbnail's
	// color-matrix stage (§4.8); the zero value is treated as unity gain.
	ThumbnailGains colorspace.GainTriple
}

// Result is one encode call's output.
type Result struct {
	// Bitstream is the encoded VC-5 byte stream.
	Bitstream []byte
	// Thumbnail is an interleaved 8-bit RGB buffer at 1/16 resolution, or
	// nil if Params.Thumbnail was false.
	Thumbnail       []byte
	ThumbnailWidth  int
	ThumbnailHeight int
}

const channelCount = 4

// channelOrder fixes the on-wire channel numbering (§3: "four decorrelated
// channels GS, GD, RG, BG").
var channelOrder = [channelCount]string{"GS", "GD", "RG", "BG"}

// Encode runs the five-step encoder pipeline of §4.9.
func Encode(p Params) (*Result, error) {
	a := p.Allocator
	if a == nil {
		a = alloc.Default
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lut := bayer.NewLUT()
	planes, err := bayer.Unpack(lut, p.Format, p.Image, p.ImageWidth, p.ImageHeight, p.Pitch)
	if err != nil {
		return nil, err
	}

	channelRows := [channelCount][][]int16{
		rowsFromPlane(planes.GS, planes.Width, planes.Height),
		rowsFromPlane(planes.GD, planes.Width, planes.Height),
		rowsFromPlane(planes.RG, planes.Width, planes.Height),
		rowsFromPlane(planes.BG, planes.Width, planes.Height),
	}

	transforms := make([]*wavelet.Transform, channelCount)
	var eg errgroup.Group
	for idx := 0; idx < channelCount; idx++ {
		idx := idx
		eg.Go(func() error {
			transforms[idx] = forwardChannel(a, channelRows[idx], planes.Width, planes.Height, p.Preset)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	st := state.New()
	st.ChannelCount = channelCount
	st.ImageWidth = p.ImageWidth
	st.ImageHeight = p.ImageHeight
	st.SubbandCount = wavelet.SubbandCount
	st.ImageFormat = 0
	st.PatternWidth = 2
	st.PatternHeight = 2
	st.ComponentsPerSample = 1
	st.MaxBitsPerComponent = 16
	st.LowpassPrecision = 16
	for lvl, shift := range prescaleTable {
		st.SetPrescale(lvl, shift)
	}

	w := bitstream.NewWriter()
	w.PutLong(tagvalue.StartMarker)
	putHeader(w, st)

	codec := codebook.NewCodec()

	for idx := 0; idx < channelCount; idx++ {
		emitChannel(w, codec, st, idx, planes.Width, planes.Height, transforms[idx], logger)
	}

	if err := w.Err(); err != nil {
		return nil, err
	}

	result := &Result{Bitstream: w.Bytes()}

	if p.Thumbnail {
		gains := p.ThumbnailGains
		if gains == (colorspace.GainTriple{}) {
			gains = colorspace.UnityGains
		}
		deepest := transforms[0].Levels[2]
		gs := planeToInt32(transforms[0].Levels[2].Band(wavelet.LL))
		gd := planeToInt32(transforms[1].Levels[2].Band(wavelet.LL))
		rg := planeToInt32(transforms[2].Levels[2].Band(wavelet.LL))
		bg := planeToInt32(transforms[3].Levels[2].Band(wavelet.LL))
		r, g, b := colorspace.InverseComponents(gs, gd, rg, bg, gains, 0xFF)
		result.Thumbnail = colorspace.InterleaveRGB(r, g, b, 8)
		result.ThumbnailWidth = deepest.Width
		result.ThumbnailHeight = deepest.Height
	}

	return result, nil
}

func putHeader(w *bitstream.Writer, st *state.State) {
	tagvalue.PutScalar(w, tagvalue.ChannelCount, uint16(st.ChannelCount))
	tagvalue.PutScalar(w, tagvalue.ImageWidth, uint16(st.ImageWidth))
	tagvalue.PutScalar(w, tagvalue.ImageHeight, uint16(st.ImageHeight))
	tagvalue.PutScalar(w, tagvalue.SubbandCount, uint16(st.SubbandCount))
	tagvalue.PutScalar(w, tagvalue.ImageFormat, uint16(st.ImageFormat))
	tagvalue.PutScalar(w, tagvalue.PatternWidth, uint16(st.PatternWidth))
	tagvalue.PutScalar(w, tagvalue.PatternHeight, uint16(st.PatternHeight))
	tagvalue.PutScalar(w, tagvalue.ComponentsPerSample, uint16(st.ComponentsPerSample))
	tagvalue.PutScalar(w, tagvalue.MaxBitsPerComponent, uint16(st.MaxBitsPerComponent))
	tagvalue.PutScalar(w, tagvalue.PrescaleShift, uint16(st.PrescaleShift))
}

// subbandNumber maps a Transform level index and band to its §3 subband
// number: subband 0 is the deepest level's LL; 1..9 are the three
// highpass bands of levels 2, 1, 0 in that order.
func subbandNumber(level int, b wavelet.Band) int {
	if b == wavelet.LL {
		return 0
	}
	base := 7 - 3*level
	return base + int(b) - 1
}

func emitChannel(w *bitstream.Writer, codec *codebook.Codec, st *state.State, idx int, channelWidth, channelHeight int, tr *wavelet.Transform, logger *zap.Logger) {
	tagvalue.PutScalar(w, tagvalue.ChannelNumber, uint16(idx))
	tagvalue.PutScalar(w, tagvalue.ChannelWidth, uint16(channelWidth))
	tagvalue.PutScalar(w, tagvalue.ChannelHeight, uint16(channelHeight))
	tagvalue.PutScalar(w, tagvalue.BitsPerComponent, uint16(st.LowpassPrecision))
	tagvalue.PutScalar(w, tagvalue.LowpassPrecision, uint16(st.LowpassPrecision))

	emitSubband(w, codec, st, subbandNumber(2, wavelet.LL), tr.Levels[2].Quant[wavelet.LL], tr.Levels[2].Band(wavelet.LL), true)
	for lvl := 2; lvl >= 0; lvl-- {
		for _, b := range [3]wavelet.Band{wavelet.LH, wavelet.HL, wavelet.HH} {
			plane := tr.Levels[lvl].Band(b)
			emitSubband(w, codec, st, subbandNumber(lvl, b), tr.Levels[lvl].Quant[b], plane, false)
		}
	}

	logger.Debug("channel encoded", zap.String("channel", channelOrder[idx]), zap.Int("width", channelWidth), zap.Int("height", channelHeight))
}

func emitSubband(w *bitstream.Writer, codec *codebook.Codec, st *state.State, subband int, divisor uint16, plane *wavelet.Plane, lowpass bool) {
	chunk := tagvalue.PushChunk(w, tagvalue.LargeCodeblock)
	tagvalue.PutScalar(w, tagvalue.SubbandNumber, uint16(subband))
	tagvalue.PutScalar(w, tagvalue.Quantization, divisor)

	if lowpass {
		for y := 0; y < plane.Height(); y++ {
			for _, v := range plane.Row(y) {
				w.PutBits(uint32(uint16(v)), st.LowpassPrecision)
			}
		}
	} else {
		encodeHighpass(w, codec, plane)
	}

	w.AlignSegment()
	chunk.Close()
}

// encodeHighpass run-length+VLC encodes one highpass band (§4.2, §4.9):
// zero runs are packed greedily via the codebook's runs table, nonzero
// coefficients are written as a magnitude codeword plus sign bit, and the
// band terminates with the band-end marker.
func encodeHighpass(w *bitstream.Writer, codec *codebook.Codec, plane *wavelet.Plane) {
	zeroRun := 0
	flush := func() {
		for _, e := range codec.EncodeRun(zeroRun) {
			w.PutBits(e.Bits, e.Size)
		}
		zeroRun = 0
	}
	for y := 0; y < plane.Height(); y++ {
		for _, v := range plane.Row(y) {
			if v == 0 {
				zeroRun++
				continue
			}
			if zeroRun > 0 {
				flush()
			}
			entry, sign := codec.EncodeMagnitude(int(v))
			w.PutBits(entry.Bits, entry.Size)
			w.PutBits(sign, 1)
		}
	}
	if zeroRun > 0 {
		flush()
	}
	be := codec.BandEnd()
	w.PutBits(be.Bits, be.Size)
}

// forwardChannel runs the three-level forward transform over one channel
// plane, storing every level's four bands (§4.7, §3 "Transform").
func forwardChannel(a alloc.Allocator, rows [][]int16, width, height int, preset quant.Preset) *wavelet.Transform {
	tr := wavelet.NewTransform(a, width, height)
	tr.Prescale = prescaleTable

	srcRows, w, h := rows, width, height
	for lvl := 0; lvl < 3; lvl++ {
		srcRows, w, h = padEven(srcRows, w, h)
		q := quantizersForLevel(preset, lvl)
		ll, lh, hl, hh := dwt.ForwardLevel(srcRows, w, h, prescaleTable[lvl], q)

		level := tr.Levels[lvl]
		writeRows(level.Band(wavelet.LL), ll)
		writeRows(level.Band(wavelet.LH), lh)
		writeRows(level.Band(wavelet.HL), hl)
		writeRows(level.Band(wavelet.HH), hh)
		for b, qz := range q {
			level.Quant[b] = qz.Divisor()
		}

		srcRows, w, h = ll, len(ll[0]), len(ll)
	}
	return tr
}

// quantizersForLevel builds the four per-band quantizers for one pyramid
// level from the preset's divisor table (§6). The LL quantizer is always
// identity: only the deepest level's LL is itself entropy-coded (as
// subband 0, raw at LowpassPrecision bits, never through the reciprocal
// quantizer); every other level's LL is an intermediate value consumed by
// the next level's forward pass, not quantized on its own.
func quantizersForLevel(preset quant.Preset, level int) [4]quant.Quantizer {
	base := 7 - 3*level
	var q [4]quant.Quantizer
	q[wavelet.LL] = quant.New(1)
	q[wavelet.LH] = quant.New(preset[base+0])
	q[wavelet.HL] = quant.New(preset[base+1])
	q[wavelet.HH] = quant.New(preset[base+2])
	return q
}

func rowsFromPlane(flat []int16, width, height int) [][]int16 {
	rows := make([][]int16, height)
	for y := 0; y < height; y++ {
		rows[y] = flat[y*width : (y+1)*width]
	}
	return rows
}

// padEven duplicates the last row/column when a dimension is odd, per
// §3's "stored after rounding up to even" convention the child-band
// sizing already follows (gpr/wavelet.ChildDimension).
func padEven(rows [][]int16, width, height int) ([][]int16, int, int) {
	w, h := width, height
	out := rows
	if w%2 != 0 {
		padded := make([][]int16, len(out))
		for i, row := range out {
			r := make([]int16, w+1)
			copy(r, row)
			r[w] = row[w-1]
			padded[i] = r
		}
		out = padded
		w++
	}
	if h%2 != 0 {
		out = append(out, out[h-1])
		h++
	}
	return out, w, h
}

func writeRows(plane *wavelet.Plane, rows [][]int16) {
	for y, row := range rows {
		plane.SetRow(y, row)
	}
}

func planeToInt32(plane *wavelet.Plane) []int32 {
	out := make([]int32, plane.Width()*plane.Height())
	i := 0
	for y := 0; y < plane.Height(); y++ {
		for _, v := range plane.Row(y) {
			out[i] = int32(v)
			i++
		}
	}
	return out
}

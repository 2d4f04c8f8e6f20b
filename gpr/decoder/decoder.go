// Package decoder implements the GPR decoder driver (§4.10, component
// C10): fixed-order header and per-channel tag parsing, per-subband
// run-length+VLC decode, the pipelined level-inversion cascade that lets
// a caller stop at any of the five resolution tiers, and the final
// color-matrix or Bayer-repack assembly of the decoded channels.
package decoder

import (
	"go.uber.org/zap"

	"github.com/cocosip/gpr-codec/gpr/alloc"
	"github.com/cocosip/gpr-codec/gpr/bayer"
	"github.com/cocosip/gpr-codec/gpr/bitstream"
	"github.com/cocosip/gpr-codec/gpr/codebook"
	"github.com/cocosip/gpr-codec/gpr/colorspace"
	"github.com/cocosip/gpr-codec/gpr/dwt"
	"github.com/cocosip/gpr-codec/gpr/gprerr"
	"github.com/cocosip/gpr-codec/gpr/quant"
	"github.com/cocosip/gpr-codec/gpr/state"
	"github.com/cocosip/gpr-codec/gpr/tagvalue"
	"github.com/cocosip/gpr-codec/gpr/wavelet"
)

// Resolution names one of the five resolution-scalable decode tiers §4.10
// lists, from full channel-resolution output down to a direct read of
// the deepest LL band's raw samples.
type Resolution int

const (
	Full Resolution = iota
	Half
	Quarter
	Eighth
	Sixteenth
)

// subbandsNeeded is the literal per-resolution subband count from §4.10's
// table: decodeChannel fully parses this many of the 10 per-channel
// subbands and merely skips the chunk payload bytes of the rest (see
// skipSubband), which is what makes decoding genuinely resolution-scalable
// — no VLC work happens for subbands the caller didn't ask for.
var subbandsNeeded = map[Resolution]int{
	Full: 10, Half: 10, Quarter: 7, Eighth: 4, Sixteenth: 1,
}

// Want is a bitmask of which outputs a Request asks for.
type Want int

const (
	WantRaw Want = 1 << iota
	WantRGB
)

// Request configures one decode call's output (§6 "Decoder call").
type Request struct {
	Resolution Resolution
	Want       Want
	// OutputFormat names the packed Bayer layout WantRaw repacks into.
	// Only consulted at Resolution == Full, the only tier with a full
	// Bayer plane to repack (§4.10).
	OutputFormat bayer.Format
	// RGBBitDepth is 8 or 16; zero defaults to 8.
	RGBBitDepth int
	// Gains applies a camera gain triple in the RGB color-matrix stage.
	// The zero value is treated as unity gain.
	Gains colorspace.GainTriple
}

// Result is one decode call's output.
type Result struct {
	Raw                 []byte
	RawWidth, RawHeight int
	RawPitch            int
	RGB                 []byte
	RGBWidth, RGBHeight int
}

const channelCount = 4

// Decode parses a GPR bitstream and reconstructs it to the requested
// resolution and output set.
func Decode(data []byte, allocator alloc.Allocator, req Request, logger *zap.Logger) (*Result, error) {
	a := allocator
	if a == nil {
		a = alloc.Default
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if req.RGBBitDepth == 0 {
		req.RGBBitDepth = 8
	}
	need, ok := subbandsNeeded[req.Resolution]
	if !ok {
		return nil, gprerr.New(gprerr.KindUnsupportedResolution)
	}

	r := bitstream.NewReader(data)
	if r.GetLong() != tagvalue.StartMarker {
		return nil, gprerr.New(gprerr.KindMissingStartMarker)
	}

	st := state.New()
	if err := readHeader(r, st); err != nil {
		return nil, err
	}
	if err := st.ValidateImageFormat(); err != nil {
		return nil, err
	}
	if err := st.ValidateLowpassPrecision(); err != nil {
		return nil, err
	}

	codec := codebook.NewCodec()

	channelWidth := st.ImageWidth / 2
	channelHeight := st.ImageHeight / 2

	rows := make([][][]int16, channelCount) // [channel][tier] captured rows
	for idx := 0; idx < channelCount; idx++ {
		chRows, err := decodeChannel(r, codec, st, a, channelWidth, channelHeight, need, logger)
		if err != nil {
			return nil, err
		}
		rows[idx] = chRows
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	tier := tierForResolution(req.Resolution)
	planes := &bayer.Planes{
		Width: len(rows[0][tier][0]), Height: len(rows[0][tier]),
		GS: flatten(rows[0][tier]), GD: flatten(rows[1][tier]),
		RG: flatten(rows[2][tier]), BG: flatten(rows[3][tier]),
	}

	result := &Result{}

	if req.Want&WantRaw != 0 {
		if req.Resolution != Full {
			return nil, gprerr.New(gprerr.KindUnsupportedResolution)
		}
		lut := bayer.NewLUT()
		depth, err := req.OutputFormat.BitDepth()
		if err != nil {
			return nil, err
		}
		pitch := pitchFor(st.ImageWidth, depth, req.OutputFormat)
		raw, err := bayer.Pack(lut, req.OutputFormat, planes, st.ImageWidth, st.ImageHeight, pitch)
		if err != nil {
			return nil, err
		}
		result.Raw = raw
		result.RawWidth = st.ImageWidth
		result.RawHeight = st.ImageHeight
		result.RawPitch = pitch
	}

	if req.Want&WantRGB != 0 {
		gains := req.Gains
		if gains == (colorspace.GainTriple{}) {
			gains = colorspace.UnityGains
		}
		maxValue := int32(1<<12 - 1)
		gs := toInt32(planes.GS)
		gd := toInt32(planes.GD)
		rg := toInt32(planes.RG)
		bg := toInt32(planes.BG)
		rr, gg, bb := colorspace.InverseComponents(gs, gd, rg, bg, gains, maxValue)
		result.RGB = colorspace.InterleaveRGB(rr, gg, bb, req.RGBBitDepth)
		result.RGBWidth = planes.Width
		result.RGBHeight = planes.Height
	}

	logger.Debug("decode complete", zap.Int("resolution", int(req.Resolution)), zap.Int("tier_width", planes.Width), zap.Int("tier_height", planes.Height))

	return result, nil
}

// tierForResolution maps a Resolution to the pipelined-inversion capture
// index decodeChannel records into (§4.10's dimension chain: Sixteenth is
// the raw LL2 samples; Eighth is LL2 inverted once; Quarter is inverted
// twice; Half and Full are the full channel-resolution plane, the latter
// additionally Bayer-repacked by the caller).
func tierForResolution(res Resolution) int {
	switch res {
	case Sixteenth:
		return 0
	case Eighth:
		return 1
	case Quarter:
		return 2
	default: // Half, Full
		return 3
	}
}

// pitchFor computes a packed Bayer buffer's bytes-per-row: the 12P
// layout packs two pixels into three bytes (§4.6), every other supported
// format stores one little-endian 16-bit word per pixel regardless of
// its native bit depth (gpr/bayer.readLE16/writeLE16).
func pitchFor(imageWidth int, depth int, format bayer.Format) int {
	_ = depth
	if format.IsPacked() {
		return imageWidth * 3 / 2
	}
	return imageWidth * 2
}

func readHeader(r *bitstream.Reader, st *state.State) error {
	headerTags := []tagvalue.Tag{
		tagvalue.ChannelCount, tagvalue.ImageWidth, tagvalue.ImageHeight,
		tagvalue.SubbandCount, tagvalue.ImageFormat, tagvalue.PatternWidth,
		tagvalue.PatternHeight, tagvalue.ComponentsPerSample,
		tagvalue.MaxBitsPerComponent, tagvalue.PrescaleShift,
	}
	for _, want := range headerTags {
		seg := tagvalue.GetSegment(r)
		if err := tagvalue.Require(seg, want); err != nil {
			return err
		}
		if err := st.Observe(seg.Tag); err != nil {
			return err
		}
		st.Apply(seg.Tag, seg.Value)
	}
	return nil
}

// invertedRows is the per-tier capture decodeChannel fills in as the
// pipelined cascade reconstructs each shallower level.
type invertedRows struct {
	rows [4][][]int16 // index by tierForResolution: 0=LL2 raw,1,2,3=full
}

func decodeChannel(r *bitstream.Reader, codec *codebook.Codec, st *state.State, a alloc.Allocator, channelWidth, channelHeight, need int, logger *zap.Logger) ([][][]int16, error) {
	seg := tagvalue.GetSegment(r)
	if err := tagvalue.Require(seg, tagvalue.ChannelNumber); err != nil {
		return nil, err
	}
	st.Apply(seg.Tag, seg.Value)

	for _, want := range []tagvalue.Tag{tagvalue.ChannelWidth, tagvalue.ChannelHeight, tagvalue.BitsPerComponent, tagvalue.LowpassPrecision} {
		seg := tagvalue.GetSegment(r)
		if err := tagvalue.Require(seg, want); err != nil {
			return nil, err
		}
		st.Apply(seg.Tag, seg.Value)
	}

	tr := wavelet.NewTransform(a, channelWidth, channelHeight)
	defer tr.Delete()
	for lvl := 0; lvl < 3; lvl++ {
		tr.Prescale[lvl] = st.Prescale(lvl)
	}

	captured := &invertedRows{}

	for subband := 0; subband < wavelet.SubbandCount; subband++ {
		if subband >= need {
			if err := skipSubband(r); err != nil {
				return nil, err
			}
			continue
		}
		if err := decodeSubband(r, codec, st, tr, subband, captured, logger); err != nil {
			return nil, err
		}
	}

	// Tiers beyond what `need` produces are left nil; tierForResolution
	// only ever selects a tier that this channel's subband count actually
	// populates, so the caller never reads one of the unset entries.
	out := make([][][]int16, 4)
	copy(out, captured.rows[:])
	return out, nil
}

// skipSubband consumes a LargeCodeblock chunk's payload without parsing
// its SubbandNumber/Quantization tags or decoding any coefficients
// (§4.10: "subbands beyond the requested count have their chunk payload
// bytes consumed but coefficients not parsed"), so the reader lands
// exactly on the next subband's (or channel's) first segment.
func skipSubband(r *bitstream.Reader) error {
	seg := tagvalue.GetSegment(r)
	if err := tagvalue.Require(seg, tagvalue.LargeCodeblock); err != nil {
		return err
	}
	tagvalue.Skip(r, int(seg.Value))
	return nil
}

// decodeSubband reads one subband's LargeCodeblock chunk, decodes its
// samples into the matching band of tr, and runs the pipelined inversion
// cascade for every pyramid level that becomes fully valid as a result.
func decodeSubband(r *bitstream.Reader, codec *codebook.Codec, st *state.State, tr *wavelet.Transform, subband int, captured *invertedRows, logger *zap.Logger) error {
	seg := tagvalue.GetSegment(r)
	if err := tagvalue.Require(seg, tagvalue.LargeCodeblock); err != nil {
		return err
	}

	snSeg := tagvalue.GetSegment(r)
	if err := tagvalue.Require(snSeg, tagvalue.SubbandNumber); err != nil {
		return err
	}
	qSeg := tagvalue.GetSegment(r)
	if err := tagvalue.Require(qSeg, tagvalue.Quantization); err != nil {
		return err
	}

	lvl := wavelet.WaveletIndexForSubband(subband)
	band := wavelet.BandIndexForSubband(subband)
	wv := tr.Levels[lvl]
	wv.Quant[band] = qSeg.Value
	plane := wv.Band(band)

	if subband == 0 {
		for y := 0; y < plane.Height(); y++ {
			row := make([]int16, plane.Width())
			for x := range row {
				row[x] = int16(r.GetBits(st.LowpassPrecision))
			}
			plane.SetRow(y, row)
		}
		captured.rows[0] = rowsOf(plane)
	} else if err := decodeHighpass(r, codec, plane); err != nil {
		return err
	}

	r.AlignSegment()
	wv.MarkBandValid(band)

	logger.Debug("subband decoded", zap.Int("subband", subband), zap.Int("level", lvl))

	return invertIfReady(tr, lvl, captured)
}

// invertIfReady runs dwt.InverseLevel for lvl once all four of its bands
// are valid, writes the reconstructed rows as the shallower level's LL
// band (marking it valid in turn), and recurses toward level 0 — the
// pipelined decode cascade (§4.10).
func invertIfReady(tr *wavelet.Transform, lvl int, captured *invertedRows) error {
	wv := tr.Levels[lvl]
	if !wv.BandsAllValid() {
		return nil
	}

	ll := rowsOf(wv.Band(wavelet.LL))
	lh := rowsOf(wv.Band(wavelet.LH))
	hl := rowsOf(wv.Band(wavelet.HL))
	hh := rowsOf(wv.Band(wavelet.HH))

	quantizers := [4]quant.Quantizer{
		quant.New(1), // LL is always identity: raw subband-0 samples, or an
		// already-full-scale reconstruction from a deeper level.
		quant.New(wv.Quant[wavelet.LH]),
		quant.New(wv.Quant[wavelet.HL]),
		quant.New(wv.Quant[wavelet.HH]),
	}

	prescale := tr.Prescale[lvl]
	out := dwt.InverseLevel(ll, lh, hl, hh, quantizers, prescale)

	// Level 2's inversion produces tier 1 (Eighth); level 1's produces
	// tier 2 (Quarter); level 0's produces tier 3 (Half/Full).
	tier := 3 - lvl
	captured.rows[tier] = out

	if lvl == 0 {
		return nil
	}

	parent := tr.Levels[lvl-1]
	llParent := parent.Band(wavelet.LL)
	for y, row := range out {
		llParent.SetRow(y, row)
	}
	parent.MarkBandValid(wavelet.LL)

	return invertIfReady(tr, lvl-1, captured)
}

func rowsOf(p *wavelet.Plane) [][]int16 {
	out := make([][]int16, p.Height())
	for y := range out {
		out[y] = p.Row(y)
	}
	return out
}

// decodeHighpass mirrors encoder.encodeHighpass's run-length+VLC stream:
// zero runs, signed magnitudes, and a terminating band-end marker, laid
// out row-major over the band's plane (§4.2, §4.10).
func decodeHighpass(r *bitstream.Reader, codec *codebook.Codec, plane *wavelet.Plane) error {
	width, height := plane.Width(), plane.Height()
	total := width * height
	flat := make([]int16, total)

	i := 0
	for i < total {
		entry, ok := codec.Decode(r)
		if !ok {
			return gprerr.New(gprerr.KindNotFoundInCodebook)
		}
		switch entry.Kind() {
		case codebook.KindZeroRun:
			for k := 0; k < entry.Count && i < total; k++ {
				flat[i] = 0
				i++
			}
		case codebook.KindMagnitude:
			sign := r.GetBits(1)
			v := int16(codec.DecodeMagnitude(entry))
			if sign == 1 {
				v = -v
			}
			if i >= total {
				return gprerr.New(gprerr.KindBadSegment)
			}
			flat[i] = v
			i++
		case codebook.KindMarker:
			if i != total {
				return gprerr.New(gprerr.KindMissingBandEnd)
			}
		}
		if entry.Kind() == codebook.KindMarker {
			break
		}
	}

	if entry, ok := codec.Decode(r); !ok || entry.Kind() != codebook.KindMarker {
		return gprerr.New(gprerr.KindMissingBandEnd)
	}

	for y := 0; y < height; y++ {
		plane.SetRow(y, flat[y*width:(y+1)*width])
	}
	return nil
}

func flatten(rows [][]int16) []int16 {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	out := make([]int16, 0, width*len(rows))
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

func toInt32(in []int16) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

package wavelet

import "github.com/cocosip/gpr-codec/gpr/alloc"

// numLevels is the pyramid depth every channel's Transform carries (§2,
// §4.9: "recursively run the three-level forward transform").
const numLevels = 3

// SubbandCount is the number of subbands one channel's Transform carries
// (§3: "Exactly 10 subbands per channel").
const SubbandCount = 1 + numLevels*3

// Transform is the ordered list of three wavelets for one channel, plus
// the per-level prescale table (§3 "Transform"). Wavelet 0 consumes the
// channel's component plane; wavelet k+1 consumes wavelet k's LL band.
type Transform struct {
	Levels   [numLevels]*Wavelet
	Prescale [numLevels]int
}

// NewTransform allocates the three pyramid levels for a channel plane of
// the given dimensions. Level 0's bands are sized from the channel plane
// itself; each subsequent level's bands are sized from the previous
// level's LL band (§3: "wavelets[k+1].width = wavelets[k].width/2 (post-
// padding), same for height").
func NewTransform(a alloc.Allocator, channelWidth, channelHeight int) *Transform {
	t := &Transform{}
	w, h := channelWidth, channelHeight
	for level := 0; level < numLevels; level++ {
		t.Levels[level] = Create(a, w, h)
		w, h = t.Levels[level].Width, t.Levels[level].Height
	}
	return t
}

// Delete releases every level's band buffers.
func (t *Transform) Delete() {
	for _, lv := range t.Levels {
		if lv != nil {
			lv.Delete()
		}
	}
}

// WaveletForSubband and BandForSubband resolve a subband number to the
// Wavelet and Band it names within this Transform.
func (t *Transform) WaveletForSubband(subband int) *Wavelet {
	return t.Levels[WaveletIndexForSubband(subband)]
}

func (t *Transform) BandForSubband(subband int) Band {
	return BandIndexForSubband(subband)
}

package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Router maps K host channels onto N internal lanes and back.
//
// Lane c is bound to host channel c % K: with stereo, even lanes carry the
// left channel and odd lanes the right. Fold-back sums the N/K lanes of each
// host channel and scales by K/N, so a signal fanned out and folded back
// unchanged returns at its original level.
type Router struct {
	lanes    int
	channels int
	scale    float64
}

// NewRouter returns a router for channels host channels and lanes lanes.
// lanes must be a multiple of channels.
func NewRouter(channels, lanes int) (*Router, error) {
	if channels <= 0 || lanes <= 0 {
		return nil, fmt.Errorf("reverb router channels and lanes must be > 0: %d, %d", channels, lanes)
	}
	if lanes%channels != 0 {
		return nil, fmt.Errorf("reverb router lanes must be a multiple of channels: %d %% %d", lanes, channels)
	}

	return &Router{
		lanes:    lanes,
		channels: channels,
		scale:    float64(channels) / float64(lanes),
	}, nil
}

// Channels returns the host channel count.
func (r *Router) Channels() int { return r.channels }

// Lanes returns the internal lane count.
func (r *Router) Lanes() int { return r.lanes }

// HostChannel returns the host channel bound to lane c.
func (r *Router) HostChannel(c int) int { return c % r.channels }

// FoldScale returns the gain applied when folding lanes back.
func (r *Router) FoldScale() float64 { return r.scale }

// FanOut copies the first n samples of each host channel into its lanes.
func (r *Router) FanOut(host, lanes [][]float64, n int) {
	for c := 0; c < r.lanes; c++ {
		copy(lanes[c][:n], host[r.HostChannel(c)][:n])
	}
}

// FoldBack overwrites the first n samples of each host channel with the
// scaled sum of its lanes.
func (r *Router) FoldBack(lanes, host [][]float64, n int) {
	for ch := 0; ch < r.channels; ch++ {
		copy(host[ch][:n], lanes[ch][:n])
	}
	for c := r.channels; c < r.lanes; c++ {
		vecmath.AddBlockInPlace(host[r.HostChannel(c)][:n], lanes[c][:n])
	}
	for ch := 0; ch < r.channels; ch++ {
		dst := host[ch][:n]
		vecmath.ScaleBlock(dst, dst, r.scale)
	}
}

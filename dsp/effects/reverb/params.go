package reverb

import (
	"math"
	"sync/atomic"
)

const (
	paramDelayMs = iota
	paramDecayGain
	paramDelayMsRange
	paramWetProportion
	paramDampingHz
	numParams
)

// paramStore publishes tunables from control goroutines to the audio thread
// without locks. Writers store the value and mark it dirty; the audio thread
// swaps the dirty mask at block start.
type paramStore struct {
	values [numParams]atomic.Uint64
	dirty  atomic.Uint32
}

func (s *paramStore) init(p Params) {
	s.values[paramDelayMs].Store(math.Float64bits(p.DelayMs))
	s.values[paramDecayGain].Store(math.Float64bits(p.DecayGain))
	s.values[paramDelayMsRange].Store(math.Float64bits(p.DelayMsRange))
	s.values[paramWetProportion].Store(math.Float64bits(p.WetProportion))
	s.values[paramDampingHz].Store(math.Float64bits(p.DampingHz))
	s.dirty.Store(0)
}

func (s *paramStore) store(i int, v float64) {
	s.values[i].Store(math.Float64bits(v))
	s.dirty.Or(1 << i)
}

func (s *paramStore) load(i int) float64 {
	return math.Float64frombits(s.values[i].Load())
}

func (s *paramStore) snapshot() Params {
	return Params{
		DelayMs:       s.load(paramDelayMs),
		DecayGain:     s.load(paramDecayGain),
		DelayMsRange:  s.load(paramDelayMsRange),
		WetProportion: s.load(paramWetProportion),
		DampingHz:     s.load(paramDampingHz),
	}
}

// takeDirty reports whether any value changed since the previous call.
func (s *paramStore) takeDirty() bool {
	return s.dirty.Swap(0) != 0
}

// takeDirtyMask clears and returns the dirty mask.
func (s *paramStore) takeDirtyMask() uint32 {
	return s.dirty.Swap(0)
}

// restoreDirty marks the values in mask dirty again.
func (s *paramStore) restoreDirty(mask uint32) {
	s.dirty.Or(mask)
}

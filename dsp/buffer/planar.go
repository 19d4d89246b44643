package buffer

import "fmt"

// Planar holds a fixed number of equal-length lanes in one contiguous
// backing slice. Lane views alias that slice, so the arena never allocates
// after Resize.
type Planar struct {
	data  []float64
	lanes [][]float64
	block [][]float64
	size  int
}

// NewPlanar returns an arena with lanes lanes of length samples each.
func NewPlanar(lanes, length int) (*Planar, error) {
	p := &Planar{}
	if err := p.Resize(lanes, length); err != nil {
		return nil, err
	}
	return p, nil
}

// Resize sets the lane count and lane length, reusing the backing storage
// when its capacity is already large enough. All samples are zeroed.
func (p *Planar) Resize(lanes, length int) error {
	if lanes <= 0 {
		return fmt.Errorf("buffer lanes must be > 0: %d", lanes)
	}
	if length < 0 {
		return fmt.Errorf("buffer length must be >= 0: %d", length)
	}

	total := lanes * length
	if total <= cap(p.data) {
		p.data = p.data[:total]
	} else {
		p.data = make([]float64, total)
	}
	clear(p.data)

	if lanes <= cap(p.lanes) {
		p.lanes = p.lanes[:lanes]
		p.block = p.block[:lanes]
	} else {
		p.lanes = make([][]float64, lanes)
		p.block = make([][]float64, lanes)
	}

	for i := range p.lanes {
		p.lanes[i] = p.data[i*length : (i+1)*length : (i+1)*length]
	}
	p.size = length

	return nil
}

// NumLanes returns the number of lanes.
func (p *Planar) NumLanes() int { return len(p.lanes) }

// Len returns the length of each lane.
func (p *Planar) Len() int { return p.size }

// Lane returns the full-length view of lane i.
func (p *Planar) Lane(i int) []float64 { return p.lanes[i] }

// Lanes returns full-length views of all lanes.
func (p *Planar) Lanes() [][]float64 { return p.lanes }

// Block returns views of the first n samples of every lane. The returned
// outer slice is owned by the arena and is overwritten by the next call.
// n is clamped to [0, Len()].
func (p *Planar) Block(n int) [][]float64 {
	if n < 0 {
		n = 0
	}
	if n > p.size {
		n = p.size
	}
	for i, lane := range p.lanes {
		p.block[i] = lane[:n]
	}
	return p.block
}

// Zero clears every lane.
func (p *Planar) Zero() {
	clear(p.data)
}

package mixmatrix

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by transform constructors.
var (
	ErrInvalidSize   = errors.New("mixmatrix: size must be > 0")
	ErrNotPowerOfTwo = errors.New("mixmatrix: hadamard size must be a power of two")
)

// Transform mixes a fixed-size vector in place.
type Transform interface {
	// InPlace transforms v. It panics if len(v) != Size().
	InPlace(v []float64)
	// Size returns the vector length the transform acts on.
	Size() int
}

// Hadamard is the normalized Walsh-Hadamard transform.
type Hadamard struct {
	size  int
	scale float64
}

// NewHadamard creates a Hadamard transform of the given power-of-two size.
func NewHadamard(size int) (*Hadamard, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, size)
	}

	return &Hadamard{size: size, scale: 1 / math.Sqrt(float64(size))}, nil
}

// Size returns the vector length.
func (h *Hadamard) Size() int { return h.size }

// InPlace applies the transform to v.
func (h *Hadamard) InPlace(v []float64) {
	checkLen(v, h.size)

	hadamardUnscaled(v)

	for i := range v {
		v[i] *= h.scale
	}
}

// hadamardUnscaled splits v in halves, transforms each half and combines them
// with a sum/difference butterfly.
func hadamardUnscaled(v []float64) {
	n := len(v)
	if n <= 1 {
		return
	}

	half := n / 2
	hadamardUnscaled(v[:half])
	hadamardUnscaled(v[half:])

	for i := 0; i < half; i++ {
		a := v[i]
		b := v[i+half]
		v[i] = a + b
		v[i+half] = a - b
	}
}

// Householder reflects vectors about the all-ones direction.
type Householder struct {
	size   int
	factor float64
}

// NewHouseholder creates a Householder reflection of the given size.
func NewHouseholder(size int) (*Householder, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	return &Householder{size: size, factor: -2 / float64(size)}, nil
}

// Size returns the vector length.
func (h *Householder) Size() int { return h.size }

// InPlace applies the reflection to v.
func (h *Householder) InPlace(v []float64) {
	checkLen(v, h.size)

	var sum float64
	for _, x := range v {
		sum += x
	}

	sum *= h.factor
	for i := range v {
		v[i] += sum
	}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Energy returns the sum of squares of v.
func Energy(v []float64) float64 {
	var e float64
	for _, x := range v {
		e += x * x
	}
	return e
}

func checkLen(v []float64, size int) {
	if len(v) != size {
		panic(fmt.Sprintf("mixmatrix: vector length %d, want %d", len(v), size))
	}
}

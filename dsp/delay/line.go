package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-delayfx/dsp/buffer"
	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/interp"
)

// ErrInvalidSize is returned for delay lines without storage.
var ErrInvalidSize = errors.New("delay: size must be > 0")

// Option configures a Line.
type Option func(*Line)

// WithMode selects the interpolation used by ReadFractional.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		d.mode = mode
	}
}

// Line is a circular delay line.
//
// Delays are counted back from the newest sample: Read(0) returns the sample
// passed to the most recent Write, Read(1) the one before it, and so on.
type Line struct {
	ring *buffer.Ring[float64]
	mode interp.Mode
}

// New returns a delay line of fixed size. The default interpolation is linear.
func New(size int, opts ...Option) (*Line, error) {
	ring, err := newRing(size)
	if err != nil {
		return nil, err
	}

	d := &Line{ring: ring, mode: interp.Linear}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return d.ring.Cap()
}

// Mode returns the interpolation mode.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// MaxDelay returns the largest fractional delay ReadFractional honours.
func (d *Line) MaxDelay() float64 {
	return float64(max(d.Len()-(d.mode.Taps()-1), 0))
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.ring.Push(sample)
}

// Read reads an integer delay in samples. Delays are reduced modulo Len.
func (d *Line) Read(delay int) float64 {
	d.seek(delay)
	return d.ring.Peek()
}

// ReadFractional reads a delay in samples between stored taps.
// The delay is clamped to [0, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	if math.IsNaN(delay) {
		delay = 0
	}
	delay = core.Clamp(delay, 0, d.MaxDelay())

	p := int(math.Floor(delay))
	t := delay - float64(p)

	d.seek(p)
	x0 := d.ring.Peek()
	x1 := d.ring.Get(-1)

	if d.mode != interp.Hermite {
		return interp.Linear2(t, x0, x1)
	}

	xm1 := x0
	if p > 0 {
		xm1 = d.ring.Get(1)
	}
	x2 := d.ring.Get(-2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Resize changes the buffer size, keeping the newest min(old, size) samples.
func (d *Line) Resize(size int) error {
	if size == d.Len() {
		return nil
	}

	ring, err := newRing(size)
	if err != nil {
		return err
	}

	keep := min(d.Len(), size)
	for i := keep - 1; i >= 0; i-- {
		ring.Push(d.Read(i))
	}
	d.ring = ring
	return nil
}

// Reset clears line state.
func (d *Line) Reset() {
	d.ring.Reset()
}

// Snapshot returns a copy of the raw storage.
func (d *Line) Snapshot() []float64 {
	return d.ring.Snapshot()
}

// seek points the read cursor at the sample written delay writes ago.
func (d *Line) seek(delay int) {
	d.ring.SetReadIndex(d.ring.WriteIndex() - 1 - delay)
}

func newRing(size int) (*buffer.Ring[float64], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return buffer.NewRing[float64](size)
}

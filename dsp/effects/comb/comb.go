package comb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delayfx/dsp/buffer"
	"github.com/cwbudde/algo-delayfx/dsp/core"
)

// Type selects the comb topology.
type Type int

const (
	// FIR feeds the delayed input forward.
	FIR Type = iota
	// IIR feeds the delayed output back.
	IIR
)

func (t Type) String() string {
	switch t {
	case FIR:
		return "fir"
	case IIR:
		return "iir"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Param identifies a runtime parameter.
type Param int

const (
	// ParamGain scales the delayed path. It must be >= 0.
	ParamGain Param = iota
	// ParamDelay is the delay in seconds, at most the construction maximum.
	ParamDelay
	// ParamTaps names the FIR coefficient pair in validation errors.
	ParamTaps
	// ParamFeedforward is the IIR direct-path coefficient.
	ParamFeedforward
	// ParamFeedback is the IIR feedback coefficient.
	ParamFeedback
)

// String returns the parameter name.
func (p Param) String() string {
	switch p {
	case ParamGain:
		return "gain"
	case ParamDelay:
		return "delay"
	case ParamTaps:
		return "taps"
	case ParamFeedforward:
		return "feedforward"
	case ParamFeedback:
		return "feedback"
	default:
		return fmt.Sprintf("Param(%d)", int(p))
	}
}

// Option configures a CombFilter at construction.
type Option func(*CombFilter) error

// WithGain sets the initial gain.
func WithGain(gain float64) Option {
	return func(c *CombFilter) error {
		return c.SetParam(ParamGain, gain)
	}
}

// WithDelay sets the initial delay in seconds. It must not exceed the
// maximum delay.
func WithDelay(seconds float64) Option {
	return func(c *CombFilter) error {
		return c.SetParam(ParamDelay, seconds)
	}
}

// CombFilter is a multi-channel comb filter with one delay line per channel.
//
// Output is direct·x[n] + gain·tap·z[n−D], where z is the input for FIR and
// the output for IIR. The direct and tap coefficients are 1 unless a façade
// sets them.
type CombFilter struct {
	filterType Type
	sampleRate float64
	channels   int

	maxDelay     float64
	delaySamples int
	// nil when delaySamples is 0.
	lines []*buffer.Ring[float64]

	gain   float64
	direct float64
	tap    float64
}

// New returns a comb filter whose delay starts at maxDelaySeconds and whose
// gain starts at 1.
func New(filterType Type, maxDelaySeconds, sampleRate float64, channels int, opts ...Option) (*CombFilter, error) {
	c := &CombFilter{}
	if err := c.init(filterType, maxDelaySeconds, sampleRate, channels); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *CombFilter) init(filterType Type, maxDelaySeconds, sampleRate float64, channels int) error {
	if filterType != FIR && filterType != IIR {
		return fmt.Errorf("%w: unknown filter type %v", ErrInvalidConfig, filterType)
	}
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidConfig, sampleRate)
	}
	if channels < 1 {
		return fmt.Errorf("%w: channels must be >= 1: %d", ErrInvalidConfig, channels)
	}
	if maxDelaySeconds < 0 || !core.IsFinite(maxDelaySeconds) {
		return fmt.Errorf("%w: max delay must be >= 0 and finite: %f", ErrInvalidConfig, maxDelaySeconds)
	}

	*c = CombFilter{
		filterType: filterType,
		sampleRate: sampleRate,
		channels:   channels,
		maxDelay:   maxDelaySeconds,
		lines:      make([]*buffer.Ring[float64], channels),
		gain:       1,
		direct:     1,
		tap:        1,
	}
	c.allocate(core.SecondsToSamples(maxDelaySeconds, sampleRate))
	return nil
}

// allocate replaces every line with a zeroed line of n samples.
func (c *CombFilter) allocate(n int) {
	c.delaySamples = n
	for ch := range c.lines {
		if n == 0 {
			c.lines[ch] = nil
			continue
		}
		if c.lines[ch] != nil && c.lines[ch].Cap() == n {
			c.lines[ch].Reset()
			continue
		}
		// n > 0 here, NewRing cannot fail.
		c.lines[ch], _ = buffer.NewRing[float64](n)
	}
}

// Type returns the filter topology.
func (c *CombFilter) Type() Type { return c.filterType }

// Channels returns the number of channels.
func (c *CombFilter) Channels() int { return c.channels }

// SampleRate returns the sample rate in Hz.
func (c *CombFilter) SampleRate() float64 { return c.sampleRate }

// Gain returns the current gain.
func (c *CombFilter) Gain() float64 { return c.gain }

// Delay returns the current delay in seconds, after rounding to whole samples.
func (c *CombFilter) Delay() float64 {
	return float64(c.delaySamples) / c.sampleRate
}

// DelaySamples returns the current delay line length.
func (c *CombFilter) DelaySamples() int { return c.delaySamples }

// MaxDelay returns the delay ceiling in seconds fixed at construction.
func (c *CombFilter) MaxDelay() float64 { return c.maxDelay }

// SetParam updates a parameter. An invalid value returns an
// *InvalidValueError and leaves the filter unchanged.
//
// A successful delay update reallocates every line and clears all history.
func (c *CombFilter) SetParam(p Param, v float64) error {
	switch p {
	case ParamGain:
		if v < 0 || !core.IsFinite(v) {
			return invalidValue(p, v)
		}
		c.gain = v
	case ParamDelay:
		if v < 0 || v > c.maxDelay || math.IsNaN(v) {
			return invalidValue(p, v)
		}
		c.allocate(core.SecondsToSamples(v, c.sampleRate))
	default:
		return invalidValue(p, v)
	}
	return nil
}

// Param returns the current value of p, or NaN if the filter has no such
// parameter.
func (c *CombFilter) Param(p Param) float64 {
	switch p {
	case ParamGain:
		return c.gain
	case ParamDelay:
		return c.Delay()
	default:
		return math.NaN()
	}
}

// Reset clears the delay lines and rewinds their cursors.
func (c *CombFilter) Reset() {
	for _, line := range c.lines {
		if line != nil {
			line.Reset()
		}
	}
}

// DelayLine returns a copy of the raw storage of channel ch. The second
// result is false if ch is out of range.
func (c *CombFilter) DelayLine(ch int) ([]float64, bool) {
	if ch < 0 || ch >= c.channels {
		return nil, false
	}
	if c.lines[ch] == nil {
		return []float64{}, true
	}
	return c.lines[ch].Snapshot(), true
}

// ProcessSample filters one sample of the given channel.
func (c *CombFilter) ProcessSample(ch int, x float64) float64 {
	line := c.lines[ch]
	if line == nil {
		return c.direct * x
	}

	delayed := line.Pop()
	y := c.direct*x + c.gain*c.tap*delayed
	if c.filterType == IIR {
		line.Push(core.FlushDenormals(y))
	} else {
		line.Push(x)
	}
	return y
}

// Process filters src into dst, one slice per channel. dst may alias src.
// It panics if the channel count or per-channel lengths do not match.
func (c *CombFilter) Process(dst, src [][]float64) {
	if len(src) != c.channels || len(dst) != c.channels {
		panic(fmt.Sprintf("comb: channel count mismatch: src %d, dst %d, filter %d", len(src), len(dst), c.channels))
	}
	frames := len(src[0])
	for ch := range src {
		if len(src[ch]) != frames || len(dst[ch]) != frames {
			panic(fmt.Sprintf("comb: length mismatch on channel %d", ch))
		}
	}

	for ch, in := range src {
		out := dst[ch]
		for i, x := range in {
			out[i] = c.ProcessSample(ch, x)
		}
	}
}

// ProcessInPlace filters buf in place.
func (c *CombFilter) ProcessInPlace(buf [][]float64) {
	c.Process(buf, buf)
}

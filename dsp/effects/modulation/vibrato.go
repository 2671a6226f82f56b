package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delayfx/dsp/delay"
	"github.com/cwbudde/algo-delayfx/dsp/interp"
)

const (
	defaultVibratoRateHz       = 5
	defaultVibratoDepthSeconds = 0.002
	defaultVibratoDelaySeconds = 0.005
)

// VibratoOption mutates vibrato construction parameters.
type VibratoOption func(*vibratoConfig) error

type vibratoConfig struct {
	rateHz       float64
	depthSeconds float64
	delaySeconds float64
	mode         interp.Mode
}

func defaultVibratoConfig() vibratoConfig {
	return vibratoConfig{
		rateHz:       defaultVibratoRateHz,
		depthSeconds: defaultVibratoDepthSeconds,
		delaySeconds: defaultVibratoDelaySeconds,
		mode:         interp.Linear,
	}
}

// WithVibratoRateHz sets the modulation speed in Hz.
func WithVibratoRateHz(rateHz float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if err := validateVibratoRate(rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithVibratoDepthSeconds sets the peak delay excursion in seconds.
// Negative depths disable modulation.
func WithVibratoDepthSeconds(depth float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if err := validateVibratoDepth(depth); err != nil {
			return err
		}
		cfg.depthSeconds = depth
		return nil
	}
}

// WithVibratoDelaySeconds sets the base delay in seconds.
func WithVibratoDelaySeconds(delaySeconds float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if err := validateVibratoDelay(delaySeconds); err != nil {
			return err
		}
		cfg.delaySeconds = delaySeconds
		return nil
	}
}

// WithVibratoInterpolation selects how the swept read offset is
// interpolated between stored samples. Linear is the default.
func WithVibratoInterpolation(mode interp.Mode) VibratoOption {
	return func(cfg *vibratoConfig) error {
		switch mode {
		case interp.Linear, interp.Hermite:
			cfg.mode = mode
			return nil
		default:
			return fmt.Errorf("vibrato interpolation mode unsupported: %v", mode)
		}
	}
}

// Vibrato is a pitch-modulation effect: every channel is read from its own
// delay line at an offset swept by a shared sine LFO.
//
// The read offset, in samples behind the newest input, is
//
//	base·rate − max(depth, 0)·rate·sin(phase)
//
// so with zero depth the effect is a plain delay of base·rate samples.
type Vibrato struct {
	sampleRate float64
	depth      float64
	baseDelay  float64
	mode       interp.Mode

	lfo   *LFO
	lines []*delay.Line
}

// NewVibrato creates a vibrato with practical defaults and optional overrides.
func NewVibrato(sampleRate float64, channels int, opts ...VibratoOption) (*Vibrato, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("vibrato sample rate must be > 0 and finite: %f", sampleRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("vibrato channels must be >= 1: %d", channels)
	}

	cfg := defaultVibratoConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	lfo, err := NewLFO(sampleRate, cfg.rateHz, 1)
	if err != nil {
		return nil, err
	}

	v := &Vibrato{
		sampleRate: sampleRate,
		depth:      cfg.depthSeconds,
		baseDelay:  cfg.delaySeconds,
		mode:       cfg.mode,
		lfo:        lfo,
		lines:      make([]*delay.Line, channels),
	}
	size := v.lineSize()
	for ch := range v.lines {
		v.lines[ch], err = delay.New(size, delay.WithMode(v.mode))
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// SetRateHz sets the modulation speed in Hz. The LFO phase is kept.
func (v *Vibrato) SetRateHz(rateHz float64) error {
	if err := validateVibratoRate(rateHz); err != nil {
		return err
	}
	return v.lfo.SetFrequency(rateHz)
}

// SetDepthSeconds sets the modulation depth, keeping the newest history.
func (v *Vibrato) SetDepthSeconds(depth float64) error {
	if err := validateVibratoDepth(depth); err != nil {
		return err
	}
	v.depth = depth
	return v.resizeLines()
}

// SetDelaySeconds sets the base delay, keeping the newest history.
func (v *Vibrato) SetDelaySeconds(delaySeconds float64) error {
	if err := validateVibratoDelay(delaySeconds); err != nil {
		return err
	}
	v.baseDelay = delaySeconds
	return v.resizeLines()
}

// Reset clears the delay lines and rewinds the LFO.
func (v *Vibrato) Reset() {
	for _, line := range v.lines {
		line.Reset()
	}
	v.lfo.Reset()
}

// Process processes src into dst, one slice per channel. dst may alias src.
// It panics if the channel count or per-channel lengths do not match.
func (v *Vibrato) Process(dst, src [][]float64) {
	if len(src) != len(v.lines) || len(dst) != len(v.lines) {
		panic(fmt.Sprintf("vibrato: channel count mismatch: src %d, dst %d, vibrato %d",
			len(src), len(dst), len(v.lines)))
	}
	frames := len(src[0])
	for ch := range src {
		if len(src[ch]) != frames || len(dst[ch]) != frames {
			panic(fmt.Sprintf("vibrato: length mismatch on channel %d", ch))
		}
	}

	base, depth := v.baseSamples(), v.depthSamples()
	for i := range frames {
		offset := base - depth*v.lfo.Next()
		for ch, line := range v.lines {
			line.Write(src[ch][i])
			dst[ch][i] = line.ReadFractional(offset)
		}
	}
}

// ProcessInPlace processes buf in place.
func (v *Vibrato) ProcessInPlace(buf [][]float64) {
	v.Process(buf, buf)
}

// ProcessFrame processes one sample per channel. dst may alias src.
func (v *Vibrato) ProcessFrame(dst, src []float64) {
	if len(src) != len(v.lines) || len(dst) != len(v.lines) {
		panic(fmt.Sprintf("vibrato: frame size mismatch: src %d, dst %d, vibrato %d",
			len(src), len(dst), len(v.lines)))
	}

	offset := v.baseSamples() - v.depthSamples()*v.lfo.Next()
	for ch, line := range v.lines {
		line.Write(src[ch])
		dst[ch] = line.ReadFractional(offset)
	}
}

// SampleRate returns sample rate in Hz.
func (v *Vibrato) SampleRate() float64 { return v.sampleRate }

// Channels returns the number of channels.
func (v *Vibrato) Channels() int { return len(v.lines) }

// RateHz returns LFO speed in Hz.
func (v *Vibrato) RateHz() float64 { return v.lfo.Frequency() }

// DepthSeconds returns the configured modulation depth in seconds.
func (v *Vibrato) DepthSeconds() float64 { return v.depth }

// DelaySeconds returns the base delay in seconds.
func (v *Vibrato) DelaySeconds() float64 { return v.baseDelay }

// Interpolation returns the read interpolation mode.
func (v *Vibrato) Interpolation() interp.Mode { return v.mode }

// Capacity returns the per-channel delay line size in samples.
func (v *Vibrato) Capacity() int { return v.lines[0].Len() }

func (v *Vibrato) baseSamples() float64 {
	return v.baseDelay * v.sampleRate
}

func (v *Vibrato) depthSamples() float64 {
	return max(v.depth, 0) * v.sampleRate
}

// lineSize covers the deepest excursion plus the interpolation taps.
func (v *Vibrato) lineSize() int {
	return int(math.Ceil(v.baseSamples()+v.depthSamples())) + v.mode.Taps()
}

func (v *Vibrato) resizeLines() error {
	size := v.lineSize()
	for _, line := range v.lines {
		if err := line.Resize(size); err != nil {
			return err
		}
	}
	return nil
}

func validateVibratoRate(rateHz float64) error {
	if rateHz < 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return fmt.Errorf("vibrato rate must be >= 0 and finite: %f", rateHz)
	}
	return nil
}

func validateVibratoDepth(depth float64) error {
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("vibrato depth must be finite: %f", depth)
	}
	return nil
}

func validateVibratoDelay(delaySeconds float64) error {
	if delaySeconds < 0 || math.IsNaN(delaySeconds) || math.IsInf(delaySeconds, 0) {
		return fmt.Errorf("vibrato delay must be >= 0 and finite: %f", delaySeconds)
	}
	return nil
}

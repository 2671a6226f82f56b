package modulation

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// LFO is a sine low-frequency oscillator driven by a phase accumulator.
type LFO struct {
	sampleRate float64
	frequency  float64
	depth      float64
	phase      float64
}

// NewLFO returns an LFO starting at phase 0. A negative depth is accepted
// and silences the output.
func NewLFO(sampleRate, frequencyHz, depth float64) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}

	l := &LFO{sampleRate: sampleRate}
	if err := l.SetFrequency(frequencyHz); err != nil {
		return nil, err
	}
	if err := l.SetDepth(depth); err != nil {
		return nil, err
	}
	return l, nil
}

// Next returns sin(phase)·depth and advances the phase by one sample.
func (l *LFO) Next() float64 {
	v := math.Sin(l.phase) * max(l.depth, 0)

	l.phase += twoPi * l.frequency / l.sampleRate
	if l.phase >= twoPi {
		l.phase = math.Mod(l.phase, twoPi)
	}
	return v
}

// SetFrequency sets the oscillator frequency in Hz. The phase is kept.
func (l *LFO) SetFrequency(frequencyHz float64) error {
	if frequencyHz < 0 || math.IsNaN(frequencyHz) || math.IsInf(frequencyHz, 0) {
		return fmt.Errorf("lfo frequency must be >= 0 and finite: %f", frequencyHz)
	}
	l.frequency = frequencyHz
	return nil
}

// SetDepth sets the output amplitude.
func (l *LFO) SetDepth(depth float64) error {
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("lfo depth must be finite: %f", depth)
	}
	l.depth = depth
	return nil
}

// Frequency returns the oscillator frequency in Hz.
func (l *LFO) Frequency() float64 { return l.frequency }

// Depth returns the configured amplitude, which may be negative.
func (l *LFO) Depth() float64 { return l.depth }

// Phase returns the current phase in [0, 2π).
func (l *LFO) Phase() float64 { return l.phase }

// SampleRate returns the sample rate in Hz.
func (l *LFO) SampleRate() float64 { return l.sampleRate }

// Reset rewinds the phase to 0.
func (l *LFO) Reset() {
	l.phase = 0
}

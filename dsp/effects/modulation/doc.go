// Package modulation provides LFO-driven delay effects.
//
// Included processors:
//   - LFO: Sine phase-accumulator oscillator.
//   - Vibrato: Pitch modulation by a swept fractional delay.
package modulation

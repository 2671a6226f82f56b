// Package comb provides multi-channel comb filters built on circular delay lines.
//
// A comb filter mixes a signal with a copy of itself delayed by D samples:
//
//	FIR (feed-forward): y[n] = x[n] + g·x[n−D]
//	IIR (feedback):     y[n] = x[n] + g·y[n−D]
//
// The feed-forward form places notches at odd multiples of fs/(2D); the
// feedback form produces resonant peaks at multiples of fs/D whose decay is
// governed by g.
//
// [CombFilter] is the shared engine. [FIRCombFilter] and [IIRCombFilter] fix
// the topology and attach their coefficients.
//
// Changing the delay time reallocates and clears every delay line. The filter
// history is discarded, so a delay change mid-stream is audible as a
// discontinuity.
//
// Instances are not safe for concurrent use.
package comb

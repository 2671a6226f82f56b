package comb

import "github.com/cwbudde/algo-delayfx/dsp/core"

// FIRCombFilter is a feed-forward comb with explicit coefficients:
//
//	y[n] = taps[0]·x[n] + gain·taps[1]·x[n−D]
type FIRCombFilter struct {
	CombFilter
	taps [2]float64
}

// NewFIR returns a feed-forward comb. taps holds the direct and delayed
// coefficients and must have exactly two finite entries.
func NewFIR(maxDelaySeconds, sampleRate float64, channels int, taps []float64) (*FIRCombFilter, error) {
	if len(taps) != 2 {
		return nil, invalidValue(ParamTaps, float64(len(taps)))
	}
	for _, v := range taps {
		if !core.IsFinite(v) {
			return nil, invalidValue(ParamTaps, v)
		}
	}

	f := &FIRCombFilter{}
	if err := f.init(FIR, maxDelaySeconds, sampleRate, channels); err != nil {
		return nil, err
	}
	f.taps = [2]float64{taps[0], taps[1]}
	f.direct = taps[0]
	f.tap = taps[1]
	return f, nil
}

// Taps returns a copy of the coefficients.
func (f *FIRCombFilter) Taps() []float64 {
	return []float64{f.taps[0], f.taps[1]}
}

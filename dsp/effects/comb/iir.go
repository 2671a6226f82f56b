package comb

import "github.com/cwbudde/algo-delayfx/dsp/core"

// IIRCombFilter is a feedback comb:
//
//	y[n] = feedforward·x[n] + gain·feedback·y[n−D]
//
// The loop is stable while |gain·feedback| < 1.
type IIRCombFilter struct {
	CombFilter
}

// NewIIR returns a feedback comb with the given coefficients.
func NewIIR(maxDelaySeconds, sampleRate float64, channels int, feedforward, feedback float64) (*IIRCombFilter, error) {
	f := &IIRCombFilter{}
	if err := f.init(IIR, maxDelaySeconds, sampleRate, channels); err != nil {
		return nil, err
	}
	if err := f.SetFeedforward(feedforward); err != nil {
		return nil, err
	}
	if err := f.SetFeedback(feedback); err != nil {
		return nil, err
	}
	return f, nil
}

// Feedforward returns the direct-path coefficient.
func (f *IIRCombFilter) Feedforward() float64 { return f.direct }

// Feedback returns the recursive-path coefficient.
func (f *IIRCombFilter) Feedback() float64 { return f.tap }

// SetFeedforward sets the direct-path coefficient.
func (f *IIRCombFilter) SetFeedforward(v float64) error {
	if !core.IsFinite(v) {
		return invalidValue(ParamFeedforward, v)
	}
	f.direct = v
	return nil
}

// SetFeedback sets the recursive-path coefficient. History is kept.
func (f *IIRCombFilter) SetFeedback(v float64) error {
	if !core.IsFinite(v) {
		return invalidValue(ParamFeedback, v)
	}
	f.tap = v
	return nil
}

// SetParam extends CombFilter.SetParam with ParamFeedforward and
// ParamFeedback.
func (f *IIRCombFilter) SetParam(p Param, v float64) error {
	switch p {
	case ParamFeedforward:
		return f.SetFeedforward(v)
	case ParamFeedback:
		return f.SetFeedback(v)
	default:
		return f.CombFilter.SetParam(p, v)
	}
}

// Param extends CombFilter.Param with ParamFeedforward and ParamFeedback.
func (f *IIRCombFilter) Param(p Param) float64 {
	switch p {
	case ParamFeedforward:
		return f.direct
	case ParamFeedback:
		return f.tap
	default:
		return f.CombFilter.Param(p)
	}
}

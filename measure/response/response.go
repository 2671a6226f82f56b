package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by response measurements.
var (
	ErrInvalidLength     = errors.New("response: length must be a power of two >= 2")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidChannel    = errors.New("response: channel out of range")
	ErrInvalidTaper      = errors.New("response: tail taper must be in [0, 1]")
)

// Processor is a multi-channel block processor.
type Processor interface {
	Process(dst, src [][]float64)
}

// Result holds one measured response.
type Result struct {
	SampleRate float64
	IR         []float64 // impulse response, after tapering
	Magnitude  []float64 // |H(k)| for k in [0, len(IR)/2]
	Power      []float64 // |H(k)|^2 for k in [0, len(IR)/2]
}

// Analyzer measures responses of a fixed length.
type Analyzer struct {
	SampleRate float64
	Length     int
	// TailTaper is the fraction of the impulse response faded out with a
	// half-Hann slope before the FFT. 0 disables tapering.
	TailTaper float64
}

// NewAnalyzer creates an analyzer for length-sample measurements.
func NewAnalyzer(sampleRate float64, length int) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, Length: length}
}

func (a *Analyzer) validate() error {
	if a.SampleRate <= 0 || math.IsNaN(a.SampleRate) || math.IsInf(a.SampleRate, 0) {
		return ErrInvalidSampleRate
	}
	if a.Length < 2 || a.Length&(a.Length-1) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, a.Length)
	}
	if a.TailTaper < 0 || a.TailTaper > 1 || math.IsNaN(a.TailTaper) {
		return fmt.Errorf("%w: %f", ErrInvalidTaper, a.TailTaper)
	}
	return nil
}

// ImpulseResponse feeds a unit impulse into every channel of p and returns
// the first Length output samples of channel ch. p is expected to be freshly
// constructed or reset.
func (a *Analyzer) ImpulseResponse(p Processor, channels, ch int) ([]float64, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if ch < 0 || ch >= channels {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidChannel, ch, channels)
	}

	src := make([][]float64, channels)
	dst := make([][]float64, channels)
	for i := range src {
		src[i] = make([]float64, a.Length)
		src[i][0] = 1
		dst[i] = make([]float64, a.Length)
	}
	p.Process(dst, src)
	return dst[ch], nil
}

// Measure captures the impulse response of channel ch and analyzes it.
func (a *Analyzer) Measure(p Processor, channels, ch int) (Result, error) {
	ir, err := a.ImpulseResponse(p, channels, ch)
	if err != nil {
		return Result{}, err
	}
	return a.Analyze(ir)
}

// Analyze computes the spectrum of an impulse response. The response is
// zero-padded or truncated to Length samples.
func (a *Analyzer) Analyze(ir []float64) (Result, error) {
	if err := a.validate(); err != nil {
		return Result{}, err
	}

	n := a.Length
	buf := make([]float64, n)
	copy(buf, ir)
	a.taper(buf)

	in := make([]complex128, n)
	for i, v := range buf {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Result{}, err
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, err
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	res := Result{
		SampleRate: a.SampleRate,
		IR:         buf,
		Magnitude:  make([]float64, bins),
		Power:      make([]float64, bins),
	}
	vecmath.Magnitude(res.Magnitude, re, im)
	vecmath.Power(res.Power, re, im)
	return res, nil
}

func (a *Analyzer) taper(buf []float64) {
	m := int(math.Round(a.TailTaper * float64(len(buf))))
	if m == 0 {
		return
	}

	coeffs := make([]float64, m)
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 + math.Cos(math.Pi*float64(i+1)/float64(m)))
	}
	vecmath.MulBlockInPlace(buf[len(buf)-m:], coeffs)
}

// Bins returns the number of bins in the one-sided spectrum.
func (r Result) Bins() int { return len(r.Magnitude) }

// Frequency returns the center frequency of bin k in Hz.
func (r Result) Frequency(k int) float64 {
	return float64(k) * r.SampleRate / float64(len(r.IR))
}

// MagnitudeDB returns 20·log10|H(k)| per bin, floored at -200 dB.
func (r Result) MagnitudeDB() []float64 {
	out := make([]float64, len(r.Power))
	for k, p := range r.Power {
		out[k] = powerToDB(p)
	}
	return out
}

// Notches returns the bins that are local minima lying at least belowPeakDB
// under the spectral maximum. belowPeakDB is negative, e.g. -40.
func (r Result) Notches(belowPeakDB float64) []int {
	db := r.MagnitudeDB()
	limit := maxOf(db) + belowPeakDB

	var out []int
	for k, v := range db {
		if v > limit {
			continue
		}
		if (k == 0 || v <= db[k-1]) && (k == len(db)-1 || v <= db[k+1]) {
			out = append(out, k)
		}
	}
	return out
}

// Peaks returns the bins that are local maxima lying within withinDB of the
// spectral maximum. withinDB is positive, e.g. 1.
func (r Result) Peaks(withinDB float64) []int {
	db := r.MagnitudeDB()
	limit := maxOf(db) - withinDB

	var out []int
	for k, v := range db {
		if v < limit {
			continue
		}
		if (k == 0 || v >= db[k-1]) && (k == len(db)-1 || v >= db[k+1]) {
			out = append(out, k)
		}
	}
	return out
}

func powerToDB(p float64) float64 {
	if p <= 1e-20 {
		return -200
	}
	return 10 * math.Log10(p)
}

func maxOf(v []float64) float64 {
	m := math.Inf(-1)
	for _, x := range v {
		m = max(m, x)
	}
	return m
}

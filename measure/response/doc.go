// Package response measures the impulse and frequency response of block
// processors such as comb filters and vibrato.
//
// An [Analyzer] drives a fresh processor with a unit impulse, transforms the
// captured impulse response with an FFT and reports magnitude and power per
// bin up to Nyquist. Helpers locate notches and peaks and estimate the decay
// time of recursive processors from the Schroeder integral.
//
// # Usage
//
//	f, _ := comb.New(comb.FIR, 0.001, 48000, 1)
//	res, err := response.NewAnalyzer(48000, 4096).Measure(f, 1, 0)
//	for _, k := range res.Notches(-60) {
//		fmt.Printf("notch at %.1f Hz\n", res.Frequency(k))
//	}
package response

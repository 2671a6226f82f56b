package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp returns start, start+step, start+2·step, ...
func Ramp(start, step float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Planar returns one noise channel per seed, each of the given length.
func Planar(length int, seeds ...int64) [][]float64 {
	out := make([][]float64, len(seeds))
	for ch, seed := range seeds {
		out[ch] = DeterministicNoise(seed, 1, length)
	}
	return out
}

// Zeros allocates channels×frames zeroed samples.
func Zeros(channels, frames int) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	return out
}

// ProcessChunked runs process over src in consecutive sub-blocks whose frame
// counts cycle through sizes and returns the concatenated output.
func ProcessChunked(src [][]float64, sizes []int, process func(dst, src [][]float64)) [][]float64 {
	frames := 0
	if len(src) > 0 {
		frames = len(src[0])
	}
	dst := Zeros(len(src), frames)

	in := make([][]float64, len(src))
	out := make([][]float64, len(src))
	for start, k := 0, 0; start < frames; k++ {
		end := min(start+sizes[k%len(sizes)], frames)
		for ch := range src {
			in[ch] = src[ch][start:end]
			out[ch] = dst[ch][start:end]
		}
		process(out, in)
		start = end
	}
	return dst
}

package response

import (
	"errors"
	"math"
)

// ErrNoDecay is returned when an impulse response does not fall far enough
// for a decay estimate.
var ErrNoDecay = errors.New("response: insufficient decay")

// Schroeder returns the backward-integrated energy of ir in dB relative to
// its total energy, floored at -200 dB.
func Schroeder(ir []float64) []float64 {
	out := make([]float64, len(ir))

	var sum float64
	for i := len(ir) - 1; i >= 0; i-- {
		sum += ir[i] * ir[i]
		out[i] = sum
	}
	if len(out) == 0 || out[0] <= 0 {
		return out
	}

	total := out[0]
	for i, e := range out {
		out[i] = powerToDB(e / total)
	}
	return out
}

// DecayTime estimates the time in seconds for ir to decay by 60 dB, fitting
// a line to the Schroeder curve between -5 and -25 dB.
func DecayTime(ir []float64, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, ErrInvalidSampleRate
	}

	curve := Schroeder(ir)
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= -5 {
			start = i
		}
		if start >= 0 && v <= -25 {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0, ErrNoDecay
	}

	var sumX, sumY, sumXX, sumXY float64
	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}
	n := float64(end - start + 1)
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, ErrNoDecay
	}

	// dB per sample.
	slope := (n*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0, ErrNoDecay
	}
	return -60 / (slope * sampleRate), nil
}

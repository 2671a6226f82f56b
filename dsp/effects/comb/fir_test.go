package comb

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-delayfx/internal/testutil"
)

func TestFIRTapsCancelDC(t *testing.T) {
	f, err := NewFIR(0.002, 1000, 1, []float64{0.5, -0.5})
	if err != nil {
		t.Fatalf("NewFIR() error = %v", err)
	}
	if f.DelaySamples() != 2 {
		t.Fatalf("DelaySamples() = %d, want 2", f.DelaySamples())
	}

	in := [][]float64{testutil.DC(0.5, 16)}
	out := testutil.Zeros(1, 16)
	f.Process(out, in)

	want := make([]float64, 16)
	want[0], want[1] = 0.25, 0.25
	testutil.RequireSliceEqual(t, out[0], want)
}

func TestFIRDirectTap(t *testing.T) {
	f, err := NewFIR(0.001, 1000, 1, []float64{2, 0})
	if err != nil {
		t.Fatalf("NewFIR() error = %v", err)
	}
	in := testutil.DeterministicNoise(4, 1, 32)
	for i, x := range in {
		if got := f.ProcessSample(0, x); got != 2*x {
			t.Fatalf("sample %d: got %v want %v", i, got, 2*x)
		}
	}
}

func TestFIRGainScalesDelayedTap(t *testing.T) {
	f, err := NewFIR(0.001, 1000, 1, []float64{1, 0.5})
	if err != nil {
		t.Fatalf("NewFIR() error = %v", err)
	}
	if err := f.SetParam(ParamGain, 0.5); err != nil {
		t.Fatalf("SetParam(gain) error = %v", err)
	}
	got := []float64{f.ProcessSample(0, 1), f.ProcessSample(0, 0), f.ProcessSample(0, 0)}
	testutil.RequireSliceEqual(t, got, []float64{1, 0.25, 0})
}

func TestNewFIRValidation(t *testing.T) {
	tests := []struct {
		name      string
		taps      []float64
		wantValue float64
	}{
		{"nil", nil, 0},
		{"one", []float64{1}, 1},
		{"three", []float64{1, 0.5, 0.25}, 3},
		{"nan", []float64{1, math.NaN()}, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFIR(0.01, 1000, 1, tt.taps)
			var ive *InvalidValueError
			if !errors.As(err, &ive) || ive.Param != ParamTaps {
				t.Fatalf("NewFIR() error = %v, want taps InvalidValueError", err)
			}
			if !math.IsNaN(tt.wantValue) && ive.Value != tt.wantValue {
				t.Fatalf("Value = %v, want %v", ive.Value, tt.wantValue)
			}
		})
	}

	if _, err := NewFIR(0.01, -1, 1, []float64{1, 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("NewFIR(rate -1) error = %v, want ErrInvalidConfig", err)
	}
}

func TestFIRTapsReturnsCopy(t *testing.T) {
	taps := []float64{1, 0.5}
	f, err := NewFIR(0.01, 1000, 1, taps)
	if err != nil {
		t.Fatalf("NewFIR() error = %v", err)
	}
	taps[0] = 9
	got := f.Taps()
	got[1] = 9
	testutil.RequireSliceEqual(t, f.Taps(), []float64{1, 0.5})
	if f.Type() != FIR {
		t.Fatalf("Type() = %v, want fir", f.Type())
	}
}

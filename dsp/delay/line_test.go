package delay

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/interp"
)

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("New(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	if d.Len() != 16 {
		t.Fatalf("Len: got %d want 16", d.Len())
	}

	if d.Mode() != interp.Linear {
		t.Fatalf("default mode: got %v want linear", d.Mode())
	}

	if d.MaxDelay() != 15 {
		t.Fatalf("MaxDelay: got %v want 15", d.MaxDelay())
	}
}

func TestNewWithOptions(t *testing.T) {
	d, err := New(16, WithMode(interp.Hermite), nil)
	if err != nil {
		t.Fatal(err)
	}

	if d.Mode() != interp.Hermite {
		t.Fatalf("mode: got %v want hermite", d.Mode())
	}

	if d.MaxDelay() != 13 {
		t.Fatalf("MaxDelay: got %v want 13", d.MaxDelay())
	}
}

// --- integer Read/Write ---

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}
	// delay=0 => most recently written (7)
	if got := d.Read(0); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	// delay=2 => 2 samples back from the newest
	if got := d.Read(2); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Write(float64(i))
	}
	// buffer holds [8, 9, 6, 7] with the write cursor at 2
	if got := d.Read(0); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
	if got := d.Read(3); got != 6 {
		t.Fatalf("got %v want 6", got)
	}
	// delays beyond the size wrap
	if got := d.Read(4); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	d.Reset()

	for i := 0; i < 4; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after reset Read(%d): got %v want 0", i, got)
		}
	}
}

// --- fractional reads ---

// fillRamp fills a delay line with a linear ramp [0, 1, 2, ..., size-1].
func fillRamp(d *Line) {
	for i := 0; i < d.Len(); i++ {
		d.Write(float64(i))
	}
}

func TestReadFractionalLinear(t *testing.T) {
	d, err := New(32)
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)
	// With a linear ramp, linear interpolation is exact.
	got := d.ReadFractional(5.5)

	want := float64(d.Len()-1) - 5.5 // 25.5
	if !core.NearlyEqual(got, want, 1e-10) {
		t.Fatalf("Linear: got %v want %v", got, want)
	}
}

func TestReadFractionalIntegerMatchesRead(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)
	for k := 0; k < 15; k++ {
		if got, want := d.ReadFractional(float64(k)), d.Read(k); got != want {
			t.Fatalf("ReadFractional(%d) = %v, want %v", k, got, want)
		}
	}
}

func TestReadFractionalHermite(t *testing.T) {
	d, err := New(32, WithMode(interp.Hermite))
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)
	got := d.ReadFractional(5.5)

	want := float64(d.Len()-1) - 5.5
	if !core.NearlyEqual(got, want, 1e-10) {
		t.Fatalf("Hermite: got %v want %v", got, want)
	}
}

func TestReadFractionalClamped(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i + 1))
	}

	if got := d.ReadFractional(-1.0); got != 8 {
		t.Fatalf("negative delay: got %v want 8 (newest)", got)
	}
	if got := d.ReadFractional(math.NaN()); got != 8 {
		t.Fatalf("NaN delay: got %v want 8 (newest)", got)
	}
	if got := d.ReadFractional(100); got != 1 {
		t.Fatalf("oversized delay: got %v want 1 (oldest)", got)
	}
	if got := d.ReadFractional(math.Inf(1)); got != 1 {
		t.Fatalf("infinite delay: got %v want 1 (oldest)", got)
	}
}

func TestReadFractionalClampedHermite(t *testing.T) {
	d, err := New(8, WithMode(interp.Hermite))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i + 1))
	}

	// Hermite keeps two guard taps, so the deepest readable delay is 5.
	if got := d.MaxDelay(); got != 5 {
		t.Fatalf("MaxDelay() = %v want 5", got)
	}
	if got := d.ReadFractional(6.5); got != 3 {
		t.Fatalf("oversized delay: got %v want 3", got)
	}
	if got := d.ReadFractional(-0.25); got != 8 {
		t.Fatalf("negative delay: got %v want 8 (newest)", got)
	}
}

func TestAllModesDCPreservation(t *testing.T) {
	for _, mode := range []interp.Mode{interp.Linear, interp.Hermite} {
		d, err := New(32, WithMode(mode))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < d.Len(); i++ {
			d.Write(42.0)
		}

		got := d.ReadFractional(5.3)
		if !core.NearlyEqual(got, 42.0, 1e-9) {
			t.Fatalf("%v DC: got %v want 42", mode, got)
		}
	}
}

func TestAllModesSineQuality(t *testing.T) {
	// Write a low-frequency sine and verify that fractional reads are close
	// to the analytic value.
	freq := 0.02 // low frequency relative to sample rate
	size := 256

	modes := []struct {
		mode interp.Mode
		tol  float64
	}{
		{interp.Linear, 0.01},
		{interp.Hermite, 1e-4},
	}

	for _, tc := range modes {
		d, err := New(size, WithMode(tc.mode))
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < size; i++ {
			d.Write(math.Sin(2 * math.Pi * freq * float64(i)))
		}

		delay := 20.37
		exactSample := float64(size-1) - delay
		want := math.Sin(2 * math.Pi * freq * exactSample)
		got := d.ReadFractional(delay)

		if diff := math.Abs(got - want); diff > tc.tol {
			t.Fatalf("%v sine: got %v want %v (err=%e, tol=%e)", tc.mode, got, want, diff, tc.tol)
		}
	}
}

// --- resize ---

func TestResizeKeepsNewestHistory(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 6; i++ {
		d.Write(float64(i))
	}

	if err := d.Resize(8); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 8 {
		t.Fatalf("Len: got %d want 8", d.Len())
	}
	for k, want := range []float64{6, 5, 4, 3, 0, 0, 0, 0} {
		if got := d.Read(k); got != want {
			t.Fatalf("grown Read(%d): got %v want %v", k, got, want)
		}
	}

	if err := d.Resize(2); err != nil {
		t.Fatal(err)
	}
	for k, want := range []float64{6, 5} {
		if got := d.Read(k); got != want {
			t.Fatalf("shrunk Read(%d): got %v want %v", k, got, want)
		}
	}

	d.Write(7)
	if got := d.Read(1); got != 6 {
		t.Fatalf("after write Read(1): got %v want 6", got)
	}
}

func TestResizeValidation(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	d.Write(3)

	if err := d.Resize(0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("Resize(0) error = %v, want ErrInvalidSize", err)
	}
	if d.Len() != 4 || d.Read(0) != 3 {
		t.Fatal("failed Resize must leave the line untouched")
	}
}

// --- benchmarks ---

func BenchmarkReadFractionalLinear(b *testing.B) {
	d, _ := New(1024)
	fillRamp(d)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.ReadFractional(100.37)
	}
}

func BenchmarkReadFractionalHermite(b *testing.B) {
	d, _ := New(1024, WithMode(interp.Hermite))
	fillRamp(d)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.ReadFractional(100.37)
	}
}

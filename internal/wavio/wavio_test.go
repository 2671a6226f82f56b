package wavio

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-delayfx/dsp/buffer"
	"github.com/cwbudde/algo-delayfx/internal/testutil"
)

func stereoBlock(frames int) *buffer.Block {
	b := buffer.NewBlock(2, frames)
	copy(b.Channel(0), testutil.DeterministicSine(440, 48000, 0.8, frames))
	copy(b.Channel(1), testutil.DeterministicNoise(3, 0.5, frames))
	return b
}

func TestRoundTrip(t *testing.T) {
	for _, bits := range []int{16, 24, 32} {
		t.Run(fmt.Sprintf("%dbit", bits), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rt.wav")
			in := &Audio{SampleRate: 48000, BitDepth: bits, Block: stereoBlock(1000)}
			if err := Write(path, in); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			out, err := Read(path)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if out.SampleRate != 48000 || out.BitDepth != bits || out.Channels() != 2 || out.Frames() != 1000 {
				t.Fatalf("format = %d Hz, %d bit, %d ch, %d frames",
					out.SampleRate, out.BitDepth, out.Channels(), out.Frames())
			}

			lsb := 1 / float64(int64(1)<<(bits-1))
			for ch := range 2 {
				testutil.RequireSliceNearlyEqual(t, out.Block.Channel(ch), in.Block.Channel(ch), 1.5*lsb)
			}
		})
	}
}

func TestEncodeClampsToSymmetricRange(t *testing.T) {
	b := buffer.NewBlock(1, 3)
	copy(b.Channel(0), []float64{2, -2, 0})

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := Write(path, &Audio{SampleRate: 8000, BitDepth: 16, Block: b}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []float64{32767.0 / 32768, -32767.0 / 32768, 0}
	testutil.RequireSliceEqual(t, out.Block.Channel(0), want)
}

func TestEncodeValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		a    *Audio
	}{
		{"bit depth", &Audio{SampleRate: 48000, BitDepth: 12, Block: buffer.NewBlock(1, 4)}},
		{"sample rate", &Audio{SampleRate: 0, BitDepth: 16, Block: buffer.NewBlock(1, 4)}},
		{"channels", &Audio{SampleRate: 48000, BitDepth: 16, Block: buffer.NewBlock(0, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Write(filepath.Join(dir, tt.name+".wav"), tt.a); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Read(filepath.Join(dir, "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}

	junk := filepath.Join(dir, "junk.wav")
	if err := os.WriteFile(junk, []byte("definitely not a riff file"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Read(junk); err == nil {
		t.Fatal("expected error for invalid file")
	}
}

func TestReadRejectsFloatFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Format tag 3 is IEEE float; the payload is irrelevant.
	enc := wav.NewEncoder(f, 48000, 32, 1, 3)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 48000},
		Data:           make([]int, 64),
		SourceBitDepth: 32,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close() error = %v", err)
	}

	if _, err := Read(path); err == nil {
		t.Fatal("expected error for IEEE float wav")
	}
}

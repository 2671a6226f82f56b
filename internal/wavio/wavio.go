// Package wavio converts between WAV files and planar float blocks.
package wavio

import (
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/cwbudde/algo-delayfx/dsp/buffer"
	"github.com/cwbudde/algo-delayfx/dsp/core"
)

// Audio is PCM audio held as planar float samples in [-1, 1).
type Audio struct {
	SampleRate int
	BitDepth   int
	Block      *buffer.Block
}

// Channels returns the channel count.
func (a *Audio) Channels() int { return a.Block.NumChannels() }

// Frames returns the number of frames.
func (a *Audio) Frames() int { return a.Block.Frames() }

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

func checkBitDepth(bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
		return nil
	default:
		return errors.Errorf("unsupported bit depth %v", bitDepth)
	}
}

// Read decodes the WAV file at path.
func Read(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", path)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %v", path)
	}
	return a, nil
}

// Decode reads integer PCM from r. Samples are scaled by 2^(bits-1).
func Decode(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, errors.Wrapf(err, "invalid wav")
		}
		return nil, errors.New("invalid wav")
	}

	// Only integer PCM is scaled below.
	if f := dec.WavAudioFormat; f != formatPCM && f != formatExtensible {
		return nil, errors.Errorf("unsupported wav format %v", f)
	}

	bitDepth := int(dec.BitDepth)
	if err := checkBitDepth(bitDepth); err != nil {
		return nil, err
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "read pcm")
	}

	channels := int(dec.NumChans)
	frames := len(pcm.Data) / channels
	block := buffer.NewBlock(channels, frames)

	scale := 1 / float64(int64(1)<<(bitDepth-1))
	for i := range frames {
		frame := pcm.Data[i*channels : (i+1)*channels]
		for ch, v := range frame {
			block.Channel(ch)[i] = float64(v) * scale
		}
	}

	return &Audio{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Block:      block,
	}, nil
}

// Write encodes a to a new WAV file at path.
func Write(path string, a *Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %v", path)
	}
	defer f.Close()

	if err := Encode(f, a); err != nil {
		return errors.Wrapf(err, "encode %v", path)
	}
	return nil
}

// Encode writes a as integer PCM. Samples are scaled by 2^(bits-1)−1 and
// clamped to the symmetric integer range.
func Encode(w io.WriteSeeker, a *Audio) error {
	if err := checkBitDepth(a.BitDepth); err != nil {
		return err
	}
	if a.SampleRate <= 0 {
		return errors.Errorf("invalid sample rate %v", a.SampleRate)
	}
	channels := a.Channels()
	if channels < 1 {
		return errors.New("no channels")
	}

	enc := wav.NewEncoder(w, a.SampleRate, a.BitDepth, channels, formatPCM)

	frames := a.Frames()
	peak := float64(int64(1)<<(a.BitDepth-1) - 1)
	data := make([]int, frames*channels)
	for ch := range channels {
		samples := a.Block.Channel(ch)
		for i, v := range samples {
			data[i*channels+ch] = int(math.Round(core.Clamp(v*peak, -peak, peak)))
		}
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: a.SampleRate},
		SourceBitDepth: a.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrapf(err, "write %v frames", frames)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "close")
	}
	return nil
}

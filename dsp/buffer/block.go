package buffer

import "github.com/cwbudde/algo-delayfx/dsp/core"

// Block holds planar multi-channel audio: one float64 slice per channel,
// all of the same length.
type Block struct {
	channels [][]float64
	frames   int
}

// NewBlock returns a zero-filled block. Negative sizes are treated as 0.
func NewBlock(channels, frames int) *Block {
	b := &Block{}
	b.Resize(channels, frames)
	return b
}

// Channels returns the per-channel slices. The slices alias the block.
func (b *Block) Channels() [][]float64 {
	return b.channels
}

// Channel returns the samples of channel ch.
func (b *Block) Channel(ch int) []float64 {
	return b.channels[ch]
}

// NumChannels returns the channel count.
func (b *Block) NumChannels() int {
	return len(b.channels)
}

// Frames returns the number of samples per channel.
func (b *Block) Frames() int {
	return b.frames
}

// Resize sets the shape to channels × frames, reusing existing storage when
// possible. Samples that become visible through the resize are zeroed;
// samples that were already visible keep their values.
func (b *Block) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	oldChannels := len(b.channels)
	if cap(b.channels) >= channels {
		b.channels = b.channels[:channels]
	} else {
		grown := make([][]float64, channels)
		copy(grown, b.channels)
		b.channels = grown
	}

	for ch, s := range b.channels {
		keep := 0
		if ch < oldChannels {
			keep = min(b.frames, frames)
		}
		if cap(s) >= frames {
			s = s[:frames]
		} else {
			grown := make([]float64, frames)
			copy(grown, s[:keep])
			s = grown
		}
		core.Zero(s[keep:])
		b.channels[ch] = s
	}
	b.frames = frames
}

// Zero sets every sample to 0.
func (b *Block) Zero() {
	for _, ch := range b.channels {
		core.Zero(ch)
	}
}

// View returns per-channel subslices covering frames [start, end).
// Bounds are clamped to the block.
func (b *Block) View(start, end int) [][]float64 {
	start = max(start, 0)
	end = min(end, b.frames)
	if end < start {
		end = start
	}

	out := make([][]float64, len(b.channels))
	for ch, s := range b.channels {
		out[ch] = s[start:end]
	}
	return out
}

// Deinterleave reshapes the block to hold interleaved frame data.
// Trailing samples that do not form a whole frame are ignored.
func (b *Block) Deinterleave(interleaved []float64, channels int) {
	if channels <= 0 {
		b.Resize(0, 0)
		return
	}

	frames := len(interleaved) / channels
	b.Resize(channels, frames)
	for i := 0; i < frames; i++ {
		frame := interleaved[i*channels : (i+1)*channels]
		for ch, v := range frame {
			b.channels[ch][i] = v
		}
	}
}

// Interleave writes the block into dst as interleaved frames and returns it.
// dst is grown when its capacity is too small.
func (b *Block) Interleave(dst []float64) []float64 {
	n := len(b.channels)
	dst = core.EnsureLen(dst, n*b.frames)
	for i := 0; i < b.frames; i++ {
		for ch := 0; ch < n; ch++ {
			dst[i*n+ch] = b.channels[ch][i]
		}
	}
	return dst
}

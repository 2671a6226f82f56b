package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/cwbudde/algo-delayfx/dsp/buffer"
	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/effects/comb"
	"github.com/cwbudde/algo-delayfx/dsp/effects/modulation"
	"github.com/cwbudde/algo-delayfx/internal/wavio"
	"github.com/cwbudde/algo-delayfx/measure/response"
)

const analyzeLength = 8192

type processor interface {
	Process(dst, src [][]float64)
}

func newProcessor(opts options, sampleRate float64, channels int) (processor, error) {
	switch opts.effect {
	case "fir":
		f, err := comb.NewFIR(opts.maxDelay, sampleRate, channels, opts.taps)
		if err != nil {
			return nil, err
		}
		return f, configureComb(&f.CombFilter, opts)
	case "iir":
		f, err := comb.NewIIR(opts.maxDelay, sampleRate, channels, opts.ff, opts.fb)
		if err != nil {
			return nil, err
		}
		return f, configureComb(&f.CombFilter, opts)
	case "vibrato":
		return modulation.NewVibrato(sampleRate, channels,
			modulation.WithVibratoRateHz(opts.rateHz),
			modulation.WithVibratoDepthSeconds(opts.depth),
			modulation.WithVibratoDelaySeconds(opts.delay),
			modulation.WithVibratoInterpolation(opts.interpMode),
		)
	default:
		return nil, fmt.Errorf("unknown effect %q", opts.effect)
	}
}

func configureComb(c *comb.CombFilter, opts options) error {
	if err := c.SetParam(comb.ParamGain, opts.gain); err != nil {
		return err
	}
	return c.SetParam(comb.ParamDelay, opts.delay)
}

func processFile(logger *slog.Logger, opts options, inPath, outPath string) error {
	in, err := wavio.Read(inPath)
	if err != nil {
		return err
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(in.SampleRate)),
		core.WithChannels(in.Channels()),
		core.WithBlockSize(opts.blockSize),
	)
	logger.Info("processing",
		"in", inPath,
		"effect", opts.effect,
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"bit_depth", in.BitDepth,
		"frames", in.Frames(),
	)

	p, err := newProcessor(opts, cfg.SampleRate, cfg.Channels)
	if err != nil {
		return err
	}

	out := &wavio.Audio{
		SampleRate: in.SampleRate,
		BitDepth:   in.BitDepth,
		Block:      buffer.NewBlock(cfg.Channels, in.Frames()),
	}
	blocks := render(p, in.Block, out.Block, cfg)
	logger.Debug("rendered", "blocks", blocks, "block_size", cfg.BlockSize)

	if err := wavio.Write(outPath, out); err != nil {
		return err
	}
	logger.Info("wrote", "out", outPath, "frames", out.Frames())
	return nil
}

// render runs p over src in blocks of cfg.BlockSize frames and returns the
// number of blocks processed.
func render(p processor, src, dst *buffer.Block, cfg core.ProcessorConfig) int {
	blocks := 0
	for start := 0; start < src.Frames(); start += cfg.BlockSize {
		end := min(start+cfg.BlockSize, src.Frames())
		p.Process(dst.View(start, end), src.View(start, end))
		blocks++
	}
	return blocks
}

func analyze(w io.Writer, opts options) error {
	p, err := newProcessor(opts, opts.sampleRate, 1)
	if err != nil {
		return err
	}

	a := response.NewAnalyzer(opts.sampleRate, analyzeLength)
	res, err := a.Measure(p, 1, 0)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Effect\t%s\n", opts.effect)
	fmt.Fprintf(tw, "Bin width [Hz]\t%.3f\n", res.Frequency(1))
	fmt.Fprintf(tw, "DC gain\t%.4f\n", res.Magnitude[0])

	decay, err := response.DecayTime(res.IR, opts.sampleRate)
	switch {
	case err == nil:
		fmt.Fprintf(tw, "Decay time (60 dB) [s]\t%.4f\n", decay)
	case errors.Is(err, response.ErrNoDecay):
		fmt.Fprintf(tw, "Decay time (60 dB) [s]\t-\n")
	default:
		return err
	}

	printBins(tw, "Notch", res, res.Notches(-40))
	printBins(tw, "Peak", res, res.Peaks(0.1))
	return tw.Flush()
}

// printBins lists at most eight bins to keep long combs readable.
func printBins(w io.Writer, label string, res response.Result, bins []int) {
	const limit = 8
	db := res.MagnitudeDB()
	for i, k := range bins {
		if i == limit {
			fmt.Fprintf(w, "%s\t... %d more\n", label, len(bins)-limit)
			return
		}
		fmt.Fprintf(w, "%s [Hz]\t%.2f\t%.2f dB\n", label, res.Frequency(k), db[k])
	}
}

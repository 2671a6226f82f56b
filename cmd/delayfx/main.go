// Command delayfx applies a comb filter or vibrato to a WAV file.
//
// Usage:
//
//	delayfx [flags] <in.wav> <out.wav>
//	delayfx -analyze [flags]
//
// Examples:
//
//	delayfx -effect fir -gain 0.7 -delay 0.7 sweep.wav sweep_fir.wav
//	delayfx -effect iir -gain 0.7 -delay 0.01 -feedback 0.9 drums.wav drums_iir.wav
//	delayfx -effect vibrato -rate 6 -depth 0.003 voice.wav voice_vib.wav
//	delayfx -effect vibrato -interp hermite voice.wav voice_vib.wav
//	delayfx -analyze -effect fir -delay 0.001 -fs 48000
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-delayfx/dsp/interp"
)

type options struct {
	effect     string
	gain       float64
	delay      float64
	maxDelay   float64
	taps       []float64
	ff         float64
	fb         float64
	rateHz     float64
	depth      float64
	interpMode interp.Mode
	blockSize  int
	logLevel   string
	analyze    bool
	sampleRate float64
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, files, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level, err := resolveLogLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.analyze {
		err = analyze(stdout, opts)
	} else {
		if len(files) != 2 {
			err = fmt.Errorf("expected <in.wav> <out.wav>, got %d arguments", len(files))
		} else {
			err = processFile(logger, opts, files[0], files[1])
		}
	}
	if err != nil {
		logger.Error("delayfx failed", "effect", opts.effect, "err", err)
	}
	return err
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	fs := flag.NewFlagSet("delayfx", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var taps, mode string
	fs.StringVar(&opts.effect, "effect", "fir", "effect type: fir, iir or vibrato")
	fs.Float64Var(&opts.gain, "gain", 0.7, "comb gain (>= 0)")
	fs.Float64Var(&opts.delay, "delay", 0.01, "comb delay or vibrato base delay in seconds")
	fs.Float64Var(&opts.maxDelay, "max-delay", 0, "comb delay ceiling in seconds (0: same as -delay)")
	fs.StringVar(&taps, "taps", "1,1", "FIR coefficients: direct,delayed")
	fs.Float64Var(&opts.ff, "feedforward", 1, "IIR direct-path coefficient")
	fs.Float64Var(&opts.fb, "feedback", 1, "IIR feedback coefficient")
	fs.Float64Var(&opts.rateHz, "rate", 5, "vibrato LFO rate in Hz")
	fs.Float64Var(&opts.depth, "depth", 0.002, "vibrato depth in seconds")
	fs.StringVar(&mode, "interp", "linear", "vibrato interpolation: linear or hermite")
	fs.IntVar(&opts.blockSize, "block", 1024, "processing block size in frames")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.BoolVar(&opts.analyze, "analyze", false, "print the effect's frequency response instead of processing a file")
	fs.Float64Var(&opts.sampleRate, "fs", 48000, "sample rate used by -analyze")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: delayfx [flags] <in.wav> <out.wav>\n")
		fmt.Fprintf(stderr, "       delayfx -analyze [flags]\n\n")
		fmt.Fprintf(stderr, "Applies a FIR/IIR comb filter or a vibrato to a WAV file.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}

	var err error
	opts.effect = strings.ToLower(strings.TrimSpace(opts.effect))
	if opts.taps, err = parseTaps(taps); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return options{}, nil, err
	}
	if opts.interpMode, err = parseInterp(mode); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return options{}, nil, err
	}
	if opts.maxDelay == 0 {
		opts.maxDelay = opts.delay
	}
	return opts, fs.Args(), nil
}

func parseTaps(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	taps := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tap %q: %w", f, err)
		}
		taps = append(taps, v)
	}
	return taps, nil
}

func parseInterp(s string) (interp.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return interp.Linear, nil
	case "hermite":
		return interp.Hermite, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", s)
	}
}

func resolveLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

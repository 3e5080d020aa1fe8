package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	configloader "github.com/foxseedlab/kikitori/external/config"
	"github.com/foxseedlab/kikitori/internal/render"
	"github.com/foxseedlab/kikitori/internal/transcript"
)

const defaultPreviewSegments = 3

type options struct {
	input     string
	output    string
	envFile   string
	preview   int
	overrides configloader.Overrides
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("kikitori", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: kikitori -i <recording> [-o <output base>] [flags]")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.input, "i", "", "input audio file (shorthand for -input)")
	fs.StringVar(&o.input, "input", "", "input audio file")
	fs.StringVar(&o.output, "o", "", "output path without extension (shorthand for -output)")
	fs.StringVar(&o.output, "output", "", "output path without extension; defaults to the input name in the current directory")
	fs.StringVar(&o.envFile, "env-file", "", "env file to load before reading the environment (default .env if present)")
	fs.IntVar(&o.preview, "preview", defaultPreviewSegments, "number of segments to print after transcription")
	fs.StringVar(&o.overrides.TranscribeLanguage, "language", "", "transcription language, overrides TRANSCRIBE_LANGUAGE")
	fs.StringVar(&o.overrides.ASRBackend, "backend", "", "speech recognition backend (google or openai), overrides ASR_BACKEND")
	fs.IntVar(&o.overrides.ASRConcurrency, "concurrency", 0, "parallel recognition requests, overrides ASR_CONCURRENCY")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if o.input == "" {
		fs.Usage()
		return options{}, errors.New("input file is required")
	}
	if o.preview < 0 {
		return options{}, fmt.Errorf("preview must be >= 0, got %d", o.preview)
	}
	if o.overrides.ASRConcurrency < 0 {
		return options{}, fmt.Errorf("concurrency must be >= 1, got %d", o.overrides.ASRConcurrency)
	}
	if o.output == "" {
		o.output = defaultOutputBase(o.input)
	}
	return o, nil
}

func defaultOutputBase(input string) string {
	name := filepath.Base(input)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func printSummary(w io.Writer, paths render.Paths, segments []transcript.Segment, preview int) {
	fmt.Fprintln(w, "Transcription complete. Output files:")
	fmt.Fprintf(w, "- JSON: %s\n", paths.JSON)
	fmt.Fprintf(w, "- Markdown: %s\n", paths.Markdown)
	fmt.Fprintf(w, "- Text: %s\n", paths.Text)

	if preview > len(segments) {
		preview = len(segments)
	}
	if preview == 0 {
		return
	}
	fmt.Fprintf(w, "\nFirst %d segments:\n", preview)
	for _, seg := range segments[:preview] {
		fmt.Fprintf(w, "\n%s (%s - %s):\n%s\n", seg.Speaker, seg.StartTime, seg.EndTime, seg.Text)
	}
}

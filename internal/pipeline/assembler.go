package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"

	"github.com/foxseedlab/kikitori/internal/transcriber"
	"github.com/foxseedlab/kikitori/internal/transcript"
	"golang.org/x/sync/errgroup"
)

const progressLogEvery = 25

type AssemblerConfig struct {
	Language        string
	Concurrency     int
	ContinueOnError bool
}

type Assembler struct {
	recognizer      transcriber.Recognizer
	language        string
	concurrency     int
	continueOnError bool
}

func NewAssembler(rec transcriber.Recognizer, cfg AssemblerConfig) *Assembler {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Assembler{
		recognizer:      rec,
		language:        cfg.Language,
		concurrency:     concurrency,
		continueOnError: cfg.ContinueOnError,
	}
}

func (a *Assembler) Assemble(ctx context.Context, w transcript.Waveform, turns []transcript.SpeakerTurn) ([]transcript.Segment, error) {
	segments := make([]transcript.Segment, len(turns))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, turn := range turns {
		i, turn := i, turn
		g.Go(func() error {
			seg, err := a.assembleOne(gctx, w, i, turn)
			if err != nil {
				return err
			}
			segments[i] = seg
			if n := done.Add(1); n%progressLogEvery == 0 || int(n) == len(turns) {
				slog.Info("segments recognized", "done", n, "total", len(turns))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stageErr(StageRecognize, err)
	}
	return segments, nil
}

func (a *Assembler) assembleOne(ctx context.Context, w transcript.Waveform, index int, turn transcript.SpeakerTurn) (transcript.Segment, error) {
	if !turn.Valid() {
		slog.Warn("diarization turn has invalid bounds; clamping to the recording",
			"segment_index", index, "speaker", turn.Speaker, "start", turn.Start, "end", turn.End)
	}
	slice := sliceTurn(w, turn)

	text, err := a.recognizer.Recognize(ctx, slice, w.SampleRate, transcriber.Options{
		Language: a.language,
		Task:     transcriber.TaskTranscribe,
	})
	seg := transcript.Segment{
		Speaker:   turn.Speaker,
		StartTime: transcript.FormatDuration(turn.Start),
		EndTime:   transcript.FormatDuration(turn.End),
	}
	if err != nil {
		if !a.continueOnError || ctx.Err() != nil {
			return transcript.Segment{}, fmt.Errorf("segment %d (%s %s-%s): %w", index, seg.Speaker, seg.StartTime, seg.EndTime, err)
		}
		slog.Warn("recognition failed; keeping segment with empty text",
			"segment_index", index, "speaker", seg.Speaker, "error", err)
		return seg, nil
	}
	seg.Text = strings.TrimSpace(text)
	slog.Debug("segment recognized",
		"segment_index", index,
		"speaker", seg.Speaker,
		"start_time", seg.StartTime,
		"end_time", seg.EndTime,
		"samples", len(slice))
	return seg, nil
}

// sliceTurn returns samples [floor(start*rate), floor(end*rate)) clamped to the waveform.
func sliceTurn(w transcript.Waveform, turn transcript.SpeakerTurn) []float32 {
	n := len(w.Samples)
	start := sampleIndex(turn.Start, w.SampleRate, n)
	end := sampleIndex(turn.End, w.SampleRate, n)
	if start >= end {
		return w.Samples[start:start]
	}
	return w.Samples[start:end]
}

func sampleIndex(seconds float64, rate, n int) int {
	if math.IsNaN(seconds) || seconds <= 0 || rate <= 0 {
		return 0
	}
	pos := math.Floor(seconds * float64(rate))
	if pos >= float64(n) {
		return n
	}
	return int(pos)
}

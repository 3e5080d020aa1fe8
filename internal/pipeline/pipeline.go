package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/diarizer"
	"github.com/foxseedlab/kikitori/internal/discord"
	"github.com/foxseedlab/kikitori/internal/render"
	"github.com/foxseedlab/kikitori/internal/transcriber"
	"github.com/foxseedlab/kikitori/internal/transcript"
	"github.com/foxseedlab/kikitori/internal/webhook"
	"github.com/google/uuid"
)

const deliveryTimeout = time.Minute

type Request struct {
	InputPath string
	// OutputBase is the output path without extension.
	OutputBase string
}

type Report struct {
	RunID   string
	Result  transcript.Result
	Paths   render.Paths
	Elapsed time.Duration
}

type Pipeline struct {
	loader     audio.Loader
	diarizer   diarizer.Diarizer
	recognizer transcriber.Recognizer
	assembler  *Assembler
	webhook    webhook.Sender
	discord    discord.Client
	location   *time.Location
	now        func() time.Time
	newRunID   func() string
}

func NewPipeline(cfg *config.Config, loader audio.Loader, dz diarizer.Diarizer, rec transcriber.Recognizer, wh webhook.Sender, dc discord.Client) *Pipeline {
	return &Pipeline{
		loader:     loader,
		diarizer:   dz,
		recognizer: rec,
		assembler: NewAssembler(rec, AssemblerConfig{
			Language:        cfg.TranscribeLanguage,
			Concurrency:     cfg.ASRConcurrency,
			ContinueOnError: cfg.ContinueOnSegmentError,
		}),
		webhook:  wh,
		discord:  dc,
		location: cfg.Location(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	runID := p.newRunID()
	started := p.now()
	logger := slog.With("run_id", runID)
	logger.Info("transcription started", "input", req.InputPath, "output_base", req.OutputBase)

	w, err := p.loader.Load(ctx, req.InputPath)
	if err != nil {
		return nil, stageErr(StageLoad, err)
	}
	logger.Info("audio loaded", "seconds", w.Duration().Seconds(), "sample_rate", w.SampleRate)

	turns, err := p.diarizer.Diarize(ctx, w)
	if err != nil {
		return nil, stageErr(StageDiarize, err)
	}
	logger.Info("speaker turns detected", "turns", len(turns), "model", p.diarizer.Model())

	segments, err := p.assembler.Assemble(ctx, w, turns)
	if err != nil {
		return nil, err
	}

	result := transcript.Result{
		Metadata: transcript.Metadata{
			File:          req.InputPath,
			DateProcessed: p.now().In(p.location).Format(time.RFC3339),
			ModelInfo: transcript.ModelInfo{
				ASR:         p.recognizer.Model(),
				Diarization: p.diarizer.Model(),
			},
		},
		Segments: segments,
	}

	out, err := render.Render(result)
	if err != nil {
		return nil, stageErr(StageRender, err)
	}
	paths, err := render.WriteFiles(req.OutputBase, out)
	if err != nil {
		return nil, stageErr(StageWrite, err)
	}
	logger.Info("transcript written", "json", paths.JSON, "markdown", paths.Markdown, "text", paths.Text)

	p.deliver(ctx, logger, runID, result, paths, out)

	elapsed := p.now().Sub(started)
	logger.Info("transcription completed",
		"segments", len(segments),
		"speakers", transcript.UniqueSpeakerCount(segments),
		"elapsed", elapsed.String())
	return &Report{RunID: runID, Result: result, Paths: paths, Elapsed: elapsed}, nil
}

func (p *Pipeline) deliver(ctx context.Context, logger *slog.Logger, runID string, result transcript.Result, paths render.Paths, out render.Outputs) {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if p.webhook != nil {
		if err := p.webhook.SendTranscript(ctx, webhook.TranscriptFile{
			RunID:       runID,
			Filename:    filepath.Base(paths.JSON),
			ContentType: "application/json",
			Body:        out.JSON,
		}); err != nil {
			logger.Error("failed to send webhook transcript", "error", err)
		}
	}

	if p.discord != nil && p.discord.Enabled() {
		err := p.discord.SendChannelMessageWithFiles(discord.FileMessage{
			ChannelID: p.discord.ChannelID(),
			Content:   discordSummary(result),
			Files: []discord.Attachment{
				{Filename: filepath.Base(paths.Markdown), ContentType: "text/markdown", Body: out.Markdown},
				{Filename: filepath.Base(paths.Text), ContentType: "text/plain", Body: out.Text},
			},
		})
		if err != nil {
			logger.Error("failed to post transcript to discord", "error", err, "channel_id", p.discord.ChannelID())
		}
	}
}

func discordSummary(result transcript.Result) string {
	return fmt.Sprintf(":page_facing_up: **Interview transcript** `%s`\nUnique speakers: %d / Number of segments: %d",
		filepath.Base(result.Metadata.File),
		transcript.UniqueSpeakerCount(result.Segments),
		len(result.Segments))
}

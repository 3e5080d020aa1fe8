package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	audioimpl "github.com/foxseedlab/kikitori/external/audio"
	configloader "github.com/foxseedlab/kikitori/external/config"
	diarizerimpl "github.com/foxseedlab/kikitori/external/diarizer"
	"github.com/foxseedlab/kikitori/external/discord"
	transcriberimpl "github.com/foxseedlab/kikitori/external/transcriber"
	webhookimpl "github.com/foxseedlab/kikitori/external/webhook"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/pipeline"
	"github.com/foxseedlab/kikitori/internal/transcriber"
	"github.com/lmittmann/tint"
	"github.com/samber/do/v2"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	cfg, err := configloader.Load(opts.envFile, opts.overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "transcription failed: %v\n", err)
		return exitFailure
	}
	initLogger(cfg)
	slog.Debug("configuration loaded", "env", cfg.Env, "asr_backend", cfg.ASRBackend, "language", cfg.TranscribeLanguage)

	injector := setupDI(cfg)
	p, err := do.Invoke[*pipeline.Pipeline](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "transcription failed: %v\n", err)
		return exitFailure
	}
	defer closeRecognizer(injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := p.Run(ctx, pipeline.Request{InputPath: opts.input, OutputBase: opts.output})
	if err != nil {
		slog.Error("transcription failed", "error", err)
		fmt.Fprintf(os.Stderr, "transcription failed: %v\n", err)
		return exitFailure
	}
	printSummary(os.Stdout, report.Paths, report.Result.Segments, opts.preview)
	return exitOK
}

func initLogger(cfg *config.Config) {
	if cfg.IsDevelopment() {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.TimeOnly,
		})))
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	audioimpl.RegisterDI(injector)
	diarizerimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	pipeline.RegisterDI(injector)

	return injector
}

func closeRecognizer(injector do.Injector) {
	rec, err := do.Invoke[transcriber.Recognizer](injector)
	if err != nil {
		return
	}
	if c, ok := rec.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close speech recognizer", "error", err)
		}
	}
}

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/transcript"
)

type decodedPCM struct {
	samples    []float32
	channels   int
	sampleRate int
}

type FileLoader struct {
	ffmpegPath string
}

func NewFileLoader(ffmpegPath string) audio.Loader {
	return &FileLoader{ffmpegPath: ffmpegPath}
}

func (l *FileLoader) Load(ctx context.Context, path string) (transcript.Waveform, error) {
	info, err := os.Stat(path)
	if err != nil {
		return transcript.Waveform{}, fmt.Errorf("open audio: %w", err)
	}
	if info.IsDir() {
		return transcript.Waveform{}, fmt.Errorf("audio path %s is a directory", path)
	}

	pcm, err := l.decode(ctx, path)
	if err != nil {
		return transcript.Waveform{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if pcm.channels <= 0 || pcm.sampleRate <= 0 {
		return transcript.Waveform{}, fmt.Errorf("decode %s: invalid stream layout (channels=%d, rate=%d)", path, pcm.channels, pcm.sampleRate)
	}

	mono := downmix(pcm.samples, pcm.channels)
	if len(mono) == 0 {
		return transcript.Waveform{}, fmt.Errorf("decode %s: no audio samples", path)
	}
	if pcm.sampleRate != audio.TargetSampleRate {
		mono = resampleLinear(mono, pcm.sampleRate, audio.TargetSampleRate)
	}
	slog.Debug("audio decoded",
		"path", path,
		"source_channels", pcm.channels,
		"source_sample_rate", pcm.sampleRate,
		"samples", len(mono))
	return transcript.Waveform{Samples: mono, SampleRate: audio.TargetSampleRate}, nil
}

func (l *FileLoader) decode(ctx context.Context, path string) (decodedPCM, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		pcm, err := decodeWAVFile(path)
		if errors.Is(err, errNotIntegerPCM) {
			slog.Debug("wav is not integer pcm; decoding with ffmpeg", "path", path)
			return decodeWithFFmpeg(ctx, l.ffmpegPath, path)
		}
		return pcm, err
	case ".opus", ".ogg", ".oga":
		pcm, err := decodeOpusFile(path)
		if errors.Is(err, errOpusUnsupported) || errors.Is(err, errNotOggOpus) {
			slog.Debug("decoding ogg with ffmpeg", "path", path, "reason", err)
			return decodeWithFFmpeg(ctx, l.ffmpegPath, path)
		}
		return pcm, err
	default:
		return decodeWithFFmpeg(ctx, l.ffmpegPath, path)
	}
}

package diarizer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	audioimpl "github.com/foxseedlab/kikitori/external/audio"
	"github.com/foxseedlab/kikitori/internal/diarizer"
	"github.com/foxseedlab/kikitori/internal/transcript"
)

//go:embed assets/pyannote_diarize.py
var pyannoteScript []byte

type PyannoteConfig struct {
	Python string
	Model  string
	Token  string
}

type PyannoteDiarizer struct {
	python string
	model  string
	token  string
}

func NewPyannoteDiarizer(cfg PyannoteConfig) diarizer.Diarizer {
	return &PyannoteDiarizer{
		python: strings.TrimSpace(cfg.Python),
		model:  strings.TrimSpace(cfg.Model),
		token:  cfg.Token,
	}
}

func (d *PyannoteDiarizer) Model() string {
	return d.model
}

type helperTurn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

func (d *PyannoteDiarizer) Diarize(ctx context.Context, w transcript.Waveform) ([]transcript.SpeakerTurn, error) {
	workDir, err := os.MkdirTemp("", "kikitori-diarize-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(workDir)
	}()

	scriptPath := filepath.Join(workDir, "pyannote_diarize.py")
	if err := os.WriteFile(scriptPath, pyannoteScript, 0o600); err != nil {
		return nil, fmt.Errorf("write helper script: %w", err)
	}
	audioPath := filepath.Join(workDir, "audio.wav")
	if err := audioimpl.WriteWAV(audioPath, w); err != nil {
		return nil, fmt.Errorf("write helper audio: %w", err)
	}

	slog.Info("running diarization helper", "model", d.model, "python", d.python, "audio_seconds", w.Duration().Seconds())
	cmd := exec.CommandContext(ctx, d.python, scriptPath, "--audio", audioPath, "--model", d.model)
	cmd.Env = append(os.Environ(), "HF_TOKEN="+d.token)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("diarization helper failed: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("run diarization helper: %w", err)
	}

	turns, err := parseHelperOutput(out)
	if err != nil {
		return nil, err
	}
	slog.Info("diarization finished", "turns", len(turns))
	return turns, nil
}

func parseHelperOutput(out []byte) ([]transcript.SpeakerTurn, error) {
	var parsed []helperTurn
	if err := json.Unmarshal(bytes.TrimSpace(out), &parsed); err != nil {
		return nil, fmt.Errorf("parse diarization output: %w", err)
	}
	turns := make([]transcript.SpeakerTurn, 0, len(parsed))
	for _, p := range parsed {
		turns = append(turns, transcript.SpeakerTurn{Start: p.Start, End: p.End, Speaker: p.Speaker})
	}
	return turns, nil
}

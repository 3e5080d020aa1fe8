package diarizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foxseedlab/kikitori/internal/transcript"
)

func writeFakePython(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-python")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write fake interpreter: %v", err)
	}
	return path
}

func testWaveform() transcript.Waveform {
	return transcript.Waveform{Samples: make([]float32, 1600), SampleRate: 16000}
}

func TestParseHelperOutput_PreservesOrder(t *testing.T) {
	turns, err := parseHelperOutput([]byte(`[{"start":0,"end":5,"speaker":"SPEAKER_00"},{"start":5,"end":12.4,"speaker":"SPEAKER_01"}]` + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("unexpected turn count: %d", len(turns))
	}
	if turns[0].Speaker != "SPEAKER_00" || turns[1].End != 12.4 {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}

func TestParseHelperOutput_Malformed(t *testing.T) {
	if _, err := parseHelperOutput([]byte("Traceback (most recent call last)")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDiarize_RunsHelperWithTokenInEnv(t *testing.T) {
	python := writeFakePython(t, `
if [ "$HF_TOKEN" != "hf_secret" ]; then echo "missing token" >&2; exit 2; fi
case "$*" in *"--model pyannote/test"*) ;; *) echo "bad args: $*" >&2; exit 3;; esac
echo '[{"start":1.5,"end":3.0,"speaker":"SPEAKER_00"}]'
`)
	d := NewPyannoteDiarizer(PyannoteConfig{Python: python, Model: "pyannote/test", Token: "hf_secret"})

	turns, err := d.Diarize(context.Background(), testWaveform())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 1 || turns[0].Start != 1.5 || turns[0].Speaker != "SPEAKER_00" {
		t.Fatalf("unexpected turns: %+v", turns)
	}
	if d.Model() != "pyannote/test" {
		t.Fatalf("unexpected model: %s", d.Model())
	}
}

func TestDiarize_SurfacesHelperStderr(t *testing.T) {
	python := writeFakePython(t, `echo "401 Unauthorized" >&2; exit 1`)
	d := NewPyannoteDiarizer(PyannoteConfig{Python: python, Model: "m", Token: "bad"})

	_, err := d.Diarize(context.Background(), testWaveform())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401 Unauthorized") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestDiarize_MissingInterpreter(t *testing.T) {
	d := NewPyannoteDiarizer(PyannoteConfig{Python: filepath.Join(t.TempDir(), "nope"), Model: "m", Token: "t"})
	if _, err := d.Diarize(context.Background(), testWaveform()); err == nil {
		t.Fatal("expected error when interpreter is missing")
	}
}

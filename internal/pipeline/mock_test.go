package pipeline

import (
	"context"
	"sync"

	"github.com/foxseedlab/kikitori/internal/discord"
	"github.com/foxseedlab/kikitori/internal/transcriber"
	"github.com/foxseedlab/kikitori/internal/transcript"
	"github.com/foxseedlab/kikitori/internal/webhook"
)

type mockLoader struct {
	waveform transcript.Waveform
	err      error
	paths    []string
}

func (m *mockLoader) Load(_ context.Context, path string) (transcript.Waveform, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return transcript.Waveform{}, m.err
	}
	return m.waveform, nil
}

type mockDiarizer struct {
	turns []transcript.SpeakerTurn
	err   error
}

func (m *mockDiarizer) Diarize(context.Context, transcript.Waveform) ([]transcript.SpeakerTurn, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.turns, nil
}

func (m *mockDiarizer) Model() string { return "pyannote/speaker-diarization-3.0" }

type recognizeCall struct {
	samples    int
	sampleRate int
	opts       transcriber.Options
}

// mockRecognizer answers by call order unless textFor is set.
type mockRecognizer struct {
	mu      sync.Mutex
	texts   []string
	textFor func(samples []float32) (string, error)
	errAt   map[int]error
	calls   []recognizeCall
}

func (m *mockRecognizer) Recognize(_ context.Context, samples []float32, sampleRate int, opts transcriber.Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.calls)
	m.calls = append(m.calls, recognizeCall{samples: len(samples), sampleRate: sampleRate, opts: opts})
	if m.textFor != nil {
		return m.textFor(samples)
	}
	if err, ok := m.errAt[n]; ok {
		return "", err
	}
	if n < len(m.texts) {
		return m.texts[n], nil
	}
	return "", nil
}

func (m *mockRecognizer) Model() string { return "google-cloud-speech/long" }

type mockWebhook struct {
	files []webhook.TranscriptFile
	err   error
}

func (m *mockWebhook) SendTranscript(_ context.Context, file webhook.TranscriptFile) error {
	m.files = append(m.files, file)
	return m.err
}

type mockDiscord struct {
	enabled  bool
	messages []discord.FileMessage
	err      error
}

func (m *mockDiscord) Enabled() bool     { return m.enabled }
func (m *mockDiscord) ChannelID() string { return "channel-1" }

func (m *mockDiscord) SendChannelMessageWithFiles(msg discord.FileMessage) error {
	m.messages = append(m.messages, msg)
	return m.err
}

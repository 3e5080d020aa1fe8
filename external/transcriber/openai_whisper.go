package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	audioimpl "github.com/foxseedlab/kikitori/external/audio"
	"github.com/foxseedlab/kikitori/internal/transcriber"
	"github.com/foxseedlab/kikitori/internal/transcript"
)

const openAIRequestTimeout = 10 * time.Minute

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OpenAITranscriber struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAITranscriber(cfg OpenAIConfig) *OpenAITranscriber {
	return &OpenAITranscriber{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:   strings.TrimSpace(cfg.Model),
		client:  &http.Client{Timeout: openAIRequestTimeout},
	}
}

func (o *OpenAITranscriber) Model() string {
	return o.model
}

type openAIResponse struct {
	Text string `json:"text"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAITranscriber) Recognize(ctx context.Context, samples []float32, sampleRate int, opts transcriber.Options) (string, error) {
	if err := checkTask(opts); err != nil {
		return "", err
	}
	if len(samples) == 0 {
		return "", nil
	}

	wavBody, err := encodeWAV(transcript.Waveform{Samples: samples, SampleRate: sampleRate})
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"model":           o.model,
		"response_format": "json",
	}
	if lang := baseLanguage(opts.Language); lang != "" {
		fields["language"] = lang
	}
	for _, k := range []string{"model", "language", "response_format"} {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	fw, err := mw.CreateFormFile("file", "segment.wav")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(wavBody); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai transcription request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, describeOpenAIError(b))
	}
	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	return parsed.Text, nil
}

func describeOpenAIError(body []byte) string {
	var e openAIErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}

func encodeWAV(w transcript.Waveform) ([]byte, error) {
	f, err := os.CreateTemp("", "kikitori-segment-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create segment wav: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	defer func() {
		_ = os.Remove(path)
	}()
	if err := audioimpl.WriteWAV(path, w); err != nil {
		return nil, fmt.Errorf("write segment wav: %w", err)
	}
	return os.ReadFile(path)
}

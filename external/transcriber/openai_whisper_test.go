package transcriber

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/kikitori/internal/transcriber"
)

func TestOpenAIRecognize_SendsWAVAndLanguage(t *testing.T) {
	var gotLanguage, gotModel, gotAuth string
	var gotFileHeader []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		gotLanguage = r.FormValue("language")
		gotModel = r.FormValue("model")
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		gotFileHeader = make([]byte, 4)
		if _, err := io.ReadFull(f, gotFileHeader); err != nil {
			t.Fatalf("failed to read file part: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": " Hyvää huomenta "})
	}))
	defer server.Close()

	tr := NewOpenAITranscriber(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1/", Model: "whisper-large-v3"})
	text, err := tr.Recognize(context.Background(), make([]float32, 1600), 16000, transcriber.Options{Language: "fi-FI", Task: transcriber.TaskTranscribe})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != " Hyvää huomenta " {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotLanguage != "fi" || gotModel != "whisper-large-v3" {
		t.Fatalf("unexpected form values: language=%q model=%q", gotLanguage, gotModel)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if string(gotFileHeader) != "RIFF" {
		t.Fatalf("expected wav upload, got header %q", gotFileHeader)
	}
	if tr.Model() != "whisper-large-v3" {
		t.Fatalf("unexpected model id: %s", tr.Model())
	}
}

func TestOpenAIRecognize_EmptySamplesSkipRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty input")
	}))
	defer server.Close()

	tr := NewOpenAITranscriber(OpenAIConfig{BaseURL: server.URL, Model: "whisper-1"})
	text, err := tr.Recognize(context.Background(), nil, 16000, transcriber.Options{Language: "fi", Task: transcriber.TaskTranscribe})
	if err != nil || text != "" {
		t.Fatalf("expected empty text and nil error, got %q, %v", text, err)
	}
}

func TestOpenAIRecognize_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	tr := NewOpenAITranscriber(OpenAIConfig{APIKey: "bad", BaseURL: server.URL, Model: "whisper-1"})
	_, err := tr.Recognize(context.Background(), make([]float32, 160), 16000, transcriber.Options{Language: "fi", Task: transcriber.TaskTranscribe})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Fatalf("expected api message in error, got %v", err)
	}
}

func TestOpenAIRecognize_RejectsTranslation(t *testing.T) {
	tr := NewOpenAITranscriber(OpenAIConfig{BaseURL: "http://127.0.0.1:0", Model: "whisper-1"})
	if _, err := tr.Recognize(context.Background(), make([]float32, 10), 16000, transcriber.Options{Task: "translate"}); err == nil {
		t.Fatal("expected error for translate task")
	}
}

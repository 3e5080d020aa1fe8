package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/kikitori/internal/webhook"
)

func TestSendTranscript_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendTranscript(context.Background(), webhook.TranscriptFile{Filename: "a.json", Body: []byte("{}")}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendTranscript_Success(t *testing.T) {
	var gotRunID, gotFilename, gotPartType, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Fatalf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		reader, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("failed to create multipart reader: %v", err)
		}
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("failed to read multipart part: %v", err)
			}
			content, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read part body: %v", err)
			}
			switch part.FormName() {
			case "run_id":
				gotRunID = string(content)
			case "file":
				gotFilename = part.FileName()
				gotPartType = part.Header.Get("Content-Type")
				gotBody = string(content)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	err := sender.SendTranscript(context.Background(), webhook.TranscriptFile{
		RunID:       "run-1",
		Filename:    "interview.json",
		ContentType: "application/json",
		Body:        []byte(`{"segments":[]}`),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotRunID != "run-1" {
		t.Fatalf("unexpected run id: %s", gotRunID)
	}
	if gotFilename != "interview.json" || gotPartType != "application/json" {
		t.Fatalf("unexpected file part: name=%s type=%s", gotFilename, gotPartType)
	}
	if gotBody != `{"segments":[]}` {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestSendTranscript_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendTranscript(context.Background(), webhook.TranscriptFile{Filename: "a.json"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

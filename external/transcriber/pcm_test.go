package transcriber

import (
	"encoding/binary"
	"testing"

	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLinear16(t *testing.T) {
	out := linear16([]float32{0, 1, -1, 2})
	if len(out) != 8 {
		t.Fatalf("unexpected byte length: %d", len(out))
	}
	got := []int16{
		int16(binary.LittleEndian.Uint16(out[0:])),
		int16(binary.LittleEndian.Uint16(out[2:])),
		int16(binary.LittleEndian.Uint16(out[4:])),
		int16(binary.LittleEndian.Uint16(out[6:])),
	}
	want := []int16{0, 32767, -32767, 32767}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestBaseLanguage(t *testing.T) {
	cases := map[string]string{"fi": "fi", "fi-FI": "fi", "en_US": "en", " JA-jp ": "ja", "": ""}
	for in, want := range cases {
		if got := baseLanguage(in); got != want {
			t.Fatalf("baseLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinResults(t *testing.T) {
	results := []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: " Hei "}, {Transcript: "ignored"}}},
		{},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "maailma."}}},
	}
	if got := joinResults(results); got != "Hei maailma." {
		t.Fatalf("unexpected joined text: %q", got)
	}
}

func TestDescribeSpeechError(t *testing.T) {
	err := describeSpeechError(status.Error(codes.PermissionDenied, "denied"))
	if st, ok := status.FromError(err); !ok || st.Code() != codes.PermissionDenied {
		t.Fatalf("expected wrapped grpc status to survive, got %v", err)
	}
}

func TestCloudSpeechModelID(t *testing.T) {
	tr := NewCloudSpeechTranscriber(CloudSpeechConfig{ProjectID: "p", Model: "long"})
	if tr.Model() != "google-cloud-speech/long" {
		t.Fatalf("unexpected model id: %s", tr.Model())
	}
	if tr.recognizerName() != "projects/p/locations/global/recognizers/_" {
		t.Fatalf("unexpected recognizer: %s", tr.recognizerName())
	}
}

package webhook

import "context"

type TranscriptFile struct {
	RunID       string
	Filename    string
	ContentType string
	Body        []byte
}

type Sender interface {
	SendTranscript(ctx context.Context, file TranscriptFile) error
}

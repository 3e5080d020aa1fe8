package transcriber

import "context"

type Task string

const TaskTranscribe Task = "transcribe"

type Options struct {
	Language string
	Task     Task
}

type Recognizer interface {
	Recognize(ctx context.Context, samples []float32, sampleRate int, opts Options) (string, error)
	Model() string
}

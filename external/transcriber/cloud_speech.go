package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/foxseedlab/kikitori/internal/transcriber"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	speechAPIEndpointPort = 443
	// Synchronous recognition rejects content longer than one minute.
	maxRecognizeSeconds = 55
)

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Location        string
	Model           string
}

type CloudSpeechTranscriber struct {
	projectID       string
	credentialsJSON string
	location        string
	model           string

	mu     sync.Mutex
	client *speech.Client
}

func NewCloudSpeechTranscriber(cfg CloudSpeechConfig) *CloudSpeechTranscriber {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "global"
	}
	return &CloudSpeechTranscriber{
		projectID:       cfg.ProjectID,
		credentialsJSON: cfg.CredentialsJSON,
		location:        location,
		model:           strings.TrimSpace(cfg.Model),
	}
}

func (t *CloudSpeechTranscriber) Model() string {
	return "google-cloud-speech/" + t.model
}

func (t *CloudSpeechTranscriber) Recognize(ctx context.Context, samples []float32, sampleRate int, opts transcriber.Options) (string, error) {
	if err := checkTask(opts); err != nil {
		return "", err
	}
	if len(samples) == 0 {
		return "", nil
	}
	client, err := t.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	windows := chunkSamples(samples, maxRecognizeSeconds*sampleRate)
	if len(windows) > 1 {
		slog.Debug("splitting long audio for cloud speech", "windows", len(windows), "samples", len(samples))
	}
	return recognizeWindows(ctx, windows, func(ctx context.Context, window []float32) (string, error) {
		resp, err := client.Recognize(ctx, t.recognizeRequest(window, sampleRate, opts.Language))
		if err != nil {
			return "", describeSpeechError(err)
		}
		return joinResults(resp.GetResults()), nil
	})
}

func (t *CloudSpeechTranscriber) recognizeRequest(samples []float32, sampleRate int, language string) *speechpb.RecognizeRequest {
	return &speechpb.RecognizeRequest{
		Recognizer: t.recognizerName(),
		Config: &speechpb.RecognitionConfig{
			Model:         t.model,
			LanguageCodes: []string{language},
			DecodingConfig: &speechpb.RecognitionConfig_ExplicitDecodingConfig{
				ExplicitDecodingConfig: &speechpb.ExplicitDecodingConfig{
					Encoding:          speechpb.ExplicitDecodingConfig_LINEAR16,
					SampleRateHertz:   int32(sampleRate),
					AudioChannelCount: 1,
				},
			},
			Features: &speechpb.RecognitionFeatures{EnableAutomaticPunctuation: true},
		},
		AudioSource: &speechpb.RecognizeRequest_Content{Content: linear16(samples)},
	}
}

func (t *CloudSpeechTranscriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

func (t *CloudSpeechTranscriber) ensureClient(ctx context.Context) (*speech.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		return t.client, nil
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(t.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if t.location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", t.location, speechAPIEndpointPort)))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	slog.Info("cloud speech client initialized", "location", t.location, "model", t.model)
	t.client = client
	return client, nil
}

func (t *CloudSpeechTranscriber) recognizerName() string {
	return fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location)
}

func recognizeWindows(ctx context.Context, windows [][]float32, recognize func(context.Context, []float32) (string, error)) (string, error) {
	parts := make([]string, 0, len(windows))
	for i, window := range windows {
		text, err := recognize(ctx, window)
		if err != nil {
			if len(windows) > 1 {
				return "", fmt.Errorf("window %d/%d: %w", i+1, len(windows), err)
			}
			return "", err
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func joinResults(results []*speechpb.SpeechRecognitionResult) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if text := strings.TrimSpace(alts[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func describeSpeechError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("cloud speech recognize: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("cloud speech rejected credentials (%s): %w", st.Code(), err)
	case codes.InvalidArgument:
		return fmt.Errorf("cloud speech rejected request: %s: %w", st.Message(), err)
	default:
		return fmt.Errorf("cloud speech recognize (%s): %w", st.Code(), err)
	}
}

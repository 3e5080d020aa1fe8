package transcriber

import (
	"fmt"

	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Recognizer, error) {
		c := do.MustInvoke[*config.Config](i)
		switch c.ASRBackend {
		case config.ASRBackendGoogle:
			return NewCloudSpeechTranscriber(CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			}), nil
		case config.ASRBackendOpenAI:
			return NewOpenAITranscriber(OpenAIConfig{
				APIKey:  c.OpenAIAPIKey,
				BaseURL: c.OpenAIBaseURL,
				Model:   c.OpenAIModel,
			}), nil
		default:
			return nil, fmt.Errorf("unknown ASR backend %q", c.ASRBackend)
		}
	})
}

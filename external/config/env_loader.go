package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/kikitori/internal/config"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

type envConfig struct {
	Env                        string `env:"ENV" envDefault:"production"`
	TranscribeLanguage         string `env:"TRANSCRIBE_LANGUAGE" envDefault:"fi"`
	ASRBackend                 string `env:"ASR_BACKEND" envDefault:"google"`
	ASRConcurrency             int    `env:"ASR_CONCURRENCY" envDefault:"1"`
	ContinueOnSegmentError     bool   `env:"CONTINUE_ON_SEGMENT_ERROR" envDefault:"false"`
	HuggingFaceToken           string `env:"HF_TOKEN"`
	DiarizationModel           string `env:"DIARIZATION_MODEL" envDefault:"pyannote/speaker-diarization-3.0"`
	DiarizationPython          string `env:"DIARIZATION_PYTHON" envDefault:"python3"`
	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`
	OpenAIAPIKey               string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL              string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel                string `env:"OPENAI_MODEL" envDefault:"whisper-1"`
	FFmpegPath                 string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	TranscriptTimezone         string `env:"TRANSCRIPT_TIMEZONE" envDefault:"Local"`
	TranscriptWebhookURL       string `env:"TRANSCRIPT_WEBHOOK_URL"`
	DiscordToken               string `env:"DISCORD_TOKEN"`
	DiscordChannelID           string `env:"DISCORD_CHANNEL_ID"`
}

type Overrides struct {
	TranscribeLanguage string
	ASRBackend         string
	ASRConcurrency     int
}

func Load(envFile string, o Overrides) (*internalconfig.Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		TranscribeLanguage:         raw.TranscribeLanguage,
		ASRBackend:                 raw.ASRBackend,
		ASRConcurrency:             raw.ASRConcurrency,
		ContinueOnSegmentError:     raw.ContinueOnSegmentError,
		HuggingFaceToken:           raw.HuggingFaceToken,
		DiarizationModel:           raw.DiarizationModel,
		DiarizationPython:          raw.DiarizationPython,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIBaseURL:              raw.OpenAIBaseURL,
		OpenAIModel:                raw.OpenAIModel,
		FFmpegPath:                 raw.FFmpegPath,
		TranscriptTimezone:         raw.TranscriptTimezone,
		TranscriptWebhookURL:       raw.TranscriptWebhookURL,
		DiscordToken:               raw.DiscordToken,
		DiscordChannelID:           raw.DiscordChannelID,
	}
	applyOverrides(cfg, o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if _, err := os.Stat(defaultEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", defaultEnvFile, err)
	}
	if err := godotenv.Load(defaultEnvFile); err != nil {
		return fmt.Errorf("load env file %s: %w", defaultEnvFile, err)
	}
	return nil
}

func applyOverrides(cfg *internalconfig.Config, o Overrides) {
	if o.TranscribeLanguage != "" {
		cfg.TranscribeLanguage = o.TranscribeLanguage
	}
	if o.ASRBackend != "" {
		cfg.ASRBackend = o.ASRBackend
	}
	if o.ASRConcurrency > 0 {
		cfg.ASRConcurrency = o.ASRConcurrency
	}
}

package config

import (
	"fmt"
	"time"
)

const (
	ASRBackendGoogle = "google"
	ASRBackendOpenAI = "openai"
)

type Config struct {
	Env                        string
	TranscribeLanguage         string
	ASRBackend                 string
	ASRConcurrency             int
	ContinueOnSegmentError     bool
	HuggingFaceToken           string
	DiarizationModel           string
	DiarizationPython          string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	OpenAIModel                string
	FFmpegPath                 string
	TranscriptTimezone         string
	TranscriptWebhookURL       string
	DiscordToken               string
	DiscordChannelID           string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.ASRBackend {
	case ASRBackendGoogle:
		if c.GoogleCloudProjectID == "" || c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_CREDENTIALS_JSON are required when ASR_BACKEND=%s", ASRBackendGoogle)
		}
	case ASRBackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when ASR_BACKEND=%s", ASRBackendOpenAI)
		}
	default:
		return fmt.Errorf("ASR_BACKEND must be %q or %q, got %q", ASRBackendGoogle, ASRBackendOpenAI, c.ASRBackend)
	}
	if c.ASRConcurrency <= 0 {
		return fmt.Errorf("ASR_CONCURRENCY must be positive, got %d", c.ASRConcurrency)
	}
	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		return fmt.Errorf("DISCORD_TOKEN and DISCORD_CHANNEL_ID must be set together")
	}
	if _, err := time.LoadLocation(c.TranscriptTimezone); err != nil {
		return fmt.Errorf("TRANSCRIPT_TIMEZONE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "TRANSCRIBE_LANGUAGE", value: c.TranscribeLanguage},
		{name: "HF_TOKEN", value: c.HuggingFaceToken},
		{name: "DIARIZATION_MODEL", value: c.DiarizationModel},
		{name: "DIARIZATION_PYTHON", value: c.DiarizationPython},
		{name: "FFMPEG_PATH", value: c.FFmpegPath},
		{name: "TRANSCRIPT_TIMEZONE", value: c.TranscriptTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TranscriptTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

package transcript

import (
	"fmt"
	"math"
	"time"
)

type Waveform struct {
	Samples    []float32
	SampleRate int
}

func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Samples)) / float64(w.SampleRate) * float64(time.Second))
}

type SpeakerTurn struct {
	Start   float64
	End     float64
	Speaker string
}

func (t SpeakerTurn) Valid() bool {
	if math.IsNaN(t.Start) || math.IsNaN(t.End) || math.IsInf(t.Start, 0) || math.IsInf(t.End, 0) {
		return false
	}
	return t.Start >= 0 && t.End > t.Start
}

// Seconds at or above 2^63, including +Inf, render as math.MaxInt64.
const maxFormattableSeconds = float64(1 << 63)

type Segment struct {
	Speaker   string `json:"speaker"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Text      string `json:"text"`
}

type ModelInfo struct {
	ASR         string `json:"asr"`
	Diarization string `json:"diarization"`
}

type Metadata struct {
	File          string    `json:"file"`
	DateProcessed string    `json:"date_processed"`
	ModelInfo     ModelInfo `json:"model_info"`
}

type Result struct {
	Metadata Metadata  `json:"metadata"`
	Segments []Segment `json:"segments"`
}

func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.MaxInt64)
	if seconds < maxFormattableSeconds {
		total = int64(seconds)
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func UniqueSpeakerCount(segments []Segment) int {
	seen := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		seen[seg.Speaker] = struct{}{}
	}
	return len(seen)
}

func ProcessedDate(meta Metadata) string {
	if len(meta.DateProcessed) < 10 {
		return meta.DateProcessed
	}
	return meta.DateProcessed[:10]
}

package diarizer

import (
	"context"

	"github.com/foxseedlab/kikitori/internal/transcript"
)

type Diarizer interface {
	Diarize(ctx context.Context, w transcript.Waveform) ([]transcript.SpeakerTurn, error)
	Model() string
}

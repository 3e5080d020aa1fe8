package audio

import (
	"context"

	"github.com/foxseedlab/kikitori/internal/transcript"
)

const TargetSampleRate = 16000

type Loader interface {
	Load(ctx context.Context, path string) (transcript.Waveform, error)
}

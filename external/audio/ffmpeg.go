package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/foxseedlab/kikitori/internal/audio"
)

func decodeWithFFmpeg(ctx context.Context, ffmpegPath, path string) (decodedPCM, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-nostdin", "-v", "error",
		"-i", path,
		"-ac", "1", "-ar", strconv.Itoa(audio.TargetSampleRate),
		"-f", "f32le",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return decodedPCM{}, fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return decodedPCM{}, fmt.Errorf("ffmpeg: %w", err)
	}
	return decodedPCM{
		samples:    float32sFromLE(out),
		channels:   1,
		sampleRate: audio.TargetSampleRate,
	}, nil
}

func float32sFromLE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

package transcriber

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/foxseedlab/kikitori/internal/transcriber"
)

func linear16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*32767)))
	}
	return out
}

func chunkSamples(samples []float32, size int) [][]float32 {
	if size <= 0 || len(samples) <= size {
		return [][]float32{samples}
	}
	chunks := make([][]float32, 0, (len(samples)+size-1)/size)
	for start := 0; start < len(samples); start += size {
		end := min(start+size, len(samples))
		chunks = append(chunks, samples[start:end])
	}
	return chunks
}

func checkTask(opts transcriber.Options) error {
	if opts.Task != "" && opts.Task != transcriber.TaskTranscribe {
		return fmt.Errorf("unsupported recognition task %q", opts.Task)
	}
	return nil
}

func baseLanguage(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}

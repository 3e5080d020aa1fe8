package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/foxseedlab/kikitori/internal/transcript"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM     = 1
	handoffBitDepth  = 16
	handoffMaxSample = 32767
)

var errNotIntegerPCM = errors.New("wav payload is not integer pcm")

func decodeWAVFile(path string) (decodedPCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return decodedPCM{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return decodedPCM{}, fmt.Errorf("not a valid wav file")
	}
	if d.WavAudioFormat != wavFormatPCM {
		return decodedPCM{}, errNotIntegerPCM
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return decodedPCM{}, fmt.Errorf("read pcm: %w", err)
	}
	if buf.Format == nil {
		return decodedPCM{}, fmt.Errorf("wav has no format chunk")
	}

	bitDepth := int(d.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return decodedPCM{}, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	return decodedPCM{
		samples:    intToFloat(buf.Data, bitDepth),
		channels:   buf.Format.NumChannels,
		sampleRate: buf.Format.SampleRate,
	}, nil
}

func intToFloat(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	if bitDepth == 8 {
		// 8-bit wav is unsigned
		for i, v := range data {
			out[i] = float32(v-128) / 128
		}
		return out
	}
	scale := float32(int64(1) << (bitDepth - 1))
	for i, v := range data {
		out[i] = float32(v) / scale
	}
	return out
}

func WriteWAV(path string, w transcript.Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(f, w.SampleRate, handoffBitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:           floatToInt16(w.Samples),
		SourceBitDepth: handoffBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}

func floatToInt16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = int(s * handoffMaxSample)
	}
	return out
}

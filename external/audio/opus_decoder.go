//go:build opus

package audio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hraban/opus"
)

const (
	opusSampleRate       = 48000
	opusMaxFrameSamples  = 5760
	opusHeadMinimumBytes = 19
)

var (
	errOpusUnsupported = errors.New("opus support is not compiled in")
	opusHeadMagic      = []byte("OpusHead")
	opusTagsMagic      = []byte("OpusTags")
)

func decodeOpusFile(path string) (decodedPCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return decodedPCM{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	packets := newOggPacketReader(bufio.NewReader(f))
	head, err := packets.NextPacket()
	if err != nil {
		return decodedPCM{}, fmt.Errorf("read opus header: %w", err)
	}
	if len(head) < opusHeadMinimumBytes || !bytes.HasPrefix(head, opusHeadMagic) {
		return decodedPCM{}, errNotOggOpus
	}
	channels := int(head[9])
	preSkip := int(binary.LittleEndian.Uint16(head[10:12]))
	if channels < 1 || channels > 2 {
		return decodedPCM{}, fmt.Errorf("unsupported opus channel count %d", channels)
	}

	dec, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return decodedPCM{}, fmt.Errorf("create opus decoder: %w", err)
	}

	pcm := make([]float32, opusMaxFrameSamples*channels)
	var out []float32
	for {
		pkt, err := packets.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return decodedPCM{}, err
		}
		if bytes.HasPrefix(pkt, opusTagsMagic) || len(pkt) == 0 {
			continue
		}
		n, err := dec.DecodeFloat32(pkt, pcm)
		if err != nil {
			return decodedPCM{}, fmt.Errorf("decode opus packet: %w", err)
		}
		out = append(out, pcm[:n*channels]...)
	}

	skip := preSkip * channels
	if skip > len(out) {
		skip = len(out)
	}
	return decodedPCM{
		samples:    out[skip:],
		channels:   channels,
		sampleRate: opusSampleRate,
	}, nil
}

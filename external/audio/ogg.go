package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	oggPageHeaderSize = 27
	oggMaxLacing      = 255
)

var (
	oggCapturePattern = []byte("OggS")
	errNotOggOpus     = errors.New("stream is not ogg/opus")
)

type oggPacketReader struct {
	r         io.Reader
	serial    uint32
	serialSet bool
	partial   []byte
	packets   [][]byte
}

func newOggPacketReader(r io.Reader) *oggPacketReader {
	return &oggPacketReader{r: r}
}

func (o *oggPacketReader) NextPacket() ([]byte, error) {
	for len(o.packets) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	p := o.packets[0]
	o.packets = o.packets[1:]
	return p, nil
}

func (o *oggPacketReader) readPage() error {
	var hdr [oggPageHeaderSize]byte
	if _, err := io.ReadFull(o.r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("truncated ogg page header: %w", err)
		}
		return err
	}
	if string(hdr[:4]) != string(oggCapturePattern) {
		return fmt.Errorf("missing ogg capture pattern")
	}
	serial := binary.LittleEndian.Uint32(hdr[14:18])
	table := make([]byte, int(hdr[26]))
	if _, err := io.ReadFull(o.r, table); err != nil {
		return fmt.Errorf("truncated ogg segment table: %w", err)
	}
	total := 0
	for _, lace := range table {
		total += int(lace)
	}
	data := make([]byte, total)
	if _, err := io.ReadFull(o.r, data); err != nil {
		return fmt.Errorf("truncated ogg page body: %w", err)
	}

	if !o.serialSet {
		o.serial = serial
		o.serialSet = true
	}
	if serial != o.serial {
		return nil
	}

	off := 0
	for _, lace := range table {
		o.partial = append(o.partial, data[off:off+int(lace)]...)
		off += int(lace)
		if lace < oggMaxLacing {
			o.packets = append(o.packets, o.partial)
			o.partial = nil
		}
	}
	return nil
}

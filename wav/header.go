// Package wav implements encoding and decoding of audio data in the WAVE format.
package wav

import (
	"encoding/binary"
	"io"

	"github.com/faiface/dtmf"
	"github.com/pkg/errors"
)

// headerSize is the size of a canonical PCM WAVE header.
const headerSize = 44

type header struct {
	RiffMark      [4]byte
	FileSize      int32
	WaveMark      [4]byte
	FmtMark       [4]byte
	FormatSize    int32
	FormatType    int16
	NumChans      int16
	SampleRate    int32
	ByteRate      int32
	BytesPerFrame int16
	BitsPerSample int16
	DataMark      [4]byte
	DataSize      int32
}

func newHeader(format dtmf.Format, dataSize int) header {
	return header{
		RiffMark:      [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      int32(headerSize - 8 + dataSize),
		WaveMark:      [4]byte{'W', 'A', 'V', 'E'},
		FmtMark:       [4]byte{'f', 'm', 't', ' '},
		FormatSize:    16,
		FormatType:    1,
		NumChans:      int16(format.NumChannels),
		SampleRate:    int32(format.SampleRate),
		ByteRate:      int32(int(format.SampleRate) * format.Width()),
		BytesPerFrame: int16(format.Width()),
		BitsPerSample: int16(format.Precision * 8),
		DataMark:      [4]byte{'d', 'a', 't', 'a'},
		DataSize:      int32(dataSize),
	}
}

func (h *header) write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

func (h *header) read(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		return err
	}
	switch {
	case string(h.RiffMark[:]) != "RIFF":
		return errors.New("missing RIFF at the beginning")
	case string(h.WaveMark[:]) != "WAVE":
		return errors.New("unsupported file type")
	case string(h.FmtMark[:]) != "fmt ":
		return errors.New("missing format chunk marker")
	case string(h.DataMark[:]) != "data":
		return errors.New("missing data chunk marker")
	case h.FormatType != 1:
		return errors.New("unsupported format type")
	case h.NumChans <= 0:
		return errors.New("invalid number of channels (less than 1)")
	case h.BitsPerSample != 8 && h.BitsPerSample != 16 && h.BitsPerSample != 24:
		return errors.New("unsupported number of bits per sample, 8, 16 or 24 are supported")
	}
	return nil
}

func (h *header) format() dtmf.Format {
	return dtmf.Format{
		SampleRate:  dtmf.SampleRate(h.SampleRate),
		NumChannels: int(h.NumChans),
		Precision:   int(h.BitsPerSample / 8),
	}
}

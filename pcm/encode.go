// Package pcm writes headerless PCM audio.
package pcm

import (
	"bufio"
	"io"

	"github.com/faiface/dtmf"
	"github.com/pkg/errors"
)

// Encode writes all audio streamed from s to w as signed little-endian PCM in format, and returns
// the number of samples written.
func Encode(w io.Writer, s dtmf.Streamer, format dtmf.Format) (n int, err error) {
	if format.NumChannels <= 0 || format.Precision <= 0 {
		return 0, errors.Errorf("pcm: invalid format %+v", format)
	}
	var (
		bw      = bufio.NewWriter(w)
		samples = make([][2]float64, 512)
		buffer  = make([]byte, len(samples)*format.Width())
	)
	for {
		sn, ok := s.Stream(samples)
		if !ok {
			break
		}
		var offset int
		for _, sample := range samples[:sn] {
			offset += format.EncodeSigned(buffer[offset:], sample)
		}
		if _, err := bw.Write(buffer[:offset]); err != nil {
			return n, errors.Wrap(err, "pcm")
		}
		n += sn
	}
	if err := s.Err(); err != nil {
		return n, errors.Wrap(err, "pcm")
	}
	return n, errors.Wrap(bw.Flush(), "pcm")
}

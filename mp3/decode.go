// Package mp3 implements audio data decoding in the MP3 format.
package mp3

import (
	"io"

	"github.com/faiface/dtmf"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"
)

// go-mp3 always decodes to interleaved 16-bit little-endian stereo.
var pcmFormat = dtmf.Format{NumChannels: 2, Precision: 2}

// Decode takes a ReadCloser containing audio data in MP3 format and returns a StreamSeekCloser,
// which streams that audio. Seeking requires rc to be an io.Seeker.
//
// Do not close the supplied ReadCloser, instead, use the Close method of the returned
// StreamSeekCloser when you want to release the resources.
func Decode(rc io.ReadCloser) (s dtmf.StreamSeekCloser, format dtmf.Format, err error) {
	d, err := gomp3.NewDecoder(rc)
	if err != nil {
		rc.Close()
		return nil, dtmf.Format{}, errors.Wrap(err, "mp3")
	}
	format = pcmFormat
	format.SampleRate = dtmf.SampleRate(d.SampleRate())
	return &decoder{closer: rc, d: d, f: format}, format, nil
}

type decoder struct {
	closer io.Closer
	d      *gomp3.Decoder
	f      dtmf.Format
	buf    []byte
	pos    int // bytes
	err    error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	width := d.f.Width()
	if want := len(samples) * width; cap(d.buf) < want {
		d.buf = make([]byte, want)
	}
	p := d.buf[:len(samples)*width]
	read, err := io.ReadFull(d.d, p)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		d.err = errors.Wrap(err, "mp3")
	}
	for ; n*width+width <= read; n++ {
		samples[n], _ = d.f.DecodeSigned(p[n*width:])
	}
	d.pos += n * width
	return n, n > 0
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.d.Length()) / d.f.Width()
}

func (d *decoder) Position() int {
	return d.pos / d.f.Width()
}

func (d *decoder) Seek(p int) error {
	if p < 0 || d.Len() < p {
		return errors.Errorf("mp3: seek position %v out of range [%v, %v]", p, 0, d.Len())
	}
	if _, err := d.d.Seek(int64(p*d.f.Width()), io.SeekStart); err != nil {
		return errors.Wrap(err, "mp3: seek error")
	}
	d.pos = p * d.f.Width()
	return nil
}

func (d *decoder) Close() error {
	if err := d.closer.Close(); err != nil {
		return errors.Wrap(err, "mp3")
	}
	return nil
}

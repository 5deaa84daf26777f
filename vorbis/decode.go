// Package vorbis implements audio data decoding in the Ogg/Vorbis format.
package vorbis

import (
	"io"

	"github.com/faiface/dtmf"
	"github.com/jfreymuth/oggvorbis"
	"github.com/pkg/errors"
)

// Decoded Vorbis audio is reported as 16-bit; the decoder itself works in float32.
const vorbisPrecision = 2

// Decode takes a ReadCloser containing audio data in Ogg/Vorbis format and returns a
// StreamSeekCloser, which streams that audio. Seeking requires rc to be an io.Seeker.
//
// Do not close the supplied ReadCloser, instead, use the Close method of the returned
// StreamSeekCloser when you want to release the resources.
func Decode(rc io.ReadCloser) (s dtmf.StreamSeekCloser, format dtmf.Format, err error) {
	r, err := oggvorbis.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, dtmf.Format{}, errors.Wrap(err, "ogg/vorbis")
	}
	format = dtmf.Format{
		SampleRate:  dtmf.SampleRate(r.SampleRate()),
		NumChannels: r.Channels(),
		Precision:   vorbisPrecision,
	}
	return &decoder{closer: rc, r: r, channels: r.Channels()}, format, nil
}

type decoder struct {
	closer   io.Closer
	r        *oggvorbis.Reader
	channels int
	buf      []float32
	err      error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	if want := len(samples) * d.channels; cap(d.buf) < want {
		d.buf = make([]float32, want)
	}
	for n < len(samples) {
		read, err := d.r.Read(d.buf[:(len(samples)-n)*d.channels])
		for i := 0; i+d.channels <= read; i += d.channels {
			l, r := d.buf[i], d.buf[i]
			if d.channels > 1 {
				r = d.buf[i+1]
			}
			samples[n] = [2]float64{float64(l), float64(r)}
			n++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			d.err = errors.Wrap(err, "ogg/vorbis")
			break
		}
		if read == 0 {
			break
		}
	}
	return n, n > 0
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.r.Length())
}

func (d *decoder) Position() int {
	return int(d.r.Position())
}

func (d *decoder) Seek(p int) error {
	if err := d.r.SetPosition(int64(p)); err != nil {
		return errors.Wrap(err, "ogg/vorbis")
	}
	return nil
}

func (d *decoder) Close() error {
	if err := d.closer.Close(); err != nil {
		return errors.Wrap(err, "ogg/vorbis")
	}
	return nil
}

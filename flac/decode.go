// Package flac implements audio data decoding in the FLAC format.
package flac

import (
	"io"

	"github.com/faiface/dtmf"
	"github.com/mewkiz/flac"
	"github.com/pkg/errors"
)

// Decode takes a ReadCloser containing audio data in FLAC format and returns a StreamSeekCloser,
// which streams that audio. Only seeking back to the start is supported, and only when rc is an
// io.Seeker.
//
// Do not close the supplied ReadCloser, instead, use the Close method of the returned
// StreamSeekCloser when you want to release the resources.
func Decode(rc io.ReadCloser) (s dtmf.StreamSeekCloser, format dtmf.Format, err error) {
	d := &decoder{rc: rc}
	if d.stream, err = flac.New(rc); err != nil {
		rc.Close()
		return nil, dtmf.Format{}, errors.Wrap(err, "flac")
	}
	info := d.stream.Info
	format = dtmf.Format{
		SampleRate:  dtmf.SampleRate(info.SampleRate),
		NumChannels: int(info.NChannels),
		Precision:   int(info.BitsPerSample / 8),
	}
	return d, format, nil
}

type decoder struct {
	rc     io.ReadCloser
	stream *flac.Stream
	buf    [][2]float64
	pos    int
	err    error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if len(d.buf) == 0 {
			if err := d.refill(); err != nil {
				if err != io.EOF {
					d.err = errors.Wrap(err, "flac")
				}
				break
			}
		}
		m := copy(samples[n:], d.buf)
		d.buf = d.buf[m:]
		n += m
	}
	d.pos += n
	return n, n > 0
}

// refill decodes the next frame into the decode buffer. Mono frames are copied to both channels,
// channels beyond the second are dropped.
func (d *decoder) refill() error {
	frame, err := d.stream.ParseNext()
	if err != nil {
		return err
	}
	left := frame.Subframes[0].Samples
	right := left
	if len(frame.Subframes) > 1 {
		right = frame.Subframes[1].Samples
	}
	if cap(d.buf) < len(left) {
		d.buf = make([][2]float64, len(left))
	}
	d.buf = d.buf[:len(left)]
	q := 1 / float64(int64(1)<<(d.stream.Info.BitsPerSample-1))
	for i := range d.buf {
		d.buf[i] = [2]float64{float64(left[i]) * q, float64(right[i]) * q}
	}
	return nil
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.stream.Info.NSamples)
}

func (d *decoder) Position() int {
	return d.pos
}

// Seek rewinds to the start of the stream. Other positions are not supported.
func (d *decoder) Seek(p int) error {
	seeker, ok := d.rc.(io.Seeker)
	if !ok || p != 0 {
		return errors.Errorf("flac: seek to %d not supported", p)
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "flac: seek error")
	}
	stream, err := flac.New(d.rc)
	if err != nil {
		return errors.Wrap(err, "flac: seek error")
	}
	d.stream, d.buf, d.pos, d.err = stream, d.buf[:0], 0, nil
	return nil
}

func (d *decoder) Close() error {
	if err := d.rc.Close(); err != nil {
		return errors.Wrap(err, "flac")
	}
	return nil
}

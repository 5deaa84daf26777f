package wav

import (
	"io"

	"github.com/faiface/dtmf"
	"github.com/pkg/errors"
)

// Decode takes a ReadCloser containing audio data in WAVE format and returns a StreamSeekCloser,
// which streams that audio. Seek returns an error if rc is not an io.Seeker.
//
// Do not close the supplied ReadCloser, instead, use the Close method of the returned
// StreamSeekCloser when you want to release the resources.
func Decode(rc io.ReadCloser) (s dtmf.StreamSeekCloser, format dtmf.Format, err error) {
	d := &decoder{rc: rc}
	if err := d.h.read(rc); err != nil {
		rc.Close()
		return nil, dtmf.Format{}, errors.Wrap(err, "wav")
	}
	d.f = d.h.format()
	return d, d.f, nil
}

type decoder struct {
	rc  io.ReadCloser
	h   header
	f   dtmf.Format
	buf []byte
	pos int // bytes of data consumed
	err error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	width := d.f.Width()
	if d.err != nil || d.pos+width > int(d.h.DataSize) {
		return 0, false
	}
	if len(samples) == 0 {
		return 0, true
	}
	want := len(samples) * width
	if rest := int(d.h.DataSize) - d.pos; want > rest {
		want = rest - rest%width
	}
	if cap(d.buf) < want {
		d.buf = make([]byte, want)
	}
	p := d.buf[:want]
	read, err := io.ReadFull(d.rc, p)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err != io.EOF {
			d.err = errors.Wrap(err, "wav")
		}
		return 0, false
	}
	decode := d.f.DecodeSigned
	if d.f.Precision == 1 {
		decode = d.f.DecodeUnsigned
	}
	for ; n*width+width <= read; n++ {
		samples[n], _ = decode(p[n*width:])
	}
	d.pos += read
	if read < want {
		// the data chunk was shorter than its header claimed
		d.h.DataSize = int32(d.pos)
	}
	return n, n > 0
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.h.DataSize) / d.f.Width()
}

func (d *decoder) Position() int {
	return d.pos / d.f.Width()
}

func (d *decoder) Seek(p int) error {
	seeker, ok := d.rc.(io.Seeker)
	if !ok {
		return errors.New("wav: seek: resource is not io.Seeker")
	}
	if p < 0 || d.Len() < p {
		return errors.Errorf("wav: seek position %v out of range [%v, %v]", p, 0, d.Len())
	}
	pos := p * d.f.Width()
	if _, err := seeker.Seek(int64(headerSize+pos), io.SeekStart); err != nil {
		return errors.Wrap(err, "wav: seek error")
	}
	d.pos = pos
	return nil
}

func (d *decoder) Close() error {
	if err := d.rc.Close(); err != nil {
		return errors.Wrap(err, "wav")
	}
	return nil
}

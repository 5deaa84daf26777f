package wav

import (
	"bufio"
	"io"
	"math"

	"github.com/faiface/dtmf"
	"github.com/pkg/errors"
)

// Encode writes all audio streamed from s to w in WAVE format. The header is written with
// placeholder sizes and patched once s is drained.
//
// Format precision must be 1, 2 or 3 bytes.
func Encode(w io.WriteSeeker, s dtmf.Streamer, format dtmf.Format) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "wav")
		}
	}()
	if err := checkFormat(format); err != nil {
		return err
	}

	h := newHeader(format, 0)
	if err := h.write(w); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	written, err := encodeData(bw, s, format, -1)
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := checkDataSize(written); err != nil {
		return err
	}

	h = newHeader(format, written)
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := h.write(w); err != nil {
		return err
	}
	_, err = w.Seek(0, io.SeekEnd)
	return err
}

// EncodeN writes exactly n samples streamed from s to w in WAVE format. The header is written
// up front, so w does not need to seek; if s drains early the rest is padded with silence.
func EncodeN(w io.Writer, s dtmf.Streamer, format dtmf.Format, n int) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "wav")
		}
	}()
	if err := checkFormat(format); err != nil {
		return err
	}
	if n < 0 {
		return errors.Errorf("negative number of samples: %d", n)
	}
	if err := checkDataSize(n * format.Width()); err != nil {
		return err
	}

	h := newHeader(format, n*format.Width())
	bw := bufio.NewWriter(w)
	if err := h.write(bw); err != nil {
		return err
	}
	written, err := encodeData(bw, dtmf.Seq(s, dtmf.Silence(-1)), format, n)
	if err != nil {
		return err
	}
	if err := s.Err(); err != nil {
		return err
	}
	if written != n*format.Width() {
		return errors.Errorf("wrote %d bytes of data, header announced %d", written, n*format.Width())
	}
	return bw.Flush()
}

func checkFormat(format dtmf.Format) error {
	if format.NumChannels <= 0 {
		return errors.New("invalid number of channels (less than 1)")
	}
	if format.Precision != 1 && format.Precision != 2 && format.Precision != 3 {
		return errors.New("unsupported precision, 1, 2 or 3 is supported")
	}
	if format.SampleRate <= 0 || int64(format.SampleRate)*int64(format.Width()) > math.MaxInt32 {
		return errors.Errorf("sample rate %d does not fit a WAVE header", format.SampleRate)
	}
	return nil
}

// checkDataSize rejects data chunks whose size, or the RIFF size derived from it, overflows the
// 32-bit header fields.
func checkDataSize(size int) error {
	if int64(size) > math.MaxInt32-(headerSize-8) {
		return errors.Errorf("%d bytes of data do not fit a WAVE file", size)
	}
	return nil
}

// encodeData writes up to limit samples of s (all of them if limit is negative) and returns the
// number of bytes written. 8-bit WAVE data is unsigned, wider data is signed.
func encodeData(w io.Writer, s dtmf.Streamer, format dtmf.Format, limit int) (written int, err error) {
	var (
		samples = make([][2]float64, 512)
		buffer  = make([]byte, len(samples)*format.Width())
		encode  = format.EncodeSigned
	)
	if format.Precision == 1 {
		encode = format.EncodeUnsigned
	}
	for limit != 0 {
		chunk := samples
		if limit > 0 && limit < len(chunk) {
			chunk = chunk[:limit]
		}
		n, ok := s.Stream(chunk)
		if !ok {
			break
		}
		buf := buffer
		for _, sample := range chunk[:n] {
			buf = buf[encode(buf, sample):]
		}
		nn, err := w.Write(buffer[:n*format.Width()])
		written += nn
		if err != nil {
			return written, err
		}
		if limit > 0 {
			limit -= n
		}
	}
	return written, s.Err()
}

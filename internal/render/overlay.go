package render

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/dtmf"
	"github.com/faiface/dtmf/effects"
	"github.com/faiface/dtmf/flac"
	"github.com/faiface/dtmf/generators"
	"github.com/faiface/dtmf/mp3"
	"github.com/faiface/dtmf/vorbis"
	"github.com/faiface/dtmf/wav"
	"github.com/pkg/errors"
)

// Decoder opens one background file format.
type Decoder func(io.ReadCloser) (dtmf.StreamSeekCloser, dtmf.Format, error)

var decoders = map[string]Decoder{
	".wav":  wav.Decode,
	".flac": flac.Decode,
	".ogg":  vorbis.Decode,
	".mp3":  mp3.Decode,
}

// OpenBackground opens and decodes the audio file at path, picking the decoder by extension.
func OpenBackground(path string) (dtmf.StreamSeekCloser, dtmf.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, dtmf.Format{}, errors.Errorf("render: unsupported background format %q", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, dtmf.Format{}, errors.Wrap(err, "render")
	}
	return decode(f)
}

// Overlay places a sequence on top of background audio.
type Overlay struct {
	Background dtmf.StreamSeeker
	Format     dtmf.Format // of Background

	Offset time.Duration // silence before the sequence starts
	Gain   float64       // background gain in dB
}

// Overlay renders req at the background's sample rate, delays it by o.Offset and mixes it into
// the background, which is downmixed, attenuated and looped as needed. The output is mono and
// lasts until the end of the sequence or of a single pass of the background, whichever is later.
func (r *Renderer) Overlay(w io.WriteSeeker, req Request, o Overlay) (Summary, error) {
	req.SampleRate = o.Format.SampleRate
	return r.run("overlay", req, func(seq *generators.Sequence) error {
		delay := req.SampleRate.N(o.Offset)
		length := delay + seq.Len()
		if bg := o.Background.Len(); bg > length {
			length = bg
		}
		background := &effects.Gain{
			Streamer: effects.Mono(effects.Loop(-1, o.Background)),
			Decibels: o.Gain,
		}
		tones := dtmf.Seq(dtmf.Silence(delay), dtmf.Produce(seq))
		mixed := dtmf.Take(length, dtmf.Mix(background, tones))
		if err := wav.Encode(w, mixed, req.Format()); err != nil {
			return err
		}
		return background.Err()
	})
}

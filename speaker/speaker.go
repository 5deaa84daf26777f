// Package speaker plays dtmf.Streamer values through the default audio device.
package speaker

import (
	"io"
	"sync"

	"github.com/faiface/dtmf"
	"github.com/hajimehoshi/oto/v2"
	"github.com/pkg/errors"
)

const (
	channelCount    = 2
	bitDepthInBytes = 2
	bytesPerSample  = bitDepthInBytes * channelCount
)

var (
	mu      sync.Mutex
	playing []dtmf.Streamer
	context *oto.Context
	player  oto.Player
)

// Init initializes audio playback through speaker. Must be called before using this package.
//
// The bufferSize argument specifies the number of samples of the speaker's buffer. Bigger
// bufferSize means lower CPU usage and more reliable playback. Lower bufferSize means better
// responsiveness and less delay.
func Init(sampleRate dtmf.SampleRate, bufferSize int) error {
	if context != nil {
		return errors.New("speaker cannot be initialized more than once")
	}

	var ready chan struct{}
	var err error
	context, ready, err = oto.NewContext(int(sampleRate), channelCount, oto.FormatSignedInt16LE)
	if err != nil {
		return errors.Wrap(err, "failed to initialize speaker")
	}
	<-ready

	player = context.NewPlayer(&sampleReader{})
	if bs, ok := player.(interface{ SetBufferSize(int) }); ok {
		bs.SetBufferSize(bufferSize * bytesPerSample)
	}
	player.Play()
	return nil
}

// Close stops playback and drops every playing Streamer.
func Close() error {
	if player == nil {
		return nil
	}
	err := player.Close()
	player = nil
	Clear()
	return errors.Wrap(err, "speaker")
}

// Lock locks the speaker. While locked, speaker won't pull new data from the playing Streamers.
// Lock if you want to modify any currently playing Streamers to avoid race conditions.
func Lock() {
	mu.Lock()
}

// Unlock unlocks the speaker. Call after modifying any currently playing Streamer.
func Unlock() {
	mu.Unlock()
}

// Play starts playing all provided Streamers through the speaker.
func Play(s ...dtmf.Streamer) {
	mu.Lock()
	playing = append(playing, s...)
	mu.Unlock()
}

// Clear removes all currently playing Streamers from the speaker.
func Clear() {
	mu.Lock()
	playing = nil
	mu.Unlock()
}

// sampleReader mixes the playing Streamers and encodes them as 16-bit stereo for oto. It never
// runs dry: with nothing to play it produces silence.
type sampleReader struct {
	mix, tmp [][2]float64
}

func (r *sampleReader) Read(buf []byte) (n int, err error) {
	if len(buf)%bytesPerSample != 0 {
		return 0, errors.New("requested number of bytes do not align with the samples")
	}
	ns := len(buf) / bytesPerSample
	if len(r.mix) < ns {
		r.mix = make([][2]float64, ns)
		r.tmp = make([][2]float64, ns)
	}
	mix := r.mix[:ns]
	for i := range mix {
		mix[i] = [2]float64{}
	}

	mu.Lock()
	kept := playing[:0]
	for _, s := range playing {
		sn, ok := s.Stream(r.tmp[:ns])
		for i := range r.tmp[:sn] {
			mix[i][0] += r.tmp[i][0]
			mix[i][1] += r.tmp[i][1]
		}
		if ok {
			kept = append(kept, s)
		}
	}
	playing = kept
	mu.Unlock()

	format := dtmf.Format{NumChannels: channelCount, Precision: bitDepthInBytes}
	for i, sample := range mix {
		format.EncodeSigned(buf[i*bytesPerSample:], sample)
	}
	return len(buf), nil
}

var _ io.Reader = (*sampleReader)(nil)

// Package dtmf renders dual-tone multi-frequency keypad sequences as audio.
//
// The root package holds the streaming vocabulary shared by the generator, the codecs and the
// playback device. A Streamer is pulled for stereo frames; a Producer is pulled for mono blocks.
// Use Produce to turn the latter into the former.
package dtmf

import (
	"math"
	"time"
)

// SampleRate is the number of samples per second.
type SampleRate int

// D returns the duration of n samples.
func (sr SampleRate) D(n int) time.Duration {
	return time.Second * time.Duration(n) / time.Duration(sr)
}

// N returns the number of samples that last for d duration, rounded to the nearest sample.
func (sr SampleRate) N(d time.Duration) int {
	return int(math.Floor(d.Seconds()*float64(sr) + 0.5))
}

// Streamer is able to stream a finite or infinite sequence of audio samples.
type Streamer interface {
	// Stream copies at most len(samples) next audio samples to the samples slice.
	//
	// There are 3 valid return patterns of the Stream method:
	//
	//   1. n == len(samples) && ok
	//
	// Stream streamed all requested samples. Cases 1, 2 and 3 may occur in any order.
	//
	//   2. 0 < n && n < len(samples) && ok
	//
	// Stream streamed n samples and drained the Streamer. Only case 3 may occur after this.
	//
	//   3. n == 0 && !ok
	//
	// The Streamer is drained and no more samples will come. If Err returns a non-nil error,
	// only this case is valid.
	Stream(samples [][2]float64) (n int, ok bool)

	// Err returns an error which occurred during streaming. If no error occurred, nil is
	// returned.
	Err() error
}

// StreamSeeker is a finite duration Streamer which supports seeking to an arbitrary position.
type StreamSeeker interface {
	Streamer

	// Len returns the total number of samples of the Streamer.
	Len() int

	// Position returns the current position of the Streamer. This value is between 0 and the
	// total length.
	Position() int

	// Seek sets the position of the Streamer to the provided value.
	Seek(p int) error
}

// StreamCloser is a Streamer streaming from a resource which needs to be released.
type StreamCloser interface {
	Streamer
	Close() error
}

// StreamSeekCloser is a union of StreamSeeker and StreamCloser.
type StreamSeekCloser interface {
	Streamer
	Len() int
	Position() int
	Seek(p int) error
	Close() error
}

// StreamerFunc is a Streamer created by simply wrapping a streaming function (usually a closure,
// which encloses a time tracking variable). This sometimes simplifies creating new streamers.
//
// StreamerFunc never returns an error.
type StreamerFunc func(samples [][2]float64) (n int, ok bool)

// Stream calls the wrapped streaming function.
func (sf StreamerFunc) Stream(samples [][2]float64) (n int, ok bool) {
	return sf(samples)
}

// Err always returns nil.
func (sf StreamerFunc) Err() error {
	return nil
}

// Producer is a streaming effect that fills caller-owned mono blocks.
//
// ProduceBlock writes at most len(out) samples and returns how many it wrote. A short count means
// the effect is exhausted; every later call returns 0. Channels reports how many output channels
// the effect renders; the caller fans a mono block out to as many channels as it needs.
type Producer interface {
	ProduceBlock(out []float64) int
	Channels() int
}

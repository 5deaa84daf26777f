package effects

import "github.com/faiface/dtmf"

// Mono downmixes s by averaging its channels into both of them. Detectors listen on one channel,
// so backgrounds are folded to mono before a sequence is mixed in.
//
// The returned Streamer propagates s's errors through Err.
func Mono(s dtmf.Streamer) dtmf.Streamer {
	return &mono{s}
}

type mono struct {
	s dtmf.Streamer
}

func (m *mono) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = m.s.Stream(samples)
	for i, frame := range samples[:n] {
		x := (frame[0] + frame[1]) / 2
		samples[i] = [2]float64{x, x}
	}
	return n, ok
}

func (m *mono) Err() error {
	return m.s.Err()
}

package effects

import "github.com/faiface/dtmf"

// Loop streams s count times, seeking back to its start each time it drains. A negative count
// loops forever. An empty s, or one that fails to seek, ends the loop.
//
// The returned Streamer propagates s's errors through Err.
func Loop(count int, s dtmf.StreamSeeker) dtmf.Streamer {
	return &loop{s: s, remains: count}
}

type loop struct {
	s       dtmf.StreamSeeker
	remains int
	err     error
}

func (l *loop) Stream(samples [][2]float64) (n int, ok bool) {
	for len(samples) > 0 && l.remains != 0 && l.Err() == nil {
		sn, sok := l.s.Stream(samples)
		samples = samples[sn:]
		n += sn
		if sok {
			continue
		}
		if l.remains > 0 {
			l.remains--
		}
		if l.remains == 0 || l.s.Len() == 0 {
			l.remains = 0
			break
		}
		if err := l.s.Seek(0); err != nil {
			l.err = err
			break
		}
	}
	return n, n > 0
}

func (l *loop) Err() error {
	if l.err != nil {
		return l.err
	}
	return l.s.Err()
}

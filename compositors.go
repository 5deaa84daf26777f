package dtmf

// Take returns a Streamer which streams at most n samples from s.
//
// The returned Streamer propagates s's errors through Err.
func Take(n int, s Streamer) Streamer {
	return &take{s: s, remains: n}
}

type take struct {
	s       Streamer
	remains int
}

func (t *take) Stream(samples [][2]float64) (n int, ok bool) {
	if t.remains <= 0 {
		return 0, false
	}
	if len(samples) > t.remains {
		samples = samples[:t.remains]
	}
	n, ok = t.s.Stream(samples)
	t.remains -= n
	return n, ok
}

func (t *take) Err() error {
	return t.s.Err()
}

// Seq takes zero or more Streamers and returns a Streamer which streams them one by one without
// pauses.
//
// Seq does not propagate errors from the Streamers.
func Seq(s ...Streamer) Streamer {
	i := 0
	return StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i < len(s) && len(samples) > 0 {
			sn, sok := s[i].Stream(samples)
			samples = samples[sn:]
			n, ok = n+sn, ok || sok
			if !sok {
				i++
			}
		}
		return n, ok
	})
}

// Mix takes zero or more Streamers and returns a Streamer which streams them mixed together. The
// mix lasts as long as the longest of the Streamers.
//
// Mix does not propagate errors from the Streamers.
func Mix(s ...Streamer) Streamer {
	var tmp [512][2]float64
	return StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for len(samples) > 0 {
			chunk := samples
			if len(chunk) > len(tmp) {
				chunk = chunk[:len(tmp)]
			}
			for i := range chunk {
				chunk[i] = [2]float64{}
			}

			longest := 0
			for _, st := range s {
				sn, sok := st.Stream(tmp[:len(chunk)])
				ok = ok || sok
				if sn > longest {
					longest = sn
				}
				for i := range tmp[:sn] {
					chunk[i][0] += tmp[i][0]
					chunk[i][1] += tmp[i][1]
				}
			}

			n += longest
			if longest < len(chunk) {
				break
			}
			samples = samples[longest:]
		}
		return n, ok
	})
}

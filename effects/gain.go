package effects

import (
	"math"

	"github.com/faiface/dtmf"
)

// Gain scales the wrapped Streamer by Decibels. Muted silences it without stopping it.
//
// Gain propagates the wrapped Streamer's errors through Err.
type Gain struct {
	Streamer dtmf.Streamer
	Decibels float64
	Muted    bool
}

// Factor returns the linear factor Gain multiplies every sample by.
func (g *Gain) Factor() float64 {
	if g.Muted {
		return 0
	}
	return math.Pow(10, g.Decibels/20)
}

func (g *Gain) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.Streamer.Stream(samples)
	f := g.Factor()
	for i := range samples[:n] {
		samples[i][0] *= f
		samples[i][1] *= f
	}
	return n, ok
}

func (g *Gain) Err() error {
	return g.Streamer.Err()
}

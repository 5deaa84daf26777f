package generators

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrEmptySequence is returned when a sequence has no symbols to generate.
	ErrEmptySequence = errors.New("dtmf: sequence is empty")

	// ErrAccounting means segment lengths stopped adding up to the requested total. It is a
	// defect in the planner or the generator, never a configuration problem.
	ErrAccounting = errors.New("dtmf: segment accounting mismatch")
)

// Plan holds the sample lengths of the segments of an n-symbol sequence: n tones separated by n-1
// silences. Leftover samples are handed out one per segment, first segment first, while
// streaming.
type Plan struct {
	Tone     int
	Silence  int
	Leftover int
}

// NewPlan splits totalSamples into n tone segments and n-1 silence segments. dutyCycle is the
// percentage of each tone+silence slot taken by the tone.
//
// The floor-rounded lengths under-allocate; whatever exceeds one sample per segment is folded
// back into the base lengths, so that the returned Leftover is between 0 and 2n-1.
func NewPlan(totalSamples, n int, dutyCycle float64) (Plan, error) {
	switch {
	case n <= 0:
		return Plan{}, ErrEmptySequence
	case n == 1:
		return Plan{Tone: totalSamples}, nil
	}

	duty := dutyCycle / 100
	slot := float64(totalSamples) / (float64(n) + duty - 1)
	p := Plan{
		Tone:    int(math.Floor(slot * duty)),
		Silence: int(math.Floor(slot * (1 - duty))),
	}
	if err := p.settle(totalSamples, n); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// settle computes Leftover, folding it into the base lengths while it exceeds one sample per
// segment. n must be at least 2.
func (p *Plan) settle(totalSamples, n int) error {
	p.Leftover = totalSamples - p.Total(n)
	for p.Leftover > p.Segments(n) {
		p.Tone += p.Leftover / n
		p.Silence += p.Leftover / (n - 1)
		p.Leftover = totalSamples - p.Total(n)
	}
	if p.Leftover < 0 {
		return errors.Wrapf(ErrAccounting, "plan of %d samples over %d symbols leaves %d", totalSamples, n, p.Leftover)
	}
	return nil
}

// Segments returns the number of segments in an n-symbol sequence.
func (p Plan) Segments(n int) int {
	return 2*n - 1
}

// Total returns the number of samples covered by the base segment lengths, leftover excluded.
func (p Plan) Total(n int) int {
	return n*p.Tone + (n-1)*p.Silence
}

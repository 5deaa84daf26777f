package generators

import (
	"github.com/faiface/dtmf"
	"github.com/pkg/errors"
)

// SequenceSpec describes one rendering of a keypad sequence. It is built once, before
// generation, and never changes while a Sequence streams it.
type SequenceSpec struct {
	Symbols    string
	SampleRate dtmf.SampleRate
	DutyCycle  float64 // percent of each tone+silence slot spent on the tone, (0, 100]
	Amplitude  float64 // (0, 1]

	// TotalSamples is the exact length of the output.
	TotalSamples int
}

type segmentKind int

const (
	silence segmentKind = iota
	tone
)

// Sequence streams the tones of a SequenceSpec separated by silences. It owns all of the timing
// state, so the output does not depend on how the caller splits it into blocks.
//
// A Sequence must not be used from more than one goroutine at a time. Independent Sequences share
// nothing.
type Sequence struct {
	symbols   []rune
	fs        float64
	amplitude float64
	plan      Plan
	total     int

	kind      segmentKind
	index     int // symbol of the current or last tone, -1 before the first
	segLen    int // length of the current segment, leftover sample included
	left      int // samples remaining in the current segment
	pos       int // position within the current tone
	leftover  int
	remaining int
	err       error
}

// Initialize plans the segments of spec and returns a Sequence positioned before its first
// sample. It returns ErrEmptySequence if spec has no symbols.
func Initialize(spec SequenceSpec) (*Sequence, error) {
	symbols := []rune(spec.Symbols)
	plan, err := NewPlan(spec.TotalSamples, len(symbols), spec.DutyCycle)
	if err != nil {
		return nil, err
	}
	if spec.SampleRate <= 0 {
		return nil, &InvalidParameterError{Parameter: "sample rate", Reason: "not positive"}
	}
	return &Sequence{
		symbols:   symbols,
		fs:        float64(spec.SampleRate),
		amplitude: spec.Amplitude,
		plan:      plan,
		total:     spec.TotalSamples,
		kind:      silence,
		index:     -1,
		leftover:  plan.Leftover,
		remaining: spec.TotalSamples,
	}, nil
}

// ProduceBlock fills out with the next samples of the sequence and returns how many it wrote,
// which is len(out) unless the sequence ends first.
func (s *Sequence) ProduceBlock(out []float64) int {
	if s.err != nil {
		return 0
	}
	n := 0
	for n < len(out) && s.remaining > 0 {
		if s.left == 0 && !s.next() {
			break
		}
		m := len(out) - n
		if m > s.left {
			m = s.left
		}
		if m > s.remaining {
			m = s.remaining
		}
		block := out[n : n+m]
		if s.kind == tone {
			Render(block, s.fs, Frequencies(s.symbols[s.index]), s.amplitude, s.pos)
			ApplyFades(block, s.fs, s.pos, s.segLen)
			s.pos += m
		} else {
			for i := range block {
				block[i] = 0
			}
		}
		s.left -= m
		s.remaining -= m
		n += m
	}
	return n
}

// next flips to the following segment and reports whether there is one.
func (s *Sequence) next() bool {
	if s.kind == silence {
		if s.index+1 >= len(s.symbols) {
			s.err = errors.Wrapf(ErrAccounting, "%d samples left after the last tone", s.remaining)
			return false
		}
		s.kind = tone
		s.index++
		s.pos = 0
		s.segLen = s.plan.Tone
	} else {
		s.kind = silence
		s.segLen = s.plan.Silence
	}
	if s.leftover > 0 {
		s.segLen++
		s.leftover--
	}
	s.left = s.segLen
	return true
}

// Channels always returns 1; a Sequence is mono.
func (s *Sequence) Channels() int {
	return 1
}

// Len returns the total number of samples of the sequence.
func (s *Sequence) Len() int {
	return s.total
}

// Position returns the number of samples produced so far.
func (s *Sequence) Position() int {
	return s.total - s.remaining
}

// Remaining returns the number of samples still to be produced.
func (s *Sequence) Remaining() int {
	return s.remaining
}

// Plan returns the segment lengths the sequence was planned with.
func (s *Sequence) Plan() Plan {
	return s.plan
}

// Err returns the accounting failure that stopped the sequence early, if any.
func (s *Sequence) Err() error {
	return s.err
}

package generators

import (
	"fmt"
	"strings"
	"time"

	"github.com/faiface/dtmf"
)

// Parameter limits of Settings.
const (
	MinDutyCycle = 0.0 // exclusive
	MaxDutyCycle = 100.0
	MinAmplitude = 0.001
	MaxAmplitude = 1.0
)

// InvalidParameterError reports a setting outside its allowed range or charset.
type InvalidParameterError struct {
	Parameter string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("dtmf: invalid %s: %s", e.Parameter, e.Reason)
}

// Settings are the user-facing parameters of a DTMF sequence.
type Settings struct {
	Sequence  string  `yaml:"sequence"`
	DutyCycle float64 `yaml:"duty_cycle"`
	Amplitude float64 `yaml:"amplitude"`
}

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() Settings {
	return Settings{
		Sequence:  "audacity",
		DutyCycle: 55,
		Amplitude: 0.8,
	}
}

// Validate checks every parameter and returns an *InvalidParameterError for the first one out of
// range. An empty sequence is valid here; it fails later, with ErrEmptySequence, when generation
// starts.
func (s Settings) Validate() error {
	if i := strings.IndexFunc(s.Sequence, func(r rune) bool { return !ValidSymbol(r) }); i >= 0 {
		return &InvalidParameterError{
			Parameter: "sequence",
			Reason:    fmt.Sprintf("symbol %q at %d is not one of %q", []rune(s.Sequence[i:])[0], i, Symbols),
		}
	}
	if !(s.DutyCycle > MinDutyCycle && s.DutyCycle <= MaxDutyCycle) {
		return &InvalidParameterError{
			Parameter: "duty cycle",
			Reason:    fmt.Sprintf("%v is outside (%v, %v]", s.DutyCycle, MinDutyCycle, MaxDutyCycle),
		}
	}
	if !(s.Amplitude >= MinAmplitude && s.Amplitude <= MaxAmplitude) {
		return &InvalidParameterError{
			Parameter: "amplitude",
			Reason:    fmt.Sprintf("%v is outside [%v, %v]", s.Amplitude, MinAmplitude, MaxAmplitude),
		}
	}
	return nil
}

// Durations returns the nominal length of each tone and each silence when the whole sequence
// lasts total. A single symbol is one tone as long as the sequence; an empty sequence has no
// tones at all.
func (s Settings) Durations(total time.Duration) (toneLen, silenceLen time.Duration) {
	n := len([]rune(s.Sequence))
	switch {
	case n == 0:
		return 0, 0
	case n == 1:
		return total, 0
	}
	duty := s.DutyCycle / MaxDutyCycle
	slot := total.Seconds() / (float64(n) + duty - 1)
	toSeconds := func(x float64) time.Duration { return time.Duration(x * float64(time.Second)) }
	return toSeconds(slot * duty), toSeconds(slot * (1 - duty))
}

// Spec validates s and returns the SequenceSpec rendering it at sr for d. The total sample count
// is d at sr, rounded to the nearest sample.
func (s Settings) Spec(sr dtmf.SampleRate, d time.Duration) (SequenceSpec, error) {
	if err := s.Validate(); err != nil {
		return SequenceSpec{}, err
	}
	if sr <= 0 {
		return SequenceSpec{}, &InvalidParameterError{Parameter: "sample rate", Reason: fmt.Sprintf("%d is not positive", sr)}
	}
	if d < 0 {
		return SequenceSpec{}, &InvalidParameterError{Parameter: "duration", Reason: fmt.Sprintf("%v is negative", d)}
	}
	return SequenceSpec{
		Symbols:      s.Sequence,
		SampleRate:   sr,
		DutyCycle:    s.DutyCycle,
		Amplitude:    s.Amplitude,
		TotalSamples: sr.N(d),
	}, nil
}

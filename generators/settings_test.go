package generators_test

import (
	"testing"
	"time"

	"github.com/faiface/dtmf/generators"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name      string
		settings  generators.Settings
		parameter string // empty if valid
	}{
		{"defaults", generators.DefaultSettings(), ""},
		{"every symbol", generators.Settings{Sequence: generators.Symbols, DutyCycle: 100, Amplitude: 1}, ""},
		{"empty sequence", generators.Settings{DutyCycle: 50, Amplitude: 0.001}, ""},
		{"uppercase E", generators.Settings{Sequence: "12E", DutyCycle: 50, Amplitude: 1}, "sequence"},
		{"space", generators.Settings{Sequence: "1 2", DutyCycle: 50, Amplitude: 1}, "sequence"},
		{"non-ascii", generators.Settings{Sequence: "1é", DutyCycle: 50, Amplitude: 1}, "sequence"},
		{"zero duty cycle", generators.Settings{Sequence: "1", DutyCycle: 0, Amplitude: 1}, "duty cycle"},
		{"duty cycle over 100", generators.Settings{Sequence: "1", DutyCycle: 100.5, Amplitude: 1}, "duty cycle"},
		{"amplitude too small", generators.Settings{Sequence: "1", DutyCycle: 50, Amplitude: 0.0009}, "amplitude"},
		{"amplitude over 1", generators.Settings{Sequence: "1", DutyCycle: 50, Amplitude: 1.01}, "amplitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.parameter == "" {
				assert.NoError(t, err)
				return
			}
			var invalid *generators.InvalidParameterError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.parameter, invalid.Parameter)
		})
	}
}

func TestSettingsDurations(t *testing.T) {
	s := generators.Settings{Sequence: "12", DutyCycle: 50, Amplitude: 1}
	toneLen, silenceLen := s.Durations(time.Second)
	assert.InDelta(t, float64(time.Second)/3, float64(toneLen), 1)
	assert.InDelta(t, float64(time.Second)/3, float64(silenceLen), 1)

	s.Sequence = "1"
	toneLen, silenceLen = s.Durations(time.Second)
	assert.Equal(t, time.Second, toneLen)
	assert.Zero(t, silenceLen)

	s.Sequence = ""
	toneLen, silenceLen = s.Durations(time.Second)
	assert.Zero(t, toneLen)
	assert.Zero(t, silenceLen)

	// 100% leaves no room for silence: each tone gets an equal share
	s = generators.Settings{Sequence: "1234", DutyCycle: 100, Amplitude: 1}
	toneLen, silenceLen = s.Durations(2 * time.Second)
	assert.Equal(t, 500*time.Millisecond, toneLen)
	assert.Zero(t, silenceLen)
}

func TestSettingsSpec(t *testing.T) {
	s := generators.Settings{Sequence: "12", DutyCycle: 50, Amplitude: 0.5}
	spec, err := s.Spec(8000, time.Second)
	require.NoError(t, err)
	assert.Equal(t, generators.SequenceSpec{
		Symbols:      "12",
		SampleRate:   8000,
		DutyCycle:    50,
		Amplitude:    0.5,
		TotalSamples: 8000,
	}, spec)

	// rounded to the nearest sample
	spec, err = s.Spec(44100, 10*time.Microsecond)
	require.NoError(t, err)
	assert.Equal(t, 0, spec.TotalSamples)
	spec, err = s.Spec(44100, 20*time.Microsecond)
	require.NoError(t, err)
	assert.Equal(t, 1, spec.TotalSamples)
}

func TestSettingsSpecRejectsAtomically(t *testing.T) {
	s := generators.Settings{Sequence: "12", DutyCycle: 0, Amplitude: 0.5}
	spec, err := s.Spec(8000, time.Second)
	assert.Error(t, err)
	assert.Equal(t, generators.SequenceSpec{}, spec)

	s.DutyCycle = 50
	_, err = s.Spec(0, time.Second)
	assert.Error(t, err)
	_, err = s.Spec(8000, -time.Second)
	assert.Error(t, err)
}

func TestEmptySettingsFailAtInitialize(t *testing.T) {
	s := generators.Settings{DutyCycle: 50, Amplitude: 0.5}
	spec, err := s.Spec(8000, time.Second)
	require.NoError(t, err)
	_, err = generators.Initialize(spec)
	assert.Equal(t, generators.ErrEmptySequence, errors.Cause(err))
}

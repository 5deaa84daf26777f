package generators

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	tests := []struct {
		name      string
		total, n  int
		dutyCycle float64
		want      Plan
	}{
		{"two symbols at 8kHz", 8000, 2, 50, Plan{Tone: 2666, Silence: 2666, Leftover: 2}},
		{"eleven symbols, 4s at 44.1kHz", 176400, 11, 75, Plan{Tone: 12306, Silence: 4102, Leftover: 14}},
		{"single symbol", 12345, 1, 30, Plan{Tone: 12345}},
		{"no silence", 9000, 3, 100, Plan{Tone: 3000}},
		{"nothing to split", 0, 4, 50, Plan{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPlan(tt.total, tt.n, tt.dutyCycle)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPlanEmpty(t *testing.T) {
	_, err := NewPlan(8000, 0, 50)
	assert.Equal(t, ErrEmptySequence, errors.Cause(err))
}

func TestNewPlanAccountsForEverySample(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		total := rng.Intn(10*48000) + 1
		n := rng.Intn(40) + 1
		duty := 100 * (1 - rng.Float64()) // (0, 100]

		p, err := NewPlan(total, n, duty)
		require.NoError(t, err, "total=%d n=%d duty=%v", total, n, duty)
		require.GreaterOrEqual(t, p.Leftover, 0)
		require.LessOrEqual(t, p.Leftover, p.Segments(n))
		require.Equal(t, total, p.Total(n)+p.Leftover)
		if n == 1 {
			require.Equal(t, Plan{Tone: total}, p)
		}
	}
}

func TestSettleDetectsOvershoot(t *testing.T) {
	// A deficit far beyond one sample per segment is folded back in bulk; if that overshoots,
	// the plan is rejected instead of streaming the wrong number of samples.
	p := Plan{Tone: 1000, Silence: 500}
	err := p.settle(10000, 4)
	assert.Equal(t, ErrAccounting, errors.Cause(err))
}

func TestSettleWithinBoundIsUntouched(t *testing.T) {
	p := Plan{Tone: 1000, Silence: 500}
	require.NoError(t, p.settle(5507, 4))
	assert.Equal(t, Plan{Tone: 1000, Silence: 500, Leftover: 7}, p)
}

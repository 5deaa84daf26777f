package generators_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/faiface/dtmf"
	"github.com/faiface/dtmf/generators"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spec12() generators.SequenceSpec {
	return generators.SequenceSpec{
		Symbols:      "12",
		SampleRate:   8000,
		DutyCycle:    50,
		Amplitude:    1,
		TotalSamples: 8000,
	}
}

// produceAll drains seq in blocks whose sizes are picked by next.
func produceAll(t *testing.T, seq *generators.Sequence, next func() int) []float64 {
	t.Helper()
	var out []float64
	for seq.Remaining() > 0 {
		buf := make([]float64, next())
		n := seq.ProduceBlock(buf)
		require.LessOrEqual(t, n, len(buf))
		if n < len(buf) {
			require.Zero(t, seq.Remaining(), "short block before the end")
		}
		out = append(out, buf[:n]...)
	}
	require.NoError(t, seq.Err())
	require.Zero(t, seq.ProduceBlock(make([]float64, 16)), "produced past the end")
	return out
}

func initialize(t *testing.T, spec generators.SequenceSpec) *generators.Sequence {
	t.Helper()
	seq, err := generators.Initialize(spec)
	require.NoError(t, err)
	return seq
}

// reference renders spec sample by sample from the segment lengths, without any streaming state.
func reference(spec generators.SequenceSpec, lengths []int) []float64 {
	fs := float64(spec.SampleRate)
	symbols := []rune(spec.Symbols)
	var out []float64
	for i, segLen := range lengths {
		if i%2 == 1 {
			out = append(out, make([]float64, segLen)...)
			continue
		}
		pair := generators.Frequencies(symbols[i/2])
		ramp := math.Min(float64(segLen), fs/250)
		start := int(float64(segLen) - ramp)
		for p := 0; p < segLen; p++ {
			t := float64(p)
			v := spec.Amplitude * 0.5 * (math.Sin(2*math.Pi*pair.Low/fs*t) + math.Sin(2*math.Pi*pair.High/fs*t))
			if t < ramp {
				v *= t / ramp
			}
			if p >= start && float64(p-start) < ramp {
				v *= 1 - float64(p-start)/ramp
			}
			out = append(out, v)
		}
	}
	return out
}

func TestSequenceTwoSymbols(t *testing.T) {
	spec := spec12()
	seq := initialize(t, spec)
	assert.Equal(t, generators.Plan{Tone: 2666, Silence: 2666, Leftover: 2}, seq.Plan())
	assert.Equal(t, 1, seq.Channels())
	assert.Equal(t, 8000, seq.Len())

	out := produceAll(t, seq, func() int { return 8000 })
	require.Len(t, out, 8000)

	// the two leftover samples lengthen the first tone and the first silence
	want := reference(spec, []int{2667, 2667, 2666})
	require.Len(t, want, 8000)
	for i := range want {
		require.InDelta(t, want[i], out[i], 1e-9, "sample %d", i)
	}
	assert.Equal(t, 0.0, out[0])
	assert.Equal(t, make([]float64, 2667), out[2667:5334])
}

func TestSequenceChunkSizeInvariance(t *testing.T) {
	specs := []generators.SequenceSpec{
		spec12(),
		{Symbols: "0123456789*#ABCD", SampleRate: 44100, DutyCycle: 75, Amplitude: 0.8, TotalSamples: 4 * 44100},
		{Symbols: "audacity", SampleRate: 48000, DutyCycle: 55, Amplitude: 0.3, TotalSamples: 48000},
		{Symbols: "9", SampleRate: 22050, DutyCycle: 10, Amplitude: 1, TotalSamples: 3001},
		{Symbols: "1a2b", SampleRate: 8000, DutyCycle: 100, Amplitude: 1, TotalSamples: 1003},
		{Symbols: "#*#*#", SampleRate: 8000, DutyCycle: 3, Amplitude: 1, TotalSamples: 150},
	}
	rng := rand.New(rand.NewSource(1))
	for _, spec := range specs {
		whole := produceAll(t, initialize(t, spec), func() int { return spec.TotalSamples })
		require.Len(t, whole, spec.TotalSamples)

		for _, maxChunk := range []int{1, 7, 32, 511, 4096} {
			chunked := produceAll(t, initialize(t, spec), func() int { return rng.Intn(maxChunk + 1) })
			require.Equal(t, whole, chunked, "%q in chunks of up to %d", spec.Symbols, maxChunk)
		}
	}
}

func TestSequenceExactLength(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		n := rng.Intn(12) + 1
		symbols := make([]byte, n)
		for j := range symbols {
			symbols[j] = generators.Symbols[rng.Intn(len(generators.Symbols))]
		}
		spec := generators.SequenceSpec{
			Symbols:      string(symbols),
			SampleRate:   dtmf.SampleRate([]int{8000, 11025, 44100, 48000}[rng.Intn(4)]),
			DutyCycle:    100 * (1 - rng.Float64()),
			Amplitude:    1,
			TotalSamples: rng.Intn(20000) + 1,
		}
		seq := initialize(t, spec)
		total := 0
		for {
			got := seq.ProduceBlock(make([]float64, rng.Intn(3000)+1))
			if got == 0 {
				break
			}
			total += got
		}
		require.Equal(t, spec.TotalSamples, total, "%+v", spec)
		require.NoError(t, seq.Err())
		require.Equal(t, spec.TotalSamples, seq.Position())
	}
}

func TestSequenceDeterministic(t *testing.T) {
	spec := generators.SequenceSpec{Symbols: "*123#", SampleRate: 16000, DutyCycle: 40, Amplitude: 0.5, TotalSamples: 16000}
	a := produceAll(t, initialize(t, spec), func() int { return 100 })
	b := produceAll(t, initialize(t, spec), func() int { return 100 })
	assert.Equal(t, a, b)
}

func TestSequenceEmpty(t *testing.T) {
	spec := spec12()
	spec.Symbols = ""
	seq, err := generators.Initialize(spec)
	assert.Nil(t, seq)
	assert.Equal(t, generators.ErrEmptySequence, errors.Cause(err))
}

func TestSequenceInvalidSampleRate(t *testing.T) {
	spec := spec12()
	spec.SampleRate = 0
	_, err := generators.Initialize(spec)
	var invalid *generators.InvalidParameterError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "sample rate", invalid.Parameter)
}

func TestSequenceUnmappedSymbolKeepsItsSlot(t *testing.T) {
	spec := spec12()
	spec.Symbols = "?1"
	out := produceAll(t, initialize(t, spec), func() int { return 1000 })

	require.Len(t, out, 8000)
	assert.Equal(t, make([]float64, 5334), out[:5334], "silent tone and the silence after it")
	assert.NotEqual(t, 0.0, out[5335])
}

func TestSequenceSingleSymbol(t *testing.T) {
	spec := spec12()
	spec.Symbols = "5"
	seq := initialize(t, spec)
	assert.Equal(t, generators.Plan{Tone: 8000}, seq.Plan())

	out := produceAll(t, seq, func() int { return 999 })
	want := reference(spec, []int{8000})
	for i := range want {
		require.InDelta(t, want[i], out[i], 1e-9, "sample %d", i)
	}
}

func TestSequenceProduceBlockDoesNotAllocate(t *testing.T) {
	spec := generators.SequenceSpec{Symbols: "0123456789", SampleRate: 48000, DutyCycle: 50, Amplitude: 1, TotalSamples: 48000 * 600}
	seq := initialize(t, spec)
	buf := make([]float64, 480)

	allocs := testing.AllocsPerRun(200, func() {
		seq.ProduceBlock(buf)
	})
	if allocs != 0 {
		t.Fatalf("ProduceBlock allocs/op = %.2f, want 0", allocs)
	}
}

func TestSequenceAsStreamer(t *testing.T) {
	spec := spec12()
	mono := produceAll(t, initialize(t, spec), func() int { return 8000 })

	s := dtmf.Produce(initialize(t, spec))
	var frames [][2]float64
	buf := make([][2]float64, 300)
	for {
		n, ok := s.Stream(buf)
		if !ok {
			break
		}
		frames = append(frames, buf[:n]...)
	}
	require.NoError(t, s.Err())
	require.Len(t, frames, len(mono))
	for i, f := range frames {
		require.Equal(t, [2]float64{mono[i], mono[i]}, f)
	}
}

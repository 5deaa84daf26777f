package dtmf_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/faiface/dtmf"
)

func TestFormatEncodeDecode(t *testing.T) {
	formats := make(chan dtmf.Format)
	go func() {
		defer close(formats)
		for _, sampleRate := range []dtmf.SampleRate{100, 2347, 44100, 48000} {
			for _, numChannels := range []int{1, 2, 3, 4} {
				for _, precision := range []int{1, 2, 3, 4, 5, 6} {
					formats <- dtmf.Format{
						SampleRate:  sampleRate,
						NumChannels: numChannels,
						Precision:   precision,
					}
				}
			}
		}
	}()

	for format := range formats {
		for i := 0; i < 20; i++ {
			deviation := 2.0 / (math.Pow(2, float64(format.Precision)*8) - 2)
			sample := [2]float64{rand.Float64()*2 - 1, rand.Float64()*2 - 1}

			tmp := make([]byte, format.Width())
			format.EncodeSigned(tmp, sample)
			decoded, _ := format.DecodeSigned(tmp)
			checkDecoded(t, "signed", format, sample, decoded, deviation)

			format.EncodeUnsigned(tmp, sample)
			decoded, _ = format.DecodeUnsigned(tmp)
			checkDecoded(t, "unsigned", format, sample, decoded, deviation)
		}
	}
}

func checkDecoded(t *testing.T, kind string, format dtmf.Format, sample, decoded [2]float64, deviation float64) {
	t.Helper()
	if format.NumChannels == 1 {
		if math.Abs((sample[0]+sample[1])/2-decoded[0]) > deviation || decoded[0] != decoded[1] {
			t.Fatalf("%s decoded sample is too different: %v -> %v (deviation: %v)", kind, sample, decoded, deviation)
		}
		return
	}
	if math.Abs(sample[0]-decoded[0]) > deviation || math.Abs(sample[1]-decoded[1]) > deviation {
		t.Fatalf("%s decoded sample is too different: %v -> %v (deviation: %v)", kind, sample, decoded, deviation)
	}
}

func TestFormatClampsOutOfRange(t *testing.T) {
	format := dtmf.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	tmp := make([]byte, format.Width())
	format.EncodeSigned(tmp, [2]float64{3, -3})
	decoded, _ := format.DecodeSigned(tmp)
	if decoded != [2]float64{1, -1} {
		t.Errorf("clamped sample = %v, want [1 -1]", decoded)
	}
}

func TestSampleRateN(t *testing.T) {
	sr := dtmf.SampleRate(44100)
	for _, tc := range []struct {
		seconds float64
		want    int
	}{
		{1, 44100},
		{0.5, 22050},
		{0.00001, 0}, // 0.441 samples
		{0.00002, 1}, // 0.882 samples
	} {
		d := time.Duration(tc.seconds * float64(time.Second))
		if got := sr.N(d); got != tc.want {
			t.Errorf("N(%v) = %d, want %d", d, got, tc.want)
		}
	}
}

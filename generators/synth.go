package generators

import "math"

// fadeRate is the reciprocal of the fade length in seconds: tones ramp in and out over 4ms.
const fadeRate = 250.0

// Render fills buf with the sum of the two sines of pair, scaled by amplitude/2. offset is the
// position of buf[0] within the tone, which keeps the phase continuous when one tone is rendered
// over several calls.
func Render(buf []float64, fs float64, pair Pair, amplitude float64, offset int) {
	a := 2 * math.Pi * pair.Low / fs
	b := 2 * math.Pi * pair.High / fs
	for i := range buf {
		t := float64(i + offset)
		buf[i] = amplitude * 0.5 * (math.Sin(a*t) + math.Sin(b*t))
	}
}

// ApplyFades applies the linear fade-in and fade-out of a tone segment of segmentLen samples to
// buf, which holds the samples starting at offset within that segment.
//
// Both ramps last min(segmentLen, fs/250) samples. On segments shorter than two ramps they
// overlap and multiply: fade-in first, then fade-out.
func ApplyFades(buf []float64, fs float64, offset, segmentLen int) {
	if len(buf) == 0 {
		return
	}
	ramp := math.Min(float64(segmentLen), fs/fadeRate)
	end := offset + len(buf)

	// fade-in covers segment positions [0, ramp)
	for p := offset; p < end && float64(p) < ramp; p++ {
		buf[p-offset] *= float64(p) / ramp
	}

	// fade-out starts ramp samples before the end, rounded down
	start := int(float64(segmentLen) - ramp)
	first := start
	if first < offset {
		first = offset
	}
	for p := first; p < end && float64(p-start) < ramp; p++ {
		buf[p-offset] *= 1 - float64(p-start)/ramp
	}
}

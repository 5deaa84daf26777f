package dtmf

import "fmt"

// Format is the format of an encoded audio stream.
type Format struct {
	// SampleRate is the number of samples per second.
	SampleRate SampleRate

	// NumChannels is the number of channels. The value of 1 is mono, the value of 2 is stereo.
	// Encoded samples are always interleaved.
	NumChannels int

	// Precision is the number of bytes used to encode a single sample of one channel.
	Precision int
}

// Width returns the number of bytes per one sample (all channels).
func (f Format) Width() int {
	return f.NumChannels * f.Precision
}

// EncodeSigned encodes a single sample in f.Width() bytes to p in signed format. A mono format
// stores the average of both channels.
func (f Format) EncodeSigned(p []byte, sample [2]float64) (n int) {
	return f.encode(true, p, sample)
}

// EncodeUnsigned encodes a single sample in f.Width() bytes to p in unsigned format.
func (f Format) EncodeUnsigned(p []byte, sample [2]float64) (n int) {
	return f.encode(false, p, sample)
}

// DecodeSigned decodes a single sample encoded in f.Width() bytes from p in signed format. A mono
// sample is copied to both channels; channels beyond the second are skipped.
func (f Format) DecodeSigned(p []byte) (sample [2]float64, n int) {
	return f.decode(true, p)
}

// DecodeUnsigned decodes a single sample encoded in f.Width() bytes from p in unsigned format.
func (f Format) DecodeUnsigned(p []byte) (sample [2]float64, n int) {
	return f.decode(false, p)
}

func (f Format) encode(signed bool, p []byte, sample [2]float64) int {
	if f.NumChannels < 1 {
		panic(fmt.Errorf("format: encode: invalid number of channels: %d", f.NumChannels))
	}
	for c := 0; c < f.NumChannels; c++ {
		var x float64
		switch {
		case f.NumChannels == 1:
			x = (sample[0] + sample[1]) / 2
		case c < len(sample):
			x = sample[c]
		}
		putSample(p[c*f.Precision:], f.Precision, signed, clamp(x))
	}
	return f.Width()
}

func (f Format) decode(signed bool, p []byte) (sample [2]float64, n int) {
	if f.NumChannels < 1 {
		panic(fmt.Errorf("format: decode: invalid number of channels: %d", f.NumChannels))
	}
	for c := 0; c < len(sample) && c < f.NumChannels; c++ {
		sample[c] = getSample(p[c*f.Precision:], f.Precision, signed)
	}
	if f.NumChannels == 1 {
		sample[1] = sample[0]
	}
	return sample, f.Width()
}

// putSample stores x little-endian in the first precision bytes of p.
func putSample(p []byte, precision int, signed bool, x float64) {
	var u uint64
	if signed {
		u = uint64(int64(x * float64(uint64(1)<<uint(precision*8-1)-1)))
	} else {
		u = uint64((x + 1) / 2 * float64(uint64(1)<<uint(precision*8)-1))
	}
	for i := 0; i < precision; i++ {
		p[i] = byte(u)
		u >>= 8
	}
}

func getSample(p []byte, precision int, signed bool) float64 {
	var u uint64
	for i := precision - 1; i >= 0; i-- {
		u = u<<8 | uint64(p[i])
	}
	bits := uint(precision * 8)
	if signed {
		// sign-extend from the top bit of the encoded width
		v := int64(u<<(64-bits)) >> (64 - bits)
		return float64(v) / float64(uint64(1)<<(bits-1)-1)
	}
	return float64(u)/float64(uint64(1)<<bits-1)*2 - 1
}

func clamp(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > +1 {
		return +1
	}
	return x
}

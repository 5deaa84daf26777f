package dtmf

const produceBlockSize = 512

// Produce returns a Streamer which pulls mono blocks from p and copies each sample to both
// channels. The Streamer is drained once p produces fewer samples than requested.
//
// If p has an Err method, the returned Streamer propagates its errors through Err.
func Produce(p Producer) Streamer {
	return &produced{p: p}
}

type produced struct {
	p       Producer
	buf     [produceBlockSize]float64
	drained bool
}

func (pr *produced) Stream(samples [][2]float64) (n int, ok bool) {
	if pr.drained || pr.Err() != nil {
		return 0, false
	}
	for len(samples) > 0 {
		want := len(samples)
		if want > len(pr.buf) {
			want = len(pr.buf)
		}
		got := pr.p.ProduceBlock(pr.buf[:want])
		for i, x := range pr.buf[:got] {
			samples[i] = [2]float64{x, x}
		}
		samples = samples[got:]
		n += got
		if got < want {
			pr.drained = true
			break
		}
	}
	return n, n > 0
}

func (pr *produced) Err() error {
	if e, ok := pr.p.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

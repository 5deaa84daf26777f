// Package render turns validated settings into encoded audio. It is the host of the generator:
// parameters are checked here, before a Sequence ever exists.
package render

import (
	"io"
	"time"

	"github.com/faiface/dtmf"
	"github.com/faiface/dtmf/generators"
	"github.com/faiface/dtmf/internal/metrics"
	"github.com/faiface/dtmf/pcm"
	"github.com/faiface/dtmf/wav"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Request describes one rendering.
type Request struct {
	generators.Settings
	SampleRate dtmf.SampleRate
	Duration   time.Duration
	Precision  int // bytes per encoded sample, 2 if zero
}

// Format returns the mono output format of r.
func (r Request) Format() dtmf.Format {
	precision := r.Precision
	if precision == 0 {
		precision = 2
	}
	return dtmf.Format{SampleRate: r.SampleRate, NumChannels: 1, Precision: precision}
}

// Summary describes a finished or planned rendering.
type Summary struct {
	Symbols    int             `json:"symbols"`
	Samples    int             `json:"samples"`
	SampleRate dtmf.SampleRate `json:"sample_rate"`
	Plan       generators.Plan `json:"plan"`
}

// Renderer renders requests and records what it did.
type Renderer struct {
	log *zap.Logger
}

// New returns a Renderer logging to log.
func New(log *zap.Logger) *Renderer {
	return &Renderer{log: log}
}

// Sequence validates req and initializes its generator.
func (r *Renderer) Sequence(req Request) (*generators.Sequence, error) {
	spec, err := req.Settings.Spec(req.SampleRate, req.Duration)
	if err != nil {
		return nil, err
	}
	return generators.Initialize(spec)
}

// Plan returns the summary of req without generating anything.
func (r *Renderer) Plan(req Request) (Summary, error) {
	seq, err := r.Sequence(req)
	if err != nil {
		return Summary{}, err
	}
	return summarize(seq, req), nil
}

// WAV writes req as a WAVE stream of exactly the requested number of samples. w does not need to
// seek.
func (r *Renderer) WAV(w io.Writer, req Request) (Summary, error) {
	return r.run("wav", req, func(seq *generators.Sequence) error {
		return wav.EncodeN(w, dtmf.Produce(seq), req.Format(), seq.Len())
	})
}

// PCM writes req as headerless signed little-endian PCM.
func (r *Renderer) PCM(w io.Writer, req Request) (Summary, error) {
	return r.run("pcm", req, func(seq *generators.Sequence) error {
		_, err := pcm.Encode(w, dtmf.Produce(seq), req.Format())
		return err
	})
}

// run initializes req, hands the generator to encode and checks that all of it was consumed.
func (r *Renderer) run(kind string, req Request, encode func(*generators.Sequence) error) (Summary, error) {
	start := time.Now()
	metrics.ActiveRenders.Inc()
	defer metrics.ActiveRenders.Dec()

	seq, err := r.Sequence(req)
	if err != nil {
		metrics.RendersTotal.WithLabelValues(kind, Outcome(err)).Inc()
		return Summary{}, err
	}
	sum := summarize(seq, req)
	err = encode(seq)
	if err == nil {
		err = seq.Err()
	}
	if err == nil && seq.Remaining() != 0 {
		err = errors.Wrapf(generators.ErrAccounting, "%d samples never produced", seq.Remaining())
	}
	metrics.RendersTotal.WithLabelValues(kind, Outcome(err)).Inc()
	metrics.RenderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		r.log.Error("render failed", zap.String("kind", kind), zap.Int("symbols", sum.Symbols), zap.Error(err))
		return sum, err
	}
	metrics.SamplesTotal.Add(float64(sum.Samples))
	metrics.SymbolsTotal.Add(float64(sum.Symbols))
	r.log.Info("rendered",
		zap.String("kind", kind),
		zap.Int("symbols", sum.Symbols),
		zap.Int("samples", sum.Samples),
		zap.Int("sample_rate", int(sum.SampleRate)),
		zap.Int("tone_samples", sum.Plan.Tone),
		zap.Int("silence_samples", sum.Plan.Silence),
		zap.Int("leftover", sum.Plan.Leftover),
		zap.Duration("took", time.Since(start)),
	)
	return sum, nil
}

func summarize(seq *generators.Sequence, req Request) Summary {
	return Summary{
		Symbols:    len([]rune(req.Sequence)),
		Samples:    seq.Len(),
		SampleRate: req.SampleRate,
		Plan:       seq.Plan(),
	}
}

// Outcome classifies err for metrics.
func Outcome(err error) string {
	var invalid *generators.InvalidParameterError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &invalid):
		return metrics.OutcomeInvalid
	case errors.Cause(err) == generators.ErrEmptySequence:
		return metrics.OutcomeEmpty
	default:
		return metrics.OutcomeFailed
	}
}

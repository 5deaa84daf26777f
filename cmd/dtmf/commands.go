package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faiface/dtmf"
	"github.com/faiface/dtmf/internal/config"
	"github.com/faiface/dtmf/internal/render"
	"github.com/faiface/dtmf/internal/server"
	"github.com/faiface/dtmf/speaker"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// requestFlags registers the sequence flags on fs, defaulting to cfg, and returns the request
// they fill in once fs is parsed.
func requestFlags(fs *flag.FlagSet, cfg config.Config) *render.Request {
	d := cfg.Defaults
	req := &render.Request{Settings: d.Settings, SampleRate: d.SampleRate, Duration: d.Duration}
	fs.StringVar(&req.Sequence, "seq", d.Sequence, "keypad sequence (0-9 * # A-D a-z)")
	fs.Float64Var(&req.DutyCycle, "duty", d.DutyCycle, "tone/silence ratio in percent, (0, 100]")
	fs.Float64Var(&req.Amplitude, "amp", d.Amplitude, "amplitude, [0.001, 1]")
	fs.DurationVar(&req.Duration, "duration", d.Duration, "length of the whole sequence")
	fs.Func("rate", fmt.Sprintf("sample rate in Hz (default %d)", d.SampleRate), func(v string) error {
		var n int
		if _, err := fmt.Sscan(v, &n); err != nil {
			return err
		}
		req.SampleRate = dtmf.SampleRate(n)
		return nil
	})
	fs.IntVar(&req.Precision, "bytes", 2, "bytes per sample in the output, 1-3")
	return req
}

func runRender(cfg config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	req := requestFlags(fs, cfg)
	out := fs.String("o", "dtmf.wav", "output file")
	raw := fs.Bool("raw", false, "write headerless PCM instead of WAVE")
	fs.Parse(args)

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	r := render.New(log)
	if *raw {
		_, err = r.PCM(f, *req)
	} else {
		_, err = r.WAV(f, *req)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func runPlan(cfg config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	req := requestFlags(fs, cfg)
	fs.Parse(args)

	sum, err := render.New(log).Plan(*req)
	if err != nil {
		return err
	}
	tone, silence := req.Durations(req.Duration)
	sr := sum.SampleRate
	fmt.Printf("symbols   %d\n", sum.Symbols)
	fmt.Printf("samples   %d (%v at %d Hz)\n", sum.Samples, sr.D(sum.Samples), sr)
	fmt.Printf("tone      %d samples (%v nominal)\n", sum.Plan.Tone, tone)
	fmt.Printf("silence   %d samples (%v nominal)\n", sum.Plan.Silence, silence)
	fmt.Printf("leftover  %d samples over %d segments\n", sum.Plan.Leftover, sum.Plan.Segments(sum.Symbols))
	return nil
}

func runPlay(cfg config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	req := requestFlags(fs, cfg)
	fs.Parse(args)

	seq, err := render.New(log).Sequence(*req)
	if err != nil {
		return err
	}
	bufferSize := req.SampleRate.N(time.Second / 10)
	if err := speaker.Init(req.SampleRate, bufferSize); err != nil {
		return err
	}
	defer speaker.Close()

	done := make(chan struct{})
	tones := dtmf.Produce(seq)
	log.Info("playing", zap.String("sequence", req.Sequence), zap.Duration("duration", req.Duration))
	// the trailing silence flushes the device buffer before Close drops it
	speaker.Play(dtmf.Seq(tones, dtmf.Silence(2*bufferSize), dtmf.Callback(func() { close(done) })))
	<-done
	return tones.Err()
}

func runOverlay(cfg config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("overlay", flag.ExitOnError)
	req := requestFlags(fs, cfg)
	bg := fs.String("bg", "", "background recording (wav, flac, ogg or mp3)")
	out := fs.String("o", "overlay.wav", "output file")
	offset := fs.Duration("at", 0, "when the sequence starts within the background")
	gain := fs.Float64("gain", -12, "background gain in dB")
	fs.Parse(args)
	if *bg == "" {
		return errors.New("overlay: -bg is required")
	}

	background, format, err := render.OpenBackground(*bg)
	if err != nil {
		return err
	}
	defer background.Close()

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	_, err = render.New(log).Overlay(f, *req, render.Overlay{
		Background: background,
		Format:     format,
		Offset:     *offset,
		Gain:       *gain,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func runServe(cfg config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")
	fs.Parse(args)

	srv := server.New(cfg, log).HTTPServer()
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

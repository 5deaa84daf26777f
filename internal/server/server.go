// Package server serves rendered DTMF sequences over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/faiface/dtmf"
	"github.com/faiface/dtmf/generators"
	"github.com/faiface/dtmf/internal/config"
	"github.com/faiface/dtmf/internal/render"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	cfg      config.Config
	log      *zap.Logger
	renderer *render.Renderer
}

// New returns a Server rendering with the defaults of cfg.
func New(cfg config.Config, log *zap.Logger) *Server {
	return &Server{cfg: cfg, log: log, renderer: render.New(log)}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(s.requestID)
	r.Use(s.logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Request-Id", "X-Dtmf-Samples"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tones.wav", s.tones)
		r.Get("/plan", s.plan)
	})
	return r
}

// HTTPServer returns an http.Server serving Handler on the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// tones handles GET /v1/tones.wav. The body is rendered into memory first so that a failure is
// reported as an error status rather than a truncated file.
func (s *Server) tones(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body bytes.Buffer
	sum, err := s.renderer.WAV(&body, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.Header().Set("X-Dtmf-Samples", strconv.Itoa(sum.Samples))
	body.WriteTo(w)
}

type planResponse struct {
	render.Summary
	ToneMs    float64 `json:"tone_ms"`
	SilenceMs float64 `json:"silence_ms"`
}

// plan handles GET /v1/plan.
func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sum, err := s.renderer.Plan(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ms := func(n int) float64 { return float64(n) * 1000 / float64(sum.SampleRate) }
	writeJSON(w, http.StatusOK, planResponse{
		Summary:   sum,
		ToneMs:    ms(sum.Plan.Tone),
		SilenceMs: ms(sum.Plan.Silence),
	})
}

// request reads the render parameters from the query, falling back to the configured defaults.
func (s *Server) request(r *http.Request) (render.Request, error) {
	d := s.cfg.Defaults
	q := r.URL.Query()
	req := render.Request{
		Settings:   d.Settings,
		SampleRate: d.SampleRate,
		Duration:   d.Duration,
	}
	if v, ok := q["sequence"]; ok {
		req.Sequence = v[0]
	}
	var err error
	parse := func(key, parameter string, set func(string) error) {
		if err != nil || q.Get(key) == "" {
			return
		}
		if perr := set(q.Get(key)); perr != nil {
			err = &generators.InvalidParameterError{Parameter: parameter, Reason: perr.Error()}
		}
	}
	parse("duty", "duty cycle", func(v string) (e error) { req.DutyCycle, e = strconv.ParseFloat(v, 64); return })
	parse("amplitude", "amplitude", func(v string) (e error) { req.Amplitude, e = strconv.ParseFloat(v, 64); return })
	parse("duration", "duration", func(v string) (e error) { req.Duration, e = time.ParseDuration(v); return })
	parse("rate", "sample rate", func(v string) error {
		n, e := strconv.Atoi(v)
		req.SampleRate = dtmf.SampleRate(n)
		return e
	})
	if err != nil {
		return render.Request{}, err
	}
	if req.Duration > s.cfg.Server.MaxDuration {
		return render.Request{}, &generators.InvalidParameterError{
			Parameter: "duration",
			Reason:    "longer than " + s.cfg.Server.MaxDuration.String(),
		}
	}
	if int(req.SampleRate) > s.cfg.Server.MaxSampleRate {
		return render.Request{}, &generators.InvalidParameterError{
			Parameter: "sample rate",
			Reason:    "higher than " + strconv.Itoa(s.cfg.Server.MaxSampleRate) + " Hz",
		}
	}
	return req, nil
}

type errorResponse struct {
	Error     string `json:"error"`
	Parameter string `json:"parameter,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error(), RequestID: w.Header().Get("X-Request-Id")}
	status := http.StatusInternalServerError
	var invalid *generators.InvalidParameterError
	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
		resp.Parameter = invalid.Parameter
	case errors.Cause(err) == generators.ErrEmptySequence:
		status = http.StatusUnprocessableEntity
	default:
		s.log.Error("request failed", zap.String("request_id", resp.RequestID), zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestID tags every request and response with a fresh id unless the client sent one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("request_id", w.Header().Get("X-Request-Id")),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

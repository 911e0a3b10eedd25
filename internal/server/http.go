package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/zeusync/timeline/internal/core/composition"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/pkg/generic"
)

// buffers holds encode buffers shared by HTTP responses and feed messages.
var buffers = generic.NewPool(
	func() *bytes.Buffer { return new(bytes.Buffer) },
	func(b *bytes.Buffer) { b.Reset() },
)

// CompositionResponse is the body of GET /composition.
type CompositionResponse struct {
	Version     uint64            `json:"version"`
	Fingerprint string            `json:"fingerprint"`
	State       composition.State `json:"state"`
}

// PaintResponse is the body of GET /composition/paint.
type PaintResponse struct {
	Time  float64             `json:"time"`
	Items []composition.Paint `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /composition", tokenAuth(s.config.Token, http.HandlerFunc(s.handleComposition)))
	mux.Handle("GET /composition/paint", tokenAuth(s.config.Token, http.HandlerFunc(s.handlePaint)))
	mux.Handle("GET /templates", tokenAuth(s.config.Token, http.HandlerFunc(s.handleTemplates)))
	mux.Handle("GET /ws", tokenAuth(s.config.Token, http.HandlerFunc(s.hub.handleWebSocket)))

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	return s.logRequests(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"feed":   s.Stats(),
	})
}

func fingerprintHex(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// fingerprintTag formats a fingerprint as a strong ETag.
func fingerprintTag(fp uint64) string {
	return "\"" + fingerprintHex(fp) + "\""
}

func (s *Server) handleComposition(w http.ResponseWriter, r *http.Request) {
	state, version := s.source.VersionedState()
	fp := composition.Fingerprint(state)
	etag := fingerprintTag(fp)

	w.Header().Set("ETag", etag)
	w.Header().Set("X-Composition-Version", strconv.FormatUint(version, 10))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, CompositionResponse{
		Version:     version,
		Fingerprint: fingerprintHex(fp),
		State:       state,
	})
}

func (s *Server) handlePaint(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("t")
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidTime, raw))
		return
	}
	items := s.source.PaintOrder(t)
	if items == nil {
		items = []composition.Paint{}
	}
	writeJSON(w, http.StatusOK, PaintResponse{Time: t, Items: items})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeJSON(w, http.StatusOK, []templates.Template{})
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.List(r.URL.Query().Get("category")))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	_ = buffers.With(func(buf *bytes.Buffer) error {
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// encodeMessage returns an owned copy; the pooled buffer is reused.
func encodeMessage(msg Message) ([]byte, error) {
	var out []byte
	err := buffers.With(func(buf *bytes.Buffer) error {
		if err := json.NewEncoder(buf).Encode(msg); err != nil {
			return err
		}
		out = bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
		return nil
	})
	return out, err
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is required by the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.Int("status", rec.status),
			log.Duration("elapsed", time.Since(start)),
		)
	})
}

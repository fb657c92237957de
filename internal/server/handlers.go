package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sruja-ai/sruja-sub008/pkg/diagram"
	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/layout"
	"github.com/sruja-ai/sruja-sub008/pkg/pipeline"
	"github.com/sruja-ai/sruja-sub008/pkg/session"
)

// =============================================================================
// Wire types
// =============================================================================

// LayoutRequest is the body of the layout endpoints.
type LayoutRequest struct {
	Document diagram.Document `json:"document"`
	// Options override the document's preset and view.
	Options layout.Options `json:"options"`
	Refresh bool           `json:"refresh,omitempty"`
}

// LayoutResponse is the result of a layout endpoint.
type LayoutResponse struct {
	Layout     diagram.Layout `json:"layout"`
	Cached     bool           `json:"cached"`
	DurationMS int64          `json:"duration_ms"`
}

// PresetInfo describes one preset.
type PresetInfo struct {
	Name    string         `json:"name"`
	Options layout.Options `json:"options"`
}

// CreateSessionRequest is the optional body of POST /v1/sessions.
type CreateSessionRequest struct {
	Preset string `json:"preset,omitempty"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	names := layout.Presets()
	out := make([]PresetInfo, 0, len(names))
	for _, name := range names {
		opts, err := layout.Preset(name)
		if err != nil {
			s.fail(w, err)
			return
		}
		out = append(out, PresetInfo{Name: name, Options: opts})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.layout(r.Context(), w, req, pipeline.Options{Layout: req.Options, Refresh: req.Refresh})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &req); err != nil {
			s.fail(w, err)
			return
		}
	}
	if req.Preset != "" {
		if _, err := layout.Preset(req.Preset); err != nil {
			s.fail(w, err)
			return
		}
	}
	sess, err := session.New(session.Config{Preset: req.Preset, TTL: s.cfg.SessionTTL})
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "preset", sess.Preset)
	writeJSON(w, http.StatusCreated, sess.Info())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleSessionLayout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	opts := pipeline.Options{Layout: req.Options, Refresh: req.Refresh, Keyer: sess.Keyer()}
	opts.Layout.Measurer = sess.Measurer()
	if opts.Layout.Preset == "" && req.Document.Preset == "" {
		opts.Layout.Preset = sess.Preset
	}
	sess.Touch()
	s.layout(r.Context(), w, req, opts)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) layout(ctx context.Context, w http.ResponseWriter, req LayoutRequest, opts pipeline.Options) {
	start := time.Now()
	opts.Logger = s.logger
	res, err := s.runner.Execute(ctx, req.Document, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		Layout:     res.Layout,
		Cached:     res.CacheInfo.Hit,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

// =============================================================================
// JSON helpers
// =============================================================================

// decode reads a JSON body, rejecting unknown fields, trailing data and
// bodies over the configured limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New(errors.ErrCodeInvalidFormat, "request body must hold a single JSON object")
	}
	return nil
}

// fail writes err with the status its code implies.
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		msg = "internal server error"
	}
	writeError(w, status, code, msg)
}

func statusFor(err error) int {
	switch {
	case errors.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeSessionNotFound), errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeSessionExpired):
		return http.StatusGone
	case errors.Is(err, errors.ErrCodeRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errors.Code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

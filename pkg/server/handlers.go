package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/swapmapper/pkg/buildinfo"
	"github.com/matzehuels/swapmapper/pkg/coupling"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/observability"
	"github.com/matzehuels/swapmapper/pkg/pipeline"
	"github.com/matzehuels/swapmapper/pkg/render"
)

// RouteRequest is the body of POST /v1/route.
type RouteRequest struct {
	Circuit    string         `json:"circuit"`
	Coupling   CouplingSpec   `json:"coupling"`
	Layout     map[string]int `json:"layout,omitempty"`
	Strategy   string         `json:"strategy,omitempty"`
	Trials     int            `json:"trials,omitempty"`
	Seed       uint64         `json:"seed,omitempty"`
	LayerMode  string         `json:"layer_mode,omitempty"`
	Lookahead  int            `json:"lookahead,omitempty"`
	NoAncillas bool           `json:"no_ancillas,omitempty"`
	Refresh    bool           `json:"refresh,omitempty"`

	// Render optionally adds the coupling graph drawn with the final
	// layout ("dot" or "svg").
	Render string `json:"render,omitempty"`
}

// RouteResponse is the body of a successful POST /v1/route.
type RouteResponse struct {
	ID     string          `json:"id"`
	Cached bool            `json:"cached"`
	Report pipeline.Report `json:"report"`
	Render string          `json:"render,omitempty"`
}

// CouplingSpec accepts a coupling either as the compact string form
// ("grid:2x3") or as a JSON object with the fields of [coupling.Spec].
type CouplingSpec coupling.Spec

// UnmarshalJSON implements json.Unmarshaler.
func (c *CouplingSpec) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		spec, err := coupling.Parse(s)
		if err != nil {
			return err
		}
		*c = CouplingSpec(spec)
		return nil
	}
	var spec coupling.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return err
	}
	*c = CouplingSpec(spec)
	return nil
}

func (req RouteRequest) options() pipeline.Options {
	return pipeline.Options{
		Source:     "request",
		Circuit:    req.Circuit,
		Coupling:   coupling.Spec(req.Coupling),
		Layout:     req.Layout,
		Strategy:   req.Strategy,
		Trials:     req.Trials,
		Seed:       req.Seed,
		LayerMode:  req.LayerMode,
		Lookahead:  req.Lookahead,
		NoAncillas: req.NoAncillas,
		Refresh:    req.Refresh,
	}
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req RouteRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge,
				apperrors.New(apperrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		if apperrors.GetCode(err) == "" {
			err = apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request")
		}
		s.writeError(w, r, statusFor(err), err)
		return
	}
	if req.Render != "" {
		if err := pipeline.ValidateRenderFormat(req.Render); err != nil {
			s.writeError(w, r, statusFor(err), err)
			return
		}
	}

	opts := req.options()
	opts.Logger = s.logger.With("request", middleware.GetReqID(r.Context()))
	s.cfg.Defaults.Apply(&opts)

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	resp := RouteResponse{ID: res.RunID, Cached: res.CacheHit, Report: res.Report}
	if req.Render != "" {
		data, err := s.runner.Render(r.Context(), res, req.Render)
		if err != nil {
			s.writeError(w, r, statusFor(err), err)
			return
		}
		resp.Render = string(data)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCoupling(w http.ResponseWriter, r *http.Request) {
	spec, err := coupling.Parse(chi.URLParam(r, "spec"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.RenderDOT
	}
	if err := pipeline.ValidateRenderFormat(format); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	g, err := spec.Build()
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	dot := render.ToDOT(g, render.Options{})
	if format == pipeline.RenderDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(dot))
		return
	}
	svg, err := render.SVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch apperrors.GetCode(err).Class() {
	case apperrors.ClassInput:
		return http.StatusBadRequest
	case apperrors.ClassRouting:
		return http.StatusUnprocessableEntity
	case apperrors.ClassNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	msg := apperrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	var cause *apperrors.Error
	if errors.As(err, &cause) && cause.Cause != nil && status < http.StatusInternalServerError {
		msg += ": " + cause.Cause.Error()
	}
	s.writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// logRequests logs every request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d)
	})
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mermaidflow/pkg/cache"
	"github.com/matzehuels/mermaidflow/pkg/diagram"
	apperrors "github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flowchart"
	"github.com/matzehuels/mermaidflow/pkg/observability"
	"github.com/matzehuels/mermaidflow/pkg/render"
	"github.com/matzehuels/mermaidflow/pkg/statechart"
	"github.com/matzehuels/mermaidflow/pkg/store"
)

const maxBodyBytes = 2 << 20

// parseRequest is the shared request body for parse, convert, and
// render. Type is optional; when empty the diagram type is detected
// from the source.
type parseRequest struct {
	Source string `json:"source"`
	Type   string `json:"type,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	doc, err := s.engines.Parse(r.Context(), diagram.Source{Text: req.Source, Type: diagram.Type(req.Type)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	doc, err := s.engines.Parse(r.Context(), diagram.Source{Text: req.Source, Type: diagram.Type(req.Type)})
	if err != nil {
		s.writeError(w, err)
		return
	}

	var model any
	switch doc.Type {
	case diagram.TypeFlowchart:
		model, err = flowchart.Convert(doc)
	case diagram.TypeState:
		model, err = statechart.Convert(doc)
	default:
		err = apperrors.New(apperrors.ErrCodeUnsupported, "no converter for diagram type %s", doc.Type)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"type":  doc.Type,
		"model": model,
	})
}

type renderRequest struct {
	parseRequest
	Format string  `json:"format,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.renderSource(w, r, req.Source, diagram.Type(req.Type), req.Format, req.Scale)
}

// renderSource parses, converts, and renders a diagram, consulting the
// artifact cache first.
func (s *Server) renderSource(w http.ResponseWriter, r *http.Request, source string, typ diagram.Type, format string, scale float64) {
	if format == "" {
		format = string(render.FormatSVG)
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid render format"))
		return
	}
	if scale <= 0 {
		scale = s.cfg.Render.Scale
	}

	key := cache.RenderKey(source+"\x00"+string(typ), string(f), scale)
	if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
		s.log.Warn("cache get failed", "err", err)
	} else if ok {
		observability.Cache().OnCacheHit(r.Context(), "render")
		s.writeImage(w, f, data)
		return
	} else {
		observability.Cache().OnCacheMiss(r.Context(), "render")
	}

	doc, err := s.engines.Parse(r.Context(), diagram.Source{Text: source, Type: typ})
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := render.Document(r.Context(), doc, f, render.WithScale(scale))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.cache.Set(r.Context(), key, data, s.cacheTTL); err != nil {
		s.log.Warn("cache set failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "render", len(data))
	}
	s.writeImage(w, f, data)
}

type diagramRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (s *Server) handleDiagramCreate(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	// Reject diagrams that do not parse so the store never holds
	// broken sources.
	doc, err := s.engines.Parse(r.Context(), diagram.Source{Text: req.Source})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d := store.New(req.Name, req.Source, doc.Type)
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleDiagramList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"diagrams": list})
}

// diagramID extracts and validates the {diagramID} URL parameter,
// writing the error response itself on failure.
func (s *Server) diagramID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "diagramID")
	if err := apperrors.ValidateDiagramID(id); err != nil {
		s.writeError(w, err)
		return "", false
	}
	return id, true
}

func (s *Server) handleDiagramGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.diagramID(w, r)
	if !ok {
		return
	}
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDiagramUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.diagramID(w, r)
	if !ok {
		return
	}
	var req diagramRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.engines.Parse(r.Context(), diagram.Source{Text: req.Source})
	if err != nil {
		s.writeError(w, err)
		return
	}
	d.Source = req.Source
	d.Type = doc.Type
	if req.Name != "" {
		d.Name = req.Name
	}
	d.Touch()
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDiagramDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.diagramID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDiagramRender(w http.ResponseWriter, r *http.Request) {
	id, ok := s.diagramID(w, r)
	if !ok {
		return
	}
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	scale := 0.0
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
	}
	s.renderSource(w, r, d.Source, d.Type, format, scale)
}

// decodeBody reads and decodes a JSON request body, writing the error
// response itself on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty"))
			return false
		}
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("writing response", "err", err)
	}
}

func (s *Server) writeImage(w http.ResponseWriter, format render.Format, data []byte) {
	switch format {
	case render.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case render.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	case render.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError maps application error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeParse, apperrors.ErrCodeSchemaMismatch,
		apperrors.ErrCodeDanglingReference:
		status = http.StatusBadRequest
	case apperrors.ErrCodeUnsupportedDiagram, apperrors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeDiagramNotFound, apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}

package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/speedui/gridkit/pkg/buildinfo"
	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/pipeline"
	"github.com/speedui/gridkit/pkg/snapshot"
)

// ============================================================================
// Request / Response Types
// ============================================================================

// CreateLayoutRequest is the body of POST /v1/layouts. The listing is
// given either inline as JSON or as encoded text in Source with its
// SourceFormat (json, yaml or toml).
type CreateLayoutRequest struct {
	Listing      json.RawMessage  `json:"listing,omitempty"`
	Source       string           `json:"source,omitempty"`
	SourceFormat string           `json:"source_format,omitempty"`
	Options      pipeline.Options `json:"options"`
}

// CreateLayoutResponse is returned by POST /v1/layouts.
type CreateLayoutResponse struct {
	Layout *snapshot.Layout `json:"layout"`
	Cached bool             `json:"cached"`
}

// ElementsResponse is returned by GET /v1/layouts/{id}/elements.
type ElementsResponse struct {
	Rect     *snapshot.Rect     `json:"rect,omitempty"`
	Elements []snapshot.Element `json:"elements"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatFlow: "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// ============================================================================
// Handlers
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	summaries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeSuccess(w, summaries, http.StatusOK)
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req CreateLayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeErr(w, r, err)
			return
		}
		s.writeErr(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts := req.Options
	switch {
	case len(req.Listing) > 0 && req.Source != "":
		s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "give either listing or source, not both"))
		return
	case len(req.Listing) > 0:
		opts.Source, opts.SourceFormat = req.Listing, "json"
	case req.Source != "":
		opts.Source, opts.SourceFormat = []byte(req.Source), req.SourceFormat
	default:
		s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "listing is required"))
		return
	}
	opts.Input = ""
	opts.Logger = s.logger

	if err := opts.ValidateForLayout(); err != nil {
		s.writeErr(w, r, err)
		return
	}
	lst, err := pipeline.Load(opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	layout, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), lst, opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	id, err := s.store.Put(r.Context(), layout)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	s.logger.Info("created layout", "id", id, "strategy", layout.Strategy, "items", layout.Len(), "cached", hit)
	w.Header().Set("Location", "/v1/layouts/"+id)
	writeSuccess(w, CreateLayoutResponse{Layout: layout, Cached: hit}, http.StatusCreated)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}
	writeSuccess(w, layout, http.StatusOK)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleElements answers a rectangle query (x, y, w, h) or an index
// lookup (section, item). Without parameters the stored viewport is
// queried.
func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	if q.Has("section") || q.Has("item") {
		idx, err := indexParams(q.Get("section"), q.Get("item"))
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		e, found := layout.ItemAt(idx)
		if !found {
			s.writeErr(w, r, errors.New(errors.ErrCodeNotFound, "no item at %s", idx))
			return
		}
		writeSuccess(w, ElementsResponse{Elements: []snapshot.Element{e}}, http.StatusOK)
		return
	}

	rect := layout.Viewport.ToGrid()
	if q.Has("x") || q.Has("y") || q.Has("w") || q.Has("h") {
		var err error
		if rect, err = rectParams(q.Get("x"), q.Get("y"), q.Get("w"), q.Get("h")); err != nil {
			s.writeErr(w, r, err)
			return
		}
	}
	elems := layout.Intersecting(rect)
	if elems == nil {
		elems = []snapshot.Element{}
	}
	writeSuccess(w, ElementsResponse{
		Rect:     &snapshot.Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height},
		Elements: elems,
	}, http.StatusOK)
}

// handleRender renders a stored layout. Query flags: labels, viewport,
// detailed (booleans) and scale.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormats([]string{format}); err != nil {
		s.writeErr(w, r, err)
		return
	}
	layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:      []string{format},
		Labels:       boolParam(q.Get("labels")),
		ShowViewport: boolParam(q.Get("viewport")),
		Detailed:     boolParam(q.Get("detailed")),
		Logger:       s.logger,
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be a number"))
			return
		}
		opts.Scale = scale
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), layout, opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// ============================================================================
// Helpers
// ============================================================================

func (s *Server) loadLayout(w http.ResponseWriter, r *http.Request) (*snapshot.Layout, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.writeErr(w, r, err)
		return nil, false
	}
	layout, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return nil, false
	}
	return layout, true
}

func rectParams(x, y, w, h string) (grid.Rect, error) {
	var v [4]float64
	for i, p := range []struct{ name, val string }{{"x", x}, {"y", y}, {"w", w}, {"h", h}} {
		if p.val == "" {
			return grid.Rect{}, errors.New(errors.ErrCodeInvalidInput, "rect query needs x, y, w and h (missing %s)", p.name)
		}
		f, err := strconv.ParseFloat(p.val, 64)
		if err != nil {
			return grid.Rect{}, errors.New(errors.ErrCodeInvalidInput, "%s must be a number", p.name)
		}
		v[i] = f
	}
	if v[2] < 0 || v[3] < 0 {
		return grid.Rect{}, errors.New(errors.ErrCodeInvalidInput, "w and h cannot be negative")
	}
	return grid.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func indexParams(section, item string) (grid.Index, error) {
	sec, err1 := strconv.Atoi(section)
	it, err2 := strconv.Atoi(item)
	if err1 != nil || err2 != nil || sec < 0 || it < 0 {
		return grid.Index{}, errors.New(errors.ErrCodeInvalidInput, "section and item must be non-negative integers")
	}
	return grid.IndexOf(sec, it), nil
}

func boolParam(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

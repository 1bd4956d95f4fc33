// Package inspect serves a read-only JSON view of a container over HTTP:
// registered entries, their definitions, alias chains and resolution state.
//
//	GET /health
//	GET /entries
//	GET /entries/{name}     (name may contain slashes)
//	GET /aliases
//	GET /resolve?name=...
//	GET /graph
//
// Values are reported by type only; their contents are never serialised.
package inspect

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
)

// Handler exposes one container. It implements http.Handler.
type Handler struct {
	c      *container.Container
	logger *zap.Logger
	mux    chi.Router
}

// New creates the handler with RequestID, RealIP and Recoverer middleware.
func New(c *container.Container, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{c: c, logger: logger, mux: chi.NewRouter()}
	h.mux.Use(middleware.RequestID)
	h.mux.Use(middleware.RealIP)
	h.mux.Use(middleware.Recoverer)
	h.mux.Use(h.logRequests)

	h.mux.Get("/health", h.health)
	h.mux.Route("/entries", func(r chi.Router) {
		r.Get("/", h.entries)
		r.Get("/*", h.entry)
	})
	h.mux.Get("/aliases", h.aliases)
	h.mux.Get("/resolve", h.resolve)
	h.mux.Get("/graph", h.graph)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug("inspect request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())))
		next.ServeHTTP(w, r)
	})
}

// ── views ─────────────────────────────────────────────────────────────────────

type entryView struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Resolved   bool            `json:"resolved"`
	Canonical  string          `json:"canonical,omitempty"`
	Type       string          `json:"type,omitempty"`
	Definition *definitionView `json:"definition,omitempty"`
}

type definitionView struct {
	Class        string           `json:"class"`
	Scope        definition.Scope `json:"scope"`
	Constructor  []string         `json:"constructor,omitempty"`
	Methods      []methodView     `json:"methods,omitempty"`
	Properties   []propertyView   `json:"properties,omitempty"`
	Dependencies []string         `json:"dependencies,omitempty"`
}

type methodView struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Setter bool     `json:"setter,omitempty"`
}

type propertyView struct {
	Name  string `json:"name"`
	Entry string `json:"entry"`
	Lazy  bool   `json:"lazy,omitempty"`
}

func viewDefinition(def *definition.ClassDefinition) *definitionView {
	v := &definitionView{
		Class:        def.ClassName(),
		Scope:        def.Scope(),
		Dependencies: def.Dependencies(),
	}
	if ctor := def.ConstructorInjection(); ctor != nil {
		v.Constructor = entryNames(ctor)
	}
	for _, m := range def.MethodInjections() {
		v.Methods = append(v.Methods, methodView{Name: m.MethodName(), Params: entryNames(m), Setter: m.IsSetter()})
	}
	for _, p := range def.PropertyInjections() {
		v.Properties = append(v.Properties, propertyView{Name: p.PropertyName(), Entry: p.EntryName(), Lazy: p.IsLazy()})
	}
	return v
}

func entryNames(m *definition.MethodInjection) []string {
	params := m.Parameters()
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.EntryName()
	}
	return names
}

func (h *Handler) view(name string) entryView {
	v := entryView{Name: name, Kind: "value", Resolved: h.c.Resolved(name)}
	if def, ok := h.c.Definition(name); ok {
		v.Kind = "definition"
		v.Definition = viewDefinition(def)
	}
	return v
}

// ── handlers ──────────────────────────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	newResponse(w).success(map[string]any{"status": "ok", "container": h.c.ID()})
}

func (h *Handler) entries(w http.ResponseWriter, _ *http.Request) {
	names := h.c.Entries()
	views := make([]entryView, 0, len(names))
	for _, name := range names {
		v := h.view(name)
		v.Definition = nil
		views = append(views, v)
	}
	newResponse(w).success(map[string]any{"container": h.c.ID(), "entries": views})
}

func (h *Handler) entry(w http.ResponseWriter, r *http.Request) {
	res := newResponse(w)
	name := chi.URLParam(r, "*")

	canonical, err := h.c.Canonical(name)
	if err != nil {
		res.fail(http.StatusConflict, err.Error())
		return
	}
	if !h.c.Has(canonical) {
		res.notFound(fmt.Sprintf("no entry or value '%s' was found", name))
		return
	}
	v := h.view(canonical)
	v.Name = name
	if canonical != name {
		v.Canonical = canonical
	}
	if v.Kind == "value" {
		if value, err := h.c.Get(canonical); err == nil {
			v.Type = fmt.Sprintf("%T", value)
		}
	}
	res.success(v)
}

func (h *Handler) aliases(w http.ResponseWriter, _ *http.Request) {
	newResponse(w).success(h.c.Aliases())
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	res := newResponse(w)
	name := r.URL.Query().Get("name")
	if name == "" {
		res.fail(http.StatusBadRequest, "query parameter 'name' is required")
		return
	}
	canonical, err := h.c.Canonical(name)
	switch {
	case errors.Is(err, container.ErrAliasCycle):
		res.fail(http.StatusConflict, err.Error())
		return
	case err != nil:
		res.fail(http.StatusInternalServerError, err.Error())
		return
	}
	res.success(map[string]any{
		"name":      name,
		"canonical": canonical,
		"known":     h.c.Has(canonical),
	})
}

func (h *Handler) graph(w http.ResponseWriter, _ *http.Request) {
	graph := make(map[string][]string)
	for _, name := range h.c.Entries() {
		if def, ok := h.c.Definition(name); ok {
			graph[name] = def.Dependencies()
		}
	}
	newResponse(w).success(graph)
}

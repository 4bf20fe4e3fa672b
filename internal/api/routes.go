package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/rtfdocs/rtfd/internal/logging"
	"github.com/rtfdocs/rtfd/internal/overlay"
	"github.com/rtfdocs/rtfd/internal/project"
)

// ActionDescribe is the Action query value of a describe request.
const ActionDescribe = "describeProject"

// AssetsPath is where the browser assets are served.
const AssetsPath = "/rtfd/assets"

// Options configure the rtfd routes.
type Options struct {
	// DocsDir holds the built documentation, <DocsDir>/<name>/...
	DocsDir string
	// CacheTTL bounds how long the docs handler reuses a descriptor.
	CacheTTL time.Duration
	Mount    overlay.MountMode
	Popover  overlay.PopoverOptions
	Logger   logr.Logger
}

type handler struct {
	store   *project.Store
	opts    Options
	fetcher *overlay.CachedFetcher
}

// response is the envelope of every JSON answer.
type response struct {
	Code    int                 `json:"code"`
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    *overlay.Descriptor `json:"data,omitempty"`
}

// RegisterRoutes mounts the describe API, badges, assets and docs on r.
func RegisterRoutes(r chi.Router, store *project.Store, opts Options) {
	h := &handler{store: store, opts: opts}
	h.fetcher = overlay.NewCachedFetcher(&StoreFetcher{Store: store, DocsDir: opts.DocsDir}, opts.CacheTTL)

	r.Get("/rtfd/api", h.apiHandler)
	r.Get("/rtfd/{name}/desc", h.describeHandler)
	r.Get("/rtfd/desc/{name}", h.describeHandler)
	r.Get("/rtfd/{name}/badge", h.badgeHandler)
	r.Get("/rtfd/badge/{name}", h.badgeHandler)

	r.Get(AssetsPath+"/rtfd.js", assetHandler("application/javascript; charset=utf-8", overlay.LoaderScript))
	r.Get(AssetsPath+"/overlay.js", assetHandler("application/javascript; charset=utf-8", overlay.BindingScript))
	r.Get(AssetsPath+"/overlay.css", assetHandler("text/css; charset=utf-8", overlay.Stylesheet))

	r.Get("/docs/{name}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
	})
	r.Get("/docs/{name}/*", h.docsHandler)
}

func (h *handler) apiHandler(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("Action")
	if action != ActionDescribe {
		requestsTotal.WithLabelValues("api", "bad_action").Inc()
		writeJSON(w, http.StatusBadRequest, response{Code: 1, Message: "unsupported action"})
		return
	}
	h.describe(w, r, r.URL.Query().Get("name"))
}

func (h *handler) describeHandler(w http.ResponseWriter, r *http.Request) {
	h.describe(w, r, chi.URLParam(r, "name"))
}

func (h *handler) describe(w http.ResponseWriter, r *http.Request, name string) {
	if !project.IsName(name) {
		requestsTotal.WithLabelValues("describe", "invalid").Inc()
		writeJSON(w, http.StatusBadRequest, response{Code: 1, Message: "invalid project name"})
		return
	}
	p, err := h.store.Get(r.Context(), name)
	if errors.Is(err, project.ErrNotFound) {
		requestsTotal.WithLabelValues("describe", "not_found").Inc()
		writeJSON(w, http.StatusNotFound, response{Code: http.StatusNotFound, Message: "Not Found"})
		return
	}
	if err != nil {
		requestsTotal.WithLabelValues("describe", "error").Inc()
		h.opts.Logger.Error(err, "describing project", "name", name)
		writeJSON(w, http.StatusInternalServerError, response{Code: 1, Message: err.Error()})
		return
	}
	requestsTotal.WithLabelValues("describe", "ok").Inc()
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    Describe(p, project.Versions(h.opts.DocsDir, p)),
	})
}

func (h *handler) badgeHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	branch := strings.ToLower(r.URL.Query().Get("branch"))

	badge := BadgeUnknown
	b, err := h.store.LatestBuild(r.Context(), name, branch)
	switch {
	case err == nil && b.Passing:
		badge = BadgePassing
	case err == nil:
		badge = BadgeFailing
	case !errors.Is(err, project.ErrNotFound):
		h.opts.Logger.Error(err, "reading build status", "name", name, "branch", branch)
	}
	requestsTotal.WithLabelValues("badge", string(badge)).Inc()

	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(badge.SVG())
}

func assetHandler(contentType string, body func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body()))
	}
}

// docsHandler serves built pages, mounting the overlay on HTML responses.
func (h *handler) docsHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))
	if !project.IsName(name) {
		http.NotFound(w, r)
		return
	}
	rel := path.Clean("/" + chi.URLParam(r, "*"))
	file := filepath.Join(h.opts.DocsDir, name, filepath.FromSlash(rel))

	info, err := os.Stat(file)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	pagePath := rel
	if info.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
			return
		}
		file = filepath.Join(file, "index.html")
		if pagePath != "/" {
			pagePath += "/"
		}
	}
	if !strings.HasSuffix(file, ".html") {
		http.ServeFile(w, r, file)
		return
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(h.inject(r, name, pagePath, raw))
}

// inject returns page with the overlay mounted, or page unchanged when the
// overlay is suppressed.
func (h *handler) inject(r *http.Request, name, pagePath string, page []byte) []byte {
	doc, err := overlay.Parse(strings.NewReader(string(page)))
	if err != nil {
		return page
	}
	log := h.opts.Logger.WithValues("request_id", middleware.GetReqID(r.Context()))
	ctx := logging.WithLogger(r.Context(), &log)
	res := h.widgetFor(name).Run(ctx, doc, pagePath)
	if res.Phase != overlay.PhaseRendered && res.Phase != overlay.PhasePopoverBound {
		return page
	}
	out, err := overlay.RenderDocument(doc)
	if err != nil {
		return page
	}
	return out
}

func (h *handler) widgetFor(name string) *overlay.Widget {
	popover := h.opts.Popover
	popover.BindingURL = AssetsPath + "/overlay.js"
	return overlay.NewWidget(overlay.Options{
		Defaults: overlay.Config{overlay.KeyName: name},
		Fetcher:  h.fetcher,
		Mount:    h.opts.Mount,
		Popover:  popover,
		Render:   overlay.RenderOptions{LinkPrefix: "/docs/" + name},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/docnav/internal/eventstore"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

// errNoBuild is served by the resolve endpoint until a build succeeds.
var errNoBuild = ferrors.RuntimeError("no successful build yet").Build()

// routerConfig holds what the preview HTTP surface serves.
type routerConfig struct {
	outputDir   string
	status      *buildStatus
	history     *eventstore.BuildHistoryProjection
	reload      *reloadHub
	metrics     http.Handler
	metricsPath string
	logger      *slog.Logger
}

func newRouter(rc routerConfig) chi.Router {
	errs := ferrors.NewHTTPErrorAdapter(rc.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogging(rc.logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/_status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, rc.status.view())
	})
	r.Get("/_resolve", func(w http.ResponseWriter, req *http.Request) {
		table := rc.status.routeTable()
		if table == nil {
			errs.WriteErrorResponse(w, req, errNoBuild)
			return
		}
		p := req.URL.Query().Get("path")
		if p == "" {
			errs.WriteErrorResponse(w, req, ferrors.ValidationError("missing path parameter").Build())
			return
		}
		writeJSON(w, http.StatusOK, resolve(table, p))
	})
	if rc.reload != nil {
		r.Get("/_livereload", rc.reload.handler(rc.logger))
	}
	if rc.history != nil {
		r.Get("/_history", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, rc.history.History())
		})
	}
	if rc.metrics != nil {
		r.Handle(rc.metricsPath, rc.metrics)
	}
	r.Handle("/*", http.FileServer(http.Dir(rc.outputDir)))
	return r
}

// ResolveView is the JSON body of the resolve endpoint.
type ResolveView struct {
	Path     string        `json:"path"`
	NotFound bool          `json:"not_found"`
	Matches  []ResolvedHop `json:"matches"`
}

// ResolvedHop is one node of a match chain, outermost first.
type ResolvedHop struct {
	Path      string              `json:"path"`
	Component routes.ComponentRef `json:"component"`
	Exact     bool                `json:"exact,omitempty"`
	DocID     string              `json:"doc_id,omitempty"`
	Sidebar   string              `json:"sidebar,omitempty"`
}

func resolve(table *routes.Table, p string) ResolveView {
	chain := table.Match(p)
	v := ResolveView{Path: routes.NormalizePath(p), Matches: make([]ResolvedHop, 0, len(chain))}
	for _, n := range chain {
		v.Matches = append(v.Matches, ResolvedHop{
			Path: n.Path, Component: n.Component, Exact: n.Exact, DocID: n.DocID, Sidebar: n.Sidebar,
		})
	}
	v.NotFound = len(chain) == 1 && chain[0].IsCatchAll()
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogging logs each request at debug level.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Debug("Request completed",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", ww.Status()),
					slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

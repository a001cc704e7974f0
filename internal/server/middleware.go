package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cdspice/pkg/errors"
	"github.com/matzehuels/cdspice/pkg/observability"
)

// observe reports each request to the HTTP hooks, using the matched route
// pattern as the path so that metrics stay low-cardinality.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, routePath(r), status, time.Since(start))
	})
}

func recordError(r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, routePath(r), err)
}

func routePath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// recoverer turns a handler panic into a 500 response and logs the stack.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("panic", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				s.writeError(w, r, errors.New(errors.ErrCodeInternal, "panic: %s", fmt.Sprint(rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Package api serves the investor tools over HTTP.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/vc-data/internal/monitoring"
	"github.com/sells-group/vc-data/internal/service"
)

// maxBodyBytes caps tool and prompt request bodies.
const maxBodyBytes = 1 << 20

// Options configures the router.
type Options struct {
	// APIKey, when set, is required in the X-API-Key header on tool,
	// resource and prompt routes.
	APIKey      string
	CORSOrigins []string
}

type handler struct {
	svc *service.Service
}

// NewRouter returns the HTTP handler for svc.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	h := &handler{svc: svc}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(requireAPIKey(opts.APIKey))
		r.Get("/tools", h.listTools)
		r.Post("/tools/{name}", h.callTool)
		r.Get("/resources/guide", h.guide)
		r.Post("/prompts/analyze_investor_data", h.prompt)
	})
	return r
}

func (h *handler) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, service.Tools())
}

func (h *handler) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tool, ok := service.LookupTool(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown tool " + strconv.Quote(name)})
		return
	}

	var args service.Args
	if err := decodeBody(r, &args); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	out, err := tool.Run(r.Context(), h.svc, args)
	switch {
	case err == nil:
		writeText(w, http.StatusOK, out)
	case errors.Is(err, service.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		// Client went away; nothing to write.
	default:
		zap.L().Error("api: tool call failed", zap.String("tool", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *handler) guide(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, h.svc.ReferenceGuide())
}

func (h *handler) prompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvestorData string `json:"investor_data"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeText(w, http.StatusOK, h.svc.AnalysisPrompt(req.InvestorData))
}

// decodeBody decodes a JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func requireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs each request and counts it by route pattern.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		monitoring.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		zap.L().Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(started)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, s)
}

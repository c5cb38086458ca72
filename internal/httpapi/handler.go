package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"choropleth/core-go/internal/metrics"
	"choropleth/core-go/internal/widget"
)

type Handler struct {
	log      zerolog.Logger
	widget   *widget.Map
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

// NewHandler serves m. A nil map keeps the process up but every map route
// answers 503 until one is loaded.
func NewHandler(log zerolog.Logger, m *widget.Map, mx *metrics.Metrics) *Handler {
	h := &Handler{
		log:     log,
		widget:  m,
		metrics: mx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	if m != nil {
		st := m.Stats()
		mx.SetRegionsJoined(len(st.Matched), len(st.Unmatched))
		m.Subscribe(func(ch widget.Change) {
			mx.IncHighlightTransition(string(ch.Transition.Kind))
		})
	}
	return h
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.accessLog)

	// Health
	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyZ)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	// API
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// Long-lived; kept out of the request timeout.
			r.Get("/events", h.handleEvents)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(15 * time.Second))

				r.Get("/map", h.handleGetMap)
				r.Get("/map/stats", h.handleGetMapStats)
				r.Get("/regions/{code}/style", h.handleGetRegionStyle)
				r.Get("/legend", h.handleGetLegend)
				r.Get("/highlight", h.handleGetHighlight)
				r.Get("/tooltip", h.handleGetTooltip)

				r.Route("/pointer", func(r chi.Router) {
					r.Post("/enter", h.handlePointerEnter)
					r.Post("/leave", h.handlePointerLeave)
				})
			})
		})
	})

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		h.metrics.ObserveHTTPRequest(r.Method, route, ww.Status(), time.Since(start))

		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http_request")
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	resp := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
	if details != nil {
		resp["error"].(map[string]any)["details"] = details
	}
	h.writeJSON(w, status, resp)
}

func decodeJSONStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected extra data after JSON body")
		}
		return err
	}
	return nil
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleReadyZ(w http.ResponseWriter, r *http.Request) {
	if h.widget == nil {
		h.writeError(w, http.StatusServiceUnavailable, "widget_unavailable", "no region dataset loaded", nil)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ready": true, "instance_id": h.widget.ID().String()})
}

func (h *Handler) ensureWidget(w http.ResponseWriter) bool {
	if h.widget == nil {
		h.writeError(w, http.StatusServiceUnavailable, "widget_unavailable", "no region dataset loaded", nil)
		return false
	}
	return true
}

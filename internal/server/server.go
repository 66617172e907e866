package server

import (
    "encoding/json"
    "errors"
    "io"
    "net"
    "net/http"
    "strings"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/google/uuid"
    "github.com/rs/cors"

    "github.com/storosso/gtm-server-storosso/internal/config"
    "github.com/storosso/gtm-server-storosso/internal/event"
    "github.com/storosso/gtm-server-storosso/internal/forwarder"
)

type Server struct {
    cfg    config.Config
    meta   forwarder.Forwarder
    tiktok forwarder.Forwarder
}

func New(cfg config.Config) http.Handler {
    return NewWithForwarders(cfg,
        forwarder.NewMeta(cfg.MetaPixelID, cfg.MetaAccessToken, cfg.MetaTestEventCode, cfg.ForwardTimeout),
        forwarder.NewTikTok(cfg.TikTokPixelID, cfg.TikTokAccessToken, cfg.ForwardTimeout),
    )
}

// NewWithForwarders allows injecting custom Forwarder implementations.
func NewWithForwarders(cfg config.Config, meta, tiktok forwarder.Forwarder) http.Handler {
    s := &Server{cfg: cfg, meta: meta, tiktok: tiktok}
    r := chi.NewRouter()
    // Observability: Request ID and basic logger
    r.Use(requestIDMiddleware)
    r.Use(middleware.Logger)
    r.Use(middleware.Recoverer)
    r.Get("/healthz", s.handleHealth)
    r.Post("/collect", s.handleCollect)
    r.Post("/g/collect", s.handleCollect)

    // Tag containers post cross-origin; preflights are answered here.
    c := cors.New(cors.Options{
        AllowedOrigins: []string{"*"},
        AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
        AllowedHeaders: []string{"Content-Type"},
    })
    return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusOK)
    w.Write([]byte("ok"))
}

// handleCollect runs the full pipeline for one inbound batch: parse,
// preview filter, classify, build, and concurrent dispatch.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
    if !allowedContentType(r.Header.Get("Content-Type")) {
        writeErrorJSON(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected a json or text body")
        return
    }

    r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
    body, err := io.ReadAll(r.Body)
    if err != nil {
        var maxErr *http.MaxBytesError
        if errors.As(err, &maxErr) {
            writeErrorJSON(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body exceeds limit")
            return
        }
        writeErrorJSON(w, http.StatusBadRequest, "read_error", "read error")
        return
    }

    events, err := event.ParseBatch(body)
    if err != nil {
        if errors.Is(err, event.ErrEmptyBody) {
            writeErrorJSON(w, http.StatusBadRequest, "empty_body", "empty body")
        } else {
            writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
        }
        return
    }

    kept := make([]event.RawEvent, 0, len(events))
    for _, e := range events {
        if !event.IsPreviewOrBot(e) {
            kept = append(kept, e)
        }
    }
    if len(kept) == 0 {
        // Preview/debug traffic is not a failure; report it as ignored
        // without touching the destinations.
        writeJSON(w, http.StatusOK, map[string]any{
            "status": "ignored",
            "reason": "preview_or_bot_traffic",
        })
        return
    }

    buckets := event.Classify(kept)
    meta := forwarder.RequestMeta{ClientIP: clientIP(r), UserAgent: r.UserAgent()}
    var jobs []forwarder.Job
    if len(buckets.Meta) > 0 {
        jobs = append(jobs, forwarder.Job{Forwarder: s.meta, Events: buckets.Meta})
    }
    if len(buckets.TikTok) > 0 {
        jobs = append(jobs, forwarder.Job{Forwarder: s.tiktok, Events: buckets.TikTok})
    }

    status, results := forwarder.Dispatch(r.Context(), meta, jobs)
    writeJSON(w, status, results)
}

// allowedContentType accepts JSON and text bodies. sendBeacon posts
// arrive as text/plain, and some tag templates omit the header
// entirely.
func allowedContentType(ct string) bool {
    ct = strings.ToLower(strings.TrimSpace(ct))
    if ct == "" {
        return true
    }
    return strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "text/")
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// socket address.
func clientIP(r *http.Request) string {
    if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
        if i := strings.IndexByte(xff, ','); i >= 0 {
            xff = xff[:i]
        }
        return strings.TrimSpace(xff)
    }
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        return r.RemoteAddr
    }
    return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(map[string]any{
        "error": map[string]string{
            "code":    code,
            "message": message,
        },
    })
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
        if rid == "" {
            rid = uuid.New().String()
        }
        w.Header().Set("X-Request-ID", rid)
        next.ServeHTTP(w, r)
    })
}

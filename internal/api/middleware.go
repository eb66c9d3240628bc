package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/pkg/ctxutil"
)

const (
	headerRequestID = "X-Request-Id"
	headerUserID    = "X-User-Id"
)

// RequestID propagates the caller's X-Request-Id or generates one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Requester attaches the requester built from X-User-Id and the configured
// grants. Without the header the requester has no user and owns nothing.
func Requester(grants []domain.Permission) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID *int64
			if raw := strings.TrimSpace(r.Header.Get(headerUserID)); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					respondWithError(w, http.StatusBadRequest, "Invalid "+headerUserID+" header")
					return
				}
				userID = &id
			}
			ctx := ctxutil.WithRequester(r.Context(), domain.NewRequester(userID, grants...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recovery recovers from panics, logs them with a stack trace and
// responds with 500.
func Recovery(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Observe logs every request and records the HTTP metrics under the
// route template, so ids in the path do not explode label cardinality.
func Observe(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			endpoint := routeTemplate(r)
			timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(r.Method, endpoint))
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			timer.ObserveDuration()
			httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(sw.status)).Inc()

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if uid := r.Header.Get(headerUserID); uid != "" {
				attrs = append(attrs, slog.String("user_id", uid))
			}

			level := slog.LevelInfo
			if sw.status >= 500 {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogging writes one line per request. Server errors log at error
// level and client errors at warn.
func RequestLogging(logger *logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			args := []any{
				"http_method", r.Method,
				"http_path", r.URL.Path,
				"http_status", recorder.status,
				"response_bytes", recorder.bytes,
				"request_id", r.Header.Get(headerRequestID),
				"client_ip", clientIP(r),
				"duration_ms", time.Since(started).Milliseconds(),
			}

			ctx := r.Context()
			switch {
			case recorder.status >= http.StatusInternalServerError:
				logger.ErrorContext(ctx, "http_request", args...)
			case recorder.status >= http.StatusBadRequest:
				logger.WarnContext(ctx, "http_request", args...)
			default:
				logger.InfoContext(ctx, "http_request", args...)
			}
		})
	}
}

// clientIP prefers proxy headers, taking the first hop of X-Forwarded-For.
func clientIP(r *http.Request) string {
	for _, raw := range []string{
		r.Header.Get("Fly-Client-IP"),
		r.Header.Get("X-Forwarded-For"),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	} {
		first, _, _ := strings.Cut(raw, ",")
		first = strings.TrimSpace(first)
		if first == "" {
			continue
		}
		if addrPort, err := netip.ParseAddrPort(first); err == nil {
			return addrPort.Addr().Unmap().String()
		}
		if addr, err := netip.ParseAddr(first); err == nil {
			return addr.Unmap().String()
		}
	}
	return ""
}

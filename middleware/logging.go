package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/akinalp/masala/pkg/ratelimit"
	"go.uber.org/zap"
)

// statusRecorder, handler'ın yazdığı status code'u yakalar.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Hijack, WebSocket upgrade'i için alttaki writer'ın bağlantısını verir.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap, http.ResponseController için.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger, her isteği method, path, status, süre ve client IP ile loglar.
// 5xx yanıtlar error seviyesinde yazılır.
func RequestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	log = log.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rec.bytes,
				"duration", time.Since(start),
				"ip", ratelimit.ExtractIP(r),
			}

			if status >= http.StatusInternalServerError {
				log.Errorw("request failed", fields...)
				return
			}
			log.Infow("request", fields...)
		})
	}
}

package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danuarta/hr-portal/internal/auth"
	"github.com/danuarta/hr-portal/internal/transport"
	"github.com/go-chi/chi"
)

// maxCapturedBody bounds how much of a request body is snapshotted for the
// audit context.
const maxCapturedBody = 64 << 10

// Middleware records one audit entry per qualifying request/response pair.
// It runs after the handler so the response status is known, and any failure
// inside the recording path is swallowed: audit logging must never change
// the outcome of the request.
func Middleware(recorder *Recorder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inputs := captureInputs(r)

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			if !ShouldLog(r.Method, r.URL.Path, status) {
				return
			}

			func() {
				defer func() {
					if rec := recover(); rec != nil {
						logger.Error("audit record panicked", "panic", rec)
					}
				}()

				entry := Entry{
					Action:     strings.ToLower(r.Method),
					IPAddress:  transport.ClientIP(r),
					UserAgent:  r.UserAgent(),
					Method:     r.Method,
					URL:        fullURL(r),
					StatusCode: &status,
					Context: map[string]interface{}{
						"inputs": SanitizeInputs(inputs),
					},
					OccurredAt: time.Now(),
				}

				if user, ok := auth.UserFromContext(r.Context()); ok && user != nil {
					id := user.ID
					entry.UserID = &id
				}
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					if pattern := rctx.RoutePattern(); pattern != "" {
						entry.RouteName = &pattern
					}
				}

				result := recorder.Record(r.Context(), entry)
				if result.Failed() {
					logger.Error("audit write failed", "error", result.Err,
						"method", r.Method, "url", r.URL.Path, "status", status)
				}
			}()
		})
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// captureInputs snapshots the request's declared input fields. JSON bodies
// are decoded into a map, url-encoded form bodies into their field values,
// and anything else falls back to the query string. The body is restored so
// the handler still sees it.
func captureInputs(r *http.Request) map[string]interface{} {
	inputs := make(map[string]interface{})

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/json") && r.Body != nil:
		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxCapturedBody))
		if err == nil {
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(bodyBytes), r.Body))
			var decoded map[string]interface{}
			if json.Unmarshal(bodyBytes, &decoded) == nil {
				inputs = decoded
			}
		}
		return inputs

	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded") && r.Body != nil:
		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxCapturedBody))
		if err == nil {
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(bodyBytes), r.Body))
			if values, err := url.ParseQuery(string(bodyBytes)); err == nil {
				mergeValues(inputs, values)
			}
		}
		return inputs
	}

	mergeValues(inputs, r.URL.Query())
	return inputs
}

func mergeValues(inputs map[string]interface{}, values url.Values) {
	for k, v := range values {
		if len(v) == 1 {
			inputs[k] = v[0]
		} else if len(v) > 1 {
			inputs[k] = v
		}
	}
}

func fullURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
